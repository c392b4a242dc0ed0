package plant

import (
	"context"
	"errors"
	"time"

	"github.com/apex/log"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"herbula/api/internal/util"
)

var (
	ErrImageCount = errors.New("Send 1 or 2 base64 images in 'images' array.")
	ErrNotFound   = errors.New("identification not found")
)

var validate = validator.New()

// Record: то, что уходит в историю.
type Record struct {
	Identification
	Source string
	ChatID int64
}

// Store хранит историю распознаваний и служит кэшем по хэшу картинок.
type Store interface {
	Insert(ctx context.Context, rec Record) error
	// FindByHash returns ErrNotFound when there is no fresh row.
	FindByHash(ctx context.Context, imageHash, engine, model string, maxAge time.Duration) (Identification, error)
}

type Service struct {
	engs     *Engines
	store    Store
	cacheTTL time.Duration
}

// NewService; store may be nil, cacheTTL <= 0 disables lookups.
func NewService(engs *Engines, store Store, cacheTTL time.Duration) *Service {
	return &Service{
		engs:     engs,
		store:    store,
		cacheTTL: cacheTTL,
	}
}

func (s *Service) Identify(ctx context.Context, req Request) (Identification, error) {
	if err := validate.Struct(req); err != nil {
		log.WithField("images", len(req.Images)).Warn("invalid images array")
		return Identification{}, ErrImageCount
	}

	engine, err := s.engs.GetEngine(req.Engine)
	if err != nil {
		return Identification{}, err
	}

	reqID := uuid.NewString()
	hash := util.HashImages(req.Images)
	entry := log.WithFields(log.Fields{
		"request_id": reqID,
		"engine":     engine.Name(),
		"model":      engine.GetModel(),
		"images":     len(req.Images),
	})

	if s.store != nil && s.cacheTTL > 0 {
		hit, err := s.store.FindByHash(ctx, hash, engine.Name(), engine.GetModel(), s.cacheTTL)
		switch {
		case err == nil:
			hit.Cached = true
			entry.WithField("cached_request_id", hit.RequestID).Info("cache hit")
			return hit, nil
		case !errors.Is(err, ErrNotFound):
			entry.WithError(err).Warn("cache lookup failed")
		}
	}

	start := time.Now()
	id, err := engine.Identify(ctx, req.Images)
	if err != nil {
		entry.WithError(err).WithDuration(time.Since(start)).Error("identify failed")
		return Identification{}, err
	}
	id.RequestID = reqID
	id.Engine = engine.Name()
	id.Model = engine.GetModel()
	id.ImageCount = len(req.Images)
	id.ImageHash = hash
	id.CreatedAt = time.Now().UTC()
	entry.WithDuration(time.Since(start)).WithFields(log.Fields{
		"name":     id.Plant.Name,
		"category": id.Plant.Category,
	}).Info("identified")

	if s.store != nil {
		rec := Record{Identification: id, Source: req.Source, ChatID: req.ChatID}
		if err := s.store.Insert(ctx, rec); err != nil {
			entry.WithError(err).Warn("history insert failed")
		}
	}
	return id, nil
}
