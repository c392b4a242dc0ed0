package handle

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"herbula/api/internal/plant"
)

type Identifier interface {
	Identify(ctx context.Context, req plant.Request) (plant.Identification, error)
}

type Handle struct {
	svc Identifier
}

func New(svc Identifier) *Handle {
	return &Handle{
		svc: svc,
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// requestContext ограничивает запрос по X-Request-Timeout или ?timeoutSec (секунды).
// Без них действует только таймаут HTTP-клиента.
func requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	ts := r.Header.Get("X-Request-Timeout")
	if ts == "" {
		ts = r.URL.Query().Get("timeoutSec")
	}
	if v, _ := strconv.Atoi(ts); v > 0 {
		return context.WithTimeout(r.Context(), time.Duration(v)*time.Second)
	}
	return context.WithCancel(r.Context())
}
