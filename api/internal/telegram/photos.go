package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/apex/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"herbula/api/internal/plant"
	"herbula/api/internal/util"
)

const maxDocumentBytes = 20 << 20

func (r *Router) acceptPhoto(msg tgbotapi.Message) {
	cid := msg.Chat.ID
	ph := msg.Photo[len(msg.Photo)-1]
	data, err := r.fetchFile(ph.FileID)
	if err != nil {
		r.SendError(cid, err)
		return
	}
	r.enqueue(msg, data)
}

func (r *Router) acceptDocument(msg tgbotapi.Message) {
	cid := msg.Chat.ID
	doc := msg.Document
	if doc.FileSize > maxDocumentBytes {
		r.send(cid, "The file is too large, please send a smaller image.")
		return
	}
	data, err := r.fetchFile(doc.FileID)
	if err != nil {
		r.SendError(cid, err)
		return
	}
	if mt, ok := util.IsImage(data); !ok {
		r.send(cid, fmt.Sprintf("Please send an image (got %s).", esc(mt)))
		return
	}
	r.enqueue(msg, data)
}

// enqueue приводит картинку к JPEG не шире 800px: Gemini получает её как image/jpeg.
func (r *Router) enqueue(msg tgbotapi.Message, data []byte) {
	jpg, err := util.ToJPEG(data, util.MaxImageWidth)
	if err != nil {
		log.WithError(err).WithField("chat_id", msg.Chat.ID).Warn("telegram: image decode")
		r.send(msg.Chat.ID, "Could not read this image. Please send a JPEG, PNG or WEBP photo.")
		return
	}
	if first := r.photos.Add(msg.Chat.ID, msg.MediaGroupID, util.EncodeBase64(jpg)); first {
		r.send(msg.Chat.ID, "Got it, looking at your plant…")
	}
}

func (r *Router) processBatch(b *photoBatch) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	log.WithFields(log.Fields{
		"chat_id": b.ChatID,
		"images":  len(b.images),
	}).Info("telegram: relaying batch")

	id, err := r.Service.Identify(ctx, plant.Request{
		Images: b.images,
		Engine: r.engines.Get(b.ChatID),
		Source: "telegram",
		ChatID: b.ChatID,
	})
	if err != nil {
		r.SendError(b.ChatID, err)
		return
	}
	r.send(b.ChatID, FormatPlant(id.Plant))
}

func (r *Router) fetchFile(fileID string) ([]byte, error) {
	file, err := r.Bot.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, err
	}
	return r.download(fmt.Sprintf(r.fileEndpoint, r.Bot.Token, file.FilePath))
}

func (r *Router) download(url string) ([]byte, error) {
	resp, err := r.httpc.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("download %d: %s", resp.StatusCode, string(b))
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
}
