package telegram

import (
	"strconv"
	"sync"
	"time"
)

const (
	debounce = 1200 * time.Millisecond
	// больше двух всё равно отклонит сервис, но копить дальше смысла нет
	maxBatchImages = 4
)

type photoBatch struct {
	ChatID       int64
	Key          string // "grp:<mediaGroupID>" | "chat:<chatID>"
	MediaGroupID string

	images []string // base64
	timer  *time.Timer
}

// collector копит фото одного альбома и отдаёт пачку после паузы debounce.
type collector struct {
	mu      sync.Mutex
	batches map[string]*photoBatch
	delay   time.Duration
	flush   func(b *photoBatch)
}

func newCollector(delay time.Duration, flush func(b *photoBatch)) *collector {
	return &collector{
		batches: make(map[string]*photoBatch),
		delay:   delay,
		flush:   flush,
	}
}

func batchKey(chatID int64, mediaGroupID string) string {
	if mediaGroupID != "" {
		return "grp:" + mediaGroupID
	}
	return "chat:" + strconv.FormatInt(chatID, 10)
}

// Add appends an image and restarts the debounce timer. It reports whether
// this was the first image of the batch.
func (c *collector) Add(chatID int64, mediaGroupID, b64 string) bool {
	key := batchKey(chatID, mediaGroupID)

	c.mu.Lock()
	defer c.mu.Unlock()

	b, ok := c.batches[key]
	if !ok {
		b = &photoBatch{ChatID: chatID, Key: key, MediaGroupID: mediaGroupID}
		c.batches[key] = b
	}
	if len(b.images) < maxBatchImages {
		b.images = append(b.images, b64)
	}
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(c.delay, func() { c.fire(key) })
	return !ok
}

func (c *collector) fire(key string) {
	c.mu.Lock()
	b, ok := c.batches[key]
	if ok {
		delete(c.batches, key)
	}
	c.mu.Unlock()

	if ok && len(b.images) > 0 {
		c.flush(b)
	}
}

// выбранный движок по чату: chatID -> "rest" | "sdk"
type engineChoice struct{ m sync.Map }

func (e *engineChoice) Get(chatID int64) string {
	if v, ok := e.m.Load(chatID); ok {
		if s, _ := v.(string); s != "" {
			return s
		}
	}
	return ""
}

func (e *engineChoice) Set(chatID int64, name string) { e.m.Store(chatID, name) }
