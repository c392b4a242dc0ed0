package telegram

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"herbula/api/internal/plant"
)

func TestFormatPlant(t *testing.T) {
	out := FormatPlant(plant.Plant{
		Name:           "Atropa belladonna",
		Description:    "Deadly nightshade.",
		Uses:           "",
		HealthBenefits: "None_safe <3",
		Category:       plant.CategoryPoisonous,
	})
	assert.Equal(t, "🔴 <b>Atropa belladonna</b>\n\n"+
		"<b>Category:</b> POISONOUS\n"+
		"<b>Description:</b> Deadly nightshade.\n"+
		"<b>Common Uses:</b> -\n"+
		"<b>Health Benefits:</b> None_safe &lt;3\n"+
		"<b>Problems Solved:</b> -", out)
}

func TestFormatPlantUnknown(t *testing.T) {
	out := FormatPlant(plant.Plant{})
	assert.Contains(t, out, "🟡 <b>Unknown plant</b>")
	assert.Contains(t, out, "<b>Category:</b> -")
}

func TestFormatHistory(t *testing.T) {
	assert.Equal(t, "No identifications yet.", formatHistory(nil))

	ts := time.Date(2026, 3, 4, 5, 6, 0, 0, time.UTC)
	out := formatHistory([]plant.Identification{
		{CreatedAt: ts, Plant: plant.Plant{Name: "Mint", Category: plant.CategoryHerbal}},
	})
	assert.Equal(t, "<b>Recent identifications:</b>\n1. 🟢 Mint — 2026-03-04 05:06", out)
}

func TestCollectorBatchesAlbum(t *testing.T) {
	var (
		mu  sync.Mutex
		got []*photoBatch
	)
	done := make(chan struct{}, 4)
	c := newCollector(30*time.Millisecond, func(b *photoBatch) {
		mu.Lock()
		got = append(got, b)
		mu.Unlock()
		done <- struct{}{}
	})

	assert.True(t, c.Add(1, "album", "A"))
	assert.False(t, c.Add(1, "album", "B"))
	assert.True(t, c.Add(2, "", "C"))

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("batch was not flushed")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 2)
	byKey := map[string]*photoBatch{}
	for _, b := range got {
		byKey[b.Key] = b
	}
	assert.Equal(t, []string{"A", "B"}, byKey["grp:album"].images)
	assert.Equal(t, int64(1), byKey["grp:album"].ChatID)
	assert.Equal(t, []string{"C"}, byKey["chat:2"].images)
}

func TestCollectorCapsBatch(t *testing.T) {
	done := make(chan *photoBatch, 1)
	c := newCollector(20*time.Millisecond, func(b *photoBatch) { done <- b })
	for i := 0; i < maxBatchImages+3; i++ {
		c.Add(9, "g", "X")
	}
	select {
	case b := <-done:
		assert.Len(t, b.images, maxBatchImages)
	case <-time.After(2 * time.Second):
		t.Fatal("batch was not flushed")
	}
}

func TestEngineChoice(t *testing.T) {
	var e engineChoice
	assert.Empty(t, e.Get(5))
	e.Set(5, "sdk")
	assert.Equal(t, "sdk", e.Get(5))
}
