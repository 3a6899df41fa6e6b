package signallog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/quantumsignals/internal/signal"
)

type brokenLog struct{}

func (brokenLog) Append(context.Context, Entry) (Entry, error) {
	return Entry{}, errors.New("unreachable")
}

func (brokenLog) ListRecent(context.Context, int) ([]Entry, error) {
	return nil, errors.New("unreachable")
}

func testSignal() signal.Signal {
	return signal.Signal{
		Hash:      "Signal-#00ABCD",
		Pattern:   signal.Pattern{0, 1, 1, 0},
		Timestamp: time.UnixMilli(1700000000000),
	}
}

func TestGallery_PublishAndRecent(t *testing.T) {
	ctx := context.Background()
	g := NewGallery(NewMemory(10))

	assert.True(t, g.Publish(ctx, testSignal()))

	got := g.Recent(ctx, 12)
	if assert.Len(t, got, 1) {
		assert.Equal(t, "Signal-#00ABCD", got[0].Hash)
		assert.Equal(t, int64(1700000000000), got[0].Timestamp)
		assert.Equal(t, signal.Pattern{0, 1, 1, 0}, got[0].Pattern)
	}
}

func TestGallery_DegradesWhenUnavailable(t *testing.T) {
	ctx := context.Background()
	g := NewGallery(brokenLog{})

	assert.False(t, g.Publish(ctx, testSignal()))
	got := g.Recent(ctx, 12)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGallery_NilLog(t *testing.T) {
	g := NewGallery(nil)
	assert.False(t, g.Publish(context.Background(), testSignal()))
	assert.Empty(t, g.Recent(context.Background(), 5))
}
