package gallery

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quantumsignals/internal/catalog"
	"github.com/abhisek/quantumsignals/internal/progress"
	"github.com/abhisek/quantumsignals/internal/screen"
	"github.com/abhisek/quantumsignals/internal/signal"
	"github.com/abhisek/quantumsignals/internal/signallog"
	"github.com/abhisek/quantumsignals/internal/store"
	"github.com/abhisek/quantumsignals/internal/telemetry"
)

type staticStats struct {
	stats telemetry.Stats
	err   error
}

func (s staticStats) Stats(context.Context) (telemetry.Stats, error) { return s.stats, s.err }

func newTestGallery(t *testing.T, hashes ...string) (*GalleryScreen, *signallog.Memory) {
	t.Helper()
	cat := catalog.Default()
	engine := progress.NewEngine(context.Background(), progress.NewStore(store.NewMemoryKV(), cat))
	m, _ := cat.Lookup("gallery")

	log := signallog.NewMemory(20)
	for _, h := range hashes {
		_, err := log.Append(context.Background(), signallog.Entry{Hash: h, Pattern: signal.Pattern{1, 0, 1, 1}})
		require.NoError(t, err)
	}
	g := New(screen.NewVisit(engine, nil, m), signallog.NewGallery(log),
		staticStats{stats: telemetry.Stats{TotalSignals: int64(len(hashes)), UniqueVisitors: 3}})
	return g, log
}

func load(t *testing.T, g *GalleryScreen) {
	t.Helper()
	cmd := g.Init()
	require.NotNil(t, cmd)
	g.Update(cmd())
}

func TestLoadsRecentSignals(t *testing.T) {
	g, _ := newTestGallery(t, "0x00000001", "0x00000002")
	load(t, g)

	require.Len(t, g.entries, 2)
	assert.Equal(t, "0x00000002", g.entries[0].Hash, "newest first")
	require.NotNil(t, g.totals)
	assert.Equal(t, int64(3), g.totals.UniqueVisitors)
	assert.Contains(t, g.View(100, 40), "VISITORS: 3")
}

func TestFetchesAtMostTwelve(t *testing.T) {
	hashes := make([]string, 15)
	for i := range hashes {
		hashes[i] = "0x0000000" + string(rune('a'+i%6))
	}
	g, _ := newTestGallery(t, hashes...)
	load(t, g)
	assert.Len(t, g.entries, FetchLimit)
}

func TestEmptyGallery(t *testing.T) {
	g, _ := newTestGallery(t)
	load(t, g)
	assert.Contains(t, g.View(100, 40), "NO_SIGNALS_DETECTED")
}

func TestStatsFailureHidesTotals(t *testing.T) {
	g, _ := newTestGallery(t, "0x00000001")
	g.stats = staticStats{err: errors.New("down")}
	load(t, g)
	assert.Nil(t, g.totals)
	assert.Len(t, g.entries, 1)
}

func TestFilter(t *testing.T) {
	g, _ := newTestGallery(t, "0xaaaa0001", "0xbbbb0002")
	load(t, g)

	g.Update(tea.KeyPressMsg{Code: '/', Text: "/"})
	require.True(t, g.CapturesInput())
	for _, r := range "bbb" {
		g.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	visible := g.visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "0xbbbb0002", visible[0].Hash)

	g.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.False(t, g.CapturesInput())
	assert.Len(t, g.visible(), 1, "filter stays applied after closing the input")
}

func TestSelectionAndRefresh(t *testing.T) {
	g, log := newTestGallery(t, "0x00000001", "0x00000002")
	load(t, g)

	g.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	g.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 1, g.selected)

	_, err := log.Append(context.Background(), signallog.Entry{Hash: "0x00000003", Pattern: signal.Pattern{1}})
	require.NoError(t, err)
	_, cmd := g.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	require.NotNil(t, cmd)
	g.Update(cmd())
	assert.Len(t, g.entries, 3)
	assert.Equal(t, 0, g.selected)
}

func TestSample(t *testing.T) {
	p := make(signal.Pattern, 32*32)
	for i := range p {
		if (i/(32*32/64))%2 == 0 {
			p[i] = 1
		}
	}
	got := Sample(p)
	require.Len(t, got, 64)
	for i, v := range got {
		assert.Equal(t, (i+1)%2, v, "cell %d", i)
	}

	assert.Equal(t, make([]int, 64), Sample(nil))
	assert.Equal(t, 8, strings.Count(Preview(p), "\n")+1)
}

func TestTimeAgo(t *testing.T) {
	now := time.UnixMilli(10_000_000_000)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{5 * time.Second, "5s"},
		{90 * time.Second, "1m"},
		{2 * time.Hour, "2h"},
		{50 * time.Hour, "2d"},
		{-time.Minute, "0s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TimeAgo(now, now.Add(-tt.ago).UnixMilli()))
	}
}
