package presentation

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-signage/lumen-player/api/types/v1alpha1"
	"github.com/lumen-signage/lumen-player/internal/lumend/analytics"
	"github.com/lumen-signage/lumen-player/internal/lumend/render"
	"github.com/lumen-signage/lumen-player/internal/lumend/schedule"
)

func testCoordinator(factory render.Factory, recorder analytics.Recorder) *Coordinator {
	if recorder == nil {
		recorder = analytics.NoopRecorder{}
	}
	return New(Options{
		CanvasID:     "main",
		Factory:      factory,
		Recorder:     recorder,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		ReadyTimeout: 100 * time.Millisecond,
		SettleDelay:  time.Millisecond,
		Bounds:       v1alpha1.Rect{Width: 1920, Height: 1080},
	})
}

func layoutItem(id string) *schedule.Item {
	return &schedule.Item{
		ID:       id,
		Location: time.UTC,
		Media:    &v1alpha1.Media{Type: "layout", Name: id},
	}
}

func playlistItem(id string) *schedule.Item {
	return &schedule.Item{
		ID:       id,
		Location: time.UTC,
		Media:    &v1alpha1.Media{Type: "playlist", Items: []v1alpha1.PlaylistEntry{{MediaRef: "x"}}},
	}
}

func stampedVersion(v uint64) func() uint64 {
	return func() uint64 { return v }
}

func TestPresent_IdleToSwapped(t *testing.T) {
	factory := &render.FakeFactory{}
	c := testCoordinator(factory, nil)

	err := c.Present(context.Background(), layoutItem("welcome"), 1, stampedVersion(1))
	require.NoError(t, err)

	assert.Equal(t, StateSwapped, c.State())
	assert.Equal(t, "welcome", c.Showing())

	created := factory.Created()
	require.Len(t, created, 1)
	assert.Equal(t, []string{"setBounds", "assign", "play", "play"}, created[0].Calls(),
		"second play after the swap guards against autoplay edge cases")
	assert.Equal(t, v1alpha1.Rect{Width: 1920, Height: 1080}, created[0].Bounds())
}

func TestPresent_RedundancyGuard(t *testing.T) {
	factory := &render.FakeFactory{}
	c := testCoordinator(factory, nil)

	require.NoError(t, c.Present(context.Background(), layoutItem("welcome"), 1, stampedVersion(1)))
	callsAfterFirst := len(factory.Created()[0].Calls())

	// Selecting the same item again must not touch the renderers at all
	require.NoError(t, c.Present(context.Background(), layoutItem("welcome"), 1, stampedVersion(1)))

	assert.Len(t, factory.Created(), 1)
	assert.Len(t, factory.Created()[0].Calls(), callsAfterFirst)
	assert.Equal(t, StateSwapped, c.State())
}

func TestPresent_SwapPausesOutgoingBuffer(t *testing.T) {
	factory := &render.FakeFactory{}
	c := testCoordinator(factory, nil)

	require.NoError(t, c.Present(context.Background(), layoutItem("a"), 1, stampedVersion(1)))
	require.NoError(t, c.Present(context.Background(), layoutItem("b"), 1, stampedVersion(1)))

	created := factory.Created()
	require.Len(t, created, 2, "each buffer owns its own renderer handle")
	assert.Contains(t, created[0].Calls(), "pause", "the outgoing front buffer is paused")
	assert.Equal(t, "b", c.Showing())
}

func TestPresent_ReusesBackBufferOfSameKind(t *testing.T) {
	factory := &render.FakeFactory{}
	c := testCoordinator(factory, nil)

	require.NoError(t, c.Present(context.Background(), layoutItem("a"), 1, stampedVersion(1)))
	require.NoError(t, c.Present(context.Background(), layoutItem("b"), 1, stampedVersion(1)))
	require.NoError(t, c.Present(context.Background(), layoutItem("c"), 1, stampedVersion(1)))

	assert.Len(t, factory.Created(), 2, "buffers alternate, no new handles for the same kind")
}

func TestPresent_ReplacesBackBufferOnKindChange(t *testing.T) {
	factory := &render.FakeFactory{}
	c := testCoordinator(factory, nil)

	require.NoError(t, c.Present(context.Background(), layoutItem("a"), 1, stampedVersion(1)))
	require.NoError(t, c.Present(context.Background(), playlistItem("p"), 1, stampedVersion(1)))

	created := factory.Created()
	require.Len(t, created, 2)
	assert.Equal(t, v1alpha1.MediaKindLayout, created[0].Kind)
	assert.Equal(t, v1alpha1.MediaKindPlaylist, created[1].Kind)
	assert.Equal(t, "p", c.Showing())
}

func TestPresent_StaleManifestAborts(t *testing.T) {
	factory := &render.FakeFactory{}
	c := testCoordinator(factory, nil)

	// The manifest advanced to version 2 while the buffer was preparing
	err := c.Present(context.Background(), layoutItem("stale"), 1, stampedVersion(2))

	var stale ErrStaleManifest
	require.ErrorAs(t, err, &stale)
	assert.Equal(t, uint64(1), stale.Selected)
	assert.Equal(t, uint64(2), stale.Current)

	assert.Equal(t, StateIdle, c.State(), "the coordinator returns to its entry state")
	assert.Empty(t, c.Showing())
	assert.Contains(t, factory.Created()[0].Calls(), "stop", "the prepared buffer is discarded")
}

func TestPresent_StaleAbortKeepsCurrentContent(t *testing.T) {
	factory := &render.FakeFactory{}
	c := testCoordinator(factory, nil)

	require.NoError(t, c.Present(context.Background(), layoutItem("keep"), 1, stampedVersion(1)))

	err := c.Present(context.Background(), layoutItem("discard"), 1, stampedVersion(2))
	require.Error(t, err)

	assert.Equal(t, StateSwapped, c.State())
	assert.Equal(t, "keep", c.Showing(), "the old content stays on air")
}

func TestPresent_ReadinessTimeoutProceeds(t *testing.T) {
	factory := &render.FakeFactory{NeverLoad: true}
	c := testCoordinator(factory, nil)

	start := time.Now()
	err := c.Present(context.Background(), layoutItem("slow"), 1, stampedVersion(1))
	require.NoError(t, err, "a slow load must not block the rotation loop")

	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
	assert.Equal(t, StateSwapped, c.State())
	assert.Equal(t, "slow", c.Showing())
}

func TestPresent_AssignFailureRetainsCurrent(t *testing.T) {
	factory := &render.FakeFactory{}
	c := testCoordinator(factory, nil)

	require.NoError(t, c.Present(context.Background(), layoutItem("good"), 1, stampedVersion(1)))
	factory.FailAssign = true

	err := c.Present(context.Background(), layoutItem("bad"), 1, stampedVersion(1))
	require.Error(t, err)

	assert.Equal(t, StateSwapped, c.State())
	assert.Equal(t, "good", c.Showing())
}

func TestPresent_CancelledContextAborts(t *testing.T) {
	factory := &render.FakeFactory{NeverLoad: true}
	c := testCoordinator(factory, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Present(ctx, layoutItem("never"), 1, stampedVersion(1))
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateIdle, c.State())
}

func TestBlackout_DetachesBothBuffers(t *testing.T) {
	factory := &render.FakeFactory{}
	c := testCoordinator(factory, nil)

	require.NoError(t, c.Present(context.Background(), layoutItem("a"), 1, stampedVersion(1)))
	require.NoError(t, c.Present(context.Background(), layoutItem("b"), 1, stampedVersion(1)))

	c.Blackout()

	assert.Equal(t, StateBlack, c.State())
	assert.Empty(t, c.Showing())
	for _, r := range factory.Created() {
		assert.True(t, r.Released(), "hidden is not enough; handles must be detached")
	}
}

func TestBlackout_Idempotent(t *testing.T) {
	c := testCoordinator(&render.FakeFactory{}, nil)

	c.Blackout()
	c.Blackout()

	assert.Equal(t, StateBlack, c.State())
}

func TestPresent_RecoversFromBlack(t *testing.T) {
	factory := &render.FakeFactory{}
	c := testCoordinator(factory, nil)

	require.NoError(t, c.Present(context.Background(), layoutItem("a"), 1, stampedVersion(1)))
	c.Blackout()
	require.NoError(t, c.Present(context.Background(), layoutItem("a"), 2, stampedVersion(2)))

	assert.Equal(t, StateSwapped, c.State())
	assert.Equal(t, "a", c.Showing())
}

func TestAnalyticsSpans(t *testing.T) {
	factory := &render.FakeFactory{}
	journal := analytics.NewJournal(8)
	c := testCoordinator(factory, journal)

	require.NoError(t, c.Present(context.Background(), layoutItem("a"), 1, stampedVersion(1)))
	assert.Empty(t, journal.Recent(), "the span for the visible item is still open")

	require.NoError(t, c.Present(context.Background(), layoutItem("b"), 1, stampedVersion(1)))
	recent := journal.Recent()
	require.Len(t, recent, 1)
	assert.Equal(t, "a", recent[0].ItemID, "swapping finishes the outgoing item's span")

	c.Blackout()
	recent = journal.Recent()
	require.Len(t, recent, 2)
	assert.Equal(t, "b", recent[1].ItemID, "blackout finishes the final span")
}

func TestSetBounds_ForwardsToBuffers(t *testing.T) {
	factory := &render.FakeFactory{}
	c := testCoordinator(factory, nil)

	require.NoError(t, c.Present(context.Background(), layoutItem("a"), 1, stampedVersion(1)))

	r := v1alpha1.Rect{X: 100, Y: 50, Width: 640, Height: 480}
	c.SetBounds(r)

	assert.Equal(t, r, factory.Created()[0].Bounds())
}
