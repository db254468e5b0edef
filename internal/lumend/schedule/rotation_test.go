package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-signage/lumen-player/api/types/v1alpha1"
)

func testRotationConfig() RotationConfig {
	return RotationConfig{
		Floor:        500 * time.Millisecond,
		DefaultSlot:  15 * time.Second,
		MaxSlot:      time.Hour,
		EmptyRecheck: time.Second,
	}
}

func TestRotator_RoundRobin(t *testing.T) {
	items := []Item{
		activeItem("a", "A", 2, 0),
		activeItem("b", "B", 2, 1),
		activeItem("c", "C", 2, 2),
	}
	r := NewRotator(testRotationConfig())
	now := mondayAt(10, 0, 0, 0)

	var seen []string
	for i := 0; i < 6; i++ {
		sel := r.Next(items, now)
		require.NotNil(t, sel.Item)
		seen = append(seen, sel.Item.ID)
	}

	assert.Equal(t, []string{"a", "b", "c", "a", "b", "c"}, seen,
		"each member visited exactly once per cycle, in deterministic order")
}

func TestRotator_TwoItemAlternation(t *testing.T) {
	items := []Item{
		activeItem("a", "A", 1, 0),
		activeItem("b", "B", 1, 1),
	}
	r := NewRotator(testRotationConfig())
	now := mondayAt(10, 0, 0, 0)

	assert.Equal(t, "a", r.Next(items, now).Item.ID)
	assert.Equal(t, "b", r.Next(items, now).Item.ID)
	assert.Equal(t, "a", r.Next(items, now).Item.ID)
}

func TestRotator_PriorityPrecedence(t *testing.T) {
	items := []Item{
		activeItem("low", "Low", 1, 0),
		activeItem("high", "High", 5, 1),
	}
	r := NewRotator(testRotationConfig())
	now := mondayAt(10, 0, 0, 0)

	for i := 0; i < 4; i++ {
		sel := r.Next(items, now)
		require.NotNil(t, sel.Item)
		assert.Equal(t, "high", sel.Item.ID, "manifest order never beats priority")
	}
}

func TestRotator_GroupChangeResetsCursor(t *testing.T) {
	a := activeItem("a", "A", 2, 0)
	b := activeItem("b", "B", 2, 1)
	c := activeItem("c", "C", 2, 2)
	r := NewRotator(testRotationConfig())
	now := mondayAt(10, 0, 0, 0)

	assert.Equal(t, "a", r.Next([]Item{a, b}, now).Item.ID)
	assert.Equal(t, "b", r.Next([]Item{a, b}, now).Item.ID)

	// A new competitor appears: rotation restarts at the group head
	assert.Equal(t, "a", r.Next([]Item{a, b, c}, now).Item.ID)
	assert.Equal(t, "b", r.Next([]Item{a, b, c}, now).Item.ID)

	// A competitor disappears: restart again
	assert.Equal(t, "a", r.Next([]Item{a, b}, now).Item.ID)
}

func TestRotator_NothingActive(t *testing.T) {
	incept := mondayAt(11, 0, 0, 0)
	pending := activeItem("later", "Later", 0, 0)
	pending.InceptAt = &incept

	r := NewRotator(testRotationConfig())
	now := mondayAt(10, 0, 0, 0)

	sel := r.Next([]Item{pending}, now)

	assert.Nil(t, sel.Item)
	assert.Equal(t, time.Hour, sel.Sleep, "sleep until the next boundary")
}

func TestRotator_EmptyManifestRecheck(t *testing.T) {
	r := NewRotator(testRotationConfig())

	sel := r.Next(nil, mondayAt(10, 0, 0, 0))

	assert.Nil(t, sel.Item)
	assert.Equal(t, time.Second, sel.Sleep, "bounded recheck, never a tight spin")
}

func TestRotator_SleepNeverBelowFloor(t *testing.T) {
	// The item's window closes 100ms from now; the floor still wins so the
	// loop cannot thrash on clock jitter
	closing := activeItem("closing", "Closing", 0, 0)
	end, err := ParseTimeOfDay("10:00:00.100")
	require.NoError(t, err)
	closing.To = &end

	r := NewRotator(testRotationConfig())
	sel := r.Next([]Item{closing}, mondayAt(10, 0, 0, 0))

	require.NotNil(t, sel.Item)
	assert.Equal(t, 500*time.Millisecond, sel.Sleep)
}

func TestRotator_SlotClamping(t *testing.T) {
	longTimeline := []v1alpha1.Region{{
		ID:       "main",
		Timeline: []v1alpha1.TimelineNode{{StartMillis: 0, DurationMillis: (2 * time.Hour).Milliseconds()}},
	}}

	tests := []struct {
		name string
		item Item
		want time.Duration
	}{
		{
			name: "layout_intrinsic_duration",
			item: Item{Media: &v1alpha1.Media{Type: "layout", Regions: []v1alpha1.Region{{
				ID: "main",
				Timeline: []v1alpha1.TimelineNode{
					{StartMillis: 0, DurationMillis: 20000},
					{StartMillis: 10000, DurationMillis: 25000},
				},
			}}}},
			want: 35 * time.Second,
		},
		{
			name: "layout_without_timing_uses_default",
			item: Item{Media: layoutMedia()},
			want: 15 * time.Second,
		},
		{
			name: "malformed_intrinsic_capped_at_max",
			item: Item{Media: &v1alpha1.Media{Type: "layout", Regions: longTimeline}},
			want: time.Hour,
		},
		{
			name: "playlist_paces_itself_outer_slot_is_default",
			item: Item{Media: &v1alpha1.Media{Type: "playlist", Items: []v1alpha1.PlaylistEntry{{MediaRef: "x"}}}},
			want: 15 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := tt.item
			item.ID = "only"
			item.Location = time.UTC

			r := NewRotator(testRotationConfig())
			sel := r.Next([]Item{item}, mondayAt(10, 0, 0, 0))

			require.NotNil(t, sel.Item)
			assert.Equal(t, tt.want, sel.Sleep)
		})
	}
}

func TestRotator_BoundaryPreemptsSlot(t *testing.T) {
	// A competitor activates in 5s; the chosen item's slot must not outlast it
	incept := mondayAt(10, 0, 5, 0)
	pending := activeItem("pending", "Pending", 9, 0)
	pending.InceptAt = &incept
	current := activeItem("current", "Current", 1, 1)

	r := NewRotator(testRotationConfig())
	sel := r.Next([]Item{pending, current}, mondayAt(10, 0, 0, 0))

	require.NotNil(t, sel.Item)
	assert.Equal(t, "current", sel.Item.ID)
	assert.Equal(t, 5*time.Second, sel.Sleep)
}

func TestRotator_ResetStartsOver(t *testing.T) {
	items := []Item{
		activeItem("a", "A", 1, 0),
		activeItem("b", "B", 1, 1),
	}
	r := NewRotator(testRotationConfig())
	now := mondayAt(10, 0, 0, 0)

	assert.Equal(t, "a", r.Next(items, now).Item.ID)
	r.Reset()
	assert.Equal(t, "a", r.Next(items, now).Item.ID)
}
