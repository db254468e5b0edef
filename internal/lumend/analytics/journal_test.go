package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournal_FinishComputesDuration(t *testing.T) {
	j := NewJournal(8)

	span := j.Start("main", "welcome")
	span.EndedAt = span.StartedAt.Add(1500 * time.Millisecond)
	j.Finish(span)

	recent := j.Recent()
	require.Len(t, recent, 1)
	assert.Equal(t, "main", recent[0].CanvasID)
	assert.Equal(t, "welcome", recent[0].ItemID)
	assert.EqualValues(t, 1500, recent[0].DurationMillis)
	assert.NotEmpty(t, recent[0].ID)
}

func TestJournal_BoundedHistory(t *testing.T) {
	j := NewJournal(3)

	for i := 0; i < 5; i++ {
		span := j.Start("main", fmt.Sprintf("item-%d", i))
		j.Finish(span)
	}

	recent := j.Recent()
	require.Len(t, recent, 3)
	assert.Equal(t, "item-2", recent[0].ItemID, "oldest spans are evicted first")
	assert.Equal(t, "item-4", recent[2].ItemID)
}
