package manifest

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-signage/lumen-player/internal/lumend/schedule"
)

type captureApplier struct {
	applied [][]schedule.Item
}

func (c *captureApplier) Apply(items []schedule.Item) {
	c.applied = append(c.applied, items)
}

func testSource(t *testing.T, content string) (*Source, *captureApplier, string) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	path := filepath.Join(t.TempDir(), "manifest.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	applier := &captureApplier{}
	src := NewSource(Options{Path: path, Logger: logger},
		schedule.NewNormalizer(time.UTC, logger), applier)
	return src, applier, path
}

func TestSource_LoadsFlatManifest(t *testing.T) {
	src, applier, _ := testSource(t, `[
		{"id": "a", "priority": 1, "media": {"type": "layout", "name": "A"}},
		{"id": "b", "priority": 2, "media": {"type": "layout", "name": "B"}}
	]`)

	count, err := src.Load()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.Len(t, applier.applied, 1)
	assert.Equal(t, "a", applier.applied[0][0].ID)
}

func TestSource_LoadsLegacyManifest(t *testing.T) {
	src, applier, _ := testSource(t, `{
		"events": [
			{"eventId": "E1", "title": "Morning Loop", "layoutRef": "L1", "priority": 1}
		],
		"layouts": {
			"L1": {"type": "layout", "name": "Morning"}
		}
	}`)

	count, err := src.Load()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.Len(t, applier.applied, 1)
	assert.Equal(t, "E1", applier.applied[0][0].ID)
	require.NotNil(t, applier.applied[0][0].Media)
	assert.Equal(t, "Morning", applier.applied[0][0].Media.Name)
}

func TestSource_RejectsInvalidJSONWithoutApplying(t *testing.T) {
	src, applier, _ := testSource(t, `{"results": [`)

	_, err := src.Load()
	assert.Error(t, err)
	assert.Empty(t, applier.applied, "a broken manifest must not clear the schedule")
}

func TestSource_MissingFile(t *testing.T) {
	src, applier, path := testSource(t, `[]`)
	require.NoError(t, os.Remove(path))

	_, err := src.Load()
	assert.Error(t, err)
	assert.Empty(t, applier.applied)
}

func TestSource_ReloadPicksUpNewContent(t *testing.T) {
	src, applier, path := testSource(t, `[
		{"id": "a", "media": {"type": "layout", "name": "A"}}
	]`)

	_, err := src.Load()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`[
		{"id": "a", "media": {"type": "layout", "name": "A"}},
		{"id": "b", "media": {"type": "layout", "name": "B"}}
	]`), 0o644))

	count, err := src.Reload()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.Len(t, applier.applied, 2)
	assert.Len(t, applier.applied[1], 2)
}

func TestSource_EnvelopeUnwrap(t *testing.T) {
	src, applier, _ := testSource(t, `{"results": [
		{"data": {"id": "wrapped", "media": {"type": "playlist", "name": "P"}}}
	]}`)

	count, err := src.Load()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, "wrapped", applier.applied[0][0].ID)
}
