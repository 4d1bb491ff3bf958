package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planwire/internal/model"
	"planwire/internal/reader"
	"planwire/internal/store"
)

const roomsJSON = `{
	"problem_name": "rooms",
	"objects": [{"name": "r1", "type": "room"}],
	"fluents": [{"name": "loc", "value_type": "room"}],
	"initial_state": [{
		"fluent": {"kind": "FLUENT_SYMBOL", "atom": {"symbol": "loc"}},
		"value": {"kind": "STATE_VARIABLE", "atom": {"symbol": "r1"}}
	}]
}`

func newTestWatcher(t *testing.T, dir string, opts Options) *Watcher {
	t.Helper()

	w, err := NewWatcher(dir, reader.NewReader(nil), model.NewProblem("template", nil), opts)
	require.NoError(t, err)
	return w
}

func TestDecodeExisting(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rooms.json"), []byte(roomsJSON), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{nope"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	w := newTestWatcher(t, dir, Options{})
	defer w.watcher.Close()

	decoded, err := w.DecodeExisting(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, decoded)

	stats := w.Stats()
	assert.Equal(t, 1, stats.Decoded)
	assert.Equal(t, 1, stats.Failed)
}

func TestDecodeExistingPersists(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rooms.json"), []byte(roomsJSON), 0644))

	db, err := store.Open(filepath.Join(t.TempDir(), "watch.db"))
	require.NoError(t, err)
	defer db.Close()

	w := newTestWatcher(t, dir, Options{Store: db})
	defer w.watcher.Close()

	ctx := context.Background()
	decoded, err := w.DecodeExisting(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, decoded)

	rec, err := db.ProblemByName(ctx, "rooms")
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Objects)
	assert.Equal(t, 1, rec.Fluents)
	assert.NotEmpty(t, rec.SessionID)
}

func TestWatcherDecodesNewFiles(t *testing.T) {
	dir := t.TempDir()
	w := newTestWatcher(t, dir, Options{Debounce: 50 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "rooms.json"), []byte(roomsJSON), 0644))

	deadline := time.After(5 * time.Second)
	for w.Stats().Decoded == 0 {
		select {
		case <-deadline:
			t.Fatalf("file never decoded; stats = %+v", w.Stats())
		case <-time.After(20 * time.Millisecond):
		}
	}

	stats := w.Stats()
	assert.Equal(t, 1, stats.Decoded)
	assert.Equal(t, 0, stats.Failed)
	assert.Equal(t, 1, stats.FilesSeen)
}

// A failed Start never spawns the event loop, so Stop must return instead of
// waiting for it.
func TestStopAfterFailedStart(t *testing.T) {
	w := newTestWatcher(t, filepath.Join(t.TempDir(), "missing"), Options{})
	defer w.watcher.Close()

	require.Error(t, w.Start(context.Background()))

	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked after failed Start")
	}
}

func TestWatcherStartStopIdempotent(t *testing.T) {
	w := newTestWatcher(t, t.TempDir(), Options{})

	ctx := context.Background()
	require.NoError(t, w.Start(ctx))
	require.NoError(t, w.Start(ctx), "second Start is a no-op")
	w.Stop()
	w.Stop() // second Stop is a no-op too
}
