// Package watch decodes wire problem files dropped into a directory. Writes
// are debounced so half-written files settle before decoding; results are
// logged and optionally persisted.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"planwire/internal/model"
	"planwire/internal/reader"
	"planwire/internal/store"
	"planwire/internal/wire"
)

// Stats tracks watcher activity.
type Stats struct {
	FilesSeen      int
	Decoded        int
	Failed         int
	DroppedEffects int
	LastFile       string
	LastEventTime  time.Time
}

// Options tunes the watcher. Zero values get defaults.
type Options struct {
	// Debounce is how long a file must stay quiet before decoding.
	// Defaults to 500ms.
	Debounce time.Duration
	// Store, when non-nil, receives a record per successful decode.
	Store *store.Store
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

// Watcher watches one directory for *.json wire problems.
type Watcher struct {
	mu          sync.RWMutex
	watcher     *fsnotify.Watcher
	dir         string
	reader      *reader.Reader
	template    *model.Problem
	store       *store.Store
	log         *zap.Logger
	debounceMap map[string]time.Time
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
	stats       Stats
}

// NewWatcher creates a watcher for the given directory.
func NewWatcher(dir string, r *reader.Reader, template *model.Problem, opts Options) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 500 * time.Millisecond
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Watcher{
		watcher:     fsw,
		dir:         dir,
		reader:      r,
		template:    template,
		store:       opts.Store,
		log:         opts.Logger,
		debounceMap: make(map[string]time.Time),
		debounceDur: opts.Debounce,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking; the event loop runs in a goroutine
// until Stop is called or the context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(w.dir); err != nil {
		// The run loop never spawned, so Stop must not wait for it.
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.log.Info("watching directory", zap.String("dir", w.dir))

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		w.log.Error("close watcher", zap.Error(err))
	}
}

// Stats returns a copy of the watcher's activity counters.
func (w *Watcher) Stats() Stats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

// DecodeExisting decodes every *.json file already present in the directory.
// Returns the number decoded successfully.
func (w *Watcher) DecodeExisting(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", w.dir, err)
	}

	decoded := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return decoded, err
		}
		if w.decodeFile(ctx, filepath.Join(w.dir, entry.Name())) {
			decoded++
		}
	}
	return decoded, nil
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error("watch error", zap.Error(err))
		case <-ticker.C:
			w.processSettled(ctx)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !strings.HasSuffix(event.Name, ".json") {
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}

	w.mu.Lock()
	if _, seen := w.debounceMap[event.Name]; !seen {
		w.stats.FilesSeen++
	}
	w.debounceMap[event.Name] = time.Now()
	w.stats.LastFile = event.Name
	w.stats.LastEventTime = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) processSettled(ctx context.Context) {
	now := time.Now()

	w.mu.Lock()
	var settled []string
	for path, last := range w.debounceMap {
		if now.Sub(last) >= w.debounceDur {
			settled = append(settled, path)
			delete(w.debounceMap, path)
		}
	}
	w.mu.Unlock()

	for _, path := range settled {
		w.decodeFile(ctx, path)
	}
}

func (w *Watcher) decodeFile(ctx context.Context, path string) bool {
	sessionID := uuid.NewString()

	fail := func(err error) bool {
		w.mu.Lock()
		w.stats.Failed++
		w.mu.Unlock()
		w.log.Error("decode failed",
			zap.String("session_id", sessionID),
			zap.String("file", path),
			zap.Error(err))
		return false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fail(err)
	}
	msg, err := wire.UnmarshalProblem(data)
	if err != nil {
		return fail(err)
	}
	problem, stats, err := w.reader.ProblemWithStats(msg, w.template)
	if err != nil {
		return fail(err)
	}

	w.mu.Lock()
	w.stats.Decoded++
	w.stats.DroppedEffects += stats.DroppedEffects
	w.mu.Unlock()

	w.log.Info("decoded problem",
		zap.String("session_id", sessionID),
		zap.String("file", path),
		zap.String("problem", problem.Name()),
		zap.Int("objects", len(problem.Objects())),
		zap.Int("fluents", len(problem.Fluents())),
		zap.Int("actions", len(problem.Actions())),
		zap.Int("dropped_effects", stats.DroppedEffects))

	if w.store != nil {
		rec := store.ProblemRecord{
			SessionID:      sessionID,
			Name:           problem.Name(),
			Source:         path,
			Objects:        len(problem.Objects()),
			Fluents:        len(problem.Fluents()),
			Actions:        len(problem.Actions()),
			Goals:          len(problem.Goals()),
			DroppedEffects: stats.DroppedEffects,
			DecodedAt:      time.Now().UTC(),
		}
		if err := w.store.SaveProblem(ctx, rec); err != nil {
			w.log.Error("persist decode record", zap.String("file", path), zap.Error(err))
		}
	}
	return true
}
