// Package autosave debounces document saves. Each Arm replaces the pending
// payload and restarts the delay; the save runs on its own goroutine so the
// editor is never blocked by storage.
package autosave

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const saveTimeout = 10 * time.Second

// SaveFunc persists one serialized document.
type SaveFunc func(ctx context.Context, payload []byte) error

type Task struct {
	mu      sync.Mutex
	delay   time.Duration
	save    SaveFunc
	timer   *time.Timer
	pending []byte
	gen     uint64
	wg      sync.WaitGroup
}

func New(delay time.Duration, save SaveFunc) *Task {
	return &Task{delay: delay, save: save}
}

// Arm schedules payload to be saved after the delay, cancelling any save that
// has not fired yet.
func (t *Task) Arm(payload []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}
	t.gen++
	gen := t.gen
	t.pending = payload
	t.timer = time.AfterFunc(t.delay, func() { t.fire(gen) })
}

func (t *Task) fire(gen uint64) {
	t.mu.Lock()
	if gen != t.gen || t.pending == nil {
		t.mu.Unlock()
		return
	}
	payload := t.pending
	t.pending = nil
	t.timer = nil
	t.wg.Add(1)
	t.mu.Unlock()

	defer t.wg.Done()
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := t.save(ctx, payload); err != nil {
		slog.Error("autosave failed", "error", err, "bytes", len(payload))
		return
	}
	slog.Debug("autosaved", "bytes", len(payload))
}

// Cancel drops the pending save and reports whether one was pending.
func (t *Task) Cancel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.gen++
	had := t.pending != nil
	t.pending = nil
	return had
}

// Pending reports whether a save is scheduled but has not started.
func (t *Task) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending != nil
}

// Flush saves the pending payload immediately, then waits for saves already
// in flight. It returns the save error or ctx's error.
func (t *Task) Flush(ctx context.Context) error {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.gen++
	payload := t.pending
	t.pending = nil
	t.mu.Unlock()

	if payload != nil {
		if err := t.save(ctx, payload); err != nil {
			return err
		}
	}

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
