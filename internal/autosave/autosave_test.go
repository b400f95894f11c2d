package autosave

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu    sync.Mutex
	saves []string
	calls chan string
	err   error
}

func newRecorder() *recorder {
	return &recorder{calls: make(chan string, 16)}
}

func (r *recorder) save(_ context.Context, payload []byte) error {
	r.mu.Lock()
	r.saves = append(r.saves, string(payload))
	r.mu.Unlock()
	r.calls <- string(payload)
	return r.err
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saves)
}

func TestArmCoalescesBursts(t *testing.T) {
	r := newRecorder()
	task := New(30*time.Millisecond, r.save)

	task.Arm([]byte("one"))
	task.Arm([]byte("two"))
	task.Arm([]byte("three"))

	select {
	case got := <-r.calls:
		if got != "three" {
			t.Errorf("saved %q, want the last payload", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("save never fired")
	}

	time.Sleep(80 * time.Millisecond)
	if n := r.count(); n != 1 {
		t.Errorf("saves = %d, want 1", n)
	}
	if task.Pending() {
		t.Error("task still pending after save")
	}
}

func TestCancelPreventsSave(t *testing.T) {
	r := newRecorder()
	task := New(20*time.Millisecond, r.save)

	task.Arm([]byte("doc"))
	if !task.Cancel() {
		t.Error("Cancel reported nothing pending")
	}
	if task.Cancel() {
		t.Error("second Cancel reported a pending save")
	}

	time.Sleep(80 * time.Millisecond)
	if n := r.count(); n != 0 {
		t.Errorf("saves = %d after cancel, want 0", n)
	}
}

func TestFlushSavesImmediately(t *testing.T) {
	r := newRecorder()
	task := New(time.Hour, r.save)

	task.Arm([]byte("doc"))
	if err := task.Flush(context.Background()); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if n := r.count(); n != 1 {
		t.Fatalf("saves = %d, want 1", n)
	}
	if task.Pending() {
		t.Error("flush left a pending save")
	}

	// nothing pending: flush is a no-op
	if err := task.Flush(context.Background()); err != nil {
		t.Fatalf("empty flush: %v", err)
	}
	if n := r.count(); n != 1 {
		t.Errorf("saves = %d after empty flush, want 1", n)
	}
}

func TestFlushReturnsSaveError(t *testing.T) {
	r := newRecorder()
	r.err = errors.New("disk full")
	task := New(time.Hour, r.save)

	task.Arm([]byte("doc"))
	if err := task.Flush(context.Background()); !errors.Is(err, r.err) {
		t.Errorf("err = %v, want %v", err, r.err)
	}
}

func TestFlushWaitsForInflightSave(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	finished := make(chan struct{})
	task := New(time.Millisecond, func(context.Context, []byte) error {
		close(started)
		<-release
		close(finished)
		return nil
	})

	task.Arm([]byte("doc"))
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := task.Flush(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded while save is blocked", err)
	}

	close(release)
	if err := task.Flush(context.Background()); err != nil {
		t.Errorf("flush after release: %v", err)
	}
	select {
	case <-finished:
	default:
		t.Error("flush returned before the in-flight save finished")
	}
}

func TestArmDoesNotBlockOnSlowSave(t *testing.T) {
	release := make(chan struct{})
	task := New(time.Millisecond, func(context.Context, []byte) error {
		<-release
		return nil
	})
	defer close(release)

	task.Arm([]byte("a"))
	time.Sleep(20 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		task.Arm([]byte("b"))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Arm blocked behind a running save")
	}
	task.Cancel()
}
