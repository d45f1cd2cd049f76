package runloop

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func startLoop(t *testing.T, l *Loop) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	go l.Run(ctx)
	return cancel
}

func TestLoop_PostRunsOnLoop(t *testing.T) {
	l := New(5 * time.Millisecond)
	cancel := startLoop(t, l)
	defer cancel()

	done := make(chan struct{})
	l.Post(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for posted op")
	}
}

func TestLoop_PostsRunInOrder(t *testing.T) {
	l := New(5 * time.Millisecond)
	cancel := startLoop(t, l)
	defer cancel()

	var got []int
	done := make(chan struct{})
	for i := 0; i < 5; i++ {
		i := i
		l.Post(func() { got = append(got, i) })
	}
	l.Post(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timeout")
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("ops ran out of order: %v", got)
		}
	}
}

func TestLoop_FrameCallbackTicks(t *testing.T) {
	l := New(5 * time.Millisecond)
	var ticks atomic.Int64
	l.OnFrame(func(time.Time) { ticks.Add(1) })
	cancel := startLoop(t, l)
	defer cancel()

	time.Sleep(60 * time.Millisecond)
	if ticks.Load() == 0 {
		t.Error("frame callback never fired")
	}
}

func TestLoop_AfterFires(t *testing.T) {
	l := New(5 * time.Millisecond)
	cancel := startLoop(t, l)
	defer cancel()

	done := make(chan struct{})
	l.After(10*time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for After")
	}
}

func TestLoop_AfterCancelPreventsDelivery(t *testing.T) {
	l := New(5 * time.Millisecond)
	cancel := startLoop(t, l)
	defer cancel()

	var fired atomic.Bool
	stop := l.After(30*time.Millisecond, func() { fired.Store(true) })
	stop()
	stop() // second cancel is harmless

	time.Sleep(80 * time.Millisecond)
	if fired.Load() {
		t.Error("cancelled After still fired")
	}
}

func TestLoop_AfterCancelAfterTimerFiredStillSuppressed(t *testing.T) {
	l := New(5 * time.Millisecond)

	var fired atomic.Bool
	stop := l.After(0, func() { fired.Store(true) })

	// Let the timer post its callback into the ops queue before the loop
	// starts draining it, then cancel. The queued delivery must still be
	// suppressed.
	time.Sleep(20 * time.Millisecond)
	stop()

	cancel := startLoop(t, l)
	defer cancel()

	time.Sleep(50 * time.Millisecond)
	if fired.Load() {
		t.Error("After callback ran despite being cancelled before delivery")
	}
}

func TestLoop_RunReturnsContextError(t *testing.T) {
	l := New(5 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- l.Run(ctx) }()
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for Run to return")
	}
}

func TestLoop_PostAfterStopIsDropped(t *testing.T) {
	l := New(5 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		l.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	// Must not block or panic.
	l.Post(func() { t.Error("op ran after loop stop") })
	time.Sleep(20 * time.Millisecond)
}
