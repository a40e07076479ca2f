package attendance

import (
	"context"
	"sync"
)

// Timer re-renders the elapsed time while the user is working. It exits on
// the first view that is not WORKING, on ctx cancellation or on Stop.
type Timer struct {
	stop     chan struct{}
	wake     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// StartTimer emits the current view right away and then once per tick for as
// long as the state stays WORKING. onTick runs on the timer's goroutine. On a
// closed tracker the returned timer is already done and onTick never runs.
func (t *Tracker) StartTimer(ctx context.Context, onTick func(View)) *Timer {
	tm := &Timer{
		stop: make(chan struct{}),
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	if !t.addTimer(tm) {
		tm.Stop()
		close(tm.done)
		return tm
	}

	go tm.run(ctx, t, onTick)
	return tm
}

func (tm *Timer) run(ctx context.Context, t *Tracker, onTick func(View)) {
	defer close(tm.done)
	defer t.removeTimer(tm)

	emit := func() bool {
		v := t.View()
		if onTick != nil {
			onTick(v)
		}
		return v.State == StateWorking
	}

	if !emit() {
		return
	}

	ticker := t.clock.NewTicker(t.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tm.stop:
			return
		case <-ticker.C():
			if !emit() {
				return
			}
		case <-tm.wake:
			if !emit() {
				return
			}
		}
	}
}

// Stop is idempotent and does not wait; use Done for that.
func (tm *Timer) Stop() {
	tm.stopOnce.Do(func() { close(tm.stop) })
}

// Done is closed once the timer goroutine has exited.
func (tm *Timer) Done() <-chan struct{} {
	return tm.done
}
