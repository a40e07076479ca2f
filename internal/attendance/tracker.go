package attendance

import (
	"context"
	"sync"
	"time"

	attendanceerrors "go-hrm/internal/attendance/errors"
	"go-hrm/internal/notify"
	"go-hrm/internal/shared/apperror"
	"go-hrm/internal/shared/contextutil"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	msgCheckedIn  = "Checked in successfully"
	msgCheckedOut = "Checked out successfully"

	todayKey = "today"
)

type TrackerOption func(*Tracker)

func WithNotifier(n notify.Notifier) TrackerOption {
	return func(t *Tracker) {
		if n != nil {
			t.notifier = n
		}
	}
}

func WithClock(c Clock) TrackerOption {
	return func(t *Tracker) {
		if c != nil {
			t.clock = c
		}
	}
}

// WithLocation sets the timezone bare HH:MM:SS values are anchored in.
func WithLocation(loc *time.Location) TrackerOption {
	return func(t *Tracker) {
		if loc != nil {
			t.loc = loc
		}
	}
}

func WithTickInterval(d time.Duration) TrackerOption {
	return func(t *Tracker) {
		if d > 0 {
			t.tick = d
		}
	}
}

func WithLogger(l *zap.Logger) TrackerOption {
	return func(t *Tracker) {
		if l != nil {
			t.logger = l.Named("attendance.tracker")
		}
	}
}

// Tracker holds today's record and drives the check in/out widget.
type Tracker struct {
	repo     Repository
	notifier notify.Notifier
	clock    Clock
	loc      *time.Location
	tick     time.Duration
	logger   *zap.Logger
	sf       singleflight.Group

	mu       sync.Mutex
	record   *Record
	known    bool
	inflight int
	loadErr  bool
	lastErr  string
	busy     bool
	closed   bool
	timers   map[*Timer]struct{}
}

func NewTracker(repo Repository, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		repo:     repo,
		notifier: notify.Nop(),
		clock:    RealClock(),
		loc:      time.Local,
		tick:     time.Second,
		logger:   zap.L().Named("attendance.tracker"),
		timers:   make(map[*Timer]struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// FetchTodayStatus reads today's record. Concurrent callers share one
// request. A failure keeps the previous record if there was one.
func (t *Tracker) FetchTodayStatus(ctx context.Context) (*Record, error) {
	t.mu.Lock()
	t.inflight++
	t.mu.Unlock()

	v, err, shared := t.sf.Do(todayKey, func() (interface{}, error) {
		return t.repo.TodayStatus(ctx)
	})

	t.mu.Lock()
	t.inflight--
	if err != nil {
		t.lastErr = apperror.Message(err)
		if !t.known {
			t.loadErr = true
		}
		t.mu.Unlock()

		t.logger.Warn("fetch today status failed",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.Bool("shared", shared),
			zap.Error(err),
		)
		// a 401 is already announced by the session
		if !shared && !apperror.IsUnauthorized(err) {
			t.notifier.Error(apperror.Message(err))
		}
		return t.Record(), err
	}

	rec, _ := v.(*Record)
	t.record = rec
	t.known = true
	t.loadErr = false
	t.lastErr = ""
	t.mu.Unlock()

	t.wakeTimers()
	return rec, nil
}

// CheckIn asks the server to open today's record, then re-reads it.
func (t *Tracker) CheckIn(ctx context.Context) error {
	return t.mutate(ctx, "check in", t.repo.CheckIn, msgCheckedIn)
}

// CheckOut closes today's record, then re-reads it.
func (t *Tracker) CheckOut(ctx context.Context) error {
	return t.mutate(ctx, "check out", t.repo.CheckOut, msgCheckedOut)
}

func (t *Tracker) mutate(
	ctx context.Context,
	name string,
	action func(context.Context) (ActionResult, error),
	fallback string,
) error {
	t.mu.Lock()
	if t.busy {
		t.mu.Unlock()
		return attendanceerrors.ErrActionInProgress
	}
	t.busy = true
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.busy = false
		t.mu.Unlock()
	}()

	logger := t.logger.With(
		zap.String("action", name),
		zap.String("request_id", contextutil.GetRequestID(ctx)),
	)

	res, err := action(ctx)
	if err != nil {
		msg := apperror.Message(err)
		t.mu.Lock()
		t.lastErr = msg
		t.mu.Unlock()
		logger.Warn("attendance action rejected", zap.Error(err))
		if !apperror.IsUnauthorized(err) {
			t.notifier.Error(msg)
		}
		return err
	}

	// a read started before the action must not answer for after it
	t.sf.Forget(todayKey)
	if _, err := t.FetchTodayStatus(ctx); err != nil {
		logger.Warn("refresh after action failed", zap.Error(err))
	}

	msg := res.Message
	if msg == "" {
		msg = fallback
	}
	logger.Info("attendance action done")
	t.notifier.Success(msg)
	return nil
}

// View derives the widget state at the current instant.
func (t *Tracker) View() View {
	now := t.clock.Now().In(t.loc)

	t.mu.Lock()
	defer t.mu.Unlock()

	switch {
	case t.known:
		return Derive(t.record, now)
	case t.loadErr && t.inflight == 0:
		return View{State: StateError, Message: MsgLoadFailed, Elapsed: FormatElapsed(0)}
	default:
		return View{State: StateLoading, Elapsed: FormatElapsed(0)}
	}
}

// Record returns a copy of the last record read, nil if none.
func (t *Tracker) Record() *Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.record == nil {
		return nil
	}
	rec := *t.record
	return &rec
}

// Busy reports whether a check in/out is outstanding.
func (t *Tracker) Busy() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.busy
}

func (t *Tracker) LastError() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastErr
}

// Close stops every running timer and waits for them to exit. Timers started
// afterwards are born stopped. It must not be called from inside an onTick
// callback.
func (t *Tracker) Close() {
	t.mu.Lock()
	t.closed = true
	timers := make([]*Timer, 0, len(t.timers))
	for tm := range t.timers {
		timers = append(timers, tm)
	}
	t.mu.Unlock()

	for _, tm := range timers {
		tm.Stop()
		<-tm.Done()
	}
}

func (t *Tracker) wakeTimers() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for tm := range t.timers {
		select {
		case tm.wake <- struct{}{}:
		default:
		}
	}
}

// addTimer reports false once the tracker is closed.
func (t *Tracker) addTimer(tm *Timer) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return false
	}
	t.timers[tm] = struct{}{}
	return true
}

func (t *Tracker) removeTimer(tm *Timer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.timers, tm)
}
