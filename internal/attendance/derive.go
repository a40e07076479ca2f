package attendance

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type State string

const (
	StateLoading      State = "LOADING"
	StateError        State = "ERROR"
	StateNotCheckedIn State = "NOT_CHECKED_IN"
	StateWorking      State = "WORKING"
	StateCheckedOut   State = "CHECKED_OUT"
)

const (
	MsgUnreadableTimes = "Unable to read attendance times"
	MsgLoadFailed      = "Unable to load attendance"
)

// View is what the attendance widget renders.
type View struct {
	State         State
	WorkedSeconds int64
	Elapsed       string
	Message       string
	Record        *Record
}

var errBadClock = errors.New("attendance: unrecognised time")

// fractional seconds are optional in the first layout
var clockLayouts = []string{"15:04:05.999999999", "15:04"}

// ParseClock anchors a wall-clock "HH:MM:SS" (or "HH:MM") to day's calendar
// date in day's location. Full RFC 3339 timestamps are taken as they are.
func ParseClock(value string, day time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			y, m, d := day.Date()
			return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), day.Location()), nil
		}
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.In(day.Location()), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", errBadClock, value)
}

// FormatElapsed renders seconds as HH:MM:SS. Hours are not capped at 24;
// negative input renders as zero.
func FormatElapsed(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

// Derive turns a record into a view at instant now. It has no side effects;
// now's location decides which calendar day bare times belong to.
func Derive(rec *Record, now time.Time) View {
	in, hasIn := "", false
	if rec != nil {
		in, hasIn = rec.timeIn()
	}
	if !hasIn {
		return View{State: StateNotCheckedIn, Elapsed: FormatElapsed(0), Record: rec}
	}

	start, err := ParseClock(in, now)
	if err != nil {
		return View{State: StateError, Message: MsgUnreadableTimes, Elapsed: FormatElapsed(0), Record: rec}
	}

	out, hasOut := rec.timeOut()
	if !hasOut {
		worked := clampSeconds(now.Sub(start))
		return View{State: StateWorking, WorkedSeconds: worked, Elapsed: FormatElapsed(worked), Record: rec}
	}

	end, err := ParseClock(out, now)
	if err != nil {
		return View{State: StateError, Message: MsgUnreadableTimes, Elapsed: FormatElapsed(0), Record: rec}
	}
	worked := clampSeconds(end.Sub(start))
	return View{State: StateCheckedOut, WorkedSeconds: worked, Elapsed: FormatElapsed(worked), Record: rec}
}

func clampSeconds(d time.Duration) int64 {
	if d < 0 {
		return 0
	}
	return int64(d / time.Second)
}
