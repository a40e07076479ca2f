package attendance_test

import (
	"testing"
	"time"

	"go-hrm/internal/attendance"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func TestDerive(t *testing.T) {
	now := time.Date(2024, 5, 2, 8, 0, 5, 0, time.UTC)

	cases := []struct {
		name    string
		rec     *attendance.Record
		now     time.Time
		state   attendance.State
		worked  int64
		elapsed string
		message string
	}{
		{"no record", nil, now, attendance.StateNotCheckedIn, 0, "00:00:00", ""},
		{"empty record", &attendance.Record{}, now, attendance.StateNotCheckedIn, 0, "00:00:00", ""},
		{"blank time_in", &attendance.Record{TimeIn: strptr("  ")}, now, attendance.StateNotCheckedIn, 0, "00:00:00", ""},
		{"working", &attendance.Record{TimeIn: strptr("08:00:00")}, now, attendance.StateWorking, 5, "00:00:05", ""},
		{"working hh:mm", &attendance.Record{TimeIn: strptr("07:00")}, now, attendance.StateWorking, 3605, "01:00:05", ""},
		{"checked out", &attendance.Record{TimeIn: strptr("08:00:00"), TimeOut: strptr("17:00:00")}, now, attendance.StateCheckedOut, 32400, "09:00:00", ""},
		{"clock skew clamps", &attendance.Record{TimeIn: strptr("08:00:10")}, now, attendance.StateWorking, 0, "00:00:00", ""},
		{"out before in clamps", &attendance.Record{TimeIn: strptr("17:00:00"), TimeOut: strptr("08:00:00")}, now, attendance.StateCheckedOut, 0, "00:00:00", ""},
		{"rfc3339", &attendance.Record{TimeIn: strptr("2024-05-02T07:59:00Z")}, now, attendance.StateWorking, 65, "00:01:05", ""},
		{"garbage time_in", &attendance.Record{TimeIn: strptr("eight")}, now, attendance.StateError, 0, "00:00:00", attendance.MsgUnreadableTimes},
		{"garbage time_out", &attendance.Record{TimeIn: strptr("08:00:00"), TimeOut: strptr("25:99")}, now, attendance.StateError, 0, "00:00:00", attendance.MsgUnreadableTimes},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := attendance.Derive(tc.rec, tc.now)
			assert.Equal(t, tc.state, v.State)
			assert.Equal(t, tc.worked, v.WorkedSeconds)
			assert.Equal(t, tc.elapsed, v.Elapsed)
			assert.Equal(t, tc.message, v.Message)
		})
	}
}

func TestDerive_CheckedOutIgnoresNow(t *testing.T) {
	rec := &attendance.Record{TimeIn: strptr("08:00:00"), TimeOut: strptr("17:00:00")}
	a := attendance.Derive(rec, time.Date(2024, 5, 2, 18, 0, 0, 0, time.UTC))
	b := attendance.Derive(rec, time.Date(2024, 5, 2, 23, 0, 0, 0, time.UTC))
	assert.Equal(t, a, b)
}

func TestDerive_WorkedSecondsNeverDecrease(t *testing.T) {
	rec := &attendance.Record{TimeIn: strptr("08:00:00")}
	start := time.Date(2024, 5, 2, 7, 59, 50, 0, time.UTC)

	prev := int64(-1)
	for i := 0; i < 30; i++ {
		v := attendance.Derive(rec, start.Add(time.Duration(i)*time.Second))
		assert.GreaterOrEqual(t, v.WorkedSeconds, prev)
		assert.GreaterOrEqual(t, v.WorkedSeconds, int64(0))
		prev = v.WorkedSeconds
	}
	assert.Equal(t, int64(19), prev)
}

func TestParseClock(t *testing.T) {
	zone := time.FixedZone("ICT", 7*3600)
	day := time.Date(2024, 5, 2, 23, 30, 0, 0, zone)

	got, err := attendance.ParseClock("08:15:30", day)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 2, 8, 15, 30, 0, zone), got)

	got, err = attendance.ParseClock("08:15:30.250", day)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, time.Duration(got.Nanosecond()))

	got, err = attendance.ParseClock("2024-05-02T01:00:00Z", day)
	require.NoError(t, err)
	assert.Equal(t, 8, got.Hour())
	assert.Equal(t, zone, got.Location())

	_, err = attendance.ParseClock("", day)
	assert.Error(t, err)
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "00:00:00", attendance.FormatElapsed(0))
	assert.Equal(t, "00:00:00", attendance.FormatElapsed(-42))
	assert.Equal(t, "00:01:01", attendance.FormatElapsed(61))
	assert.Equal(t, "09:00:00", attendance.FormatElapsed(9*3600))
	assert.Equal(t, "26:00:01", attendance.FormatElapsed(26*3600+1))
}
