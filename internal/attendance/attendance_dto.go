package attendance

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Record is the server's view of today: two optional wall-clock times.
type Record struct {
	TimeIn  *string `json:"time_in"`
	TimeOut *string `json:"time_out"`
	Status  string  `json:"status,omitempty"`
}

func (r *Record) timeIn() (string, bool)  { return clockValue(r.TimeIn) }
func (r *Record) timeOut() (string, bool) { return clockValue(r.TimeOut) }

func clockValue(v *string) (string, bool) {
	if v == nil {
		return "", false
	}
	s := strings.TrimSpace(*v)
	return s, s != ""
}

// ActionResult is whatever check-in/check-out answered with; only the
// message is shown, the record is always re-read.
type ActionResult struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

type ListParams struct {
	Page  int
	Limit int
}

// Entry is one row of an attendance list.
type Entry struct {
	ID       string  `json:"id"`
	UserID   string  `json:"user_id"`
	UserName string  `json:"user_name,omitempty"`
	Date     string  `json:"date"`
	TimeIn   *string `json:"time_in"`
	TimeOut  *string `json:"time_out"`
	Status   string  `json:"status"`
}

// todayWire accepts {attendance:{...}}, {attendance:null} and the record
// fields at the top level.
type todayWire struct {
	Record
	Attendance json.RawMessage `json:"attendance"`
}

func (w todayWire) record() (*Record, error) {
	if len(w.Attendance) > 0 {
		raw := bytes.TrimSpace(w.Attendance)
		if string(raw) == "null" {
			return nil, nil
		}
		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, err
		}
		return &rec, nil
	}
	if w.TimeIn == nil && w.TimeOut == nil && w.Status == "" {
		return nil, nil
	}
	rec := w.Record
	return &rec, nil
}

// decodeEntries accepts a bare array or an object carrying the list under
// one of the usual keys.
func decodeEntries(raw json.RawMessage) ([]Entry, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return []Entry{}, nil
	}
	if raw[0] == '[' {
		var out []Entry
		err := json.Unmarshal(raw, &out)
		return out, err
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}
	for _, key := range []string{"attendance", "attendances", "items", "data"} {
		if v, ok := obj[key]; ok {
			return decodeEntries(v)
		}
	}
	return []Entry{}, nil
}
