package response

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Payload strips the {ok, data, meta} envelope when present. Bodies that are
// not an envelope are returned untouched so that endpoints answering with the
// bare object keep working.
func Payload(body []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return trimmed
	}

	data, ok := fields["data"]
	if !ok || isNull(data) {
		return trimmed
	}
	// {"data": {...}} or {"ok": true, "data": ..., "meta": ...}
	for k := range fields {
		switch k {
		case "data", "ok", "meta", "error", "message", "status", "success":
		default:
			return trimmed
		}
	}
	return data
}

// ErrorMessage digs a human readable message out of an error body. The
// second return value is false when nothing usable was found.
func ErrorMessage(body []byte) (string, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return "", false
	}

	switch trimmed[0] {
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return "", false
		}
		return messageFromObject(obj)
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", false
		}
		s = strings.TrimSpace(s)
		return s, s != ""
	case '[', '<':
		// arrays and HTML error pages are not messages
		return "", false
	default:
		s := strings.TrimSpace(string(trimmed))
		if len(s) > 200 {
			return "", false
		}
		return s, s != ""
	}
}

func messageFromObject(obj map[string]json.RawMessage) (string, bool) {
	for _, key := range []string{"message", "msg"} {
		if s, ok := stringField(obj[key]); ok {
			return s, true
		}
	}

	raw, ok := obj["error"]
	if !ok || isNull(raw) {
		return "", false
	}
	if s, ok := stringField(raw); ok {
		return s, true
	}

	var nested map[string]json.RawMessage
	if err := json.Unmarshal(raw, &nested); err == nil {
		for _, key := range []string{"message", "msg"} {
			if s, ok := stringField(nested[key]); ok {
				return s, true
			}
		}
	}
	return "", false
}

func stringField(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null"
}
