package notify_test

import (
	"bytes"
	"testing"

	"go-hrm/internal/notify"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWriterNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewWriterNotifier(&buf)
	n.Success("Checked in")
	n.Error("You have already checked in today")
	n.Info("Working 00:00:05")

	assert.Equal(t, "✔ Checked in\n✖ You have already checked in today\n• Working 00:00:05\n", buf.String())
}

func TestLogNotifier(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	n := notify.NewLogNotifier(zap.New(core))
	n.Success("Login successful")
	n.Error("Invalid credentials")

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, "Login successful", entries[0].Message)
		assert.Equal(t, zap.WarnLevel, entries[1].Level)
	}
}

func TestRecorder(t *testing.T) {
	r := notify.NewRecorder()
	_, ok := r.Last()
	assert.False(t, ok)

	r.Info("a")
	r.Error("b")
	last, ok := r.Last()
	assert.True(t, ok)
	assert.Equal(t, notify.Message{Level: notify.LevelError, Text: "b"}, last)
	assert.Len(t, r.Messages(), 2)
}
