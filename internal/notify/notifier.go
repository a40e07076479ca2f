// Package notify delivers the short success/failure messages a user sees
// after an action (the toast of the web client).
package notify

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

type Notifier interface {
	Success(msg string)
	Error(msg string)
	Info(msg string)
}

type logNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) Notifier {
	if logger == nil {
		logger = zap.L()
	}
	return &logNotifier{logger: logger.Named("notify")}
}

func (n *logNotifier) Success(msg string) {
	n.logger.Info(msg, zap.String("level", string(LevelSuccess)))
}

func (n *logNotifier) Error(msg string) {
	n.logger.Warn(msg, zap.String("level", string(LevelError)))
}

func (n *logNotifier) Info(msg string) {
	n.logger.Info(msg, zap.String("level", string(LevelInfo)))
}

// WriterNotifier prints one line per message, e.g. "✔ Checked in".
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

func (n *WriterNotifier) write(prefix, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "%s %s\n", prefix, msg)
}

func (n *WriterNotifier) Success(msg string) { n.write("✔", msg) }
func (n *WriterNotifier) Error(msg string)   { n.write("✖", msg) }
func (n *WriterNotifier) Info(msg string)    { n.write("•", msg) }

type nop struct{}

func Nop() Notifier { return nop{} }

func (nop) Success(string) {}
func (nop) Error(string)   {}
func (nop) Info(string)    {}

// Message is one recorded notification.
type Message struct {
	Level Level
	Text  string
}

// Recorder keeps every message; handy in tests and for replaying the last
// toast in the CLI.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) add(level Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{Level: level, Text: msg})
}

func (r *Recorder) Success(msg string) { r.add(LevelSuccess, msg) }
func (r *Recorder) Error(msg string)   { r.add(LevelError, msg) }
func (r *Recorder) Info(msg string)    { r.add(LevelInfo, msg) }

func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

func (r *Recorder) Last() (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return Message{}, false
	}
	return r.messages[len(r.messages)-1], true
}
