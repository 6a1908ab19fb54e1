package notify

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"
)

// Kind classifies a user-visible notice. Only two exist: both are delivered
// as transient toasts, never blocking dialogs.
type Kind string

const (
	// KindSessionExpired tells the user to sign in again.
	KindSessionExpired Kind = "session_expired"
	// KindInsufficientRole tells the user the screen needs a different role.
	KindInsufficientRole Kind = "insufficient_role"
)

// Notice is one user-visible notification emitted by the guard pipeline.
type Notice struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message"`
	Path      string    `json:"path,omitempty"`
	Role      string    `json:"role,omitempty"`
}

// Sink receives emitted notices.
type Sink interface {
	Emit(ctx context.Context, notice Notice)
}

// NoOpSink drops notices.
type NoOpSink struct{}

func (NoOpSink) Emit(context.Context, Notice) {}

// ChannelSink writes notices into a buffered channel, typically drained by
// the host UI's toast layer.
type ChannelSink struct {
	notices chan Notice
}

func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{
		notices: make(chan Notice, buffer),
	}
}

func (s *ChannelSink) Emit(ctx context.Context, notice Notice) {
	select {
	case s.notices <- notice:
	case <-ctx.Done():
	}
}

func (s *ChannelSink) Notices() <-chan Notice {
	return s.notices
}

// JSONWriterSink writes one JSON object per line.
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{
		writer: w,
	}
}

func (s *JSONWriterSink) Emit(ctx context.Context, notice Notice) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(notice)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = s.writer.Write(append(data, '\n'))
}
