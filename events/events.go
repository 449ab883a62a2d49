// Package events carries render progress out of the schedulers: to an event
// log as json lines, to browsers over websocket and to kafka.
package events

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/bytedance/sonic"
)

type Kind string

const (
	// KindFrame is published after every frame, rendered or failed.
	KindFrame Kind = "frame"
	// KindUnit is published once when a unit has walked its whole range.
	KindUnit Kind = "unit"
)

type Event struct {
	Kind  Kind      `json:"kind"`
	RunID string    `json:"runId"`
	Unit  int       `json:"unit"`
	Time  time.Time `json:"time"`

	// frame events
	Frame  int    `json:"frame"`
	Path   string `json:"path,omitempty"`
	Millis int64  `json:"millis,omitempty"`

	// unit events
	Start    int `json:"start,omitempty"`
	End      int `json:"end,omitempty"`
	Rendered int `json:"rendered,omitempty"`
	Failed   int `json:"failed,omitempty"`

	Err string `json:"error,omitempty"`
}

func Encode(e Event) ([]byte, error) {
	b, err := sonic.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode event: %w", err)
	}
	return b, nil
}

func Decode(b []byte) (Event, error) {
	var e Event
	if err := sonic.Unmarshal(b, &e); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	return e, nil
}

// Sink receives events. Publish may be called from many goroutines.
type Sink interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Discard drops every event.
var Discard Sink = discard{}

type discard struct{}

func (discard) Publish(context.Context, Event) error { return nil }
func (discard) Close() error                         { return nil }

// Multi publishes to every sink, collecting all errors.
type Multi []Sink

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, s := range m {
		if err := s.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Lines writes each event as one json line to w.
type Lines struct {
	mu sync.Mutex
	w  io.Writer
}

func NewLines(w io.Writer) *Lines {
	return &Lines{w: w}
}

func (l *Lines) Publish(_ context.Context, e Event) error {
	b, err := Encode(e)
	if err != nil {
		return err
	}
	b = append(b, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.w.Write(b); err != nil {
		return fmt.Errorf("write event line: %w", err)
	}
	return nil
}

func (l *Lines) Close() error { return nil }
