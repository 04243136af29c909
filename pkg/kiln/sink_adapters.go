package kiln

import (
	"errors"
	"fmt"
	"sync"

	"github.com/airmon1101/kiln/internal/domain"
)

// ErrChannelSinkClosed is returned when a channel sink is written to
// after being closed.
var ErrChannelSinkClosed = errors.New("kiln: channel sink closed")

// SampleFunc receives each telemetry sample emitted by the monitor.
type SampleFunc func(s TelemetrySample) error

// EventFunc receives lifecycle event lines (startup, escalation,
// shutdown).
type EventFunc func(msg string) error

// NewCallbackSink adapts plain functions into a Sink so callers can
// capture the telemetry stream without defining structs. A nil event
// function discards events.
func NewCallbackSink(name string, onSample SampleFunc, onEvent EventFunc) Sink {
	if name == "" {
		name = "callback"
	}
	return &callbackSink{name: name, onSample: onSample, onEvent: onEvent}
}

// NewChannelSink exposes samples via a channel; it returns the sink, the
// read-only channel, and a close function the caller should invoke at
// shutdown. Event lines are not delivered on the channel.
func NewChannelSink(name string, buffer int) (Sink, <-chan TelemetrySample, func()) {
	if name == "" {
		name = "channel"
	}
	if buffer < 0 {
		buffer = 0
	}
	ch := make(chan TelemetrySample, buffer)
	s := &channelSink{
		name:   name,
		ch:     ch,
		closed: make(chan struct{}),
	}
	return s, ch, func() { s.close() }
}

type callbackSink struct {
	name     string
	onSample SampleFunc
	onEvent  EventFunc
}

func (s *callbackSink) WriteSample(sample *domain.TelemetrySample) error {
	if s.onSample == nil {
		return fmt.Errorf("callback sink %q: nil sample handler", s.name)
	}
	return s.onSample(*sample)
}

func (s *callbackSink) WriteEvent(msg string) error {
	if s.onEvent == nil {
		return nil
	}
	return s.onEvent(msg)
}

func (s *callbackSink) Name() string { return s.name }

type channelSink struct {
	name   string
	ch     chan TelemetrySample
	closed chan struct{}
	once   sync.Once
}

func (s *channelSink) WriteSample(sample *domain.TelemetrySample) error {
	select {
	case <-s.closed:
		return ErrChannelSinkClosed
	default:
	}

	select {
	case <-s.closed:
		return ErrChannelSinkClosed
	case s.ch <- *sample:
		return nil
	}
}

func (s *channelSink) WriteEvent(msg string) error {
	select {
	case <-s.closed:
		return ErrChannelSinkClosed
	default:
		return nil
	}
}

func (s *channelSink) Name() string { return s.name }

func (s *channelSink) close() {
	s.once.Do(func() {
		close(s.closed)
		close(s.ch)
	})
}
