// Package session hosts a calculator engine for display adapters. A Session
// owns exactly one explicitly constructed calculator.Engine, applies decoded
// key actions to it, and after every action renders the display to each
// bound Display and publishes an Event. Sessions are not safe for concurrent
// use; hosts that share one across goroutines must serialize access.
package session

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/germanamz/tally/pkg/calculator"
	"github.com/germanamz/tally/pkg/keymap"
)

// Display is an output surface for the calculator display text.
type Display interface {
	Render(text string)
}

// DisplayFunc adapts a plain function to the Display interface.
type DisplayFunc func(text string)

// Render calls the underlying function.
func (f DisplayFunc) Render(text string) { f(text) }

// Options configures a Session.
type Options struct {
	ID        string       // Reported in events and logs.
	MaxDigits int          // Passed to the engine (0 = calculator.DefaultMaxDigits).
	Logger    *slog.Logger // Nil discards logs.
	Events    *EventBus    // Nil creates a private bus.
}

// Session binds a calculator engine to displays and observers.
type Session struct {
	id       string
	engine   *calculator.Engine
	displays []Display
	events   *EventBus
	log      *slog.Logger
}

// New creates a Session with a fresh engine.
func New(opts Options) *Session {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	events := opts.Events
	if events == nil {
		events = NewEventBus()
	}

	return &Session{
		id:     opts.ID,
		engine: calculator.New(calculator.Options{MaxDigits: opts.MaxDigits}),
		events: events,
		log:    log.With("session", opts.ID),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Engine returns the underlying engine for read-only inspection. Mutations
// should go through the session so displays stay in sync.
func (s *Session) Engine() *calculator.Engine { return s.engine }

// Events returns the session's event bus.
func (s *Session) Events() *EventBus { return s.events }

// Display returns the current display text.
func (s *Session) Display() string { return s.engine.Display() }

// Bind attaches d and renders the current display to it immediately.
func (s *Session) Bind(d Display) {
	s.displays = append(s.displays, d)
	d.Render(s.engine.Display())
}

// Press translates a raw key name and applies it. It reports whether the
// key was consumed.
func (s *Session) Press(key string) bool {
	a, ok := keymap.Translate(key)
	if !ok {
		s.log.Debug("key ignored", "key", key)
		return false
	}

	s.Do(a)

	return true
}

// Do applies a to the engine, then syncs displays and publishes events.
func (s *Session) Do(a keymap.Action) {
	keymap.Apply(s.engine, a)

	text := s.engine.Display()
	for _, d := range s.displays {
		d.Render(text)
	}

	e := Event{
		Kind:      EventDisplayChanged,
		SessionID: s.id,
		Action:    a.String(),
		Display:   text,
		Timestamp: time.Now(),
	}
	s.events.Publish(e)

	switch {
	case calculator.IsError(s.engine.Entry()):
		e.Kind = EventError
		s.events.Publish(e)
		s.log.Warn("calculation error", "action", e.Action, "display", text)
	case a.Kind == keymap.ActionClear:
		e.Kind = EventCleared
		s.events.Publish(e)
		s.log.Debug("action", "action", e.Action, "display", text)
	default:
		s.log.Debug("action", "action", e.Action, "display", text)
	}
}

// Run parses a compact key sequence (see keymap.Parse) and applies every
// action in order. Nothing is applied when the sequence does not parse.
func (s *Session) Run(ctx context.Context, keys string) error {
	actions, err := keymap.Parse(keys)
	if err != nil {
		return err
	}

	for _, a := range actions {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.Do(a)
	}

	return nil
}
