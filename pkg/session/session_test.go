package session

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/germanamz/tally/pkg/keymap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is a Display that keeps every rendered frame.
type recorder struct {
	frames []string
}

func (r *recorder) Render(text string) { r.frames = append(r.frames, text) }

func TestNew_Defaults(t *testing.T) {
	s := New(Options{ID: "s1"})

	assert.Equal(t, "s1", s.ID())
	assert.Equal(t, "0", s.Display())
	assert.NotNil(t, s.Events())
	assert.Equal(t, 15, s.Engine().MaxDigits())
}

func TestBind_RendersImmediately(t *testing.T) {
	s := New(Options{})
	rec := &recorder{}

	s.Bind(rec)

	assert.Equal(t, []string{"0"}, rec.frames)
}

func TestPress_RendersEveryMutation(t *testing.T) {
	s := New(Options{})
	rec := &recorder{}
	s.Bind(rec)

	for _, key := range []string{"5", "+", "3", "Enter"} {
		assert.True(t, s.Press(key))
	}

	assert.Equal(t, []string{"0", "5", "5", "3", "8"}, rec.frames)
}

func TestPress_UnknownKeyNotConsumed(t *testing.T) {
	s := New(Options{})
	rec := &recorder{}
	s.Bind(rec)

	assert.False(t, s.Press("Tab"))
	assert.Equal(t, []string{"0"}, rec.frames)
}

func TestBind_MultipleDisplays(t *testing.T) {
	s := New(Options{})
	var got string
	rec := &recorder{}
	s.Bind(rec)
	s.Bind(DisplayFunc(func(text string) { got = text }))

	s.Press("7")

	assert.Equal(t, "7", got)
	assert.Equal(t, []string{"0", "7"}, rec.frames)
}

func TestDo_PublishesEvents(t *testing.T) {
	s := New(Options{ID: "s1"})
	sub := s.Events().Subscribe(16)
	defer s.Events().Unsubscribe(sub)

	require.NoError(t, s.Run(context.Background(), "5/0="))

	var kinds []EventKind
	var last Event
	for len(sub.C) > 0 {
		last = <-sub.C
		kinds = append(kinds, last.Kind)
	}

	assert.Equal(t, []EventKind{
		EventDisplayChanged,
		EventDisplayChanged,
		EventDisplayChanged,
		EventDisplayChanged,
		EventError,
	}, kinds)
	assert.Equal(t, "Error", last.Display)
	assert.Equal(t, "=", last.Action)
	assert.Equal(t, "s1", last.SessionID)
}

func TestDo_ClearPublishesCleared(t *testing.T) {
	s := New(Options{})
	sub := s.Events().Subscribe(4)
	defer s.Events().Unsubscribe(sub)

	s.Do(keymap.Action{Kind: keymap.ActionClear})

	assert.Equal(t, EventDisplayChanged, (<-sub.C).Kind)
	assert.Equal(t, EventCleared, (<-sub.C).Kind)
}

func TestRun(t *testing.T) {
	s := New(Options{})
	require.NoError(t, s.Run(context.Background(), "1+2*3="))
	assert.Equal(t, "9", s.Display())
}

func TestRun_ParseErrorAppliesNothing(t *testing.T) {
	s := New(Options{})
	err := s.Run(context.Background(), "12?")
	require.Error(t, err)
	assert.Equal(t, "0", s.Display())
}

func TestRun_CancelledContext(t *testing.T) {
	s := New(Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Run(ctx, "123")
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "0", s.Display())
}

func TestDo_LogsErrors(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s := New(Options{ID: "calc", Logger: log})
	require.NoError(t, s.Run(context.Background(), "1/0="))

	out := buf.String()
	assert.Contains(t, out, "calculation error")
	assert.Contains(t, out, "session=calc")
	assert.Contains(t, out, "display=Error")
}

func TestNew_SharedEventBus(t *testing.T) {
	bus := NewEventBus()
	sub := bus.Subscribe(4)
	defer bus.Unsubscribe(sub)

	a := New(Options{ID: "a", Events: bus})
	b := New(Options{ID: "b", Events: bus})
	a.Press("1")
	b.Press("2")

	assert.Equal(t, "a", (<-sub.C).SessionID)
	assert.Equal(t, "b", (<-sub.C).SessionID)
}
