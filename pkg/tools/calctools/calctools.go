// Package calctools binds a calculator session to toolbox tools so that
// programmatic clients (MCP, tests) can drive it with key sequences.
package calctools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/germanamz/tally/pkg/calculator"
	"github.com/germanamz/tally/pkg/keymap"
	"github.com/germanamz/tally/pkg/session"
	"github.com/germanamz/tally/pkg/tools/toolbox"
)

var keysSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"keys": {
			"type": "string",
			"description": "Key sequence: digits, '.', + - * /, '=' to evaluate, 'C' to clear, '<' to delete the last character"
		}
	},
	"required": ["keys"]
}`)

var emptySchema = json.RawMessage(`{"type":"object"}`)

// Calculator exposes one shared session as tools. Tool handlers may run
// concurrently; access to the session is serialized.
type Calculator struct {
	mu   sync.Mutex
	sess *session.Session
}

// New wraps sess.
func New(sess *session.Session) *Calculator {
	return &Calculator{sess: sess}
}

// State is the JSON shape returned by the state tool.
type State struct {
	Display            string   `json:"display"`
	Error              bool     `json:"error"`
	PendingOperand     *float64 `json:"pending_operand,omitempty"`
	PendingOperator    string   `json:"pending_operator,omitempty"`
	AwaitingFreshEntry bool     `json:"awaiting_fresh_entry"`
}

// Tools returns the calculator tools.
func (c *Calculator) Tools() []toolbox.Tool {
	return []toolbox.Tool{
		{
			Name:        "press",
			Description: "Press keys on the shared calculator and return the display.",
			InputSchema: keysSchema,
			Handler:     c.press,
		},
		{
			Name:        "calculate",
			Description: "Run keys on a fresh calculator and return the final display. The shared calculator is not touched.",
			InputSchema: keysSchema,
			Handler:     c.calculate,
		},
		{
			Name:        "display",
			Description: "Return the shared calculator display.",
			InputSchema: emptySchema,
			Handler:     c.display,
		},
		{
			Name:        "state",
			Description: "Return the shared calculator display and pending operation as JSON.",
			InputSchema: emptySchema,
			Handler:     c.state,
		},
		{
			Name:        "clear",
			Description: "Clear the shared calculator.",
			InputSchema: emptySchema,
			Handler:     c.clear,
		},
	}
}

type keysInput struct {
	Keys string `json:"keys"`
}

func decodeKeys(input json.RawMessage) (string, error) {
	var in keysInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", fmt.Errorf("calctools: invalid input: %w", err)
	}
	if in.Keys == "" {
		return "", errors.New("calctools: keys is required")
	}
	return in.Keys, nil
}

func (c *Calculator) press(ctx context.Context, input json.RawMessage) (string, error) {
	keys, err := decodeKeys(input)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.sess.Run(ctx, keys); err != nil {
		return "", err
	}

	return c.sess.Display(), nil
}

func (c *Calculator) calculate(ctx context.Context, input json.RawMessage) (string, error) {
	keys, err := decodeKeys(input)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	maxDigits := c.sess.Engine().MaxDigits()
	c.mu.Unlock()

	scratch := session.New(session.Options{ID: "calculate", MaxDigits: maxDigits})
	if err := scratch.Run(ctx, keys); err != nil {
		return "", err
	}

	return scratch.Display(), nil
}

func (c *Calculator) display(_ context.Context, _ json.RawMessage) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.sess.Display(), nil
}

func (c *Calculator) state(_ context.Context, _ json.RawMessage) (string, error) {
	c.mu.Lock()
	eng := c.sess.Engine()
	st := State{
		Display:            eng.Display(),
		Error:              calculator.IsError(eng.Entry()),
		AwaitingFreshEntry: eng.AwaitingFreshEntry(),
	}
	if operand, op, ok := eng.Pending(); ok {
		st.PendingOperand = &operand
		st.PendingOperator = op.String()
	}
	c.mu.Unlock()

	data, err := json.Marshal(st)
	if err != nil {
		return "", fmt.Errorf("calctools: encode state: %w", err)
	}

	return string(data), nil
}

func (c *Calculator) clear(_ context.Context, _ json.RawMessage) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sess.Do(keymap.Action{Kind: keymap.ActionClear})

	return c.sess.Display(), nil
}
