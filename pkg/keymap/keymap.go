// Package keymap translates raw key input into calculator actions. It is the
// input adapter between keyboards, buttons or scripted key sequences and a
// calculator.Engine; the engine itself never sees key names.
package keymap

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/germanamz/tally/pkg/calculator"
)

// ActionKind identifies an engine operation.
type ActionKind int

const (
	ActionDigit ActionKind = iota + 1
	ActionDecimal
	ActionOperator
	ActionEvaluate
	ActionClear
	ActionDelete
)

var actionKindNames = map[ActionKind]string{
	ActionDigit:    "digit",
	ActionDecimal:  "decimal",
	ActionOperator: "operator",
	ActionEvaluate: "evaluate",
	ActionClear:    "clear",
	ActionDelete:   "delete",
}

func (k ActionKind) String() string {
	if name, ok := actionKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ActionKind(%d)", int(k))
}

// Action is a single engine operation decoded from input.
type Action struct {
	Kind     ActionKind
	Digit    byte                // Set for ActionDigit.
	Operator calculator.Operator // Set for ActionOperator.
}

// String renders the action as its canonical key.
func (a Action) String() string {
	switch a.Kind {
	case ActionDigit:
		return string([]byte{a.Digit})
	case ActionDecimal:
		return "."
	case ActionOperator:
		return a.Operator.String()
	case ActionEvaluate:
		return "="
	case ActionClear:
		return "C"
	case ActionDelete:
		return "⌫"
	}
	return a.Kind.String()
}

// namedKeys maps lower-cased key names, in both browser (KeyboardEvent.key)
// and terminal spellings, to actions.
var namedKeys = map[string]Action{
	"enter":     {Kind: ActionEvaluate},
	"return":    {Kind: ActionEvaluate},
	"escape":    {Kind: ActionClear},
	"esc":       {Kind: ActionClear},
	"delete":    {Kind: ActionClear},
	"backspace": {Kind: ActionDelete},
}

// Translate maps a key name to an action. The boolean reports whether the
// key was consumed; hosts should suppress default handling for consumed
// keys and pass everything else through.
func Translate(key string) (Action, bool) {
	if len(key) == 1 {
		return translateRune(rune(key[0]))
	}

	if a, ok := namedKeys[strings.ToLower(key)]; ok {
		return a, true
	}

	return Action{}, false
}

func translateRune(r rune) (Action, bool) {
	switch {
	case r >= '0' && r <= '9':
		return Action{Kind: ActionDigit, Digit: byte(r)}, true
	case r == '.' || r == ',':
		return Action{Kind: ActionDecimal}, true
	case r == '=':
		return Action{Kind: ActionEvaluate}, true
	case r == '+' || r == '-' || r == '*' || r == '/':
		op, _ := calculator.ParseOperator(string(r))
		return Action{Kind: ActionOperator, Operator: op}, true
	}
	return Action{}, false
}

// Apply performs a on e.
func Apply(e *calculator.Engine, a Action) {
	switch a.Kind {
	case ActionDigit:
		e.AppendDigit(a.Digit)
	case ActionDecimal:
		e.AppendDecimalPoint()
	case ActionOperator:
		e.SetOperator(a.Operator)
	case ActionEvaluate:
		e.Evaluate()
	case ActionClear:
		e.Clear()
	case ActionDelete:
		e.DeleteLastCharacter()
	}
}

// Parse decodes a compact key sequence such as "12+3=" into actions. Besides
// the single-character keys understood by Translate it accepts "C" (clear),
// "<" (backspace) and the operator glyphs; whitespace is ignored.
func Parse(keys string) ([]Action, error) {
	actions := make([]Action, 0, len(keys))

	for i, r := range keys {
		if unicode.IsSpace(r) {
			continue
		}

		if a, ok := translateRune(r); ok {
			actions = append(actions, a)
			continue
		}

		switch r {
		case 'C', 'c':
			actions = append(actions, Action{Kind: ActionClear})
			continue
		case '<':
			actions = append(actions, Action{Kind: ActionDelete})
			continue
		}

		if op, ok := calculator.ParseOperator(string(r)); ok {
			actions = append(actions, Action{Kind: ActionOperator, Operator: op})
			continue
		}

		return nil, fmt.Errorf("keymap: unknown key %q at offset %d", r, i)
	}

	return actions, nil
}
