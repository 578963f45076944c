package calculator

// DefaultMaxDigits bounds the number of significant digits a typed entry may
// hold.
const DefaultMaxDigits = 15

// MaxDigitsLimit is the largest usable cap. Every integer of up to 15
// decimal digits is below 2^53 and survives float64 parsing exactly.
const MaxDigitsLimit = 15

// Options configures an Engine.
type Options struct {
	MaxDigits int // Significant digit cap for typed entries (0 = DefaultMaxDigits, clamped to MaxDigitsLimit).
}

// Engine is the calculator state machine. It evaluates strictly left to
// right: every operator press first resolves any outstanding pair. An Engine
// is not safe for concurrent use.
type Engine struct {
	entry         Entry
	operand       float64
	hasOperand    bool
	operator      Operator
	awaitingFresh bool
	maxDigits     int
}

// New creates an Engine in the reset state.
func New(opts Options) *Engine {
	maxDigits := opts.MaxDigits
	if maxDigits <= 0 {
		maxDigits = DefaultMaxDigits
	}
	maxDigits = min(maxDigits, MaxDigitsLimit)

	e := &Engine{maxDigits: maxDigits}
	e.Clear()

	return e
}

// Display returns the text currently shown.
func (e *Engine) Display() string { return e.entry.Text() }

// Entry returns the current entry.
func (e *Engine) Entry() Entry { return e.entry }

// Pending returns the pending operand and operator. ok is false when no
// operand is held.
func (e *Engine) Pending() (operand float64, op Operator, ok bool) {
	return e.operand, e.operator, e.hasOperand
}

// AwaitingFreshEntry reports whether the next digit starts a new entry.
func (e *Engine) AwaitingFreshEntry() bool { return e.awaitingFresh }

// MaxDigits returns the significant digit cap.
func (e *Engine) MaxDigits() int { return e.maxDigits }

// AppendDigit adds d ('0'..'9') to the entry. A lone "0" is replaced rather
// than extended, and digits beyond the cap are dropped. It returns false,
// leaving the state unchanged, when d is not a digit.
func (e *Engine) AppendDigit(d byte) bool {
	if d < '0' || d > '9' {
		return false
	}

	cur, numeric := e.entry.(NumericEntry)
	if e.awaitingFresh || !numeric {
		e.entry = NumericEntry([]byte{d})
		e.awaitingFresh = false
		return true
	}

	switch {
	case cur == "0":
		e.entry = NumericEntry([]byte{d})
	case cur.digits() >= e.maxDigits:
		// Dropped.
	default:
		e.entry = cur + NumericEntry([]byte{d})
	}
	return true
}

// AppendDecimalPoint adds a decimal point unless the entry already has one.
func (e *Engine) AppendDecimalPoint() {
	cur, numeric := e.entry.(NumericEntry)
	if e.awaitingFresh || !numeric {
		e.entry = NumericEntry("0.")
		e.awaitingFresh = false
		return
	}

	for i := 0; i < len(cur); i++ {
		if cur[i] == '.' {
			return
		}
	}
	e.entry = cur + "."
}

// SetOperator queues op. If an operand and operator are already pending and
// a new entry has been typed, the pair is evaluated first and its result
// becomes the new operand. Pressing an operator again before typing only
// replaces the pending operator.
//
// While the display shows an error the press is ignored; the next digit
// starts a fresh entry.
func (e *Engine) SetOperator(op Operator) {
	cur, numeric := e.entry.(NumericEntry)
	if !numeric {
		return
	}
	value := cur.Value()

	switch {
	case !e.hasOperand:
		e.operand = value
		e.hasOperand = true
	case e.operator == None:
		e.operand = value
	case !e.awaitingFresh:
		result, err := Combine(e.operand, value, e.operator)
		e.entry = resultEntry(result, err)
		if IsError(e.entry) {
			e.clearPending()
			e.awaitingFresh = true
			return
		}
		e.operand = result
	}

	e.operator = op
	e.awaitingFresh = true
}

// Evaluate combines the pending operand with the current entry. It is a
// no-op when no operator is pending.
func (e *Engine) Evaluate() {
	cur, numeric := e.entry.(NumericEntry)
	if !numeric || !e.hasOperand || e.operator == None {
		return
	}

	result, err := Combine(e.operand, cur.Value(), e.operator)
	e.entry = resultEntry(result, err)
	e.clearPending()
	e.awaitingFresh = true
}

// Clear resets the engine to its initial state.
func (e *Engine) Clear() {
	e.entry = NumericEntry("0")
	e.clearPending()
	e.awaitingFresh = false
}

// DeleteLastCharacter removes the last character of the entry. Entries that
// would become empty or a bare sign, error entries and exponent-form results
// become "0"; an exponent literal has no meaningful prefix.
func (e *Engine) DeleteLastCharacter() {
	cur, numeric := e.entry.(NumericEntry)
	if !numeric || len(cur) <= 1 || cur.exponent() {
		e.entry = NumericEntry("0")
		return
	}

	next := cur[:len(cur)-1]
	if next == "-" || next == "-0" {
		next = "0"
	}
	e.entry = next
}

func (e *Engine) clearPending() {
	e.operand = 0
	e.hasOperand = false
	e.operator = None
}
