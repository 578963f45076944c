// Package calculator implements a four-function calculator engine. The
// Engine accepts digit, decimal point, operator, equals, clear and delete
// input and keeps the display text, a pending operand and a pending
// operator. There is no operator precedence: each operator press evaluates
// the outstanding pair before queuing itself.
//
// The display value is an Entry: either a NumericEntry under construction or
// an ErrorEntry produced by division by zero. Engines never panic or return
// errors from their mutation methods.
package calculator
