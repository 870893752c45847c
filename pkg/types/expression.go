package types

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrEmptyPattern is returned when an Expression is constructed without a
// pattern.
var ErrEmptyPattern = errors.New("expression pattern must not be empty")

// Expression is a single pattern together with a numeric id and compile
// flags. It is immutable after construction and cheap to share across
// goroutines.
type Expression struct {
	pattern string
	id      int
	flags   Flag
}

// NewExpression builds an expression with id 0.
func NewExpression(pattern string, flags Flag) (*Expression, error) {
	return NewExpressionWithID(pattern, 0, flags)
}

// NewExpressionWithID builds an expression with an explicit id. The id is
// reported back by the engine on every match of this expression.
func NewExpressionWithID(pattern string, id int, flags Flag) (*Expression, error) {
	if pattern == "" {
		return nil, ErrEmptyPattern
	}
	return &Expression{pattern: pattern, id: id, flags: flags}, nil
}

// Pattern returns the regular expression text.
func (e *Expression) Pattern() string { return e.pattern }

// ID returns the numeric pattern id.
func (e *Expression) ID() int { return e.id }

// Flags returns the compile flag set.
func (e *Expression) Flags() Flag { return e.flags }

// Equal reports whether two expressions have the same pattern, id and flags.
func (e *Expression) Equal(o *Expression) bool {
	if e == nil || o == nil {
		return e == o
	}
	return e.pattern == o.pattern && e.id == o.id && e.flags == o.flags
}

func (e *Expression) String() string {
	return fmt.Sprintf("%d:/%s/%s", e.id, e.pattern, e.flags)
}

type expressionJSON struct {
	Pattern string `json:"pattern"`
	ID      int    `json:"id"`
	Flags   uint   `json:"flags"`
}

// MarshalJSON serializes the expression for database metadata.
func (e *Expression) MarshalJSON() ([]byte, error) {
	return json.Marshal(expressionJSON{Pattern: e.pattern, ID: e.id, Flags: uint(e.flags)})
}

// UnmarshalJSON restores an expression from database metadata. The same
// construction rules apply: an empty pattern is rejected.
func (e *Expression) UnmarshalJSON(data []byte) error {
	var ej expressionJSON
	if err := json.Unmarshal(data, &ej); err != nil {
		return err
	}
	if ej.Pattern == "" {
		return ErrEmptyPattern
	}
	e.pattern = ej.Pattern
	e.id = ej.ID
	e.flags = Flag(ej.Flags)
	return nil
}

// ValidationResult reports whether the native engine accepts a single
// expression. An invalid pattern is a normal outcome, not an error: Error
// carries the engine's diagnostic text when Valid is false.
type ValidationResult struct {
	Valid bool
	Error string
}
