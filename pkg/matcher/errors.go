package matcher

import (
	"errors"
	"fmt"

	"github.com/runescan/runescan/pkg/types"
)

var (
	// ErrClosed is returned when a Database or Scanner is used after Close,
	// including a second Close.
	ErrClosed = errors.New("already closed")
	// ErrNoExpressions is returned when Compile is called with an empty
	// expression set.
	ErrNoExpressions = errors.New("no expressions to compile")
	// ErrNoScratch is returned when Scan runs before AllocScratch.
	ErrNoScratch = errors.New("scratch space not allocated")
)

// CompileError reports that the native engine rejected a pattern set.
// Expression identifies the offending expression when it can be determined,
// otherwise it is nil.
type CompileError struct {
	Expression *types.Expression
	Err        error
}

func (e *CompileError) Error() string {
	if e.Expression != nil {
		return fmt.Sprintf("compiling expression %s: %v", e.Expression, e.Err)
	}
	return fmt.Sprintf("compiling expressions: %v", e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// NativeError wraps a non-zero status from a native engine call. The wrapped
// error is the engine's own status value and stays reachable through
// errors.Unwrap.
type NativeError struct {
	Op  string
	Err error
}

func (e *NativeError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *NativeError) Unwrap() error { return e.Err }
