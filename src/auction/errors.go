package auction

import (
	"errors"
	"fmt"
)

// Error kinds. The engine surfaces exactly one terminal result per
// invocation: a complete journal, or a single error wrapping one of these
// sentinels. Callers dispatch with errors.Is.
var (
	// ErrMalformedInput marks input rejected before any computation.
	ErrMalformedInput = errors.New("malformed auction input")
	// ErrOverflow marks an addition or multiplication that would exceed
	// uint64. Wrapping would silently break conservation, so it is fatal.
	ErrOverflow = errors.New("arithmetic overflow")
	// ErrInfeasible marks an allocation a participant's balance cannot
	// cover. The clearing policy clamps against balances, so reaching
	// settlement with an infeasible allocation means a broken policy.
	ErrInfeasible = errors.New("infeasible allocation")
	// ErrConservation marks a failed post-settlement conservation check.
	// This is an algorithmic defect, never a property of the input, and is
	// kept distinguishable from the valid empty-match result.
	ErrConservation = errors.New("conservation violated")
)

// EngineError wraps a sentinel kind with detail.
type EngineError struct {
	Kind error
	Msg  string
}

func (e *EngineError) Error() string {
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *EngineError) Unwrap() error { return e.Kind }

func malformedf(format string, args ...any) error {
	return &EngineError{Kind: ErrMalformedInput, Msg: fmt.Sprintf(format, args...)}
}

func overflowf(format string, args ...any) error {
	return &EngineError{Kind: ErrOverflow, Msg: fmt.Sprintf(format, args...)}
}

func infeasiblef(format string, args ...any) error {
	return &EngineError{Kind: ErrInfeasible, Msg: fmt.Sprintf(format, args...)}
}

func conservationf(format string, args ...any) error {
	return &EngineError{Kind: ErrConservation, Msg: fmt.Sprintf(format, args...)}
}
