package kinet

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrUnknownName indicates a species or parameter name outside the
	// network's identifier set.
	ErrUnknownName = errors.New("kinet: unknown species or parameter")

	// ErrDiverged indicates the integrator produced NaN/Inf concentrations.
	ErrDiverged = errors.New("kinet: integration diverged")

	// ErrTimeout indicates a run exceeded its caller-set budget.
	ErrTimeout = errors.New("kinet: simulation exceeded time budget")

	// ErrBadSpan indicates a malformed integration window.
	ErrBadSpan = errors.New("kinet: invalid time span or sample count")

	// ErrNoOverlap indicates two series share no channels or time range.
	ErrNoOverlap = errors.New("kinet: series have no common channels or time range")
)

// ConfigError reports a caller mistake found while validating a scenario:
// an override naming an unknown identifier, or a malformed phase window.
type ConfigError struct {
	Phase int
	Name  string
	Cause error
}

func (e *ConfigError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("phase %d: %q: %v", e.Phase, e.Name, e.Cause)
	}
	return fmt.Sprintf("phase %d: %v", e.Phase, e.Cause)
}

func (e *ConfigError) Unwrap() error { return e.Cause }

// DivergedError reports a numerical failure mid-run. Partial holds the
// trajectory up to LastTime so callers can still inspect it.
type DivergedError struct {
	Phase    int
	LastTime float64
	Partial  *Series
}

func (e *DivergedError) Error() string {
	return fmt.Sprintf("phase %d: diverged at t=%.4f: %v", e.Phase, e.LastTime, ErrDiverged)
}

func (e *DivergedError) Unwrap() error { return ErrDiverged }

// TimeoutError reports that the integration budget ran out at LastTime.
type TimeoutError struct {
	LastTime float64
	Cause    error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("canceled at t=%.4f: %v", e.LastTime, ErrTimeout)
}

func (e *TimeoutError) Unwrap() error { return ErrTimeout }

// ComparisonError reports that two series cannot be aligned.
type ComparisonError struct {
	Reason string
}

func (e *ComparisonError) Error() string {
	return fmt.Sprintf("compare: %s: %v", e.Reason, ErrNoOverlap)
}

func (e *ComparisonError) Unwrap() error { return ErrNoOverlap }
