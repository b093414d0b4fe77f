package sim

import "fmt"

// Kind tags a Error by the policy its caller should apply (§7 of the spec).
type Kind int

const (
	// KindConfiguration covers invalid tissue dimensions, non-positive
	// minutes/epsilon/runs, bad gradient syntax, rate index out of range.
	KindConfiguration Kind = iota
	// KindIO covers unreadable input, oversized files, short reads, and
	// output directory/file failures.
	KindIO
	// KindResource covers allocation failure.
	KindResource
	// KindSimulation covers negativity and propensity-cap aborts. Fatal to
	// the current parameter set only.
	KindSimulation
	// KindAcceptance covers a mutant predicate failing. Not an error in the
	// Go sense - callers use this kind to log a rejection, not to abort.
	KindAcceptance
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindIO:
		return "io"
	case KindResource:
		return "resource"
	case KindSimulation:
		return "simulation"
	case KindAcceptance:
		return "acceptance"
	default:
		return "unknown"
	}
}

// Error is the tagged error type threaded through every core boundary.
// Configuration/IO/resource kinds are fatal to the process; simulation kind
// aborts only the current parameter set; acceptance kind carries no process
// significance at all (§9 "Exceptions/aborts").
type Error struct {
	Kind   Kind
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

// Fatal reports whether the error kind should terminate the process (as
// opposed to aborting only the current parameter set or mutant run).
func (e *Error) Fatal() bool {
	switch e.Kind {
	case KindConfiguration, KindIO, KindResource:
		return true
	default:
		return false
	}
}

func newErr(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Reason: fmt.Sprintf(format, args...)}
}

// ExitCode maps a fatal Error to the process exit code contract in §6.
func (e *Error) ExitCode() int {
	switch e.Kind {
	case KindConfiguration, KindIO:
		return 1
	case KindResource:
		return 2
	default:
		return 1
	}
}
