// Package cferr defines the single enumerated error kind returned across
// the wavelet engine, with reserved sub-ranges for pass-through errors
// from collaborating subsystems (bit-stream container, entropy coder).
package cferr

import "fmt"

// Code identifies the class of failure. Zero value is never returned by
// the engine; it exists only as the unset state of a Code variable.
type Code int

const (
	_ Code = iota

	// BadArgument marks a precondition violation: out-of-range index,
	// nil pointer where required, inconsistent wavelet shape. Callers
	// must not retry without changing the call.
	BadArgument
	// NullPointer marks a required pointer/slice argument that was nil.
	NullPointer
	// Unexpected marks an internal invariant violated by caller misuse.
	Unexpected

	// OutOfMemory marks a slab or scratch allocation failure.
	OutOfMemory
	// TransformMemory marks a scratch buffer smaller than the transform
	// requires for its configured topology and dimensions.
	TransformMemory

	// BandFileRead marks a short read or malformed chunk on the band
	// file read path.
	BandFileRead
	// BandFileWrite marks a write failure on the band file write path.
	BandFileWrite

	// BadFormat marks an unsupported ingest pixel format.
	BadFormat
	// InvalidFormat marks an unsupported topology or precision.
	InvalidFormat

	// passThroughBase is the first code in the reserved pass-through
	// range. Codes at or above this value carry a subsystem tag in the
	// high bits (see PassThrough).
	passThroughBase Code = 1 << 16
)

// subsystemShift places the subsystem tag above any realistic inner
// error code so the pair round-trips through a single Code value.
const subsystemShift = 8

// Subsystem identifies the collaborator that produced a pass-through
// error embedded in a Code.
type Subsystem int

const (
	// SubsystemBitstream tags errors from the bit-stream container.
	SubsystemBitstream Subsystem = iota + 1
	// SubsystemEntropy tags errors from the entropy coder.
	SubsystemEntropy
)

// PassThrough builds a Code that embeds a collaborator's own error code
// inside the reserved pass-through range, so the top bits identify the
// originating subsystem without losing the inner value.
func PassThrough(sub Subsystem, inner int) Code {
	return passThroughBase + Code(sub)<<subsystemShift + Code(inner)
}

// Subsystem reports which collaborator produced c, or 0 if c is not a
// pass-through code.
func (c Code) Subsystem() Subsystem {
	if c < passThroughBase {
		return 0
	}
	return Subsystem((c - passThroughBase) >> subsystemShift)
}

func (c Code) String() string {
	switch c {
	case BadArgument:
		return "BadArgument"
	case NullPointer:
		return "NullPointer"
	case Unexpected:
		return "Unexpected"
	case OutOfMemory:
		return "OutOfMemory"
	case TransformMemory:
		return "TransformMemory"
	case BandFileRead:
		return "BandFileRead"
	case BandFileWrite:
		return "BandFileWrite"
	case BadFormat:
		return "BadFormat"
	case InvalidFormat:
		return "InvalidFormat"
	}
	if c >= passThroughBase {
		return fmt.Sprintf("PassThrough(subsystem=%d)", c.Subsystem())
	}
	return fmt.Sprintf("Code(%d)", int(c))
}

// Error is the single error type returned at every boundary of the
// engine. It carries a Code and an optional wrapped cause.
type Error struct {
	Code Code
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Code)
}

// Unwrap exposes the wrapped cause to errors.Is / errors.As.
func (e *Error) Unwrap() error { return e.Err }

// New builds an Error with no wrapped cause.
func New(op string, code Code) *Error {
	return &Error{Op: op, Code: code}
}

// Wrap builds an Error that wraps an existing cause.
func Wrap(op string, code Code, err error) *Error {
	return &Error{Op: op, Code: code, Err: err}
}
