// Package container parses EDSK/DSK floppy disk container images into an
// indexed representation of tracks and sectors.
package container

import "github.com/pkg/errors"

// Kind identifies the class of failure a container parse raised, mirroring
// the error table every caller (CLI, cache, higher-level filesystem code)
// needs to branch on.
type Kind int

const (
	// KindEmptyImage means the source buffer had zero length.
	KindEmptyImage Kind = iota
	// KindUnknownSignature means the 34-byte header didn't match DSK or EDSK.
	KindUnknownSignature
	// KindInvalidGeometry means the tracks or sides byte was zero.
	KindInvalidGeometry
	// KindOutOfBounds means a track's declared size ran past end of file.
	KindOutOfBounds
	// KindTrackHeaderTooSmall means a track's declared size was under 256 bytes.
	KindTrackHeaderTooSmall
)

func (k Kind) String() string {
	switch k {
	case KindEmptyImage:
		return "EmptyImage"
	case KindUnknownSignature:
		return "UnknownSignature"
	case KindInvalidGeometry:
		return "InvalidGeometry"
	case KindOutOfBounds:
		return "OutOfBounds"
	case KindTrackHeaderTooSmall:
		return "TrackHeaderTooSmall"
	default:
		return "Unknown"
	}
}

// Error is the error type every Parse failure returns. It carries a Kind so
// callers can classify the failure without string matching, and wraps an
// underlying cause via github.com/pkg/errors for stack-annotated diagnostics.
type Error struct {
	Kind Kind
	msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.msg + ": " + e.Err.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, msg string) error {
	return errors.WithStack(&Error{Kind: kind, msg: msg})
}

func wrapError(kind Kind, msg string, cause error) error {
	return errors.WithStack(&Error{Kind: kind, msg: msg, Err: cause})
}

// KindOf extracts the Kind from err if it (or something it wraps) is a
// *Error, with ok=false otherwise.
func KindOf(err error) (Kind, bool) {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind, true
	}
	return 0, false
}
