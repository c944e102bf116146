// Package errs defines the sentinel errors returned across vdoc's
// constructor-level and boundary-level failures (SPEC_FULL.md §2.3).
// Callers compare against these with errors.Is; every non-boolean
// operation that fails wraps one of them with fmt.Errorf("%w: ...")
// to add context.
package errs

import "errors"

var (
	// ErrInvalidMode is returned when a Document is constructed with a
	// Mode outside {ReadOnly, ReadWrite, Copy}.
	ErrInvalidMode = errors.New("invalid document mode")

	// ErrCorruptEncoding is returned when the codec or iteration engine
	// encounters a tag byte it does not recognize, or a byte_size/count
	// header that runs past the end of the buffer.
	ErrCorruptEncoding = errors.New("corrupt document encoding")

	// ErrReadOnly is returned when a mutating operation (MakeSpace,
	// RemoveSpace, Insert, Add) is attempted on a buffer or Document
	// opened in ReadOnly mode.
	ErrReadOnly = errors.New("document is read-only")

	// ErrWrongKind is returned when an accessor is called against a
	// value of the wrong Kind, e.g. AsString on an Integer.
	ErrWrongKind = errors.New("value has the wrong kind")

	// ErrPathNotFound is returned when a path lookup fails: by
	// Document.Get for a path that does not resolve, and by Filter when
	// document.Force is set and a target has no match.
	ErrPathNotFound = errors.New("path not found")

	// ErrMaxDepthExceeded is returned when the merger's descent, through
	// existing or auto-created containers, would exceed document.WithMaxDepth.
	ErrMaxDepthExceeded = errors.New("maximum nesting depth exceeded")

	// ErrWriterClosed is returned when a Writer method is called after
	// the writer has already produced its final document (Done).
	ErrWriterClosed = errors.New("writer is closed")

	// ErrUnbalancedContainer is returned when EndMap/EndArray is called
	// without a matching open container of that kind.
	ErrUnbalancedContainer = errors.New("unbalanced map/array nesting")

	// ErrNotContainer is returned when a path or index operation expects
	// a Map or Array but finds a scalar.
	ErrNotContainer = errors.New("value is not a map or array")

	// ErrIndexOutOfRange is returned by positional accessors (GetChild,
	// document.At) when the index exceeds the container's size.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrInvalidKey is returned when Insert is given an empty path. A Map
	// key that is not valid (spec.md §3.3) makes Insert return
	// (false, nil) instead.
	ErrInvalidKey = errors.New("invalid map key")
)
