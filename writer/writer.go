// Package writer implements the sequential document builder of
// SPEC_FULL.md §2.1 component 3 (spec.md §4.3): a stateful constructor
// over a target buffer.Buffer that backpatches each container's
// byte_size/count header once its children are known. It is grounded on
// the teacher's "reserve header, write body, patch header" flow
// (encoding/columnar.go and section/numeric_header.go), generalized from
// a fixed timestamp/value column layout to arbitrarily nested Map/Array
// values.
package writer

import (
	"fmt"

	"github.com/silktree/vdoc/buffer"
	"github.com/silktree/vdoc/codec"
	"github.com/silktree/vdoc/endian"
	"github.com/silktree/vdoc/errs"
	"github.com/silktree/vdoc/format"
)

// mode tracks what kind of container a Writer is currently appending
// into, mirroring spec.md §4.3's stack of {InArray, InMap, Done}.
type mode int

const (
	modeInArray mode = iota
	modeInMap
	modeDone
)

// frame is one entry of the writer's open-container stack.
type frame struct {
	mode      mode
	headerPos int
	count     uint32
}

// Writer builds a single encoded document by sequential calls. A Writer
// is single-use: once the outermost container closes (or a single
// top-level scalar is written), it transitions to Done and any further
// write fails with errs.ErrWriterClosed.
type Writer struct {
	buf   *buffer.Buffer
	stack []frame
	done  bool
}

// New returns a Writer appending to a fresh, owned buffer.
func New(engine endian.EndianEngine) *Writer {
	return &Writer{buf: buffer.New(engine)}
}

// Bytes returns the encoded document built so far. It is only meaningful
// once the Writer has reached Done.
func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

// Done reports whether the writer has produced its final value and will
// reject further writes.
func (w *Writer) Done() bool { return w.done }

func (w *Writer) top() (*frame, bool) {
	if len(w.stack) == 0 {
		return nil, false
	}

	return &w.stack[len(w.stack)-1], true
}

// checkOpen validates the writer can still accept a write, and if inside
// a Map container, writes the entry's key first, consuming the key
// parameter. If inside an Array, key is ignored per spec.md §4.3 step 2.
func (w *Writer) checkOpen(key string) error {
	if w.done {
		return fmt.Errorf("writer: write after close: %w", errs.ErrWriterClosed)
	}

	f, open := w.top()
	if !open {
		return nil
	}

	if f.mode == modeInMap {
		if err := codec.WriteKey(w.buf, key); err != nil {
			return err
		}
	}
	f.count++

	return nil
}

// afterWrite transitions the writer to Done if this write was a
// top-level scalar (no enclosing container).
func (w *Writer) afterWrite() {
	if len(w.stack) == 0 {
		w.done = true
	}
}

// StartMap opens a new Map container. If a container is already open,
// key is written as this map's entry key (ignored if the parent is an
// Array).
func (w *Writer) StartMap(key string) error {
	return w.startContainer(key, format.KindMap, modeInMap)
}

// StartArray opens a new Array container. If a container is already
// open, key is written as this array's entry key (ignored if the parent
// is an Array).
func (w *Writer) StartArray(key string) error {
	return w.startContainer(key, format.KindArray, modeInArray)
}

func (w *Writer) startContainer(key string, kind format.Kind, m mode) error {
	if err := w.checkOpen(key); err != nil {
		return err
	}
	if err := codec.WriteTag(w.buf, kind); err != nil {
		return err
	}
	headerPos, err := codec.WritePlaceholderHeader(w.buf)
	if err != nil {
		return err
	}
	w.stack = append(w.stack, frame{mode: m, headerPos: headerPos})

	return nil
}

// EndMap closes the innermost Map container, backpatching its byte_size
// and count. It fails with errs.ErrUnbalancedContainer if the innermost
// open container is not a Map.
func (w *Writer) EndMap() error {
	return w.endContainer(modeInMap)
}

// EndArray closes the innermost Array container, backpatching its
// byte_size and count. It fails with errs.ErrUnbalancedContainer if the
// innermost open container is not an Array.
func (w *Writer) EndArray() error {
	return w.endContainer(modeInArray)
}

func (w *Writer) endContainer(want mode) error {
	if w.done {
		return fmt.Errorf("writer: end after close: %w", errs.ErrWriterClosed)
	}

	f, open := w.top()
	if !open || f.mode != want {
		return fmt.Errorf("writer: mismatched container close: %w", errs.ErrUnbalancedContainer)
	}

	if err := codec.BackpatchContainerHeader(w.buf, f.headerPos, f.count); err != nil {
		return err
	}

	w.stack = w.stack[:len(w.stack)-1]
	w.afterWrite()

	return nil
}

// WriteString writes a String value under key.
func (w *Writer) WriteString(key, v string) error {
	if err := w.checkOpen(key); err != nil {
		return err
	}
	if err := codec.WriteString(w.buf, v); err != nil {
		return err
	}
	w.afterWrite()

	return nil
}

// WriteInteger writes an Integer value under key.
func (w *Writer) WriteInteger(key string, v int64) error {
	if err := w.checkOpen(key); err != nil {
		return err
	}
	if err := codec.WriteInteger(w.buf, v); err != nil {
		return err
	}
	w.afterWrite()

	return nil
}

// WriteFloat writes a Float value under key.
func (w *Writer) WriteFloat(key string, v float64) error {
	if err := w.checkOpen(key); err != nil {
		return err
	}
	if err := codec.WriteFloat(w.buf, v); err != nil {
		return err
	}
	w.afterWrite()

	return nil
}

// WriteBoolean writes a True/False value under key.
func (w *Writer) WriteBoolean(key string, v bool) error {
	if err := w.checkOpen(key); err != nil {
		return err
	}
	if err := codec.WriteBool(w.buf, v); err != nil {
		return err
	}
	w.afterWrite()

	return nil
}

// WriteNull writes a Null value under key.
func (w *Writer) WriteNull(key string) error {
	if err := w.checkOpen(key); err != nil {
		return err
	}
	if err := codec.WriteNull(w.buf); err != nil {
		return err
	}
	w.afterWrite()

	return nil
}

// WriteDatetime writes a Datetime value under key.
func (w *Writer) WriteDatetime(key string, v format.Datetime) error {
	if err := w.checkOpen(key); err != nil {
		return err
	}
	if err := codec.WriteDatetime(w.buf, v); err != nil {
		return err
	}
	w.afterWrite()

	return nil
}

// WriteBinary writes a Binary value under key.
func (w *Writer) WriteBinary(key string, data []byte) error {
	if err := w.checkOpen(key); err != nil {
		return err
	}
	if err := codec.WriteBinary(w.buf, data); err != nil {
		return err
	}
	w.afterWrite()

	return nil
}

// WriteRawValue copies an already-encoded value (tag and payload,
// exactly as produced by another Writer or read from a document) under
// key, without re-encoding it. This backs the search/filter and differ
// components, which relocate whole sub-trees byte for byte.
func (w *Writer) WriteRawValue(key string, encoded []byte) error {
	if err := w.checkOpen(key); err != nil {
		return err
	}
	if err := w.buf.WriteRaw(encoded); err != nil {
		return err
	}
	w.afterWrite()

	return nil
}
