// Package buffer implements the position-addressable byte store described
// by SPEC_FULL.md §2.1 component 1 (spec.md §4.1): a resizable byte slice
// with a read/write cursor, raw-memory borrow, and the make_space/
// remove_space primitives the codec, writer, and document mutators build
// on. It is grounded on the teacher's pooled ByteBuffer
// (internal/pool/byte_buffer_pool.go), generalized with a cursor and
// borrow/own distinction that the teacher's append-only buffer didn't need.
package buffer

import (
	"bytes"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/silktree/vdoc/endian"
	"github.com/silktree/vdoc/errs"
)

// Tiered growth thresholds, mirroring the teacher's Grow strategy: small
// buffers grow by a fixed chunk to minimize reallocations, larger ones
// grow by a fraction of their current capacity.
const (
	defaultGrowSize    = 1024 * 16
	largeGrowThreshold = 4 * defaultGrowSize
)

// Buffer is a position-addressable byte store. The zero value is not
// usable; construct one with New or Assign.
type Buffer struct {
	data     []byte
	pos      int
	readOnly bool
	borrowed bool
	engine   endian.EndianEngine
}

// New returns an empty, owned, writable Buffer ready to accept appended
// values (the common case for a Writer's target).
func New(engine endian.EndianEngine) *Buffer {
	if engine == nil {
		engine = endian.GetLittleEndianEngine()
	}

	return &Buffer{
		data:   make([]byte, 0, defaultGrowSize),
		engine: engine,
	}
}

// Assign borrows an existing byte region (spec.md §4.1 "assign(ptr,len,
// read_only)"). The Buffer does not copy data; mutating methods on a
// read-only assignment fail with errs.ErrReadOnly.
func Assign(data []byte, readOnly bool, engine endian.EndianEngine) *Buffer {
	if engine == nil {
		engine = endian.GetLittleEndianEngine()
	}

	return &Buffer{
		data:     data,
		readOnly: readOnly,
		borrowed: true,
		engine:   engine,
	}
}

// Copy returns a Buffer that owns an independent copy of data.
func Copy(data []byte, engine endian.EndianEngine) *Buffer {
	if engine == nil {
		engine = endian.GetLittleEndianEngine()
	}

	owned := make([]byte, len(data))
	copy(owned, data)

	return &Buffer{data: owned, engine: engine}
}

// Size returns the number of live bytes in the buffer.
func (b *Buffer) Size() int { return len(b.data) }

// Pos returns the current cursor position.
func (b *Buffer) Pos() int { return b.pos }

// AtEnd reports whether the cursor sits at the end of the buffer.
func (b *Buffer) AtEnd() bool { return b.pos >= len(b.data) }

// ReadOnly reports whether mutating operations are rejected.
func (b *Buffer) ReadOnly() bool { return b.readOnly }

// Engine returns the byte-order engine used for fixed-width fields.
func (b *Buffer) Engine() endian.EndianEngine { return b.engine }

// Bytes returns the live byte slice. Callers must not retain it across a
// mutating call, since MakeSpace/RemoveSpace/Grow may reallocate.
func (b *Buffer) Bytes() []byte { return b.data }

// MoveTo sets the cursor to an absolute position in [0, Size()].
func (b *Buffer) MoveTo(pos int) error {
	if pos < 0 || pos > len(b.data) {
		return fmt.Errorf("buffer: MoveTo(%d): %w", pos, errs.ErrIndexOutOfRange)
	}
	b.pos = pos

	return nil
}

// MoveBy shifts the cursor by delta, which may be negative.
func (b *Buffer) MoveBy(delta int) error {
	return b.MoveTo(b.pos + delta)
}

func (b *Buffer) checkReadable(n int) error {
	if b.pos+n > len(b.data) {
		return fmt.Errorf("buffer: read past end at pos %d, want %d bytes: %w", b.pos, n, errs.ErrCorruptEncoding)
	}

	return nil
}

// ReadRaw returns the n bytes starting at the cursor and advances it. The
// returned slice aliases the buffer's backing array.
func (b *Buffer) ReadRaw(n int) ([]byte, error) {
	if err := b.checkReadable(n); err != nil {
		return nil, err
	}
	out := b.data[b.pos : b.pos+n]
	b.pos += n

	return out, nil
}

// ReadUint8 reads a single byte and advances the cursor.
func (b *Buffer) ReadUint8() (uint8, error) {
	if err := b.checkReadable(1); err != nil {
		return 0, err
	}
	v := b.data[b.pos]
	b.pos++

	return v, nil
}

// ReadUint32 reads a little/big-endian (per Engine) uint32 and advances
// the cursor by 4.
func (b *Buffer) ReadUint32() (uint32, error) {
	if err := b.checkReadable(4); err != nil {
		return 0, err
	}
	v := b.engine.Uint32(b.data[b.pos:])
	b.pos += 4

	return v, nil
}

// ReadInt64 reads a signed 64-bit integer and advances the cursor by 8.
func (b *Buffer) ReadInt64() (int64, error) {
	if err := b.checkReadable(8); err != nil {
		return 0, err
	}
	v := int64(b.engine.Uint64(b.data[b.pos:]))
	b.pos += 8

	return v, nil
}

// ReadFloat64 reads an IEEE-754 64-bit float and advances the cursor by 8.
func (b *Buffer) ReadFloat64() (float64, error) {
	if err := b.checkReadable(8); err != nil {
		return 0, err
	}
	v := math.Float64frombits(b.engine.Uint64(b.data[b.pos:]))
	b.pos += 8

	return v, nil
}

func (b *Buffer) checkWritable() error {
	if b.readOnly {
		return fmt.Errorf("buffer: write at pos %d: %w", b.pos, errs.ErrReadOnly)
	}

	return nil
}

// grow ensures the buffer can hold n more bytes past its current length
// without reallocating more than necessary, using the same tiered
// strategy as the teacher's ByteBuffer.Grow.
func (b *Buffer) grow(n int) {
	available := cap(b.data) - len(b.data)
	if available >= n {
		return
	}

	growBy := defaultGrowSize
	if cap(b.data) > largeGrowThreshold {
		growBy = cap(b.data) / 4
	}
	if growBy < n {
		growBy = n
	}

	next := make([]byte, len(b.data), len(b.data)+growBy)
	copy(next, b.data)
	b.data = next
	b.borrowed = false
}

// WriteRaw appends p at the cursor, overwriting existing bytes if the
// cursor is not at the end, and advances the cursor past it. It does not
// shift the tail; callers that need to insert use MakeSpace first.
func (b *Buffer) WriteRaw(p []byte) error {
	if err := b.checkWritable(); err != nil {
		return err
	}

	end := b.pos + len(p)
	if end > len(b.data) {
		b.grow(end - len(b.data))
		b.data = b.data[:end]
	}
	copy(b.data[b.pos:end], p)
	b.pos = end

	return nil
}

// WriteUint8 writes a single byte at the cursor and advances it.
func (b *Buffer) WriteUint8(v uint8) error {
	return b.WriteRaw([]byte{v})
}

// WriteUint32 writes v using the buffer's endian engine and advances the
// cursor by 4.
func (b *Buffer) WriteUint32(v uint32) error {
	var tmp [4]byte
	b.engine.PutUint32(tmp[:], v)

	return b.WriteRaw(tmp[:])
}

// WriteInt64 writes v using the buffer's endian engine and advances the
// cursor by 8.
func (b *Buffer) WriteInt64(v int64) error {
	var tmp [8]byte
	b.engine.PutUint64(tmp[:], uint64(v))

	return b.WriteRaw(tmp[:])
}

// WriteFloat64 writes v using the buffer's endian engine and advances the
// cursor by 8.
func (b *Buffer) WriteFloat64(v float64) error {
	var tmp [8]byte
	b.engine.PutUint64(tmp[:], math.Float64bits(v))

	return b.WriteRaw(tmp[:])
}

// MakeSpace inserts n uninitialized bytes at the cursor, relocating
// exactly the bytes from the cursor to the end of the buffer, and leaves
// the cursor at its pre-call position (spec.md §4.1). Fails on a
// read-only buffer.
func (b *Buffer) MakeSpace(n int) error {
	if err := b.checkWritable(); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}

	oldLen := len(b.data)
	b.grow(n)
	b.data = b.data[:oldLen+n]
	copy(b.data[b.pos+n:], b.data[b.pos:oldLen])

	return nil
}

// RemoveSpace deletes the n bytes starting at the cursor, shifting the
// tail left, and leaves the cursor at its pre-call position. Fails on a
// read-only buffer or if fewer than n bytes remain.
func (b *Buffer) RemoveSpace(n int) error {
	if err := b.checkWritable(); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	if err := b.checkReadable(n); err != nil {
		return err
	}

	copy(b.data[b.pos:], b.data[b.pos+n:])
	b.data = b.data[:len(b.data)-n]

	return nil
}

// Uint32At reads a uint32 at an absolute offset without moving the
// cursor, for callers that peek ahead (e.g. the differ's lock-step
// cursors) or re-read a header they already passed.
func (b *Buffer) Uint32At(pos int) (uint32, error) {
	if pos < 0 || pos+4 > len(b.data) {
		return 0, fmt.Errorf("buffer: Uint32At(%d): %w", pos, errs.ErrCorruptEncoding)
	}

	return b.engine.Uint32(b.data[pos : pos+4]), nil
}

// PutUint32At overwrites a uint32 at an absolute offset without moving
// the cursor, used by the writer to backpatch a container's byte_size
// and count headers after its children have been written.
func (b *Buffer) PutUint32At(pos int, v uint32) error {
	if err := b.checkWritable(); err != nil {
		return err
	}
	if pos < 0 || pos+4 > len(b.data) {
		return fmt.Errorf("buffer: PutUint32At(%d): %w", pos, errs.ErrIndexOutOfRange)
	}
	b.engine.PutUint32(b.data[pos:pos+4], v)

	return nil
}

// Detach yields the buffer's owned bytes, leaving the Buffer empty. If the
// buffer currently borrows its memory, Detach copies it out first, since
// ownership cannot be transferred out of a borrowed region.
func (b *Buffer) Detach() []byte {
	if b.borrowed {
		out := make([]byte, len(b.data))
		copy(out, b.data)
		b.data = nil
		b.pos = 0

		return out
	}

	out := b.data
	b.data = nil
	b.pos = 0

	return out
}

// Hash returns a deterministic 64-bit hash of the buffer's live contents.
func (b *Buffer) Hash() uint64 {
	return xxhash.Sum64(b.data)
}

// Equal reports whether two buffers hold byte-identical contents,
// irrespective of cursor position or ownership mode.
func (b *Buffer) Equal(other *Buffer) bool {
	if other == nil {
		return false
	}

	return bytes.Equal(b.data, other.data)
}
