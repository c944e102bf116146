// Package codec implements tag-level encoding, decoding, and O(1)
// sub-tree skipping for the ten value kinds of SPEC_FULL.md's wire
// format (spec.md §3.2, §4.2). It is grounded on the fixed-width
// read/write helpers of the teacher's ts_raw/numeric_raw column codecs
// (internal/encoding), generalized from time-series columns to a single
// tagged value at a time, plus the container byte_size/count header
// convention from the teacher's section headers (section/numeric_header.go).
package codec

import (
	"fmt"

	"github.com/silktree/vdoc/buffer"
	"github.com/silktree/vdoc/errs"
	"github.com/silktree/vdoc/format"
)

// headerWidth is the size of a single u32 field in a container's
// byte_size/count header.
const headerWidth = 4

// ReadTag reads the one-byte kind tag at the cursor and advances past it.
func ReadTag(b *buffer.Buffer) (format.Kind, error) {
	raw, err := b.ReadUint8()
	if err != nil {
		return 0, err
	}

	k := format.Kind(raw)
	switch k {
	case format.KindMap, format.KindArray, format.KindString, format.KindDatetime,
		format.KindInteger, format.KindFloat, format.KindTrue, format.KindFalse,
		format.KindBinary, format.KindNull:
		return k, nil
	default:
		return 0, fmt.Errorf("codec: tag 0x%02x: %w", raw, errs.ErrCorruptEncoding)
	}
}

// WriteTag writes k's one-byte wire tag at the cursor.
func WriteTag(b *buffer.Buffer, k format.Kind) error {
	return b.WriteUint8(uint8(k))
}

// ReadIntegerPayload reads a signed 64-bit payload. The cursor must
// already be past the tag byte.
func ReadIntegerPayload(b *buffer.Buffer) (int64, error) {
	return b.ReadInt64()
}

// WriteInteger writes a full Integer value: tag followed by payload.
func WriteInteger(b *buffer.Buffer, v int64) error {
	if err := WriteTag(b, format.KindInteger); err != nil {
		return err
	}

	return b.WriteInt64(v)
}

// ReadFloatPayload reads an IEEE-754 64-bit payload. The cursor must
// already be past the tag byte.
func ReadFloatPayload(b *buffer.Buffer) (float64, error) {
	return b.ReadFloat64()
}

// WriteFloat writes a full Float value: tag followed by payload.
func WriteFloat(b *buffer.Buffer, v float64) error {
	if err := WriteTag(b, format.KindFloat); err != nil {
		return err
	}

	return b.WriteFloat64(v)
}

// WriteBool writes a full True or False value (tag only, no payload).
func WriteBool(b *buffer.Buffer, v bool) error {
	if v {
		return WriteTag(b, format.KindTrue)
	}

	return WriteTag(b, format.KindFalse)
}

// WriteNull writes a full Null value (tag only, no payload).
func WriteNull(b *buffer.Buffer) error {
	return WriteTag(b, format.KindNull)
}

// ReadDatetimePayload reads the nine-field Datetime struct. The cursor
// must already be past the tag byte.
func ReadDatetimePayload(b *buffer.Buffer) (format.Datetime, error) {
	var dt format.Datetime

	fields := []*int32{
		&dt.Year, &dt.Mon, &dt.MDay, &dt.Hour, &dt.Min, &dt.Sec, &dt.WDay, &dt.YDay, &dt.IsDST,
	}
	for _, f := range fields {
		v, err := b.ReadUint32()
		if err != nil {
			return dt, err
		}
		*f = int32(v)
	}

	return dt, nil
}

// WriteDatetime writes a full Datetime value: tag followed by nine
// signed 32-bit fields.
func WriteDatetime(b *buffer.Buffer, dt format.Datetime) error {
	if err := WriteTag(b, format.KindDatetime); err != nil {
		return err
	}

	for _, v := range [9]int32{dt.Year, dt.Mon, dt.MDay, dt.Hour, dt.Min, dt.Sec, dt.WDay, dt.YDay, dt.IsDST} {
		if err := b.WriteUint32(uint32(v)); err != nil {
			return err
		}
	}

	return nil
}

// ReadStringPayload reads a `len:u32` + bytes payload as a string. The
// cursor must already be past the tag byte.
func ReadStringPayload(b *buffer.Buffer) (string, error) {
	n, err := b.ReadUint32()
	if err != nil {
		return "", err
	}
	raw, err := b.ReadRaw(int(n))
	if err != nil {
		return "", err
	}

	return string(raw), nil
}

// WriteString writes a full String value: tag, len:u32, then bytes.
func WriteString(b *buffer.Buffer, s string) error {
	if err := WriteTag(b, format.KindString); err != nil {
		return err
	}
	if err := b.WriteUint32(uint32(len(s))); err != nil {
		return err
	}

	return b.WriteRaw([]byte(s))
}

// ReadBinaryPayload reads a `len:u32` + bytes payload. The returned slice
// aliases the buffer's backing array. The cursor must already be past
// the tag byte.
func ReadBinaryPayload(b *buffer.Buffer) ([]byte, error) {
	n, err := b.ReadUint32()
	if err != nil {
		return nil, err
	}

	return b.ReadRaw(int(n))
}

// WriteBinary writes a full Binary value: tag, len:u32, then bytes.
func WriteBinary(b *buffer.Buffer, data []byte) error {
	if err := WriteTag(b, format.KindBinary); err != nil {
		return err
	}
	if err := b.WriteUint32(uint32(len(data))); err != nil {
		return err
	}

	return b.WriteRaw(data)
}

// ReadKey reads a Map entry's key: a bare `key_len:u32` + bytes payload,
// with no kind tag of its own.
func ReadKey(b *buffer.Buffer) (string, error) {
	return ReadStringPayload(b)
}

// WriteKey writes a Map entry's key as a bare `key_len:u32` + bytes
// payload.
func WriteKey(b *buffer.Buffer, key string) error {
	if err := b.WriteUint32(uint32(len(key))); err != nil {
		return err
	}

	return b.WriteRaw([]byte(key))
}

// ReadContainerHeader reads a Map/Array's byte_size and count fields.
// The cursor must already be past the tag byte; on return it sits
// immediately after count, at the first entry (or at the container's
// end, if count is zero).
func ReadContainerHeader(b *buffer.Buffer) (byteSize uint32, count uint32, err error) {
	byteSize, err = b.ReadUint32()
	if err != nil {
		return 0, 0, err
	}
	count, err = b.ReadUint32()
	if err != nil {
		return 0, 0, err
	}

	return byteSize, count, nil
}

// WritePlaceholderHeader writes a zeroed byte_size/count header for a
// container the Writer just opened, and returns the absolute offset of
// the byte_size field so the caller can backpatch it once the
// container's children are known.
func WritePlaceholderHeader(b *buffer.Buffer) (headerPos int, err error) {
	headerPos = b.Pos()
	if err := b.WriteUint32(0); err != nil {
		return 0, err
	}
	if err := b.WriteUint32(0); err != nil {
		return 0, err
	}

	return headerPos, nil
}

// BackpatchContainerHeader fills in a previously-reserved header once a
// container's children have all been written: byte_size is the distance
// from just after the byte_size field to the buffer's current end, and
// count is the number of direct children written.
func BackpatchContainerHeader(b *buffer.Buffer, headerPos int, count uint32) error {
	byteSize := uint32(b.Size() - (headerPos + headerWidth))
	if err := b.PutUint32At(headerPos, byteSize); err != nil {
		return err
	}

	return b.PutUint32At(headerPos+headerWidth, count)
}

// Skip advances the cursor past a value's payload in O(1) for
// containers, given a cursor positioned immediately after the tag byte
// (spec.md §4.2). It returns errs.ErrCorruptEncoding for an unrecognized
// kind.
func Skip(b *buffer.Buffer, k format.Kind) error {
	switch k {
	case format.KindNull, format.KindTrue, format.KindFalse:
		return nil
	case format.KindInteger, format.KindFloat:
		return b.MoveBy(8)
	case format.KindDatetime:
		return b.MoveBy(format.DatetimeByteSize)
	case format.KindString, format.KindBinary:
		n, err := b.ReadUint32()
		if err != nil {
			return err
		}

		return b.MoveBy(int(n))
	case format.KindMap, format.KindArray:
		byteSize, err := b.ReadUint32()
		if err != nil {
			return err
		}

		return b.MoveBy(int(byteSize))
	default:
		return fmt.Errorf("codec: skip kind %v: %w", k, errs.ErrCorruptEncoding)
	}
}
