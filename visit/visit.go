// Package visit implements the depth-first iteration engine of
// SPEC_FULL.md §2.1 component 4 (spec.md §4.5): a single traversal
// dispatching to a capability-set Visitor, plus an iter.Seq-based
// convenience wrapper. The Go 1.23 range-over-func idiom mirrors the
// teacher's decoder iterators (blob/numeric_blob.go's All/AllValues
// methods returning iter.Seq/iter.Seq2).
package visit

import (
	"errors"
	"strconv"

	"github.com/silktree/vdoc/buffer"
	"github.com/silktree/vdoc/codec"
	"github.com/silktree/vdoc/errs"
	"github.com/silktree/vdoc/format"
)

// Visitor receives one callback per value visited during a walk. For an
// array, the key passed to a child callback is its decimal index as a
// string; for the root value, key is the empty string. A non-nil return
// aborts the walk and is propagated out of Walk.
type Visitor interface {
	OnString(key string, v string) error
	OnInteger(key string, v int64) error
	OnFloat(key string, v float64) error
	OnBoolean(key string, v bool) error
	OnNull(key string) error
	OnDatetime(key string, v format.Datetime) error
	OnBinary(key string, v []byte) error
	OnMapStart(key string) error
	OnMapEnd() error
	OnArrayStart(key string) error
	OnArrayEnd() error
}

// Walk drives v depth-first, left-to-right over the single value at b's
// cursor. A corrupt tag aborts the walk with errs.ErrCorruptEncoding;
// there is no error recovery (spec.md §4.5).
func Walk(b *buffer.Buffer, v Visitor) error {
	return walkValue(b, "", v)
}

func walkValue(b *buffer.Buffer, key string, v Visitor) error {
	k, err := codec.ReadTag(b)
	if err != nil {
		return err
	}

	switch k {
	case format.KindNull:
		return v.OnNull(key)
	case format.KindTrue:
		return v.OnBoolean(key, true)
	case format.KindFalse:
		return v.OnBoolean(key, false)
	case format.KindInteger:
		iv, err := codec.ReadIntegerPayload(b)
		if err != nil {
			return err
		}

		return v.OnInteger(key, iv)
	case format.KindFloat:
		fv, err := codec.ReadFloatPayload(b)
		if err != nil {
			return err
		}

		return v.OnFloat(key, fv)
	case format.KindDatetime:
		dt, err := codec.ReadDatetimePayload(b)
		if err != nil {
			return err
		}

		return v.OnDatetime(key, dt)
	case format.KindString:
		sv, err := codec.ReadStringPayload(b)
		if err != nil {
			return err
		}

		return v.OnString(key, sv)
	case format.KindBinary:
		bv, err := codec.ReadBinaryPayload(b)
		if err != nil {
			return err
		}

		return v.OnBinary(key, bv)
	case format.KindMap:
		return walkMap(b, key, v)
	case format.KindArray:
		return walkArray(b, key, v)
	default:
		return errs.ErrCorruptEncoding
	}
}

func walkMap(b *buffer.Buffer, key string, v Visitor) error {
	if err := v.OnMapStart(key); err != nil {
		return err
	}

	_, count, err := codec.ReadContainerHeader(b)
	if err != nil {
		return err
	}

	for i := uint32(0); i < count; i++ {
		childKey, err := codec.ReadKey(b)
		if err != nil {
			return err
		}
		if err := walkValue(b, childKey, v); err != nil {
			return err
		}
	}

	return v.OnMapEnd()
}

func walkArray(b *buffer.Buffer, key string, v Visitor) error {
	if err := v.OnArrayStart(key); err != nil {
		return err
	}

	_, count, err := codec.ReadContainerHeader(b)
	if err != nil {
		return err
	}

	for i := uint32(0); i < count; i++ {
		if err := walkValue(b, strconv.FormatUint(uint64(i), 10), v); err != nil {
			return err
		}
	}

	return v.OnArrayEnd()
}

// errStop is an internal sentinel used to unwind Walk when a range-over-
// func consumer stops early (the `break` in a for-range over All). It
// never escapes All.
var errStop = errors.New("visit: iteration stopped")
