package document

import (
	"strconv"

	"github.com/silktree/vdoc/codec"
	"github.com/silktree/vdoc/format"
	"github.com/silktree/vdoc/path"
)

// Add numerically increments the Integer or Float value at the dotted
// path p by operand's value (spec.md §4.8), grounded on
// _examples/original_source/src/json.cpp's DocumentAdd. As with Insert,
// each path token is matched exactly against a Map key or Array index;
// the path is not wildcard-expanded. Add returns false (no error) for every logical
// failure the original's boundary contract demands be reported as a
// boolean: the target path does not exist, the target's kind is not
// Integer/Float, the operand's kind does not match the target's kind
// exactly, or the path tries to descend through a scalar ancestor before
// reaching the target (the original cannot tunnel through a String/
// Integer/Float node). True/False/Null ancestors are simply dead ends
// (no recursion, no effect), matching the original's no-op leaf handling.
func (d *Document) Add(p string, operand *Document) (bool, error) {
	if err := d.checkMutable(); err != nil {
		return false, err
	}

	return d.addNext(0, path.Split(p), operand)
}

func (d *Document) addNext(start int, tokens []string, operand *Document) (bool, error) {
	if err := d.buf.MoveTo(start); err != nil {
		return false, err
	}
	k, err := codec.ReadTag(d.buf)
	if err != nil {
		return false, err
	}

	if len(tokens) == 0 {
		return d.addScalar(start, k, operand)
	}

	tok, rest := tokens[0], tokens[1:]

	switch k {
	case format.KindMap:
		_, count, err := codec.ReadContainerHeader(d.buf)
		if err != nil {
			return false, err
		}
		for i := uint32(0); i < count; i++ {
			key, err := codec.ReadKey(d.buf)
			if err != nil {
				return false, err
			}
			valStart := d.buf.Pos()
			if key == tok {
				return d.addNext(valStart, rest, operand)
			}
			ck, err := codec.ReadTag(d.buf)
			if err != nil {
				return false, err
			}
			if err := codec.Skip(d.buf, ck); err != nil {
				return false, err
			}
		}

		return false, nil
	case format.KindArray:
		idx, err := strconv.Atoi(tok)
		if err != nil || idx < 0 {
			return false, nil
		}
		_, count, err := codec.ReadContainerHeader(d.buf)
		if err != nil {
			return false, err
		}
		if uint32(idx) >= count {
			return false, nil
		}
		for i := 0; i < idx; i++ {
			ck, err := codec.ReadTag(d.buf)
			if err != nil {
				return false, err
			}
			if err := codec.Skip(d.buf, ck); err != nil {
				return false, err
			}
		}

		return d.addNext(d.buf.Pos(), rest, operand)
	case format.KindTrue, format.KindFalse, format.KindNull:
		return false, nil
	default:
		// Cannot tunnel through a scalar ancestor (String/Integer/Float/
		// Datetime/Binary) to reach a deeper target.
		return false, nil
	}
}

func (d *Document) addScalar(start int, k format.Kind, operand *Document) (bool, error) {
	opKind, err := operand.GetType()
	if err != nil {
		return false, err
	}
	if k != opKind {
		return false, nil
	}

	switch k {
	case format.KindInteger:
		cur, err := codec.ReadIntegerPayload(d.buf)
		if err != nil {
			return false, err
		}
		opv, err := operand.AsInteger()
		if err != nil {
			return false, err
		}
		if err := d.buf.MoveTo(start + 1); err != nil {
			return false, err
		}
		if err := d.buf.WriteInt64(cur + opv); err != nil {
			return false, err
		}

		return true, nil
	case format.KindFloat:
		cur, err := codec.ReadFloatPayload(d.buf)
		if err != nil {
			return false, err
		}
		opv, err := operand.AsFloat()
		if err != nil {
			return false, err
		}
		if err := d.buf.MoveTo(start + 1); err != nil {
			return false, err
		}
		if err := d.buf.WriteFloat64(cur + opv); err != nil {
			return false, err
		}

		return true, nil
	default:
		return false, nil
	}
}
