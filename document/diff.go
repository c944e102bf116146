package document

import (
	"bytes"
	"strconv"

	"github.com/silktree/vdoc/format"
)

// DiffEntry describes one edit between two documents at a dotted path
// (spec.md §3.5, §4.9). Value holds the "after" value for Modified/Added,
// or the removed "before" value for Deleted.
type DiffEntry struct {
	Kind  format.DiffKind
	Path  string
	Value *Document
}

// Diff compares d against other and returns every edit needed to turn d
// into other, grounded on _examples/original_source/src/helper.h's
// DocumentDiffs. Map and Array comparison is purely positional: entries
// are paired by walking both sides' children at the same index, not by a
// real key lookup, so reordering a Map's keys is reported as a run of
// Deleted/Added edits rather than recognized as a no-op (spec.md §4.9).
// The original's inside_diff suppression flag is never actually set in
// the source it was read from, so it is omitted here rather than
// reproduced as dead state.
func (d *Document) Diff(other *Document) ([]DiffEntry, error) {
	var out []DiffEntry
	if err := diffValues(d, other, "", &out); err != nil {
		return nil, err
	}

	return out, nil
}

func diffValues(a, b *Document, prefix string, out *[]DiffEntry) error {
	ka, err := a.GetType()
	if err != nil {
		return err
	}
	kb, err := b.GetType()
	if err != nil {
		return err
	}

	if ka != kb {
		*out = append(*out, DiffEntry{Kind: format.DiffModified, Path: prefix, Value: b})

		return nil
	}

	switch ka {
	case format.KindMap:
		return diffMaps(a, b, prefix, out)
	case format.KindArray:
		return diffArrays(a, b, prefix, out)
	case format.KindString:
		va, err := a.AsString()
		if err != nil {
			return err
		}
		vb, err := b.AsString()
		if err != nil {
			return err
		}
		if va != vb {
			*out = append(*out, DiffEntry{Kind: format.DiffModified, Path: prefix, Value: b})
		}
	case format.KindInteger:
		va, err := a.AsInteger()
		if err != nil {
			return err
		}
		vb, err := b.AsInteger()
		if err != nil {
			return err
		}
		if va != vb {
			*out = append(*out, DiffEntry{Kind: format.DiffModified, Path: prefix, Value: b})
		}
	case format.KindFloat:
		va, err := a.AsFloat()
		if err != nil {
			return err
		}
		vb, err := b.AsFloat()
		if err != nil {
			return err
		}
		if va != vb {
			*out = append(*out, DiffEntry{Kind: format.DiffModified, Path: prefix, Value: b})
		}
	case format.KindDatetime:
		va, err := a.AsDatetime()
		if err != nil {
			return err
		}
		vb, err := b.AsDatetime()
		if err != nil {
			return err
		}
		if va != vb {
			*out = append(*out, DiffEntry{Kind: format.DiffModified, Path: prefix, Value: b})
		}
	case format.KindBinary:
		va, err := a.AsBitstream()
		if err != nil {
			return err
		}
		vb, err := b.AsBitstream()
		if err != nil {
			return err
		}
		if !bytes.Equal(va, vb) {
			*out = append(*out, DiffEntry{Kind: format.DiffModified, Path: prefix, Value: b})
		}
	}
	// True/False/Null: ka==kb already establishes equality, nothing left
	// to compare.

	return nil
}

func diffMaps(a, b *Document, prefix string, out *[]DiffEntry) error {
	ea, err := a.Children()
	if err != nil {
		return err
	}
	eb, err := b.Children()
	if err != nil {
		return err
	}

	i, j := 0, 0
	for i < len(ea) || j < len(eb) {
		hasA, hasB := i < len(ea), j < len(eb)

		switch {
		case hasA && hasB && ea[i].Key == eb[j].Key:
			childA, err := New(ea[i].Data, ReadOnly, WithEndian(a.buf.Engine()))
			if err != nil {
				return err
			}
			childB, err := New(eb[j].Data, ReadOnly, WithEndian(b.buf.Engine()))
			if err != nil {
				return err
			}
			if err := diffValues(childA, childB, join(prefix, ea[i].Key), out); err != nil {
				return err
			}
		default:
			if hasA {
				childA, err := New(ea[i].Data, ReadOnly, WithEndian(a.buf.Engine()))
				if err != nil {
					return err
				}
				*out = append(*out, DiffEntry{Kind: format.DiffDeleted, Path: join(prefix, ea[i].Key), Value: childA})
			}
			if hasB {
				childB, err := New(eb[j].Data, ReadOnly, WithEndian(b.buf.Engine()))
				if err != nil {
					return err
				}
				*out = append(*out, DiffEntry{Kind: format.DiffAdded, Path: join(prefix, eb[j].Key), Value: childB})
			}
		}

		i++
		j++
	}

	return nil
}

func diffArrays(a, b *Document, prefix string, out *[]DiffEntry) error {
	ea, err := a.Children()
	if err != nil {
		return err
	}
	eb, err := b.Children()
	if err != nil {
		return err
	}

	n := len(ea)
	if len(eb) > n {
		n = len(eb)
	}

	for i := 0; i < n; i++ {
		hasA, hasB := i < len(ea), i < len(eb)
		childPath := join(prefix, strconv.Itoa(i))

		switch {
		case hasA && hasB:
			childA, err := New(ea[i].Data, ReadOnly, WithEndian(a.buf.Engine()))
			if err != nil {
				return err
			}
			childB, err := New(eb[i].Data, ReadOnly, WithEndian(b.buf.Engine()))
			if err != nil {
				return err
			}
			if err := diffValues(childA, childB, childPath, out); err != nil {
				return err
			}
		case hasA:
			childA, err := New(ea[i].Data, ReadOnly, WithEndian(a.buf.Engine()))
			if err != nil {
				return err
			}
			*out = append(*out, DiffEntry{Kind: format.DiffDeleted, Path: childPath, Value: childA})
		case hasB:
			childB, err := New(eb[i].Data, ReadOnly, WithEndian(b.buf.Engine()))
			if err != nil {
				return err
			}
			*out = append(*out, DiffEntry{Kind: format.DiffAdded, Path: childPath, Value: childB})
		}
	}

	return nil
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}

	return prefix + "." + key
}
