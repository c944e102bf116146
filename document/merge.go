package document

import (
	"fmt"
	"strconv"

	"github.com/silktree/vdoc/codec"
	"github.com/silktree/vdoc/errs"
	"github.com/silktree/vdoc/format"
	"github.com/silktree/vdoc/path"
	"github.com/silktree/vdoc/writer"
)

// Insert splices value into d at the dotted path p (spec.md §4.7), grounded
// on _examples/original_source/src/json.cpp's DocumentMerger. It returns
// false (no error) for the no-op cases the original treats as silent
// failures: appending (`+`) onto anything but an Array, or descending
// into an Array index that does not exist (missing Array elements are
// never auto-created, matching the original's unhandled //FIXME branch).
// It fails with errs.ErrReadOnly on a ReadOnly Document and
// errs.ErrMaxDepthExceeded if the descent, through existing or
// auto-created containers, goes deeper than document.WithMaxDepth.
func (d *Document) Insert(p string, value *Document) (bool, error) {
	if err := d.checkMutable(); err != nil {
		return false, err
	}

	tokens := path.Split(p)
	if len(tokens) == 0 {
		return false, fmt.Errorf("document: Insert(%q): %w", p, errs.ErrInvalidKey)
	}

	found, _, err := d.insertNext(0, tokens, value.Bytes(), 0)

	return found, err
}

// isValidMapKey reports whether key may be used as a Map entry's key,
// mirroring the original's is_valid_key (include/json/json.h): non-empty,
// and every character alphanumeric or '_'. This alone rejects every
// path-syntax token ("+", "*", keys containing ".") unconditionally, not
// only under an opt-in strict mode. document.WithStrictKeys tightens this
// further, requiring the key to also look like an identifier (not start
// with a digit).
func (d *Document) isValidMapKey(key string) bool {
	if key == "" {
		return false
	}

	for i, r := range key {
		isDigit := r >= '0' && r <= '9'
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if !(r == '_' || isLetter || isDigit) {
			return false
		}
		if d.cfg.strictKeys && i == 0 && isDigit {
			return false
		}
	}

	return true
}

// insertNext processes one path token against the container whose tag
// sits at start, returning whether a mutation occurred and the signed
// byte-length delta it introduced, for the caller to propagate upward
// into every enclosing container's byte_size field.
func (d *Document) insertNext(start int, tokens []string, payload []byte, depth int) (bool, int, error) {
	if depth > d.cfg.maxDepth {
		return false, 0, fmt.Errorf("document: Insert: %w", errs.ErrMaxDepthExceeded)
	}

	if err := d.buf.MoveTo(start); err != nil {
		return false, 0, err
	}
	k, err := codec.ReadTag(d.buf)
	if err != nil {
		return false, 0, err
	}

	switch k {
	case format.KindMap:
		return d.insertMap(start, tokens, payload, depth)
	case format.KindArray:
		return d.insertArray(start, tokens, payload, depth)
	default:
		return false, 0, nil
	}
}

// entryScan is one decoded Map entry: its key and the region of the
// document it occupies (key length field through end of value).
type entryScan struct {
	key       string
	keyStart  int
	valStart  int
	valEnd    int
}

func (d *Document) scanMapEntries(start int) (headerPos int, count uint32, bodyEnd int, entries []entryScan, err error) {
	headerPos = start + 1
	if err = d.buf.MoveTo(headerPos); err != nil {
		return
	}
	_, count, err = codec.ReadContainerHeader(d.buf)
	if err != nil {
		return
	}

	entries = make([]entryScan, 0, count)
	for i := uint32(0); i < count; i++ {
		keyStart := d.buf.Pos()
		key, kerr := codec.ReadKey(d.buf)
		if kerr != nil {
			err = kerr
			return
		}
		valStart := d.buf.Pos()
		ck, terr := codec.ReadTag(d.buf)
		if terr != nil {
			err = terr
			return
		}
		if serr := codec.Skip(d.buf, ck); serr != nil {
			err = serr
			return
		}
		entries = append(entries, entryScan{key: key, keyStart: keyStart, valStart: valStart, valEnd: d.buf.Pos()})
	}
	bodyEnd = d.buf.Pos()

	return
}

func (d *Document) insertMap(start int, tokens []string, payload []byte, depth int) (bool, int, error) {
	tok, rest := tokens[0], tokens[1:]
	isTarget := len(tokens) == 1

	headerPos, count, bodyEnd, entries, err := d.scanMapEntries(start)
	if err != nil {
		return false, 0, err
	}

	var match *entryScan
	for i := range entries {
		if entries[i].key == tok {
			match = &entries[i]

			break
		}
	}

	if isTarget {
		delta := 0

		if match != nil {
			removed := match.valEnd - match.keyStart
			if err := d.buf.MoveTo(match.keyStart); err != nil {
				return false, 0, err
			}
			if err := d.buf.RemoveSpace(removed); err != nil {
				return false, 0, err
			}
			delta -= removed
			count--
			bodyEnd -= removed
		}

		if !d.isValidMapKey(tok) {
			if err := writeCount(d.buf, headerPos, count); err != nil {
				return false, 0, err
			}
			if err := adjustByteSize(d.buf, headerPos, delta); err != nil {
				return false, 0, err
			}

			return false, delta, nil
		}

		entryLen := 4 + len(tok) + len(payload)
		if err := d.buf.MoveTo(bodyEnd); err != nil {
			return false, 0, err
		}
		if err := d.buf.MakeSpace(entryLen); err != nil {
			return false, 0, err
		}
		if err := codec.WriteKey(d.buf, tok); err != nil {
			return false, 0, err
		}
		if err := d.buf.WriteRaw(payload); err != nil {
			return false, 0, err
		}
		delta += entryLen
		count++

		if err := writeCount(d.buf, headerPos, count); err != nil {
			return false, 0, err
		}
		if err := adjustByteSize(d.buf, headerPos, delta); err != nil {
			return false, 0, err
		}

		return true, delta, nil
	}

	// Descend: find or auto-create the next container, then recurse.
	if match == nil {
		if !d.isValidMapKey(tok) {
			return false, 0, nil
		}

		childKind := format.KindMap
		if len(rest) > 0 && rest[0] == "+" {
			childKind = format.KindArray
		}

		w := writer.New(d.buf.Engine())
		if childKind == format.KindMap {
			if err := w.StartMap(""); err != nil {
				return false, 0, err
			}
			if err := w.EndMap(); err != nil {
				return false, 0, err
			}
		} else {
			if err := w.StartArray(""); err != nil {
				return false, 0, err
			}
			if err := w.EndArray(); err != nil {
				return false, 0, err
			}
		}

		entryLen := 4 + len(tok) + len(w.Bytes())
		if err := d.buf.MoveTo(bodyEnd); err != nil {
			return false, 0, err
		}
		if err := d.buf.MakeSpace(entryLen); err != nil {
			return false, 0, err
		}
		if err := codec.WriteKey(d.buf, tok); err != nil {
			return false, 0, err
		}
		valStart := d.buf.Pos()
		if err := d.buf.WriteRaw(w.Bytes()); err != nil {
			return false, 0, err
		}
		count++

		found, delta, err := d.insertNext(valStart, rest, payload, depth+1)
		if err != nil {
			return false, 0, err
		}
		delta += entryLen

		if err := writeCount(d.buf, headerPos, count); err != nil {
			return false, 0, err
		}
		if err := adjustByteSize(d.buf, headerPos, delta); err != nil {
			return false, 0, err
		}

		return found, delta, nil
	}

	found, delta, err := d.insertNext(match.valStart, rest, payload, depth+1)
	if err != nil {
		return false, 0, err
	}
	if err := adjustByteSize(d.buf, headerPos, delta); err != nil {
		return false, 0, err
	}

	return found, delta, nil
}

func (d *Document) insertArray(start int, tokens []string, payload []byte, depth int) (bool, int, error) {
	tok, rest := tokens[0], tokens[1:]
	isTarget := len(tokens) == 1

	headerPos := start + 1
	if err := d.buf.MoveTo(headerPos); err != nil {
		return false, 0, err
	}
	_, count, err := codec.ReadContainerHeader(d.buf)
	if err != nil {
		return false, 0, err
	}

	var elemStarts []int
	for i := uint32(0); i < count; i++ {
		elemStarts = append(elemStarts, d.buf.Pos())
		ck, err := codec.ReadTag(d.buf)
		if err != nil {
			return false, 0, err
		}
		if err := codec.Skip(d.buf, ck); err != nil {
			return false, 0, err
		}
	}
	bodyEnd := d.buf.Pos()

	if isTarget {
		if tok != "+" {
			return false, 0, nil
		}

		if err := d.buf.MoveTo(bodyEnd); err != nil {
			return false, 0, err
		}
		if err := d.buf.MakeSpace(len(payload)); err != nil {
			return false, 0, err
		}
		if err := d.buf.WriteRaw(payload); err != nil {
			return false, 0, err
		}

		delta := len(payload)
		if err := writeCount(d.buf, headerPos, count+1); err != nil {
			return false, 0, err
		}
		if err := adjustByteSize(d.buf, headerPos, delta); err != nil {
			return false, 0, err
		}

		return true, delta, nil
	}

	idx, err := strconv.Atoi(tok)
	if err != nil || idx < 0 || idx >= len(elemStarts) {
		return false, 0, nil
	}

	found, delta, err := d.insertNext(elemStarts[idx], rest, payload, depth+1)
	if err != nil {
		return false, 0, err
	}
	if err := adjustByteSize(d.buf, headerPos, delta); err != nil {
		return false, 0, err
	}

	return found, delta, nil
}

// writeCount overwrites a container header's count field (the second of
// its two uint32 fields) with an exact new value, for the level where the
// entry count itself changed.
func writeCount(b interface {
	PutUint32At(int, uint32) error
}, headerPos int, count uint32) error {
	return b.PutUint32At(headerPos+4, count)
}

// adjustByteSize adds delta to the uint32 byte_size field at headerPos,
// reflecting a uniform shift introduced by a MakeSpace/RemoveSpace
// somewhere inside this container, without needing to rescan it.
func adjustByteSize(b interface {
	Uint32At(int) (uint32, error)
	PutUint32At(int, uint32) error
}, headerPos int, delta int) error {
	cur, err := b.Uint32At(headerPos)
	if err != nil {
		return err
	}

	return b.PutUint32At(headerPos, uint32(int64(cur)+int64(delta)))
}
