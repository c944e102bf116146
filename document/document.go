// Package document implements the Document type of SPEC_FULL.md §2.1:
// the public value type wrapping the wire format of buffer/codec/writer
// into the construction, accessor, mutation, search, diff, and predicate
// operations of spec.md §6. It is grounded on the teacher's top-level
// blob types (blob/numeric_blob.go) for the "thin value wrapper over a
// decode engine" shape, and on _examples/original_source/'s json.cpp/
// json.h/Search.h/helper.h/Iterator.cpp for the algorithms themselves.
package document

import (
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/silktree/vdoc/buffer"
	"github.com/silktree/vdoc/codec"
	"github.com/silktree/vdoc/compress"
	"github.com/silktree/vdoc/errs"
	"github.com/silktree/vdoc/format"
	"github.com/silktree/vdoc/path"
	"github.com/silktree/vdoc/visit"
	"github.com/silktree/vdoc/writer"
)

// Mode selects how a Document relates to the memory backing it
// (spec.md §3.4).
type Mode int

const (
	// ReadOnly borrows its caller's memory and rejects every mutation.
	ReadOnly Mode = iota
	// ReadWrite borrows its caller's memory but allows mutation in place.
	ReadWrite
	// Copy owns an independent copy of its memory, free to mutate.
	Copy
)

func (m Mode) String() string {
	switch m {
	case ReadOnly:
		return "ReadOnly"
	case ReadWrite:
		return "ReadWrite"
	case Copy:
		return "Copy"
	default:
		return "Mode(?)"
	}
}

// Document is a single encoded value (spec.md §3.4): a scalar, or a Map/
// Array and everything nested beneath it. Its buf always holds exactly
// the encoded bytes of this value, tag included, never a larger region.
type Document struct {
	buf  *buffer.Buffer
	mode Mode
	cfg  config
}

// New wraps data (the exact encoded bytes of one value, tag included) as
// a Document in the given Mode (spec.md §6.1 "from a raw region + Mode").
func New(data []byte, mode Mode, opts ...Option) (*Document, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	var buf *buffer.Buffer
	switch mode {
	case ReadOnly:
		buf = buffer.Assign(data, true, cfg.engine)
	case ReadWrite:
		buf = buffer.Assign(data, false, cfg.engine)
	case Copy:
		buf = buffer.Copy(data, cfg.engine)
	default:
		return nil, fmt.Errorf("document: Mode(%d): %w", mode, errs.ErrInvalidMode)
	}

	d := &Document{buf: buf, mode: mode, cfg: cfg}
	if _, err := d.decodeTag(); err != nil {
		return nil, err
	}

	return d, nil
}

// FromFramed reads a Document from the persisted form of spec.md §6.4: a
// u32 length prefix followed by exactly that many bytes of raw encoding.
// It returns the Document and whatever bytes of data followed the framed
// value.
func FromFramed(data []byte, mode Mode, opts ...Option) (doc *Document, rest []byte, err error) {
	if len(data) < 4 {
		return nil, nil, fmt.Errorf("document: framed header: %w", errs.ErrCorruptEncoding)
	}

	n := binary.LittleEndian.Uint32(data)
	if uint64(len(data)) < 4+uint64(n) {
		return nil, nil, fmt.Errorf("document: framed body: %w", errs.ErrCorruptEncoding)
	}

	doc, err = New(data[4:4+n], mode, opts...)
	if err != nil {
		return nil, nil, err
	}

	return doc, data[4+n:], nil
}

// Parser turns an external textual representation into an encoded
// document (spec.md §6.1 "from text, via an external parser"). vdoc does
// not ship a parser of its own; callers supply one (e.g. a JSON-to-wire
// adapter) appropriate to the text they accept.
type Parser interface {
	Parse(text string) ([]byte, error)
}

// FromText parses text with p and wraps the result as a Document.
func FromText(text string, p Parser, mode Mode, opts ...Option) (*Document, error) {
	data, err := p.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("document: parse: %w", err)
	}

	return New(data, mode, opts...)
}

// Persist writes the baseline persisted form (spec.md §6.4) of d to w: a
// little-endian u32 length prefix followed by d's raw encoded bytes. This
// is a framing operation, not algorithmic compression; see the compress
// package for the optional compressed persisted form (SPEC_FULL.md §4).
func (d *Document) Persist(w io.Writer) (int64, error) {
	raw := d.buf.Bytes()

	var hdr [4]byte
	binary.LittleEndian.PutUint32(hdr[:], uint32(len(raw)))

	n1, err := w.Write(hdr[:])
	if err != nil {
		return int64(n1), err
	}

	n2, err := w.Write(raw)

	return int64(n1 + n2), err
}

// PersistCompressed writes the optional compressed persisted form
// (SPEC_FULL.md §3/§4.4) of d to w: a one-byte format.CompressionType tag,
// a little-endian u32 length of the compressed payload, then the
// compressed bytes themselves, produced by compress.GetCodec(algo).
func (d *Document) PersistCompressed(w io.Writer, algo format.CompressionType) (int64, error) {
	cc, err := compress.GetCodec(algo)
	if err != nil {
		return 0, err
	}

	compressed, err := cc.Compress(d.buf.Bytes())
	if err != nil {
		return 0, err
	}

	var hdr [5]byte
	hdr[0] = byte(algo)
	binary.LittleEndian.PutUint32(hdr[1:], uint32(len(compressed)))

	n1, err := w.Write(hdr[:])
	if err != nil {
		return int64(n1), err
	}

	n2, err := w.Write(compressed)

	return int64(n1 + n2), err
}

// FromCompressed reads a Document from the compressed persisted form
// written by PersistCompressed, returning the Document and whatever bytes
// followed it.
func FromCompressed(data []byte, mode Mode, opts ...Option) (doc *Document, rest []byte, err error) {
	if len(data) < 5 {
		return nil, nil, fmt.Errorf("document: compressed header: %w", errs.ErrCorruptEncoding)
	}

	algo := format.CompressionType(data[0])
	n := binary.LittleEndian.Uint32(data[1:5])
	if uint64(len(data)) < 5+uint64(n) {
		return nil, nil, fmt.Errorf("document: compressed body: %w", errs.ErrCorruptEncoding)
	}

	cc, err := compress.GetCodec(algo)
	if err != nil {
		return nil, nil, err
	}

	raw, err := cc.Decompress(data[5 : 5+n])
	if err != nil {
		return nil, nil, err
	}

	doc, err = New(raw, mode, opts...)
	if err != nil {
		return nil, nil, err
	}

	return doc, data[5+n:], nil
}

func (d *Document) decodeTag() (format.Kind, error) {
	if err := d.buf.MoveTo(0); err != nil {
		return 0, err
	}

	return codec.ReadTag(d.buf)
}

// GetType returns the Kind of the value this Document holds.
func (d *Document) GetType() (format.Kind, error) {
	return d.decodeTag()
}

// GetSize reports children count for a Map/Array, byte length for
// Binary, 1 for any other non-Null scalar, and 0 for Null.
func (d *Document) GetSize() (int, error) {
	k, err := d.decodeTag()
	if err != nil {
		return 0, err
	}

	switch k {
	case format.KindNull:
		return 0, nil
	case format.KindMap, format.KindArray:
		_, count, err := codec.ReadContainerHeader(d.buf)
		if err != nil {
			return 0, err
		}

		return int(count), nil
	case format.KindBinary:
		n, err := d.buf.ReadUint32()
		if err != nil {
			return 0, err
		}

		return int(n), nil
	default:
		return 1, nil
	}
}

// ChildRef names one direct child of a Map or Array, with the bytes of
// its fully encoded value (tag included).
type ChildRef struct {
	Key   string // the Map key, or the Array index as a decimal string
	Index int
	Data  []byte
}

// Children decodes every direct child of a Map or Array in order, the
// shared primitive behind GetKey and GetChild. It fails with
// errs.ErrNotContainer for a scalar value.
func (d *Document) Children() ([]ChildRef, error) {
	k, err := d.decodeTag()
	if err != nil {
		return nil, err
	}
	if k != format.KindMap && k != format.KindArray {
		return nil, fmt.Errorf("document: Children on %v: %w", k, errs.ErrNotContainer)
	}

	_, count, err := codec.ReadContainerHeader(d.buf)
	if err != nil {
		return nil, err
	}

	out := make([]ChildRef, 0, count)
	for i := uint32(0); i < count; i++ {
		key := strconv.FormatUint(uint64(i), 10)
		if k == format.KindMap {
			key, err = codec.ReadKey(d.buf)
			if err != nil {
				return nil, err
			}
		}

		start := d.buf.Pos()
		ck, err := codec.ReadTag(d.buf)
		if err != nil {
			return nil, err
		}
		if err := codec.Skip(d.buf, ck); err != nil {
			return nil, err
		}

		out = append(out, ChildRef{Key: key, Index: int(i), Data: d.buf.Bytes()[start:d.buf.Pos()]})
	}

	return out, nil
}

// GetKey returns the key of the i-th entry of a Map.
func (d *Document) GetKey(i int) (string, error) {
	k, err := d.decodeTag()
	if err != nil {
		return "", err
	}
	if k != format.KindMap {
		return "", fmt.Errorf("document: GetKey on %v: %w", k, errs.ErrNotContainer)
	}

	children, err := d.Children()
	if err != nil {
		return "", err
	}
	if i < 0 || i >= len(children) {
		return "", fmt.Errorf("document: GetKey(%d): %w", i, errs.ErrIndexOutOfRange)
	}

	return children[i].Key, nil
}

// GetChild returns a read-only projection of the i-th direct child of a
// Map or Array.
func (d *Document) GetChild(i int) (*Document, error) {
	children, err := d.Children()
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(children) {
		return nil, fmt.Errorf("document: GetChild(%d): %w", i, errs.ErrIndexOutOfRange)
	}

	return New(children[i].Data, ReadOnly, WithEndian(d.buf.Engine()))
}

// At is a positional-projection alias of GetChild, named for the
// supplemental document.At(parent, index) form of SPEC_FULL.md §4.
func At(parent *Document, index int) (*Document, error) {
	return parent.GetChild(index)
}

// Get resolves a single non-wildcard dotted path against d and returns a
// read-only projection of the value found there, or errs.ErrPathNotFound.
func (d *Document) Get(p string) (*Document, error) {
	tokens := path.Split(p)

	cur := d.buf.Bytes()
	for _, tok := range tokens {
		b := buffer.Assign(cur, true, d.buf.Engine())
		k, err := codec.ReadTag(b)
		if err != nil {
			return nil, err
		}

		switch k {
		case format.KindMap:
			found := false
			doc, err := New(cur, ReadOnly, WithEndian(d.buf.Engine()))
			if err != nil {
				return nil, err
			}
			children, err := doc.Children()
			if err != nil {
				return nil, err
			}
			for _, c := range children {
				if c.Key == tok {
					cur = c.Data
					found = true

					break
				}
			}
			if !found {
				return nil, fmt.Errorf("document: Get(%q): %w", p, errs.ErrPathNotFound)
			}
		case format.KindArray:
			idx, err := strconv.Atoi(tok)
			if err != nil {
				return nil, fmt.Errorf("document: Get(%q): %w", p, errs.ErrPathNotFound)
			}
			doc, err := New(cur, ReadOnly, WithEndian(d.buf.Engine()))
			if err != nil {
				return nil, err
			}
			children, err := doc.Children()
			if err != nil {
				return nil, err
			}
			if idx < 0 || idx >= len(children) {
				return nil, fmt.Errorf("document: Get(%q): %w", p, errs.ErrPathNotFound)
			}
			cur = children[idx].Data
		default:
			return nil, fmt.Errorf("document: Get(%q): %w", p, errs.ErrPathNotFound)
		}
	}

	return New(cur, ReadOnly, WithEndian(d.buf.Engine()))
}

// Query returns every leaf path of d matching the shell-glob pattern
// (SPEC_FULL.md §4 item 3), delegating to package path.
func (d *Document) Query(pattern string) []string {
	return path.Query(d.buf.Bytes(), pattern)
}

func (d *Document) wrongKind(want string, got format.Kind) error {
	return fmt.Errorf("document: want %s, got %v: %w", want, got, errs.ErrWrongKind)
}

// AsString returns a String value's contents.
func (d *Document) AsString() (string, error) {
	k, err := d.decodeTag()
	if err != nil {
		return "", err
	}
	if k != format.KindString {
		return "", d.wrongKind("String", k)
	}

	return codec.ReadStringPayload(d.buf)
}

// AsInteger returns an Integer value's contents.
func (d *Document) AsInteger() (int64, error) {
	k, err := d.decodeTag()
	if err != nil {
		return 0, err
	}
	if k != format.KindInteger {
		return 0, d.wrongKind("Integer", k)
	}

	return codec.ReadIntegerPayload(d.buf)
}

// AsFloat returns a Float value's contents.
func (d *Document) AsFloat() (float64, error) {
	k, err := d.decodeTag()
	if err != nil {
		return 0, err
	}
	if k != format.KindFloat {
		return 0, d.wrongKind("Float", k)
	}

	return codec.ReadFloatPayload(d.buf)
}

// AsBoolean returns a True/False value's contents.
func (d *Document) AsBoolean() (bool, error) {
	k, err := d.decodeTag()
	if err != nil {
		return false, err
	}

	switch k {
	case format.KindTrue:
		return true, nil
	case format.KindFalse:
		return false, nil
	default:
		return false, d.wrongKind("Boolean", k)
	}
}

// AsBitstream returns a Binary value's raw bytes, aliasing the
// Document's backing memory.
func (d *Document) AsBitstream() ([]byte, error) {
	k, err := d.decodeTag()
	if err != nil {
		return nil, err
	}
	if k != format.KindBinary {
		return nil, d.wrongKind("Binary", k)
	}

	return codec.ReadBinaryPayload(d.buf)
}

// AsDatetime returns a Datetime value's contents.
func (d *Document) AsDatetime() (format.Datetime, error) {
	k, err := d.decodeTag()
	if err != nil {
		return format.Datetime{}, err
	}
	if k != format.KindDatetime {
		return format.Datetime{}, d.wrongKind("Datetime", k)
	}

	return codec.ReadDatetimePayload(d.buf)
}

// Hash returns a deterministic 64-bit hash of d's exact encoded bytes.
func (d *Document) Hash() uint64 {
	return d.buf.Hash()
}

// Equal reports whether d and other hold byte-identical encodings.
func (d *Document) Equal(other *Document) bool {
	if other == nil {
		return false
	}

	return d.buf.Equal(other.buf)
}

// ByteSize returns the total length of d's encoded bytes.
func (d *Document) ByteSize() int {
	return d.buf.Size()
}

// Bytes returns d's exact encoded bytes (tag included).
func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

// Mode returns the Document's ownership mode.
func (d *Document) Mode() Mode {
	return d.mode
}

// Empty reports whether d is Null, or a Map/Array/String/Binary with
// zero elements or bytes.
func (d *Document) Empty() (bool, error) {
	size, err := d.GetSize()
	if err != nil {
		return false, err
	}

	k, err := d.GetType()
	if err != nil {
		return false, err
	}
	if k == format.KindNull {
		return true, nil
	}

	switch k {
	case format.KindMap, format.KindArray, format.KindBinary:
		return size == 0, nil
	case format.KindString:
		s, err := d.AsString()
		if err != nil {
			return false, err
		}

		return s == "", nil
	default:
		return false, nil
	}
}

func (d *Document) checkMutable() error {
	if d.mode == ReadOnly {
		return fmt.Errorf("document: mutate: %w", errs.ErrReadOnly)
	}

	return nil
}

// Clear replaces d's value with Null. It fails on a ReadOnly Document.
func (d *Document) Clear() error {
	if err := d.checkMutable(); err != nil {
		return err
	}

	w := writer.New(d.buf.Engine())
	if err := w.WriteNull(""); err != nil {
		return err
	}

	d.buf = buffer.Copy(w.Bytes(), d.buf.Engine())

	return nil
}

// DetachData yields d's raw encoded bytes and leaves d holding an empty
// buffer; it must not be used afterward.
func (d *Document) DetachData() []byte {
	return d.buf.Detach()
}

// Duplicate returns an independent Document. If forceCopy is false and d
// is already ReadOnly, the duplicate may share d's backing memory, since
// neither can mutate it; any other combination allocates an owned copy.
func (d *Document) Duplicate(forceCopy bool) (*Document, error) {
	if !forceCopy && d.mode == ReadOnly {
		return New(d.buf.Bytes(), ReadOnly, WithEndian(d.buf.Engine()))
	}

	return New(d.buf.Bytes(), Copy, WithEndian(d.buf.Engine()))
}

// strPrinter renders a Document's textual surface (spec.md §6.3),
// grounded on _examples/original_source/src/Iterator.cpp's Printer: no
// string escaping, binary as b'<hex>', datetime as d"YYYY-MM-DD HH:MM:SS".
type strPrinter struct {
	sb     strings.Builder
	indent int
}

func (d *Document) render(pretty bool, indent int) (string, error) {
	if err := d.buf.MoveTo(0); err != nil {
		return "", err
	}

	p := &strPrinter{indent: indent}
	if err := visit.Walk(d.buf, p.asVisitor(pretty)); err != nil {
		return "", err
	}

	return p.sb.String(), nil
}

// Str renders d as compact text with no indentation.
func (d *Document) Str() (string, error) {
	return d.render(false, 0)
}

// PrettyStr renders d as indented text, indent spaces per nesting level.
func (d *Document) PrettyStr(indent int) (string, error) {
	return d.render(true, indent)
}
