package document

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/silktree/vdoc/errs"
	"github.com/silktree/vdoc/path"
	"github.com/silktree/vdoc/writer"
)

// searchNode is an in-memory scratch tree used to rebuild a single
// coherent document out of possibly-overlapping matched paths, since the
// wire format has no sparse-array representation to insert directly into
// (spec.md §4.6).
type searchNode struct {
	isArray     bool
	isMap       bool
	mapChildren map[string]*searchNode
	mapOrder    []string
	arrChildren map[int]*searchNode
	leaf        *Document
}

func (n *searchNode) insert(tokens []string, value *Document) {
	if len(tokens) == 0 {
		n.leaf = value

		return
	}

	tok, rest := tokens[0], tokens[1:]

	if idx, err := strconv.Atoi(tok); err == nil {
		n.isArray = true
		if n.arrChildren == nil {
			n.arrChildren = map[int]*searchNode{}
		}
		child, ok := n.arrChildren[idx]
		if !ok {
			child = &searchNode{}
			n.arrChildren[idx] = child
		}
		child.insert(rest, value)

		return
	}

	n.isMap = true
	if n.mapChildren == nil {
		n.mapChildren = map[string]*searchNode{}
	}
	child, ok := n.mapChildren[tok]
	if !ok {
		child = &searchNode{}
		n.mapChildren[tok] = child
		n.mapOrder = append(n.mapOrder, tok)
	}
	child.insert(rest, value)
}

// renderSearchNode writes n under key into w. Array children are written in
// ascending index order but compacted to consecutive positions, since
// spec.md's Array has no notion of a sparse hole: a Filter that matched
// only index 5 of a ten-element array produces a one-element result
// array, not a ten-element one with nine empty slots.
func renderSearchNode(w *writer.Writer, key string, n *searchNode) error {
	switch {
	case n.leaf != nil:
		return w.WriteRawValue(key, n.leaf.Bytes())
	case n.isArray:
		if err := w.StartArray(key); err != nil {
			return err
		}
		idxs := make([]int, 0, len(n.arrChildren))
		for i := range n.arrChildren {
			idxs = append(idxs, i)
		}
		sort.Ints(idxs)
		for _, i := range idxs {
			if err := renderSearchNode(w, "", n.arrChildren[i]); err != nil {
				return err
			}
		}

		return w.EndArray()
	case n.isMap:
		if err := w.StartMap(key); err != nil {
			return err
		}
		for _, k := range n.mapOrder {
			if err := renderSearchNode(w, k, n.mapChildren[k]); err != nil {
				return err
			}
		}

		return w.EndMap()
	default:
		return w.WriteNull(key)
	}
}

// Filter resolves every target pattern against d (each wildcard-expanded
// via path.ExpandPaths) and returns a new Document holding the matched
// values (spec.md §4.6), grounded on
// _examples/original_source/src/Search.h's DocumentSearch. With
// WriteStructure (the default), matches are rebuilt into a single
// document mirroring their original Map/Array ancestry. With
// WriteStructure(false), matches are instead collected into a flat
// Array: this is a deliberate departure from the original, whose
// write_path=false branch emits each match as a bare top-level write
// with no enclosing container when there is more than one match,
// violating the single-encoded-value invariant every other Document
// operation relies on. With Force(true), any target pattern that
// resolves to zero matches fails the whole call with errs.ErrPathNotFound.
func (d *Document) Filter(targets []string, opts ...SearchOption) (*Document, error) {
	cfg := defaultSearchConfig()
	for _, o := range opts {
		o(&cfg)
	}

	type match struct {
		tokens []string
		value  *Document
	}

	var matches []match
	for _, target := range targets {
		expanded := path.ExpandPaths(path.Split(target), d.Bytes())

		found := false
		for _, p := range expanded {
			v, err := d.Get(p)
			if err != nil {
				continue
			}
			matches = append(matches, match{tokens: path.Split(p), value: v})
			found = true
		}

		if cfg.force && !found {
			return nil, fmt.Errorf("document: Filter(%q): %w", target, errs.ErrPathNotFound)
		}
	}

	w := writer.New(d.buf.Engine())

	if !cfg.writeStructure {
		if err := w.StartArray(""); err != nil {
			return nil, err
		}
		for _, m := range matches {
			if err := w.WriteRawValue("", m.value.Bytes()); err != nil {
				return nil, err
			}
		}
		if err := w.EndArray(); err != nil {
			return nil, err
		}

		return New(w.Bytes(), ReadOnly, WithEndian(d.buf.Engine()))
	}

	root := &searchNode{}
	for _, m := range matches {
		root.insert(m.tokens, m.value)
	}
	if err := renderSearchNode(w, "", root); err != nil {
		return nil, err
	}

	return New(w.Bytes(), ReadOnly, WithEndian(d.buf.Engine()))
}
