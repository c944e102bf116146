// Package vdoc provides a compact, self-describing binary document format
// for tree-shaped data: maps, arrays, and a fixed set of scalar kinds
// (string, integer, float, boolean, datetime, binary, null), encoded with
// a tagged-length layout that supports O(1) sub-tree skipping without a
// full parse.
//
// # Core features
//
//   - Zero-copy read-only views over borrowed memory, or owned copies
//   - In-place mutation (Insert, Add) of owned/borrowed-writable documents
//   - Dotted-path access with `*` wildcard expansion over arrays
//   - Structural Filter, positional Diff, and MongoDB-style predicate
//     matching ($in, $lt, $gte)
//   - Optional Zstd/LZ4 compression of the persisted form
//
// # Basic usage
//
// Building and reading a document:
//
//	w := writer.New(nil)
//	w.StartMap("")
//	w.WriteString("name", "alice")
//	w.WriteInteger("age", 30)
//	w.EndMap()
//
//	doc, err := vdoc.New(w.Bytes(), document.ReadOnly)
//	age, err := doc.Get("age")
//	n, err := age.AsInteger()
//
// # Package structure
//
// This package is a thin top-level entry point around the document
// package, mirroring the common construction paths. For advanced usage —
// custom Option sets, the buffer/codec/writer building blocks, or the
// compress package's persisted-form codecs — use those packages directly.
package vdoc

import (
	"io"

	"github.com/silktree/vdoc/document"
	"github.com/silktree/vdoc/internal/hash"
)

// Mode re-exports document.Mode for callers that only import the vdoc
// package.
type Mode = document.Mode

const (
	ReadOnly  = document.ReadOnly
	ReadWrite = document.ReadWrite
	Copy      = document.Copy
)

// Parser re-exports document.Parser: an external textual format's
// converter into vdoc's own encoded bytes.
type Parser = document.Parser

// New wraps data (the exact encoded bytes of one value, tag included) as
// a Document in the given Mode.
func New(data []byte, mode Mode, opts ...document.Option) (*document.Document, error) {
	return document.New(data, mode, opts...)
}

// FromFramed reads a Document from its persisted form: a u32 length
// prefix followed by exactly that many bytes of raw encoding, returning
// whatever bytes followed it.
func FromFramed(data []byte, mode Mode, opts ...document.Option) (doc *document.Document, rest []byte, err error) {
	return document.FromFramed(data, mode, opts...)
}

// FromString parses text with p and wraps the result as a Document. vdoc
// ships no parser of its own; p adapts whatever external textual format
// (JSON, YAML, ...) the caller's data arrives in.
func FromString(text string, p Parser, mode Mode, opts ...document.Option) (*document.Document, error) {
	return document.FromText(text, p, mode, opts...)
}

// Persist writes doc's persisted form (a u32 length prefix followed by
// its raw encoded bytes) to w.
func Persist(doc *document.Document, w io.Writer) (int64, error) {
	return doc.Persist(w)
}

// HashKey returns a stable 64-bit hash of a string, for callers that want
// to key an external index (a cache, a sharded map) by a Map key or
// dotted path without storing the string itself. It is unrelated to
// Document.Hash, which hashes a document's encoded bytes, not a key name.
func HashKey(s string) uint64 {
	return hash.ID(s)
}
