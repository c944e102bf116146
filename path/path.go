// Package path implements the dotted-path resolver of SPEC_FULL.md §2.1
// component 5 (spec.md §4.4): wildcard expansion of a path pattern into
// concrete dotted paths, plus a supplemental shell-glob query surface
// (SPEC_FULL.md §4 item 3) built on github.com/ryanuber/go-glob. It is
// grounded on `src/json.h`'s path_strings/path_string from
// _examples/original_source/: a non-wildcard token is appended to the
// path literally without touching the document at all; only a `*` token
// triggers a lookup, to learn the enclosing array's size.
package path

import (
	"strconv"
	"strings"

	"github.com/ryanuber/go-glob"

	"github.com/silktree/vdoc/buffer"
	"github.com/silktree/vdoc/codec"
	"github.com/silktree/vdoc/format"
)

// Wildcard is the reserved path token matching every index of an array.
const Wildcard = "*"

// Split breaks a dotted path string into its tokens.
func Split(p string) []string {
	if p == "" {
		return nil
	}

	return strings.Split(p, ".")
}

// PathString joins path tokens with "." (spec.md §4.4's path_string,
// the inverse of Split).
func PathString(tokens []string) string {
	return strings.Join(tokens, ".")
}

// ExpandPaths expands a path pattern's tokens into every concrete dotted
// path it matches against data, the root value's encoded bytes
// (spec.md §4.4's path_strings). A `*` token requires the value at the
// current prefix to be an Array, and recurses once per index; any other
// token is appended to the prefix literally, with no existence check.
// Expansion is depth-first, left to right; a missing intermediate path
// (wildcard over a non-Array, or out of range) yields an empty list, not
// an error.
func ExpandPaths(tokens []string, data []byte) []string {
	return expand(tokens, data, "")
}

func expand(tokens []string, data []byte, prefix string) []string {
	if len(tokens) == 0 {
		return []string{prefix}
	}

	tok, rest := tokens[0], tokens[1:]

	if tok != Wildcard {
		return expand(rest, data, join(prefix, tok))
	}

	val, ok := navigate(data, Split(prefix))
	if !ok {
		return nil
	}

	b := buffer.Assign(val, true, nil)
	k, err := codec.ReadTag(b)
	if err != nil || k != format.KindArray {
		return nil
	}

	_, count, err := codec.ReadContainerHeader(b)
	if err != nil {
		return nil
	}

	var out []string
	for i := uint32(0); i < count; i++ {
		spath := join(prefix, strconv.FormatUint(uint64(i), 10))
		out = append(out, expand(rest, data, spath)...)
	}

	return out
}

func join(prefix, tok string) string {
	if prefix == "" {
		return tok
	}

	return prefix + "." + tok
}

// navigate walks data from the root following segs (literal map keys or
// numeric array indices) and returns the full encoded bytes (tag
// included) of the value found there. It reports ok=false if any
// segment fails to resolve.
func navigate(data []byte, segs []string) (val []byte, ok bool) {
	cur := data

	for _, seg := range segs {
		b := buffer.Assign(cur, true, nil)
		k, err := codec.ReadTag(b)
		if err != nil {
			return nil, false
		}

		switch k {
		case format.KindMap:
			_, count, err := codec.ReadContainerHeader(b)
			if err != nil {
				return nil, false
			}

			found := false
			for i := uint32(0); i < count; i++ {
				key, err := codec.ReadKey(b)
				if err != nil {
					return nil, false
				}

				start := b.Pos()
				ck, err := codec.ReadTag(b)
				if err != nil {
					return nil, false
				}
				if err := codec.Skip(b, ck); err != nil {
					return nil, false
				}
				end := b.Pos()

				if key == seg {
					cur = b.Bytes()[start:end]
					found = true

					break
				}
			}
			if !found {
				return nil, false
			}
		case format.KindArray:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 {
				return nil, false
			}

			_, count, err := codec.ReadContainerHeader(b)
			if err != nil || uint32(idx) >= count {
				return nil, false
			}

			for i := 0; i < idx; i++ {
				ck, err := codec.ReadTag(b)
				if err != nil {
					return nil, false
				}
				if err := codec.Skip(b, ck); err != nil {
					return nil, false
				}
			}

			start := b.Pos()
			ck, err := codec.ReadTag(b)
			if err != nil {
				return nil, false
			}
			if err := codec.Skip(b, ck); err != nil {
				return nil, false
			}
			cur = b.Bytes()[start:b.Pos()]
		default:
			return nil, false
		}
	}

	return cur, true
}

// AllLeafPaths walks the full document and returns the dotted path of
// every non-container (leaf) value, depth-first, left to right. It
// backs the Query supplement.
func AllLeafPaths(data []byte) []string {
	var out []string
	collectLeaves(data, "", &out)

	return out
}

func collectLeaves(data []byte, prefix string, out *[]string) {
	b := buffer.Assign(data, true, nil)
	k, err := codec.ReadTag(b)
	if err != nil {
		return
	}

	switch k {
	case format.KindMap:
		_, count, err := codec.ReadContainerHeader(b)
		if err != nil {
			return
		}
		for i := uint32(0); i < count; i++ {
			key, err := codec.ReadKey(b)
			if err != nil {
				return
			}
			start := b.Pos()
			ck, err := codec.ReadTag(b)
			if err != nil {
				return
			}
			if err := codec.Skip(b, ck); err != nil {
				return
			}
			collectLeaves(b.Bytes()[start:b.Pos()], join(prefix, key), out)
		}
	case format.KindArray:
		_, count, err := codec.ReadContainerHeader(b)
		if err != nil {
			return
		}
		for i := uint32(0); i < count; i++ {
			start := b.Pos()
			ck, err := codec.ReadTag(b)
			if err != nil {
				return
			}
			if err := codec.Skip(b, ck); err != nil {
				return
			}
			collectLeaves(b.Bytes()[start:b.Pos()], join(prefix, strconv.FormatUint(uint64(i), 10)), out)
		}
	default:
		*out = append(*out, prefix)
	}
}

// MatchGlob reports whether candidate matches a shell-glob pattern (`*`
// wildcards only), via github.com/ryanuber/go-glob. Unlike
// the `*` token of ExpandPaths, which only matches at array boundaries,
// a glob pattern matches anywhere within the dotted path string.
func MatchGlob(pattern, candidate string) bool {
	return glob.Glob(pattern, candidate)
}

// Query returns every leaf path in data whose dotted string matches the
// given shell-glob pattern (SPEC_FULL.md §4 item 3).
func Query(data []byte, pattern string) []string {
	var out []string
	for _, p := range AllLeafPaths(data) {
		if MatchGlob(pattern, p) {
			out = append(out, p)
		}
	}

	return out
}
