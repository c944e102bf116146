package document

import "github.com/silktree/vdoc/endian"

// config holds the resolved settings of an Option/SearchOption chain.
type config struct {
	engine     endian.EndianEngine
	maxDepth   int
	strictKeys bool
}

// defaultMaxDepth bounds the merger's auto-create-then-retry recursion
// (spec.md §4.7): the original's DocumentMerger retries parse_map from
// its own start position, unbounded, whenever an intermediate Map key is
// missing. WithMaxDepth gives that loop a ceiling.
const defaultMaxDepth = 64

func defaultConfig() config {
	return config{
		engine:   endian.GetLittleEndianEngine(),
		maxDepth: defaultMaxDepth,
	}
}

// Option configures a Document constructed by New, FromFramed, or FromText.
type Option func(*config)

// WithEndian selects the byte-order engine used to decode/encode this
// Document's fixed-width fields. Documents default to little-endian.
func WithEndian(e endian.EndianEngine) Option {
	return func(c *config) { c.engine = e }
}

// WithMaxDepth bounds how many levels below the root Insert may descend,
// through existing or auto-created containers alike, before failing with
// errs.ErrMaxDepthExceeded, instead of the original's unbounded recursion.
func WithMaxDepth(depth int) Option {
	return func(c *config) { c.maxDepth = depth }
}

// WithStrictKeys additionally rejects Map keys starting with a digit, on
// top of the baseline alphanumeric/underscore rule Insert always enforces
// (document.isValidMapKey), for callers that want keys to look like
// identifiers.
func WithStrictKeys(strict bool) Option {
	return func(c *config) { c.strictKeys = strict }
}

// SearchOption configures a Filter call (spec.md §4.6).
type SearchOption func(*searchConfig)

type searchConfig struct {
	writeStructure bool
	force          bool
}

func defaultSearchConfig() searchConfig {
	return searchConfig{writeStructure: true}
}

// WriteStructure controls whether Filter preserves each match's full
// dotted-path structure (Map/Array ancestors rebuilt around it) or emits
// matched values as a flat Array. Defaults to true.
func WriteStructure(on bool) SearchOption {
	return func(c *searchConfig) { c.writeStructure = on }
}

// Force requires every target path to resolve to at least one match,
// failing the whole Filter with errs.ErrPathNotFound otherwise. Defaults
// to false (best-effort: unmatched targets are simply absent).
func Force(on bool) SearchOption {
	return func(c *searchConfig) { c.force = on }
}
