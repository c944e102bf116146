// Package format defines the wire-level constants shared by every other
// package in the module: the one-byte value tag that prefixes every
// encoded value, and the kind of edit recorded by a diff entry.
package format

// Kind is the one-byte tag that prefixes every encoded value on the wire.
type Kind uint8

const (
	KindMap Kind = iota + 1
	KindArray
	KindString
	KindDatetime
	KindInteger
	KindFloat
	KindTrue
	KindFalse
	KindBinary
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindMap:
		return "Map"
	case KindArray:
		return "Array"
	case KindString:
		return "String"
	case KindDatetime:
		return "Datetime"
	case KindInteger:
		return "Integer"
	case KindFloat:
		return "Float"
	case KindTrue:
		return "True"
	case KindFalse:
		return "False"
	case KindBinary:
		return "Binary"
	case KindNull:
		return "Null"
	default:
		return "Unknown"
	}
}

// IsContainer reports whether k holds children addressable by a path
// component (a map key or an array index).
func (k Kind) IsContainer() bool {
	return k == KindMap || k == KindArray
}

// IsBoolean reports whether k is one of the two boolean tags.
func (k Kind) IsBoolean() bool {
	return k == KindTrue || k == KindFalse
}

// DiffKind is the kind of edit recorded by a single diff entry.
type DiffKind uint8

const (
	DiffModified DiffKind = iota + 1
	DiffDeleted
	DiffAdded
)

func (d DiffKind) String() string {
	switch d {
	case DiffModified:
		return "modified"
	case DiffDeleted:
		return "deleted"
	case DiffAdded:
		return "added"
	default:
		return "unknown"
	}
}

// CompressionType selects the algorithm used by the optional compressed
// persisted form (SPEC_FULL.md §3/§4.4).
type CompressionType uint8

const (
	CompressionNone CompressionType = iota + 1
	CompressionZstd
	CompressionLZ4
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// Datetime is the fixed-width struct payload of a Datetime value (§3.2):
// nine signed 32-bit fields mirroring the C `struct tm` layout the
// original implementation serialized directly.
type Datetime struct {
	Year   int32
	Mon    int32
	MDay   int32
	Hour   int32
	Min    int32
	Sec    int32
	WDay   int32
	YDay   int32
	IsDST  int32
}

// DatetimeByteSize is the fixed encoded size of a Datetime payload: nine int32 fields.
const DatetimeByteSize = 9 * 4
