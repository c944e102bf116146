package visit

import (
	"iter"

	"github.com/silktree/vdoc/buffer"
	"github.com/silktree/vdoc/format"
)

// Event describes one step of a depth-first walk: either a scalar leaf,
// or the start/end of a container. Depth is the nesting level of the
// value (0 for the root).
type Event struct {
	Key   string
	Kind  format.Kind
	Depth int

	Str      string
	Int      int64
	Float    float64
	Bool     bool
	Bin      []byte
	Datetime format.Datetime
}

// All returns an iterator over every Event produced by walking b's value,
// depth-first and left-to-right, in the range-over-func style the
// teacher's decoders use for their All()/AllValues() accessors. Breaking
// out of the range loop stops the underlying walk early.
func All(b *buffer.Buffer) iter.Seq[Event] {
	return func(yield func(Event) bool) {
		collector := &eventCollector{yield: yield}
		_ = Walk(b, collector)
	}
}

// eventCollector adapts the callback Visitor into a sequence of Events
// fed to a range-over-func yield, tracking nesting depth itself since
// Visitor's OnMapEnd/OnArrayEnd carry no key.
type eventCollector struct {
	yield func(Event) bool
	depth int
}

func (c *eventCollector) emit(e Event) error {
	e.Depth = c.depth
	if !c.yield(e) {
		return errStop
	}

	return nil
}

func (c *eventCollector) OnString(key, v string) error {
	return c.emit(Event{Key: key, Kind: format.KindString, Str: v})
}

func (c *eventCollector) OnInteger(key string, v int64) error {
	return c.emit(Event{Key: key, Kind: format.KindInteger, Int: v})
}

func (c *eventCollector) OnFloat(key string, v float64) error {
	return c.emit(Event{Key: key, Kind: format.KindFloat, Float: v})
}

func (c *eventCollector) OnBoolean(key string, v bool) error {
	k := format.KindFalse
	if v {
		k = format.KindTrue
	}

	return c.emit(Event{Key: key, Kind: k, Bool: v})
}

func (c *eventCollector) OnNull(key string) error {
	return c.emit(Event{Key: key, Kind: format.KindNull})
}

func (c *eventCollector) OnDatetime(key string, v format.Datetime) error {
	return c.emit(Event{Key: key, Kind: format.KindDatetime, Datetime: v})
}

func (c *eventCollector) OnBinary(key string, v []byte) error {
	return c.emit(Event{Key: key, Kind: format.KindBinary, Bin: v})
}

func (c *eventCollector) OnMapStart(key string) error {
	err := c.emit(Event{Key: key, Kind: format.KindMap})
	c.depth++

	return err
}

func (c *eventCollector) OnMapEnd() error {
	c.depth--

	return nil
}

func (c *eventCollector) OnArrayStart(key string) error {
	err := c.emit(Event{Key: key, Kind: format.KindArray})
	c.depth++

	return err
}

func (c *eventCollector) OnArrayEnd() error {
	c.depth--

	return nil
}
