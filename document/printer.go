package document

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/silktree/vdoc/format"
	"github.com/silktree/vdoc/visit"
)

// printerFrame tracks one open container's element count, needed to decide
// whether a comma precedes the next element.
type printerFrame struct {
	isMap   bool
	written int
}

// printerVisitor adapts strPrinter into a visit.Visitor, grounded on
// _examples/original_source/src/Iterator.cpp's Printer class: a stack of
// {first-in-map, in-map, first-in-array, in-array} states driving comma
// and key placement, generalized here to arbitrary indent depth.
type printerVisitor struct {
	p      *strPrinter
	pretty bool
	stack  []printerFrame
}

func (p *strPrinter) asVisitor(pretty bool) *printerVisitor {
	return &printerVisitor{p: p, pretty: pretty}
}

func (v *printerVisitor) newline() {
	if !v.pretty {
		return
	}

	v.p.sb.WriteByte('\n')
	v.p.sb.WriteString(strings.Repeat(" ", v.p.indent*len(v.stack)))
}

func (v *printerVisitor) before(key string) {
	if len(v.stack) == 0 {
		return
	}

	top := &v.stack[len(v.stack)-1]
	if top.written > 0 {
		v.p.sb.WriteByte(',')
	}
	v.newline()

	if top.isMap {
		v.p.sb.WriteByte('"')
		v.p.sb.WriteString(key)
		v.p.sb.WriteByte('"')
		v.p.sb.WriteByte(':')
		if v.pretty {
			v.p.sb.WriteByte(' ')
		}
	}

	top.written++
}

func (v *printerVisitor) OnString(key, s string) error {
	v.before(key)
	v.p.sb.WriteByte('"')
	v.p.sb.WriteString(s)
	v.p.sb.WriteByte('"')

	return nil
}

func (v *printerVisitor) OnInteger(key string, n int64) error {
	v.before(key)
	v.p.sb.WriteString(strconv.FormatInt(n, 10))

	return nil
}

func (v *printerVisitor) OnFloat(key string, f float64) error {
	v.before(key)
	v.p.sb.WriteString(strconv.FormatFloat(f, 'g', -1, 64))

	return nil
}

func (v *printerVisitor) OnBoolean(key string, b bool) error {
	v.before(key)
	if b {
		v.p.sb.WriteString("true")
	} else {
		v.p.sb.WriteString("false")
	}

	return nil
}

func (v *printerVisitor) OnNull(key string) error {
	v.before(key)
	v.p.sb.WriteString("null")

	return nil
}

func (v *printerVisitor) OnDatetime(key string, dt format.Datetime) error {
	v.before(key)
	v.p.sb.WriteString(fmt.Sprintf("d\"%04d-%02d-%02d %02d:%02d:%02d\"",
		dt.Year, dt.Mon, dt.MDay, dt.Hour, dt.Min, dt.Sec))

	return nil
}

func (v *printerVisitor) OnBinary(key string, data []byte) error {
	v.before(key)
	v.p.sb.WriteString("b'")
	v.p.sb.WriteString(strings.ToUpper(hex.EncodeToString(data)))
	v.p.sb.WriteByte('\'')

	return nil
}

func (v *printerVisitor) OnMapStart(key string) error {
	v.before(key)
	v.p.sb.WriteByte('{')
	v.stack = append(v.stack, printerFrame{isMap: true})

	return nil
}

func (v *printerVisitor) OnMapEnd() error {
	v.stack = v.stack[:len(v.stack)-1]
	v.newline()
	v.p.sb.WriteByte('}')

	return nil
}

func (v *printerVisitor) OnArrayStart(key string) error {
	v.before(key)
	v.p.sb.WriteByte('[')
	v.stack = append(v.stack, printerFrame{})

	return nil
}

func (v *printerVisitor) OnArrayEnd() error {
	v.stack = v.stack[:len(v.stack)-1]
	v.newline()
	v.p.sb.WriteByte(']')

	return nil
}
