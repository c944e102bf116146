package document

import (
	"github.com/silktree/vdoc/format"
	"github.com/silktree/vdoc/path"
)

// predMode mirrors the original PredicateChecker's mode stack, generalized
// from {NORMAL, IN} to {Normal, In, LessThan, GreaterThanEqual} per
// spec.md §4.10's $lt/$gte supplement.
type predMode int

const (
	modeNormal predMode = iota
	modeIn
	modeLt
	modeGte
)

// predFrame is one entry of the predicate walk's path/mode stack. kind/i/
// f/s hold the subject's captured value for an In/Lt/Gte frame, taken at
// the path as it stood just before the operator key ("$in", "$lt",
// "$gte") was pushed. found records whether any predicate leaf compared
// against this frame has matched yet.
type predFrame struct {
	mode  predMode
	kind  format.Kind
	i     int64
	f     float64
	s     string
	found bool
}

// predicateChecker walks a predicate document (e.g. {"age":{"$in":[1,2]}})
// as the traversal engine's visitor, cross-referencing a subject Document
// at the path the walk has reached, grounded on
// _examples/original_source/src/Iterator.cpp's PredicateChecker.
type predicateChecker struct {
	subject *Document
	path    []string
	stack   []predFrame
	matched bool
}

// MatchesPredicates reports whether d satisfies every field of pred
// (spec.md §4.10): a plain scalar under a field matches by equality
// against every wildcard-expanded concrete path of that field ($in, $lt,
// $gte install their own comparison instead). It fails only on a
// genuinely corrupt encoding; a predicate that simply doesn't match
// returns (false, nil).
func (d *Document) MatchesPredicates(pred *Document) (bool, error) {
	pc := &predicateChecker{subject: d, matched: true}
	if err := pc.walkValue(pred); err != nil {
		return false, err
	}

	return pc.matched, nil
}

func (pc *predicateChecker) walkValue(v *Document) error {
	k, err := v.GetType()
	if err != nil {
		return err
	}

	switch k {
	case format.KindMap:
		return pc.walkMap(v)
	case format.KindArray:
		return pc.walkArray(v)
	case format.KindString:
		s, err := v.AsString()
		if err != nil {
			return err
		}

		return pc.handleScalar(format.KindString, 0, 0, s)
	case format.KindInteger:
		n, err := v.AsInteger()
		if err != nil {
			return err
		}

		return pc.handleScalar(format.KindInteger, n, 0, "")
	case format.KindFloat:
		f, err := v.AsFloat()
		if err != nil {
			return err
		}

		return pc.handleScalar(format.KindFloat, 0, f, "")
	case format.KindTrue, format.KindFalse:
		b, err := v.AsBoolean()
		if err != nil {
			return err
		}

		return pc.handleBoolean(b)
	default:
		// Binary, Null, Datetime: intentional no-op, grounded on the
		// original's empty handle_binary/handle_null/handle_datetime.
		return nil
	}
}

func operatorMode(key string) (predMode, bool) {
	switch key {
	case "$in":
		return modeIn, true
	case "$lt":
		return modeLt, true
	case "$gte":
		return modeGte, true
	default:
		return modeNormal, false
	}
}

func (pc *predicateChecker) walkMap(v *Document) error {
	children, err := v.Children()
	if err != nil {
		return err
	}

	for _, c := range children {
		child, err := New(c.Data, ReadOnly, WithEndian(v.buf.Engine()))
		if err != nil {
			return err
		}

		if err := pc.walkMapEntry(c.Key, child); err != nil {
			return err
		}
	}

	return nil
}

// walkMapEntry reproduces the original's push_path: a Map key is
// dot-split into separate path components (so a condensed key like
// "a.*.b" reaches the subject as three path segments instead of one
// unresolvable literal token), with only the final component eligible to
// be an operator key ("$in", "$lt", "$gte").
func (pc *predicateChecker) walkMapEntry(key string, child *Document) error {
	tokens := path.Split(key)
	if len(tokens) == 0 {
		tokens = []string{key}
	}

	for _, tok := range tokens[:len(tokens)-1] {
		pc.path = append(pc.path, tok)
		pc.stack = append(pc.stack, predFrame{mode: modeNormal})
	}
	depth := len(tokens) - 1

	last := tokens[len(tokens)-1]

	if mode, ok := operatorMode(last); ok {
		frame := predFrame{mode: mode}
		pc.capture(&frame)
		pc.stack = append(pc.stack, frame)

		if err := pc.walkValue(child); err != nil {
			return err
		}

		top := pc.stack[len(pc.stack)-1]
		pc.stack = pc.stack[:len(pc.stack)-1]
		if !top.found {
			pc.matched = false
		}

		pc.stack = pc.stack[:len(pc.stack)-depth]
		pc.path = pc.path[:len(pc.path)-depth]

		return nil
	}

	pc.path = append(pc.path, last)
	pc.stack = append(pc.stack, predFrame{mode: modeNormal})

	if err := pc.walkValue(child); err != nil {
		return err
	}

	pc.stack = pc.stack[:len(pc.stack)-(depth+1)]
	pc.path = pc.path[:len(pc.path)-(depth+1)]

	return nil
}

// walkArray handles a `$in` list's alternatives: each element is compared
// in the enclosing mode without adding a path segment of its own, since
// array position carries no meaning in the predicate micro-language.
func (pc *predicateChecker) walkArray(v *Document) error {
	children, err := v.Children()
	if err != nil {
		return err
	}

	for _, c := range children {
		child, err := New(c.Data, ReadOnly, WithEndian(v.buf.Engine()))
		if err != nil {
			return err
		}
		if err := pc.walkValue(child); err != nil {
			return err
		}
	}

	return nil
}

// capture resolves the subject's value at the current path (the field an
// operator key is about to annotate) as a single exact lookup, not
// wildcard-expanded, matching the original's path_string(m_path) call.
func (pc *predicateChecker) capture(frame *predFrame) {
	sv, err := pc.subject.Get(path.PathString(pc.path))
	if err != nil {
		frame.kind = format.KindNull

		return
	}

	k, err := sv.GetType()
	if err != nil {
		frame.kind = format.KindNull

		return
	}

	switch k {
	case format.KindInteger:
		v, err := sv.AsInteger()
		if err != nil {
			frame.kind = format.KindNull

			return
		}
		frame.kind, frame.i = k, v
	case format.KindFloat:
		v, err := sv.AsFloat()
		if err != nil {
			frame.kind = format.KindNull

			return
		}
		frame.kind, frame.f = k, v
	case format.KindString:
		v, err := sv.AsString()
		if err != nil {
			frame.kind = format.KindNull

			return
		}
		frame.kind, frame.s = k, v
	default:
		frame.kind = format.KindNull
	}
}

func (pc *predicateChecker) effectiveMode() predMode {
	for i := len(pc.stack) - 1; i >= 0; i-- {
		if pc.stack[i].mode != modeNormal {
			return pc.stack[i].mode
		}
	}

	return modeNormal
}

func (pc *predicateChecker) topSpecialFrame() *predFrame {
	for i := len(pc.stack) - 1; i >= 0; i-- {
		if pc.stack[i].mode != modeNormal {
			return &pc.stack[i]
		}
	}

	return nil
}

// handleScalar is reached for every String/Integer/Float leaf of the
// predicate document. In Normal mode it unifies the original's
// String/Integer-only path_strings expansion across all three kinds (the
// original leaves Float on a single exact-path lookup, which this
// implementation treats as an oversight rather than a contract to
// reproduce): every wildcard-expanded concrete subject path is checked,
// and a single matching expansion is enough (OR semantics).
func (pc *predicateChecker) handleScalar(kind format.Kind, i int64, f float64, s string) error {
	if pc.effectiveMode() == modeNormal {
		anyMatch := false
		for _, p := range path.ExpandPaths(pc.path, pc.subject.Bytes()) {
			sv, err := pc.subject.Get(p)
			if err != nil {
				continue
			}
			sk, err := sv.GetType()
			if err != nil || sk != kind {
				continue
			}

			switch kind {
			case format.KindString:
				if v, err := sv.AsString(); err == nil && v == s {
					anyMatch = true
				}
			case format.KindInteger:
				if v, err := sv.AsInteger(); err == nil && v == i {
					anyMatch = true
				}
			case format.KindFloat:
				if v, err := sv.AsFloat(); err == nil && v == f {
					anyMatch = true
				}
			}
		}
		if !anyMatch {
			pc.matched = false
		}

		return nil
	}

	frame := pc.topSpecialFrame()
	if frame == nil {
		return nil
	}
	if compareSpecial(frame, kind, i, f, s) {
		frame.found = true
	}

	return nil
}

// handleBoolean applies the same expansion-based unification as
// handleScalar (the original's handle_boolean, like handle_float, skips
// expansion; both are treated here as the same oversight). Booleans never
// participate in $in/$lt/$gte, matching the original's capture() which
// only recognizes Integer/String/Float operands.
func (pc *predicateChecker) handleBoolean(b bool) error {
	if pc.effectiveMode() != modeNormal {
		return nil
	}

	want := format.KindFalse
	if b {
		want = format.KindTrue
	}

	anyMatch := false
	for _, p := range path.ExpandPaths(pc.path, pc.subject.Bytes()) {
		sv, err := pc.subject.Get(p)
		if err != nil {
			continue
		}
		if sk, err := sv.GetType(); err == nil && sk == want {
			anyMatch = true
		}
	}
	if !anyMatch {
		pc.matched = false
	}

	return nil
}

func compareSpecial(frame *predFrame, kind format.Kind, i int64, f float64, s string) bool {
	switch frame.mode {
	case modeIn:
		switch frame.kind {
		case format.KindString:
			return kind == format.KindString && s == frame.s
		case format.KindInteger:
			if kind == format.KindInteger {
				return i == frame.i
			}
			if kind == format.KindFloat {
				return f == float64(frame.i)
			}

			return false
		case format.KindFloat:
			if kind == format.KindFloat {
				return f == frame.f
			}
			if kind == format.KindInteger {
				return float64(i) == frame.f
			}

			return false
		default:
			return false
		}
	case modeLt, modeGte:
		var subjectNum, predNum float64

		switch frame.kind {
		case format.KindInteger:
			subjectNum = float64(frame.i)
		case format.KindFloat:
			subjectNum = frame.f
		default:
			return false
		}

		switch kind {
		case format.KindInteger:
			predNum = float64(i)
		case format.KindFloat:
			predNum = f
		default:
			return false
		}

		if frame.mode == modeLt {
			return subjectNum < predNum
		}

		return subjectNum >= predNum
	default:
		return false
	}
}
