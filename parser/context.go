package parser

import (
	"github.com/mossheim/tjson/schema"
)

// ctxKind identifies the enclosing composite kind for a parserContexts
// stack entry -- needed to decide which terminal state to return to once
// a nested value completes (C3).
type ctxKind int8

const (
	ctxMap ctxKind = iota
	ctxArray
)

// ctxEntry is one parserContexts stack entry. skip marks a projected
// (schema-less) subtree: brackets still have to balance, but no container
// is ever allocated and currentJsonNode/nodesStack are left untouched for
// its whole span.
type ctxEntry struct {
	kind ctxKind
	skip bool
}

// expectedEntry is one entry of the expectedTypes stack: the type the
// value about to be read should be coerced to or opened as. A projected
// (skipped) subtree is represented by skip=true rather than by a nil
// schema.Type, since schema.Type's zero value is a meaningful (empty,
// closed) Record.
type expectedEntry struct {
	typ  schema.Type
	skip bool
}

// enterRecordScope pushes a fresh mutable copy of a Record's pending
// fields and its rest type. The scope's own expectedTypes entry was
// already pushed (and possibly rewritten from a Union to this concrete
// Record) by the caller before invoking this.
func (m *machine) enterRecordScope(t schema.Type) {
	m.fieldHierarchy = append(m.fieldHierarchy, t.Fields())
	rest, ok := t.RestType()
	if ok {
		m.restTypes = append(m.restTypes, &rest)
	} else {
		m.restTypes = append(m.restTypes, nil)
	}
}

// enterMapScope pushes an empty field map (maps have no named fields to
// track) and the map's value type as the catch-all rest.
func (m *machine) enterMapScope(t schema.Type) {
	m.fieldHierarchy = append(m.fieldHierarchy, map[string]schema.FieldDesc{})
	rest, _ := t.RestType()
	m.restTypes = append(m.restTypes, &rest)
}

// enterAnyScope pushes an empty field map and Any itself as the rest
// type, so every field inside resolves permissively to Any.
func (m *machine) enterAnyScope(t schema.Type) {
	m.fieldHierarchy = append(m.fieldHierarchy, map[string]schema.FieldDesc{})
	m.restTypes = append(m.restTypes, &t)
}

// enterArrayScope pushes an initial element index of 0.
func (m *machine) enterArrayScope() {
	m.arrayIndexes = append(m.arrayIndexes, 0)
}

func (m *machine) pushExpected(e expectedEntry) {
	m.expectedTypes = append(m.expectedTypes, e)
}

func (m *machine) popExpected() expectedEntry {
	n := len(m.expectedTypes) - 1
	e := m.expectedTypes[n]
	m.expectedTypes = m.expectedTypes[:n]
	return e
}

func (m *machine) peekExpected() expectedEntry {
	return m.expectedTypes[len(m.expectedTypes)-1]
}

// resolveField looks up name in the top pending-field map, removing it on
// a hit (field-map removals happen before child parsing begins, so a
// duplicated field name in input resolves the second time against the
// rest type, not the original field). A scope already tainted by
// projection (its own expectedTypes entry is skip) always pushes a skip
// entry for the field too -- projection is monotone.
func (m *machine) resolveField(name string) {
	if m.peekExpected().skip {
		m.currentField = nil
		m.currentFieldIsRest = false
		m.pushExpected(expectedEntry{skip: true})
		return
	}

	top := len(m.fieldHierarchy) - 1
	if fd, ok := m.fieldHierarchy[top][name]; ok {
		delete(m.fieldHierarchy[top], name)
		fdCopy := fd
		m.currentField = &fdCopy
		m.currentFieldIsRest = false
		m.pushExpected(expectedEntry{typ: fd.Type})
		return
	}

	m.currentField = nil
	if rest := m.restTypes[top]; rest != nil {
		m.currentFieldIsRest = true
		m.pushExpected(expectedEntry{typ: *rest})
	} else {
		m.currentFieldIsRest = false
		m.pushExpected(expectedEntry{skip: true})
	}
}

// resolveElement pushes the member type for the array/tuple element about
// to be parsed at the current top-of-arrayIndexes position.
func (m *machine) resolveElement() error {
	top := m.peekExpected()
	if top.skip {
		m.pushExpected(expectedEntry{skip: true})
		return nil
	}

	idx := m.arrayIndexes[len(m.arrayIndexes)-1]
	t := top.typ

	switch t.Tag() {
	case schema.Array:
		m.pushExpected(expectedEntry{typ: t.ElemType()})
	case schema.Tuple:
		members := t.Members()
		if idx < len(members) {
			m.pushExpected(expectedEntry{typ: members[idx]})
		} else if rest, ok := t.TupleRest(); ok {
			m.pushExpected(expectedEntry{typ: rest})
		} else {
			return m.fail("tuple has no member or rest type for index %d", idx)
		}
	case schema.Any:
		m.pushExpected(expectedEntry{typ: t})
	default:
		return m.fail("expected type %s cannot hold array elements", t.Tag())
	}
	return nil
}

// closeRecordScope pops the top pending-field map and rest type, failing
// if any required field was never consumed.
func (m *machine) closeRecordScope() error {
	n := len(m.fieldHierarchy) - 1
	pending := m.fieldHierarchy[n]
	m.fieldHierarchy = m.fieldHierarchy[:n]
	m.restTypes = m.restTypes[:n]

	for _, fd := range pending {
		if fd.Required {
			return &RequiredFieldError{Name: fd.Name}
		}
	}
	return nil
}

// validateListSize enforces a closed Array's exact element count and a
// Tuple's minimum required member count once the final count is known.
func (m *machine) validateListSize(count int, t schema.Type) error {
	switch t.Tag() {
	case schema.Array:
		if t.ArrayState() == schema.Closed && t.Size() != count {
			return m.fail("array of size %d does not match expected size %d", count, t.Size())
		}
	case schema.Tuple:
		required := len(t.Members())
		if count < required {
			return m.fail("tuple requires %d members, got %d", required, count)
		}
	}
	return nil
}

func (m *machine) pushParserContext(e ctxEntry) { m.parserContexts = append(m.parserContexts, e) }

func (m *machine) popParserContext() ctxEntry {
	n := len(m.parserContexts) - 1
	e := m.parserContexts[n]
	m.parserContexts = m.parserContexts[:n]
	return e
}

func (m *machine) peekParserContext() ctxEntry {
	return m.parserContexts[len(m.parserContexts)-1]
}

func (m *machine) topArrayIndex() int { return m.arrayIndexes[len(m.arrayIndexes)-1] }

func (m *machine) incArrayIndex() {
	m.arrayIndexes[len(m.arrayIndexes)-1]++
}

func (m *machine) popArrayIndex() int {
	n := len(m.arrayIndexes) - 1
	i := m.arrayIndexes[n]
	m.arrayIndexes = m.arrayIndexes[:n]
	return i
}

func (m *machine) pushFieldName(name string) { m.fieldNames = append(m.fieldNames, name) }

func (m *machine) popFieldName() string {
	n := len(m.fieldNames) - 1
	name := m.fieldNames[n]
	m.fieldNames = m.fieldNames[:n]
	return name
}
