// Package parser implements the streaming, schema-directed JSON decoder:
// a character-level state machine (C5) that drives a Builder (C4) using
// an expected schema.Type to decide what to allocate, what to keep, and
// what to project away, without ever materializing an intermediate
// generic tree.
package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/mossheim/tjson/schema"
)

var machinePool = sync.Pool{New: func() any { return newMachine() }}

// Parse reads one JSON document from r and materializes it through b,
// shaped by expected. expected may be a Record, Map, Array, Tuple, Any,
// any scalar tag, or a Union of these that schema.IsSupportedUnionType
// accepts (the check applies recursively, to every Union nested anywhere
// in expected, not only at the top).
//
// Parse borrows a machine from an internal pool and guarantees it is
// reset before being returned to the pool on every exit path, so a
// failed parse never leaks state into the next caller that draws the
// same pooled machine.
func Parse(r io.Reader, expected schema.Type, b Builder) (any, error) {
	if err := validateType(expected); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, err)
	}

	m := machinePool.Get().(*machine)
	defer func() {
		m.reset()
		machinePool.Put(m)
	}()

	m.builder = b
	m.rootExpected = expected
	m.pushExpected(expectedEntry{typ: expected})

	return m.run(r)
}

// validateType recursively rejects any Union, anywhere in the type tree,
// whose members schema.IsSupportedUnionType would reject.
func validateType(t schema.Type) error {
	switch t.Tag() {
	case schema.Union:
		if !schema.IsSupportedUnionType(t) {
			return fmt.Errorf("union type has an unsupported member (record, map, any, or a nested unsupported union)")
		}
		for _, member := range t.Members() {
			if err := validateType(member); err != nil {
				return err
			}
		}
	case schema.Record:
		for _, fd := range t.Fields() {
			if err := validateType(fd.Type); err != nil {
				return err
			}
		}
		if rest, ok := t.RestType(); ok {
			if err := validateType(rest); err != nil {
				return err
			}
		}
	case schema.Map:
		if rest, ok := t.RestType(); ok {
			if err := validateType(rest); err != nil {
				return err
			}
		}
	case schema.Array:
		if err := validateType(t.ElemType()); err != nil {
			return err
		}
	case schema.Tuple:
		for _, member := range t.Members() {
			if err := validateType(member); err != nil {
				return err
			}
		}
		if rest, ok := t.TupleRest(); ok {
			if err := validateType(rest); err != nil {
				return err
			}
		}
	}
	return nil
}

// run drives the character loop: decode one rune, advance location
// tracking, feed it to the state machine, repeat until the reader is
// exhausted.
func (m *machine) run(r io.Reader) (any, error) {
	br := bufio.NewReaderSize(r, 4096)
	read := false
	for {
		ch, _, err := br.ReadRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return m.finish(read)
			}
			return nil, fmt.Errorf("%w: %v", ErrReaderFailure, err)
		}
		read = true
		m.buf.advance(ch)
		if err := m.step(ch); err != nil {
			return nil, err
		}
	}
}

// finish judges the terminal state once the reader is exhausted: no
// input at all (or only whitespace) is an empty document; a pending
// unquoted literal is terminated as if EOF were a delimiter; anything
// short of stateDocEnd after that is an incomplete or malformed document.
func (m *machine) finish(read bool) (any, error) {
	if !read || m.state == stateDocStart {
		return nil, m.fail("%w", ErrEmptyDocument)
	}
	if err := m.handleEOF(); err != nil {
		return nil, err
	}
	if m.state != stateDocEnd {
		return nil, m.fail("%w", ErrInvalidDocument)
	}
	return m.currentJsonNode, nil
}
