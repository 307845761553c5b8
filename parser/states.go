package parser

// state names the driver's current position in the document grammar
// (C5). Escape and unicode-hex processing are each a single state shared
// by every context that can contain a quoted string, parameterized by
// escReturn rather than duplicated per context.
type state int8

const (
	stateDocStart state = iota
	stateDocEnd

	stateFirstFieldReady
	stateNonFirstFieldReady
	stateFieldName
	stateEndFieldName
	stateFieldValueReady
	stateStringFieldValue
	stateNonStringFieldValue
	stateFieldEnd

	stateFirstArrayElementReady
	stateNonFirstArrayElementReady
	stateStringArrayElement
	stateNonStringArrayElement
	stateArrayElementEnd

	stateStringValue
	stateNonStringValue

	stateEscape
	stateUnicodeHex
)

func isBarewordChar(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r == '.' || r == '-' || r == '+':
		return true
	}
	return false
}

// step feeds one decoded rune through the current state. It is the only
// place state transitions happen; every handler either returns an error
// or leaves m.state set to wherever the grammar goes next.
func (m *machine) step(r rune) error {
	switch m.state {
	case stateDocStart:
		return m.stepDocStart(r)
	case stateDocEnd:
		return m.stepDocEnd(r)

	case stateFirstFieldReady:
		return m.stepFieldReady(r, true)
	case stateNonFirstFieldReady:
		return m.stepFieldReady(r, false)
	case stateFieldName:
		return m.stepFieldName(r)
	case stateEndFieldName:
		return m.stepEndFieldName(r)
	case stateFieldValueReady:
		return m.stepValueReady(r, false)
	case stateStringFieldValue:
		return m.stepStringLiteral(r, stateFieldEnd, true)
	case stateNonStringFieldValue:
		return m.stepBareword(r, stateFieldEnd, false)
	case stateFieldEnd:
		return m.stepFieldEnd(r)

	case stateFirstArrayElementReady:
		return m.stepArrayElementReady(r, true)
	case stateNonFirstArrayElementReady:
		return m.stepArrayElementReady(r, false)
	case stateStringArrayElement:
		return m.stepStringLiteral(r, stateArrayElementEnd, false)
	case stateNonStringArrayElement:
		return m.stepBareword(r, stateArrayElementEnd, true)
	case stateArrayElementEnd:
		return m.stepArrayElementEnd(r)

	case stateStringValue:
		return m.stepStringLiteral(r, stateDocEnd, false)
	case stateNonStringValue:
		return m.stepBareword(r, stateDocEnd, true)

	case stateEscape:
		return m.stepEscape(r)
	case stateUnicodeHex:
		return m.stepUnicodeHex(r)
	}
	return m.fail("internal error: unhandled parser state %d", m.state)
}

func (m *machine) stepDocStart(r rune) error {
	if isWS(r) {
		return nil
	}
	switch r {
	case '{':
		if err := m.openComposite(false); err != nil {
			return err
		}
		m.state = stateFirstFieldReady
	case '[':
		if err := m.openComposite(true); err != nil {
			return err
		}
		m.state = stateFirstArrayElementReady
	case '"':
		m.state = stateStringValue
	default:
		m.buf.append(r)
		m.state = stateNonStringValue
	}
	return nil
}

func (m *machine) stepDocEnd(r rune) error {
	if isWS(r) {
		return nil
	}
	return m.fail("invalid JSON document: unexpected trailing character %q", r)
}

func (m *machine) stepFieldReady(r rune, first bool) error {
	if isWS(r) {
		return nil
	}
	if r == '}' {
		if first {
			next, err := m.closeComposite(false)
			if err != nil {
				return err
			}
			m.state = next
			return nil
		}
		return m.fail("trailing comma is not allowed before '}'")
	}
	if r == '"' {
		m.state = stateFieldName
		return nil
	}
	return m.fail("expected a field name, found %q", r)
}

func (m *machine) stepFieldName(r rune) error {
	if r == '"' {
		name := m.buf.take()
		m.resolveField(name)
		m.pushFieldName(name)
		m.state = stateEndFieldName
		return nil
	}
	if r == '\\' {
		m.escReturn = stateFieldName
		m.state = stateEscape
		return nil
	}
	m.buf.append(r)
	return nil
}

func (m *machine) stepEndFieldName(r rune) error {
	if isWS(r) {
		return nil
	}
	if r == ':' {
		m.state = stateFieldValueReady
		return nil
	}
	return m.fail("expected ':' after field name, found %q", r)
}

func (m *machine) stepValueReady(r rune, isArray bool) error {
	if isWS(r) {
		return nil
	}
	if isArray {
		if err := m.resolveElement(); err != nil {
			return err
		}
	}
	switch r {
	case '{':
		if err := m.openComposite(false); err != nil {
			return err
		}
		m.state = stateFirstFieldReady
	case '[':
		if err := m.openComposite(true); err != nil {
			return err
		}
		m.state = stateFirstArrayElementReady
	case '"':
		if isArray {
			m.state = stateStringArrayElement
		} else {
			m.state = stateStringFieldValue
		}
	default:
		m.buf.append(r)
		if isArray {
			m.state = stateNonStringArrayElement
		} else {
			m.state = stateNonStringFieldValue
		}
	}
	return nil
}

func (m *machine) stepArrayElementReady(r rune, first bool) error {
	if isWS(r) {
		return nil
	}
	if r == ']' {
		if first {
			next, err := m.closeComposite(true)
			if err != nil {
				return err
			}
			m.state = next
			return nil
		}
		return m.fail("trailing comma is not allowed before ']'")
	}
	return m.stepValueReady(r, true)
}

// stepStringLiteral accumulates a quoted string. isField selects whether
// a coercion failure against a rest-typed field should be swallowed
// rather than propagated once the closing quote is hit.
func (m *machine) stepStringLiteral(r rune, doneState state, isField bool) error {
	if r == '"' {
		lexeme := m.buf.take()
		swallow := isField && m.currentFieldIsRest
		if err := m.finishScalar(lexeme, true, swallow); err != nil {
			return err
		}
		m.state = doneState
		return nil
	}
	if r == '\\' {
		m.escReturn = m.state
		m.state = stateEscape
		return nil
	}
	m.buf.append(r)
	return nil
}

// stepBareword accumulates an unquoted literal (true/false/null/number)
// until a terminator. isArray only affects which terminator closes it
// (']' vs '}'); WS and EOF terminate either way, handled uniformly by
// re-dispatching the terminating character once the literal is closed
// out, mirroring how the driver "re-reads" a character in the reference
// design this machine follows.
func (m *machine) stepBareword(r rune, doneState state, isArray bool) error {
	if isBarewordChar(r) {
		m.buf.append(r)
		return nil
	}
	closing := ']'
	if !isArray {
		closing = '}'
	}
	if isWS(r) || r == ',' || r == closing {
		lexeme := m.buf.take()
		if err := m.finishScalar(lexeme, false, false); err != nil {
			return err
		}
		m.state = doneState
		return m.step(r)
	}
	return m.fail("unexpected character %q in literal", r)
}

func (m *machine) stepFieldEnd(r rune) error {
	if isWS(r) {
		return nil
	}
	switch r {
	case ',':
		m.state = stateNonFirstFieldReady
	case '}':
		next, err := m.closeComposite(false)
		if err != nil {
			return err
		}
		m.state = next
	default:
		return m.fail("expected ',' or '}', found %q", r)
	}
	return nil
}

func (m *machine) stepArrayElementEnd(r rune) error {
	if isWS(r) {
		return nil
	}
	switch r {
	case ',':
		m.state = stateNonFirstArrayElementReady
	case ']':
		next, err := m.closeComposite(true)
		if err != nil {
			return err
		}
		m.state = next
	default:
		return m.fail("expected ',' or ']', found %q", r)
	}
	return nil
}

func (m *machine) stepEscape(r rune) error {
	if r == 'u' {
		m.hex.reset()
		m.state = stateUnicodeHex
		return nil
	}
	decoded, ok := decodeEscape(r)
	if !ok {
		return m.fail("invalid escape character %q", r)
	}
	m.buf.append(decoded)
	m.state = m.escReturn
	return nil
}

func (m *machine) stepUnicodeHex(r rune) error {
	done, err := m.hex.push(r)
	if err != nil {
		return m.fail("%s", err)
	}
	if !done {
		return nil
	}
	m.buf.append(m.hex.decode())
	m.state = m.escReturn
	return nil
}

// handleEOF runs once, when the reader is exhausted. A pending unquoted
// literal is terminated as if EOF were a delimiter (matching the spec's
// explicit EOF-is-a-terminator rule for NonString* states). EOF inside a
// quoted string, a field name, or an escape fails here with "unexpected
// end of JSON document"; every other state is left for the caller's final
// state check to judge.
func (m *machine) handleEOF() error {
	switch m.state {
	case stateNonStringValue:
		lexeme := m.buf.take()
		if err := m.finishScalar(lexeme, false, false); err != nil {
			return err
		}
		m.state = stateDocEnd
	case stateNonStringFieldValue:
		lexeme := m.buf.take()
		if err := m.finishScalar(lexeme, false, false); err != nil {
			return err
		}
		m.state = stateFieldEnd
	case stateNonStringArrayElement:
		lexeme := m.buf.take()
		if err := m.finishScalar(lexeme, false, false); err != nil {
			return err
		}
		m.state = stateArrayElementEnd
	case stateStringValue, stateStringFieldValue, stateStringArrayElement,
		stateFieldName, stateEscape, stateUnicodeHex:
		return m.fail("unexpected end of JSON document")
	}
	return nil
}
