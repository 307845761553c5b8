package value

import (
	"fmt"
	"strconv"

	"github.com/cockroachdb/apd/v3"

	"github.com/mossheim/tjson/schema"
)

// Builder is the default value-construction collaborator: it implements
// parser.Builder against Value without parser ever importing this package
// (the dependency runs value -> parser, not the reverse, so a Builder
// defined here can still satisfy an interface declared over there).
type Builder struct{}

// NewRecordOrMap allocates an empty, order-preserving record container for
// a Record, Map, or Any expected type opened by `{`.
func (Builder) NewRecordOrMap(expected schema.Type) (any, error) {
	return &Value{kind: KindRecord}, nil
}

// NewArray allocates an array container for an Array, Tuple, or Any
// expected type opened by `[`. A closed Array's size is remembered so
// SetElement can silently drop surplus elements past capacity; a Tuple
// never drops, since every position (declared or rest) is meaningful.
func (Builder) NewArray(expected schema.Type) (any, error) {
	v := &Value{kind: KindArray}
	switch expected.Tag() {
	case schema.Tuple:
		v.arrIsTuple = true
	case schema.Array:
		if expected.ArrayState() == schema.Closed {
			v.arrHasCap = true
			v.arrCap = expected.Size()
		}
	}
	return v, nil
}

// SetField appends name/child to parent's field list in input order.
// Parsing a duplicate field name resolves the second occurrence against
// the rest type (see the parser's field-hierarchy bookkeeping), so SetField
// never needs to dedupe or overwrite -- both occurrences are kept, the
// way the teacher's growObject appends every k/v pair it sees.
func (Builder) SetField(parent any, name string, child any) error {
	p, ok := parent.(*Value)
	if !ok || p.kind != KindRecord {
		return fmt.Errorf("%w: SetField target is not a record", ErrIncompatibleValue)
	}
	cv, ok := child.(*Value)
	if !ok {
		return fmt.Errorf("%w: SetField child is not a *Value", ErrIncompatibleValue)
	}
	p.recVal = append(p.recVal, pair{key: name, val: cv})
	return nil
}

// SetElement appends child at index on parent. For a closed, non-tuple
// array past its declared capacity, the element is silently dropped --
// closed-array overflow is reported once, at `]`, by validateListSize, not
// per element.
func (Builder) SetElement(parent any, index int, child any) error {
	p, ok := parent.(*Value)
	if !ok || p.kind != KindArray {
		return fmt.Errorf("%w: SetElement target is not an array", ErrIncompatibleValue)
	}
	if !p.arrIsTuple && p.arrHasCap && index >= p.arrCap {
		return nil
	}
	cv, ok := child.(*Value)
	if !ok {
		return fmt.Errorf("%w: SetElement child is not a *Value", ErrIncompatibleValue)
	}
	p.arrVal = append(p.arrVal, cv)
	return nil
}

// ConvertScalar coerces lexeme to expected's scalar tag. quoted
// distinguishes a quoted-string lexeme (content only, already unescaped)
// from a bareword literal -- a numeric/bool/null scalar expected type
// rejects a quoted lexeme outright, since JSON never puts those in quotes.
func (b Builder) ConvertScalar(lexeme string, quoted bool, expected schema.Type) (any, error) {
	switch expected.Tag() {
	case schema.String:
		if !quoted {
			return nil, fmt.Errorf("%w: expected a quoted string, got bareword %q", ErrIncompatibleValue, lexeme)
		}
		return &Value{kind: KindString, strVal: lexeme}, nil

	case schema.Null:
		if quoted || lexeme != "null" {
			return nil, fmt.Errorf("%w: expected null, got %q", ErrIncompatibleValue, lexeme)
		}
		return &Value{kind: KindNull}, nil

	case schema.Bool:
		if quoted {
			return nil, fmt.Errorf("%w: expected a boolean, got quoted %q", ErrIncompatibleValue, lexeme)
		}
		bv, err := strconv.ParseBool(lexeme)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIncompatibleValue, err)
		}
		return &Value{kind: KindBool, boolVal: bv}, nil

	case schema.Int:
		if quoted {
			return nil, fmt.Errorf("%w: expected an int, got quoted %q", ErrIncompatibleValue, lexeme)
		}
		iv, err := strconv.ParseInt(lexeme, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIncompatibleValue, err)
		}
		return &Value{kind: KindInt, intVal: iv}, nil

	case schema.Float:
		if quoted {
			return nil, fmt.Errorf("%w: expected a float, got quoted %q", ErrIncompatibleValue, lexeme)
		}
		fv, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIncompatibleValue, err)
		}
		return &Value{kind: KindFloat, fltVal: fv}, nil

	case schema.Decimal:
		if quoted {
			return nil, fmt.Errorf("%w: expected a decimal, got quoted %q", ErrIncompatibleValue, lexeme)
		}
		d, _, err := apd.NewFromString(lexeme)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIncompatibleValue, err)
		}
		return &Value{kind: KindDecimal, decVal: d}, nil

	case schema.Any:
		return b.convertAny(lexeme, quoted)

	case schema.Union:
		for _, member := range expected.Members() {
			v, err := b.ConvertScalar(lexeme, quoted, member)
			if err == nil {
				return v, nil
			}
		}
		return nil, fmt.Errorf("%w: no union member accepts %q", ErrIncompatibleValue, lexeme)

	default:
		return nil, fmt.Errorf("%w: expected type %s cannot hold a scalar value", ErrIncompatibleValue, expected.Tag())
	}
}

// convertAny infers a Value kind from an untyped lexeme: a quoted lexeme is
// always a string; a bareword lexeme is null, a boolean, or a number,
// tried in that order (numbers fall back to float if they don't parse as
// an int, matching the teacher's integer-then-number literal distinction).
func (b Builder) convertAny(lexeme string, quoted bool) (any, error) {
	if quoted {
		return &Value{kind: KindString, strVal: lexeme}, nil
	}
	switch lexeme {
	case "null":
		return &Value{kind: KindNull}, nil
	case "true":
		return &Value{kind: KindBool, boolVal: true}, nil
	case "false":
		return &Value{kind: KindBool, boolVal: false}, nil
	}
	if iv, err := strconv.ParseInt(lexeme, 10, 64); err == nil {
		return &Value{kind: KindInt, intVal: iv}, nil
	}
	if fv, err := strconv.ParseFloat(lexeme, 64); err == nil {
		return &Value{kind: KindFloat, fltVal: fv}, nil
	}
	return nil, fmt.Errorf("%w: cannot interpret bareword %q as any scalar", ErrIncompatibleValue, lexeme)
}
