// Package schema describes the expected-type descriptors that drive the
// parser: records with fields and a rest type, arrays with an element type
// and an open/closed size state, tuples, maps with a constrained value
// type, unions, and scalars. The parser treats a Type as an opaque
// capability set (spec's "external, opaque" expected type); this package
// is the concrete default that capability set is built from.
package schema

// Tag identifies the shape of a Type.
type Tag int

const (
	Record Tag = iota
	Map
	Array
	Tuple
	Union
	Any
	Null
	Bool
	Int
	Float
	Decimal
	String
)

func (t Tag) String() string {
	switch t {
	case Record:
		return "record"
	case Map:
		return "map"
	case Array:
		return "array"
	case Tuple:
		return "tuple"
	case Union:
		return "union"
	case Any:
		return "any"
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Int:
		return "int"
	case Float:
		return "float"
	case Decimal:
		return "decimal"
	case String:
		return "string"
	default:
		return "<unknown type>"
	}
}

// IsScalar reports whether t is one of the non-composite scalar tags.
func (t Tag) IsScalar() bool {
	switch t {
	case Null, Bool, Int, Float, Decimal, String:
		return true
	default:
		return false
	}
}

// ArrayState distinguishes an array with a fixed size from one that
// accepts any number of elements.
type ArrayState int

const (
	Open ArrayState = iota
	Closed
)

// FieldDesc describes one field of a Record.
type FieldDesc struct {
	Name     string
	Type     Type
	Required bool
}

// Type is an immutable expected-type descriptor. The zero Type is a Record
// with no fields and no rest type; use NewAny for Any.
type Type struct {
	tag Tag

	// Record
	fields map[string]FieldDesc
	rest   *Type // nil => no rest type (closed record)

	// Map / Array element type
	elem *Type

	// Array
	state ArrayState
	size  int

	// Tuple / Union
	members   []Type
	tupleRest *Type
}

// Tag returns the descriptor's shape tag.
func (t Type) Tag() Tag { return t.tag }

// Fields returns a fresh copy of a Record's field map, keyed by field name.
// Callers get a copy so the parser can freely remove entries as it consumes
// fields without mutating the shared descriptor.
func (t Type) Fields() map[string]FieldDesc {
	out := make(map[string]FieldDesc, len(t.fields))
	for k, v := range t.fields {
		out[k] = v
	}
	return out
}

// RestType returns a Record or Map's catch-all value type, or (Type{}, false)
// if extras are rejected (a closed record with no rest type).
func (t Type) RestType() (Type, bool) {
	switch t.tag {
	case Record:
		if t.rest == nil {
			return Type{}, false
		}
		return *t.rest, true
	case Map:
		return *t.elem, true
	case Any:
		return t, true
	default:
		return Type{}, false
	}
}

// ElemType returns an Array's element type.
func (t Type) ElemType() Type {
	if t.elem == nil {
		return Type{tag: Any}
	}
	return *t.elem
}

// ArrayState returns an Array's open/closed state.
func (t Type) ArrayState() ArrayState { return t.state }

// Size returns a closed Array's required size.
func (t Type) Size() int { return t.size }

// Members returns a Tuple or Union's member types.
func (t Type) Members() []Type { return t.members }

// TupleRest returns a Tuple's rest type for members beyond the declared
// positions, or (Type{}, false) if the tuple is closed at its last member.
func (t Type) TupleRest() (Type, bool) {
	if t.tupleRest == nil {
		return Type{}, false
	}
	return *t.tupleRest, true
}

// NewRecord builds a Record type. fields is copied. rest may be nil for a
// closed record.
func NewRecord(fields map[string]FieldDesc, rest *Type) Type {
	cp := make(map[string]FieldDesc, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	return Type{tag: Record, fields: cp, rest: rest}
}

// NewMap builds a Map type with the given constrained value type.
func NewMap(value Type) Type {
	v := value
	return Type{tag: Map, elem: &v}
}

// NewOpenArray builds an Array type with no size constraint.
func NewOpenArray(elem Type) Type {
	e := elem
	return Type{tag: Array, elem: &e, state: Open}
}

// NewClosedArray builds an Array type that must contain exactly size
// elements.
func NewClosedArray(elem Type, size int) Type {
	e := elem
	return Type{tag: Array, elem: &e, state: Closed, size: size}
}

// NewTuple builds a Tuple type. rest may be nil for a tuple closed at its
// last declared member.
func NewTuple(members []Type, rest *Type) Type {
	ms := make([]Type, len(members))
	copy(ms, members)
	return Type{tag: Tuple, members: ms, tupleRest: rest}
}

// NewUnion builds a Union type from its member types.
func NewUnion(members ...Type) Type {
	ms := make([]Type, len(members))
	copy(ms, members)
	return Type{tag: Union, members: ms}
}

// NewAny returns the untyped JSON/anydata target type.
func NewAny() Type { return Type{tag: Any} }

// Scalar constructors.
func NewNull() Type    { return Type{tag: Null} }
func NewBool() Type    { return Type{tag: Bool} }
func NewInt() Type     { return Type{tag: Int} }
func NewFloat() Type   { return Type{tag: Float} }
func NewDecimal() Type { return Type{tag: Decimal} }
func NewString() Type  { return Type{tag: String} }

// IsSupportedUnionType reports whether every member of a Union can be
// resolved by the value builder without ambiguity: a union is supported
// only if no member (recursively) is a Record, Map, Any, or a nested Union
// containing one of those. The source this parser is modeled on recurses
// on the *outer* union type when checking a nested union member, which is
// almost certainly a typo/bug (it would either loop forever on a
// self-referential union or just repeat the same check); this
// implementation recurses on the *nested* member type instead.
func IsSupportedUnionType(t Type) bool {
	if t.tag != Union {
		return true
	}
	for _, m := range t.members {
		switch m.tag {
		case Record, Map, Any:
			return false
		case Union:
			if !IsSupportedUnionType(m) {
				return false
			}
		}
	}
	return true
}
