package parser

import "github.com/mossheim/tjson/schema"

// Builder is the value-construction collaborator (C4). The driver never
// allocates or mutates a materialized value itself -- it only knows when
// a container should be opened, when a field or element should be wired
// into its parent, and when a scalar lexeme needs coercing. Everything
// about what kind of value actually gets built is up to the Builder
// implementation; package value ships the default one.
//
// Implementations receive already-resolved, concrete (non-Union) types
// for NewRecordOrMap and NewArray: the driver resolves which Union member
// matches the `{` or `[` just seen before calling in. ConvertScalar may
// still receive a Union type, since scalar coercion is where member
// selection for scalar unions happens (try each member until one fits).
type Builder interface {
	// NewRecordOrMap allocates a container for a Record, Map, or Any value
	// about to receive fields via SetField.
	NewRecordOrMap(expected schema.Type) (any, error)
	// NewArray allocates a container for an Array, Tuple, or Any value
	// about to receive elements via SetElement.
	NewArray(expected schema.Type) (any, error)
	// SetField stores child under name on parent, which was returned by an
	// earlier NewRecordOrMap call.
	SetField(parent any, name string, child any) error
	// SetElement stores child at index on parent, which was returned by an
	// earlier NewArray call. Elements arrive in increasing index order.
	SetElement(parent any, index int, child any) error
	// ConvertScalar coerces a raw JSON lexeme to expected. quoted reports
	// whether lexeme came from a quoted string literal (already unescaped,
	// quotes stripped) as opposed to a bareword literal (true/false/null or
	// a number) -- the two cases are lexically indistinguishable by content
	// alone (a quoted "true" and a bareword true both arrive as the text
	// "true"), so the driver passes this bit through rather than asking
	// implementations to re-derive it. For a Union or Any expected type,
	// implementations should use quoted to choose among member/interpretation
	// candidates and try each scalar member in turn until one fits.
	ConvertScalar(lexeme string, quoted bool, expected schema.Type) (any, error)
}
