package value

import (
	"io"
	"strings"

	"github.com/mossheim/tjson/parser"
	"github.com/mossheim/tjson/schema"
)

// Parse reads one JSON document from r and materializes it as a *Value,
// shaped by expected. This is the adapted form of the teacher's top-level
// Parse(r io.Reader) (*Value, error): the teacher always parsed against an
// implicit untyped grammar, so the closest equivalent here is binding
// parser.Parse to this package's own Builder; callers that want a
// different Builder call parser.Parse directly.
func Parse(r io.Reader, expected schema.Type) (*Value, error) {
	v, err := parser.Parse(r, expected, Builder{})
	if err != nil {
		return nil, err
	}
	val, _ := v.(*Value)
	return val, nil
}

// ParseAny parses r against schema.NewAny(), the untyped default.
func ParseAny(r io.Reader) (*Value, error) {
	return Parse(r, schema.NewAny())
}

// ParseString parses s against schema.NewAny().
func ParseString(s string) (*Value, error) {
	return ParseAny(strings.NewReader(s))
}

// ParseBytes parses b against schema.NewAny().
func ParseBytes(b []byte) (*Value, error) {
	return ParseString(string(b))
}
