package schema

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// FromJSONSchema converts a JSON Schema document into a Type tree. It
// covers the subset of JSON Schema that maps onto this package's type
// system: object properties/required/additionalProperties become
// Record fields + rest type, array items become an element type (or,
// when prefixItems is present, a Tuple), and a multi-valued "type" becomes
// a Union.
func FromJSONSchema(s *jsonschema.Schema) (Type, error) {
	if s == nil {
		return NewAny(), nil
	}

	if len(s.Types) > 1 {
		members := make([]Type, 0, len(s.Types))
		for _, t := range s.Types {
			sub := *s
			sub.Types = nil
			sub.Type = t
			conv, err := FromJSONSchema(&sub)
			if err != nil {
				return Type{}, err
			}
			members = append(members, conv)
		}
		return NewUnion(members...), nil
	}

	typeName := s.Type
	if typeName == "" && len(s.Types) == 1 {
		typeName = s.Types[0]
	}

	switch typeName {
	case "object":
		return objectSchema(s)
	case "array":
		return arraySchema(s)
	case "string":
		return NewString(), nil
	case "integer":
		return NewInt(), nil
	case "number":
		return NewFloat(), nil
	case "boolean":
		return NewBool(), nil
	case "null":
		return NewNull(), nil
	case "":
		if len(s.Properties) > 0 || s.Required != nil {
			return objectSchema(s)
		}
		if s.Items != nil || s.PrefixItems != nil {
			return arraySchema(s)
		}
		return NewAny(), nil
	default:
		return Type{}, fmt.Errorf("schema: unsupported JSON Schema type %q", typeName)
	}
}

func objectSchema(s *jsonschema.Schema) (Type, error) {
	required := make(map[string]bool, len(s.Required))
	for _, name := range s.Required {
		required[name] = true
	}

	fields := make(map[string]FieldDesc, len(s.Properties))
	for name, propSchema := range s.Properties {
		ft, err := FromJSONSchema(propSchema)
		if err != nil {
			return Type{}, fmt.Errorf("schema: field %q: %w", name, err)
		}
		fields[name] = FieldDesc{Name: name, Type: ft, Required: required[name]}
	}

	rest, err := additionalPropertiesType(s.AdditionalProperties)
	if err != nil {
		return Type{}, err
	}

	return NewRecord(fields, rest), nil
}

// additionalPropertiesType maps JSON Schema's additionalProperties to a
// rest type: absent means "any extra allowed" (an open rest of Any,
// matching this corpus's permissive default, see MacroPower-x's
// TrueSchema/FalseSchema helpers), any schema with a `not` keyword (the
// false-schema `{"not": {}}` among them) means no extras allowed, and any
// other schema becomes the rest's constrained type.
func additionalPropertiesType(ap *jsonschema.Schema) (*Type, error) {
	if ap == nil {
		t := NewAny()
		return &t, nil
	}
	if ap.Not != nil {
		return nil, nil
	}
	t, err := FromJSONSchema(ap)
	if err != nil {
		return nil, fmt.Errorf("schema: additionalProperties: %w", err)
	}
	return &t, nil
}

func arraySchema(s *jsonschema.Schema) (Type, error) {
	if len(s.PrefixItems) > 0 {
		members := make([]Type, 0, len(s.PrefixItems))
		for i, item := range s.PrefixItems {
			mt, err := FromJSONSchema(item)
			if err != nil {
				return Type{}, fmt.Errorf("schema: prefixItems[%d]: %w", i, err)
			}
			members = append(members, mt)
		}

		var rest *Type
		if s.Items != nil {
			rt, err := FromJSONSchema(s.Items)
			if err != nil {
				return Type{}, fmt.Errorf("schema: items: %w", err)
			}
			rest = &rt
		}
		return NewTuple(members, rest), nil
	}

	elem := NewAny()
	if s.Items != nil {
		e, err := FromJSONSchema(s.Items)
		if err != nil {
			return Type{}, fmt.Errorf("schema: items: %w", err)
		}
		elem = e
	}
	return NewOpenArray(elem), nil
}
