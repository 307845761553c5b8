package schema

import (
	"fmt"

	"github.com/goccy/go-yaml"
)

// yamlNode is the decode target for a type-config document: a compact,
// human-authored alternative to a full JSON Schema file for describing an
// expected Type. Example:
//
//	type: record
//	fields:
//	  id: {type: int, required: true}
//	  name: {type: string, required: true}
//	  tags: {type: array, elem: {type: string}}
//	rest: {type: any}
type yamlNode struct {
	Type     string               `yaml:"type"`
	Fields   map[string]yamlField `yaml:"fields"`
	Rest     *yamlNode            `yaml:"rest"`
	Elem     *yamlNode            `yaml:"elem"`
	Value    *yamlNode            `yaml:"value"`
	State    string               `yaml:"state"`
	Size     int                  `yaml:"size"`
	Members  []yamlNode           `yaml:"members"`
	TupleEnd *yamlNode            `yaml:"tupleRest"`
}

type yamlField struct {
	yamlNode `yaml:",inline"`
	Required bool `yaml:"required"`
}

// FromYAML decodes a type-config document into a Type.
func FromYAML(data []byte) (Type, error) {
	var node yamlNode
	if err := yaml.Unmarshal(data, &node); err != nil {
		return Type{}, fmt.Errorf("schema: decode yaml type-config: %w", err)
	}
	return nodeToType(node)
}

func nodeToType(n yamlNode) (Type, error) {
	switch n.Type {
	case "", "any":
		return NewAny(), nil
	case "null":
		return NewNull(), nil
	case "bool", "boolean":
		return NewBool(), nil
	case "int", "integer":
		return NewInt(), nil
	case "float", "number":
		return NewFloat(), nil
	case "decimal":
		return NewDecimal(), nil
	case "string":
		return NewString(), nil
	case "record":
		fields := make(map[string]FieldDesc, len(n.Fields))
		for name, f := range n.Fields {
			ft, err := nodeToType(f.yamlNode)
			if err != nil {
				return Type{}, fmt.Errorf("schema: field %q: %w", name, err)
			}
			fields[name] = FieldDesc{Name: name, Type: ft, Required: f.Required}
		}
		var rest *Type
		if n.Rest != nil {
			rt, err := nodeToType(*n.Rest)
			if err != nil {
				return Type{}, fmt.Errorf("schema: rest: %w", err)
			}
			rest = &rt
		}
		return NewRecord(fields, rest), nil
	case "map":
		if n.Value == nil {
			return Type{}, fmt.Errorf("schema: map type-config requires a value")
		}
		vt, err := nodeToType(*n.Value)
		if err != nil {
			return Type{}, fmt.Errorf("schema: map value: %w", err)
		}
		return NewMap(vt), nil
	case "array":
		elem := NewAny()
		if n.Elem != nil {
			e, err := nodeToType(*n.Elem)
			if err != nil {
				return Type{}, fmt.Errorf("schema: array elem: %w", err)
			}
			elem = e
		}
		if n.State == "closed" {
			return NewClosedArray(elem, n.Size), nil
		}
		return NewOpenArray(elem), nil
	case "tuple":
		members := make([]Type, 0, len(n.Members))
		for i, m := range n.Members {
			mt, err := nodeToType(m)
			if err != nil {
				return Type{}, fmt.Errorf("schema: tuple member[%d]: %w", i, err)
			}
			members = append(members, mt)
		}
		var rest *Type
		if n.TupleEnd != nil {
			rt, err := nodeToType(*n.TupleEnd)
			if err != nil {
				return Type{}, fmt.Errorf("schema: tuple rest: %w", err)
			}
			rest = &rt
		}
		return NewTuple(members, rest), nil
	case "union":
		members := make([]Type, 0, len(n.Members))
		for i, m := range n.Members {
			mt, err := nodeToType(m)
			if err != nil {
				return Type{}, fmt.Errorf("schema: union member[%d]: %w", i, err)
			}
			members = append(members, mt)
		}
		u := NewUnion(members...)
		if !IsSupportedUnionType(u) {
			return Type{}, fmt.Errorf("schema: unsupported union type")
		}
		return u, nil
	default:
		return Type{}, fmt.Errorf("schema: unknown type-config tag %q", n.Type)
	}
}
