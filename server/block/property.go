package block

import "fmt"

// PropertyKind is the fixed typing a block-state property is assigned at
// catalog-generation time: boolean, small unsigned integer, or
// enumeration, per spec.md §3.
type PropertyKind byte

const (
	PropertyBool PropertyKind = iota
	PropertyInt
	PropertyEnum
)

// PropertySchema describes one property a block kind's states vary over.
type PropertySchema struct {
	Name string
	Kind PropertyKind
	// IntMax bounds an integer property to [0, IntMax].
	IntMax uint8
	// EnumValues lists the valid variant names of an enum property.
	EnumValues []string
}

// Values returns every legal value this property can take, as the
// opaque `any` representation BlockState.Values stores (bool, uint8, or
// string). The order matches what ParseValue accepts and is the order
// the catalog builder's cartesian product walks.
func (p PropertySchema) Values() []any {
	switch p.Kind {
	case PropertyBool:
		return []any{false, true}
	case PropertyInt:
		out := make([]any, 0, int(p.IntMax)+1)
		for v := uint8(0); ; v++ {
			out = append(out, v)
			if v == p.IntMax {
				break
			}
		}
		return out
	case PropertyEnum:
		out := make([]any, len(p.EnumValues))
		for i, v := range p.EnumValues {
			out[i] = v
		}
		return out
	default:
		panic(fmt.Sprintf("block: unknown property kind %d", p.Kind))
	}
}

// ParseValue parses the protocol-level string form of a value ("true"/
// "false" for bool, decimal for int, a variant name for enum) into the
// typed representation stored in BlockState.Values. It panics on a value
// that doesn't match the property's type — a malformed region file or a
// catalog/runtime mismatch is a logic violation per spec.md §7, not a
// recoverable input error.
func (p PropertySchema) ParseValue(raw string) any {
	switch p.Kind {
	case PropertyBool:
		switch raw {
		case "true":
			return true
		case "false":
			return false
		default:
			panic(fmt.Sprintf("block: invalid bool value %q for property %q", raw, p.Name))
		}
	case PropertyInt:
		var v uint8
		if _, err := fmt.Sscanf(raw, "%d", &v); err != nil || v > p.IntMax {
			panic(fmt.Sprintf("block: invalid int value %q for property %q", raw, p.Name))
		}
		return v
	case PropertyEnum:
		for _, v := range p.EnumValues {
			if v == raw {
				return v
			}
		}
		panic(fmt.Sprintf("block: invalid enum value %q for property %q", raw, p.Name))
	default:
		panic(fmt.Sprintf("block: unknown property kind %d", p.Kind))
	}
}
