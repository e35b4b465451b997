package resolver

import "github.com/seitarof/gen-schema/internal/parser"

// Kind is the emission category of a declared type.
type Kind int

const (
	KindEnum Kind = iota
	KindStruct
	KindUnion
	KindAlias
)

func (k Kind) String() string {
	switch k {
	case KindEnum:
		return "enum"
	case KindStruct:
		return "struct"
	case KindUnion:
		return "union"
	default:
		return "alias"
	}
}

// Classify assigns a declared type to its category; the first match wins.
func Classify(spec *parser.TypeSpec) Kind {
	switch {
	case spec.Type() == "string" && spec.HasEnum:
		return KindEnum
	case spec.HasProperties || len(spec.AllOf) > 0:
		return KindStruct
	case IsUnion(spec):
		return KindUnion
	default:
		return KindAlias
	}
}

// IsUnion reports a multi-type list or an anyOf/oneOf composition.
func IsUnion(spec *parser.TypeSpec) bool {
	if spec.TypeIsList && len(spec.Types) > 1 {
		return true
	}
	return len(spec.AnyOf) > 0 || len(spec.OneOf) > 0
}

// Deferrable reports categories that wait for their references to be
// emitted first.
func (k Kind) Deferrable() bool {
	return k == KindUnion || k == KindAlias
}
