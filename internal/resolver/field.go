package resolver

import "github.com/seitarof/gen-schema/internal/parser"

// FieldKind is the category of one struct property. Every property falls
// into exactly one kind.
type FieldKind int

const (
	FieldConst FieldKind = iota
	FieldInlineEnum
	FieldNestedStruct
	FieldSequence
	FieldReference
	FieldUnion
	FieldMap
	FieldScalar
	FieldPlaceholder
	FieldAny
)

func (k FieldKind) String() string {
	switch k {
	case FieldConst:
		return "const"
	case FieldInlineEnum:
		return "inline-enum"
	case FieldNestedStruct:
		return "nested-struct"
	case FieldSequence:
		return "sequence"
	case FieldReference:
		return "reference"
	case FieldUnion:
		return "union"
	case FieldMap:
		return "map"
	case FieldScalar:
		return "scalar"
	case FieldPlaceholder:
		return "placeholder"
	default:
		return "any"
	}
}

// FieldPlan describes how one property is stored, parsed and serialized.
type FieldPlan struct {
	JSONName    string
	GoName      string
	Kind        FieldKind
	Shape       Shape
	Required    bool
	Nullable    bool
	Const       string
	Ref         string
	Description string
	// Placeholder holds the unrecognised type or reference that made the
	// field fall back to any.
	Placeholder string
	// Boxed marks a required reference stored behind a pointer because the
	// referenced type holds the enclosing type by value.
	Boxed bool

	Setter string
	Getter string
	Adder  string
}

// Optional reports fields that may be absent or null.
func (f FieldPlan) Optional() bool {
	return !f.Required || f.Nullable
}

// Pointer reports optional fields whose zero value cannot mean absent, and
// boxed recursive references.
func (f FieldPlan) Pointer() bool {
	return f.Boxed || f.Optional() && !f.Shape.IsCollection()
}

// GoType is the declared type of the struct field.
func (f FieldPlan) GoType() string {
	if f.Pointer() {
		return "*" + f.Shape.GoType()
	}
	return f.Shape.GoType()
}

// ElemType is the element type taken by the adder method.
func (f FieldPlan) ElemType() string {
	if f.Shape.Elem == nil {
		return "any"
	}
	return f.Shape.Elem.GoType()
}

// IsMap reports map-valued fields; their adder takes a key.
func (f FieldPlan) IsMap() bool {
	return f.Shape.Kind == ShapeMap
}

// IsConst reports fields pinned to a literal; they have no Go member.
func (f FieldPlan) IsConst() bool {
	return f.Kind == FieldConst
}

// Direct reports fields that must be present and non-null.
func (f FieldPlan) Direct() bool {
	return f.Required && !f.Nullable
}

// EmitsNull reports required nullable fields, whose key is always written.
func (f FieldPlan) EmitsNull() bool {
	return f.Required && f.Nullable
}

func classifyField(spec *parser.TypeSpec) FieldKind {
	t, _ := spec.NonNullType()
	switch {
	case spec.IsConstString():
		return FieldConst
	case spec.IsInlineEnum():
		return FieldInlineEnum
	case spec.IsInlineObject():
		return FieldNestedStruct
	case t == "array":
		return FieldSequence
	case spec.Ref != "":
		return FieldReference
	case len(spec.Alternatives()) > 0 || hasMultipleTypes(spec):
		return FieldUnion
	case t == "object" && spec.Additional != nil:
		return FieldMap
	case !spec.HasType():
		return FieldAny
	case t == "":
		// ["null"] alone
		return FieldAny
	}
	if _, ok := scalarShape(t); ok {
		return FieldScalar
	}
	return FieldPlaceholder
}

func hasMultipleTypes(spec *parser.TypeSpec) bool {
	if !spec.TypeIsList {
		return false
	}
	n := 0
	for _, t := range spec.Types {
		if t != "null" {
			n++
		}
	}
	return n > 1
}
