package resolver

import "github.com/seitarof/gen-schema/internal/parser"

// EnumRepr is how an enum is rendered.
type EnumRepr int

const (
	// EnumNamed is a defined string type with one constant per value.
	EnumNamed EnumRepr = iota
	// EnumStringAlias is `type E = string`, used when a value cannot become
	// a constant name.
	EnumStringAlias
)

// EnumValue is one allowed value and its constant.
type EnumValue struct {
	Value string
	Const string
}

// EnumResolution is a resolved enum declaration.
type EnumResolution struct {
	Name        string
	Description string
	Repr        EnumRepr
	Values      []EnumValue
}

// IsAlias reports the `type E = string` fallback.
func (e *EnumResolution) IsAlias() bool {
	return e.Repr == EnumStringAlias
}

// Distinct returns the values with duplicates removed, in order.
func (e *EnumResolution) Distinct() []string {
	seen := make(map[string]bool, len(e.Values))
	out := make([]string, 0, len(e.Values))
	for _, v := range e.Values {
		if !seen[v.Value] {
			seen[v.Value] = true
			out = append(out, v.Value)
		}
	}
	return out
}

// enumFallsBack reports whether the values of enum name cannot all be
// turned into distinct constants.
func enumFallsBack(name string, values []string) bool {
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		c := name + Exported(v)
		if !IsBareIdentifier(v) || seen[c] {
			return true
		}
		seen[c] = true
	}
	return false
}

func (r *resolverImpl) resolveEnum(name string, spec *parser.TypeSpec) *EnumResolution {
	e := &EnumResolution{
		Name:        name,
		Description: r.ctx.Doc(spec.Description),
	}
	if enumFallsBack(name, spec.Enum) {
		e.Repr = EnumStringAlias
		r.ctx.registerAlias(name, Shape{Kind: ShapeString})
		for _, v := range spec.Enum {
			e.Values = append(e.Values, EnumValue{Value: v})
		}
		return e
	}
	for _, v := range spec.Enum {
		c := name + Exported(v)
		if !r.ctx.Names.TryClaim(c) {
			c = r.ctx.Names.Claim(c)
		}
		e.Values = append(e.Values, EnumValue{Value: v, Const: c})
	}
	return e
}
