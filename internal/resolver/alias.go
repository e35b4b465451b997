package resolver

import (
	"go.uber.org/zap"

	"github.com/seitarof/gen-schema/internal/parser"
)

// AliasResolution is `type A = T` with conversion functions delegating to
// T's.
type AliasResolution struct {
	Name        string
	Description string
	Target      Shape
	// Placeholder is the unrecognised type keyword the alias stands in for.
	Placeholder string
	Owned       []Owned
	Unions      []*UnionResolution
}

func (r *resolverImpl) resolveAlias(spec *parser.TypeSpec) *AliasResolution {
	name, _ := r.ctx.TypeName(spec.Name)
	a := &AliasResolution{Name: name, Description: r.ctx.Doc(spec.Description)}
	sc := newScope(name, spec.Name)

	t, _ := spec.NonNullType()
	if t == "" && spec.TypeIsList && len(spec.Types) == 1 {
		t = spec.Types[0]
	}
	switch {
	case spec.Ref != "":
		a.Target = r.refShape(sc, spec.Ref)
	case !spec.HasType() || t == "null":
		a.Target = anyShape
	case t == "array":
		a.Target = sliceOf(r.valueShape(sc, "Item", spec.Items))
	case t == "object":
		a.Target = mapOf(r.mapValueShape(sc, "", spec))
	default:
		s, ok := scalarShape(t)
		if !ok {
			a.Placeholder = t
			s = anyShape
			r.ctx.Logger.Warn("skipped unknown type alias",
				zap.String("type", name),
				zap.String("schema_type", t))
		}
		a.Target = s
	}
	a.Owned = sc.owned
	a.Unions = sc.unions
	r.ctx.registerAlias(name, a.Target)
	return a
}
