package resolver

import (
	"strings"

	"go.uber.org/zap"

	"github.com/seitarof/gen-schema/internal/parser"
)

// VariantKind is the category of one union alternative.
type VariantKind int

const (
	VariantScalar VariantKind = iota
	VariantNull
	VariantNamed
	VariantSequence
)

// Variant is one alternative of a union.
type Variant struct {
	Kind  VariantKind
	Shape Shape
	// Schema is the declared type behind a named variant, when there is one.
	Schema string
	// DispatchValue is the constant selecting this variant.
	DispatchValue string
	// PresenceField is the required key only this variant has.
	PresenceField string
	// AsMethod is the accessor returning the variant, empty when skipped.
	AsMethod string
}

// GoType is the type held in the union's Value for this variant.
func (v Variant) GoType() string {
	if v.Kind == VariantNull {
		return "nil"
	}
	return v.Shape.GoType()
}

// SharedField is an accessor available on every variant of a union.
type SharedField struct {
	JSONName string
	Method   string
	GoType   string
	Cases    []SharedCase
}

// SharedCase reads the shared field from one variant.
type SharedCase struct {
	Type  string
	Field string
}

// UnionResolution is a resolved union declaration.
type UnionResolution struct {
	Name          string
	Description   string
	Variants      []Variant
	Strategy      UnionStrategy
	DispatchField string
	Shared        []SharedField
	Signature     string
	// InternedAs names the canonical union this one duplicates.
	InternedAs string
}

// Sequence returns the first list variant, or nil. Arrays are always
// parsed as that variant.
func (u *UnionResolution) Sequence() *Variant {
	for i := range u.Variants {
		if u.Variants[i].Kind == VariantSequence {
			return &u.Variants[i]
		}
	}
	return nil
}

// Discriminated reports dispatch on a constant field.
func (u *UnionResolution) Discriminated() bool {
	return u.Strategy == StrategyDiscriminated
}

// Nullable reports a null alternative.
func (u *UnionResolution) Nullable() bool {
	for _, v := range u.Variants {
		if v.Kind == VariantNull {
			return true
		}
	}
	return false
}

// Scalars returns scalar variants in declaration order, objects excluded.
func (u *UnionResolution) Scalars() []Variant {
	return u.filter(func(v Variant) bool { return v.Kind == VariantScalar && v.Shape.Kind != ShapeMap })
}

// Objects returns plain object variants. They accept any object, so they
// are tried after the named variants.
func (u *UnionResolution) Objects() []Variant {
	return u.filter(func(v Variant) bool { return v.Kind == VariantScalar && v.Shape.Kind == ShapeMap })
}

// Named returns named variants in declaration order.
func (u *UnionResolution) Named() []Variant {
	return u.filter(func(v Variant) bool { return v.Kind == VariantNamed })
}

// Keyed returns named variants identified by a presence field.
func (u *UnionResolution) Keyed() []Variant {
	return u.filter(func(v Variant) bool { return v.Kind == VariantNamed && v.PresenceField != "" })
}

// TryEach returns, in declaration order, the variants attempted one after
// another: non-object scalars and named variants without a presence field.
func (u *UnionResolution) TryEach() []Variant {
	return u.filter(func(v Variant) bool {
		switch v.Kind {
		case VariantScalar:
			return v.Shape.Kind != ShapeMap
		case VariantNamed:
			return v.PresenceField == ""
		}
		return false
	})
}

// Typed returns every variant that holds a value, for type switches.
func (u *UnionResolution) Typed() []Variant {
	return u.filter(func(v Variant) bool { return v.Kind != VariantNull })
}

func (u *UnionResolution) filter(keep func(Variant) bool) []Variant {
	var out []Variant
	for _, v := range u.Variants {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

var unionReserved = []string{"Value", "MarshalJSON", "UnmarshalJSON", "DispatchValue"}

// variants turns the alternatives of spec into union variants. Alternatives
// that cannot be represented are returned by description.
func (r *resolverImpl) variants(sc *scope, spec *parser.TypeSpec) ([]Variant, []string) {
	var (
		out     []Variant
		dropped []string
	)
	if spec.TypeIsList && len(spec.Types) > 1 {
		for _, t := range spec.Types {
			if v, ok := typeVariant(t); ok {
				out = append(out, v)
			} else {
				dropped = append(dropped, t)
			}
		}
		return out, dropped
	}
	for _, alt := range spec.Alternatives() {
		alt = r.normalize(alt)
		vs, ok := r.altVariants(sc, alt)
		if !ok {
			dropped = append(dropped, describe(alt))
			continue
		}
		out = append(out, vs...)
	}
	return out, dropped
}

func (r *resolverImpl) altVariants(sc *scope, alt *parser.TypeSpec) ([]Variant, bool) {
	if alt == nil {
		return nil, false
	}
	if alt.Ref != "" {
		if _, ok := r.ctx.TypeName(alt.Ref); !ok {
			return nil, false
		}
		return []Variant{{Kind: VariantNamed, Shape: r.refShape(sc, alt.Ref), Schema: alt.Ref}}, true
	}
	if alt.TypeIsList && len(alt.Types) > 1 {
		var out []Variant
		for _, t := range alt.Types {
			v, ok := typeVariant(t)
			if !ok {
				return nil, false
			}
			out = append(out, v)
		}
		return out, true
	}
	t, nullable := alt.NonNullType()
	var null []Variant
	if nullable {
		null = []Variant{{Kind: VariantNull}}
	}
	switch {
	case t == "array":
		elem, ok := r.sequenceElem(sc, alt.Items)
		if !ok {
			return nil, false
		}
		return append([]Variant{{Kind: VariantSequence, Shape: sliceOf(elem)}}, null...), true
	case t == "object" && len(alt.Properties) > 0:
		return nil, false
	case t == "" && alt.TypeIsList && len(alt.Types) == 1:
		t = alt.Types[0]
	}
	v, ok := typeVariant(t)
	if !ok {
		return nil, false
	}
	return append([]Variant{v}, null...), true
}

// sequenceElem resolves the element of a list alternative: a declared
// reference, a scalar, or anything at all.
func (r *resolverImpl) sequenceElem(sc *scope, items *parser.TypeSpec) (Shape, bool) {
	if items == nil {
		return anyShape, true
	}
	items = r.normalize(items)
	if items.Ref != "" {
		if _, ok := r.ctx.TypeName(items.Ref); !ok {
			return Shape{}, false
		}
		return r.refShape(sc, items.Ref), true
	}
	if !items.HasType() && len(items.Alternatives()) == 0 {
		return anyShape, true
	}
	t := items.Type()
	if t == "array" || t == "object" {
		return Shape{}, false
	}
	return scalarShape(t)
}

func typeVariant(t string) (Variant, bool) {
	switch t {
	case "null":
		return Variant{Kind: VariantNull}, true
	case "array":
		return Variant{Kind: VariantSequence, Shape: sliceOf(anyShape)}, true
	}
	s, ok := scalarShape(t)
	if !ok {
		return Variant{}, false
	}
	return Variant{Kind: VariantScalar, Shape: s}, true
}

func describe(spec *parser.TypeSpec) string {
	switch {
	case spec == nil:
		return "<empty>"
	case spec.Ref != "":
		return "$ref " + spec.Ref
	case spec.HasType():
		return strings.Join(spec.Types, "|")
	default:
		return "<untyped>"
	}
}

// buildUnion drops duplicate Go types, then picks the parse strategy and
// the accessors.
func (r *resolverImpl) buildUnion(name, description string, variants []Variant) *UnionResolution {
	u := &UnionResolution{Name: name, Description: description}
	seen := map[string]bool{}
	for _, v := range variants {
		id := "nil"
		if v.Kind != VariantNull {
			id = r.ctx.identity(v.Shape)
		}
		if seen[id] {
			r.ctx.Logger.Warn("dropping duplicate union variant",
				zap.String("union", name),
				zap.String("variant", v.GoType()))
			continue
		}
		seen[id] = true
		u.Variants = append(u.Variants, v)
	}
	u.Signature = Signature(u.Variants)

	var schemas []string
	for _, v := range u.Named() {
		if v.Schema != "" {
			schemas = append(schemas, v.Schema)
		}
	}
	complete := len(schemas) > 0 && len(schemas) == len(u.Named())
	u.Strategy = StrategyTryEach
	if field, values, ok := r.ctx.Matcher.DispatchField(schemas); complete && ok {
		u.Strategy = StrategyDiscriminated
		u.DispatchField = field
		for i := range u.Variants {
			if u.Variants[i].Kind == VariantNamed {
				u.Variants[i].DispatchValue = values[u.Variants[i].Schema]
			}
		}
	} else if presence := r.ctx.Matcher.PresenceFields(schemas); complete && len(presence) > 0 {
		u.Strategy = StrategyPresence
		for i := range u.Variants {
			if u.Variants[i].Kind == VariantNamed {
				u.Variants[i].PresenceField = presence[u.Variants[i].Schema]
			}
		}
	}

	methods := NewRegistry(unionReserved...)
	for i := range u.Variants {
		if u.Variants[i].Kind != VariantNamed {
			continue
		}
		as := "As" + u.Variants[i].Shape.Named
		if methods.TryClaim(as) {
			u.Variants[i].AsMethod = as
		}
	}
	if complete && len(u.Variants) == len(schemas) {
		u.Shared = r.sharedFields(u, schemas, methods)
	}
	return u
}

// sharedFields finds required properties every variant stores with the
// same Go type.
func (r *resolverImpl) sharedFields(u *UnionResolution, schemas []string, methods *Registry) []SharedField {
	structs := make([]*ResolvedStruct, 0, len(u.Variants))
	for _, v := range u.Variants {
		rs, ok := r.ctx.structFor(v.Shape.Named)
		if !ok {
			return nil
		}
		structs = append(structs, rs)
	}
	var out []SharedField
	for _, field := range r.ctx.Matcher.CommonRequired(schemas) {
		sf := SharedField{JSONName: field}
		for i, rs := range structs {
			fp, ok := rs.Field(field)
			if !ok || !shareable(fp) {
				sf.Cases = nil
				break
			}
			if i == 0 {
				sf.GoType = fp.GoType()
			} else if fp.GoType() != sf.GoType {
				sf.Cases = nil
				break
			}
			sf.Cases = append(sf.Cases, SharedCase{Type: u.Variants[i].Shape.Named, Field: fp.GoName})
		}
		if len(sf.Cases) != len(structs) {
			continue
		}
		sf.Method = "Get" + Exported(field)
		if !methods.TryClaim(sf.Method) {
			continue
		}
		out = append(out, sf)
	}
	return out
}

func shareable(fp FieldPlan) bool {
	switch fp.Kind {
	case FieldConst, FieldInlineEnum, FieldNestedStruct:
		return false
	}
	return fp.Required && !fp.Nullable
}

// unionShape declares a field-level union, or reuses an identical one. An
// alternative that cannot be represented turns the value into any.
func (r *resolverImpl) unionShape(sc *scope, base string, spec *parser.TypeSpec) (Shape, bool) {
	variants, dropped := r.variants(sc, spec)
	if len(dropped) > 0 || len(variants) == 0 {
		r.ctx.Logger.Debug("passing union through as any",
			zap.String("type", sc.goName),
			zap.String("value", base),
			zap.Strings("unsupported", dropped))
		return anyShape, false
	}
	u := r.buildUnion(sc.goName+Exported(base), r.ctx.Doc(spec.Description), variants)
	if canonical, ok := r.ctx.Interner.Lookup(u.Signature); ok {
		r.ctx.Logger.Debug("reusing union",
			zap.String("type", sc.goName),
			zap.String("value", base),
			zap.String("union", canonical))
		return namedShape(canonical), true
	}
	u.Name = r.ctx.Names.Claim(u.Name, ParseFuncName, SerializeFuncName)
	r.ctx.Interner.Record(u.Signature, u.Name)
	sc.unions = append(sc.unions, u)
	return namedShape(u.Name), true
}

func (r *resolverImpl) resolveUnion(spec *parser.TypeSpec) (*UnionResolution, bool) {
	name, _ := r.ctx.TypeName(spec.Name)
	sc := newScope(name, spec.Name)
	variants, dropped := r.variants(sc, spec)
	for _, d := range dropped {
		r.ctx.Logger.Warn("dropping unsupported union alternative",
			zap.String("union", name),
			zap.String("alternative", d))
	}
	if len(variants) == 0 {
		return nil, false
	}
	u := r.buildUnion(name, r.ctx.Doc(spec.Description), variants)
	if canonical, ok := r.ctx.Interner.Lookup(u.Signature); ok {
		u.InternedAs = canonical
		r.ctx.intern(name, canonical)
		return u, true
	}
	r.ctx.Interner.Record(u.Signature, name)
	return u, true
}
