package resolver

import (
	"strings"

	"go.uber.org/zap"

	"github.com/seitarof/gen-schema/internal/parser"
)

// ResolvedStruct is a struct declaration together with the types it owns.
type ResolvedStruct struct {
	Name        string
	Original    string
	Description string
	Fields      []FieldPlan
	// Open structs keep unknown keys in AdditionalProperties.
	Open bool
	// Owned are nested enums and structs, in the order they were found.
	Owned []Owned
	// Unions are field-level unions declared while resolving this struct.
	Unions []*UnionResolution
}

// Owned is one nested declaration; exactly one field is set.
type Owned struct {
	Enum   *EnumResolution
	Struct *ResolvedStruct
}

// Field returns the plan of a JSON property.
func (s *ResolvedStruct) Field(jsonName string) (FieldPlan, bool) {
	for _, f := range s.Fields {
		if f.JSONName == jsonName {
			return f, true
		}
	}
	return FieldPlan{}, false
}

// RequiredFields returns the JSON names checked before any field is parsed.
func (s *ResolvedStruct) RequiredFields() []string {
	var out []string
	for _, f := range s.Fields {
		if f.Required {
			out = append(out, f.JSONName)
		}
	}
	return out
}

// Stored returns the fields with a Go struct member; constants have none.
func (s *ResolvedStruct) Stored() []FieldPlan {
	out := make([]FieldPlan, 0, len(s.Fields))
	for _, f := range s.Fields {
		if f.Kind != FieldConst {
			out = append(out, f)
		}
	}
	return out
}

var (
	structReserved = []string{"MarshalJSON", "UnmarshalJSON"}
	openReserved   = []string{
		"AdditionalProperties",
		"SetAdditionalProperty",
		"MergeAdditionalProperties",
		"GetAdditionalProperties",
	}
)

// scope collects what one declaration owns.
type scope struct {
	goName   string
	original string
	root     string
	owned    []Owned
	unions   []*UnionResolution
}

func newScope(goName, original string) *scope {
	return &scope{goName: goName, original: original, root: original}
}

// lookupOwned finds a nested type created under this scope by its
// pre-shortening name.
func (sc *scope) lookupOwned(original string) (string, bool) {
	for _, o := range sc.owned {
		if o.Struct != nil && o.Struct.Original == original {
			return o.Struct.Name, true
		}
	}
	return "", false
}

func (r *resolverImpl) resolveStruct(goName, original, root string, spec *parser.TypeSpec) *ResolvedStruct {
	rs := &ResolvedStruct{
		Name:        goName,
		Original:    original,
		Description: r.ctx.Doc(spec.Description),
		Open:        spec.IsOpenMap(),
	}
	members := NewRegistry(structReserved...)
	if rs.Open {
		for _, name := range openReserved {
			members.TryClaim(name)
		}
	}
	sc := newScope(goName, original)
	sc.root = root
	for _, prop := range spec.Properties {
		rs.Fields = append(rs.Fields, r.planField(sc, prop, spec.IsRequired(prop.Name)))
	}
	for i := range rs.Fields {
		if rs.Fields[i].Kind != FieldConst {
			rs.Fields[i].GoName = members.Claim(Exported(rs.Fields[i].JSONName))
		}
	}
	for i := range rs.Fields {
		r.planMethods(rs, &rs.Fields[i], members)
	}
	rs.Owned = sc.owned
	rs.Unions = sc.unions
	r.ctx.registerStruct(rs)
	return rs
}

func (r *resolverImpl) planMethods(rs *ResolvedStruct, f *FieldPlan, members *Registry) {
	if f.Kind == FieldConst {
		return
	}
	claim := func(name string) string {
		if members.TryClaim(name) {
			return name
		}
		r.ctx.Logger.Warn("skipping colliding method",
			zap.String("type", rs.Name),
			zap.String("field", f.JSONName),
			zap.String("method", name))
		return ""
	}
	f.Setter = claim("Set" + f.GoName)
	f.Getter = claim("Get" + f.GoName)
	if f.Shape.Kind == ShapeSlice || f.Shape.Kind == ShapeMap {
		f.Adder = claim(AdderName(f.JSONName))
	}
}

func (r *resolverImpl) planField(sc *scope, prop parser.Property, required bool) FieldPlan {
	spec := r.normalize(prop.Spec)
	plan := FieldPlan{
		JSONName:    prop.Name,
		Kind:        classifyField(spec),
		Required:    required,
		Description: r.ctx.Doc(spec.Description),
	}
	_, plan.Nullable = spec.NonNullType()
	base := capFirst(prop.Name)

	switch plan.Kind {
	case FieldConst:
		plan.Const = *spec.Const
	case FieldInlineEnum:
		name := r.ctx.Names.Claim(sc.goName+Exported(prop.Name), ParseFuncName, SerializeFuncName)
		e := r.resolveEnum(name, spec)
		sc.owned = append(sc.owned, Owned{Enum: e})
		plan.Shape = namedShape(e.Name)
	case FieldNestedStruct:
		plan.Shape = r.valueShape(sc, base, spec)
	case FieldSequence:
		plan.Shape = sliceOf(r.valueShape(sc, base+"Item", spec.Items))
	case FieldReference:
		plan.Ref = spec.Ref
		plan.Shape = r.refShape(sc, spec.Ref)
		if plan.Shape.Kind == ShapeAny {
			plan.Placeholder = spec.Ref
		}
		// a value field leading back to the enclosing type would be infinite
		if plan.Direct() && plan.Shape.Kind == ShapeNamed && r.ctx.embeds(spec.Ref, sc.root) {
			plan.Boxed = true
		}
	case FieldUnion:
		shape, ok := r.unionShape(sc, base, spec)
		if !ok {
			plan.Kind = FieldAny
		}
		plan.Shape = shape
	case FieldMap:
		plan.Shape = mapOf(r.mapValueShape(sc, base, spec))
	case FieldScalar:
		t, _ := spec.NonNullType()
		plan.Shape, _ = scalarShape(t)
	case FieldPlaceholder:
		plan.Placeholder = spec.Type()
		plan.Shape = anyShape
		r.ctx.Logger.Warn("unknown property type",
			zap.String("type", sc.goName),
			zap.String("field", prop.Name),
			zap.Strings("schema_type", spec.Types))
	default:
		plan.Shape = anyShape
	}
	return plan
}

// normalize folds inline allOf: a single reference becomes that reference,
// anything else is merged into an inline object.
func (r *resolverImpl) normalize(spec *parser.TypeSpec) *parser.TypeSpec {
	if spec == nil || len(spec.AllOf) == 0 {
		return spec
	}
	if len(spec.AllOf) == 1 && spec.AllOf[0].Ref != "" && len(spec.Properties) == 0 {
		out := *spec
		out.AllOf = nil
		out.Ref = spec.AllOf[0].Ref
		return &out
	}
	flat := r.ctx.Catalog.Flatten(spec)
	if !flat.HasType() {
		flat.Types = []string{"object"}
	}
	return flat
}

// valueShape resolves the shape of a nested value. base names anything the
// value forces into existence: a nested struct or a union.
func (r *resolverImpl) valueShape(sc *scope, base string, spec *parser.TypeSpec) Shape {
	if spec == nil {
		return anyShape
	}
	spec = r.normalize(spec)
	switch {
	case spec.Ref != "":
		return r.refShape(sc, spec.Ref)
	case spec.IsInlineObject():
		return namedShape(r.nestedStruct(sc, base, spec).Name)
	case len(spec.Alternatives()) > 0 || hasMultipleTypes(spec):
		shape, _ := r.unionShape(sc, base, spec)
		return shape
	}
	t, _ := spec.NonNullType()
	switch t {
	case "array":
		return sliceOf(r.valueShape(sc, base+"Item", spec.Items))
	case "object":
		return mapOf(r.mapValueShape(sc, base, spec))
	case "":
		return anyShape
	}
	if s, ok := scalarShape(t); ok {
		return s
	}
	r.ctx.Logger.Warn("unknown value type",
		zap.String("type", sc.goName),
		zap.String("value", base),
		zap.String("schema_type", t))
	return anyShape
}

// mapValueShape resolves additionalProperties of a map-like object.
func (r *resolverImpl) mapValueShape(sc *scope, base string, spec *parser.TypeSpec) Shape {
	if spec.Additional == nil || spec.Additional.Open || spec.Additional.Schema == nil {
		return anyShape
	}
	value := spec.Additional.Schema
	if value.Ref == "" && !value.HasType() && len(value.Alternatives()) == 0 && len(value.AllOf) == 0 {
		return anyShape
	}
	return r.valueShape(sc, base+"Value", value)
}

func (r *resolverImpl) nestedStruct(sc *scope, base string, spec *parser.TypeSpec) *ResolvedStruct {
	childOriginal := sc.original + base
	short := NestedShortName(sc.original, childOriginal)
	name := r.ctx.Names.Claim(sc.goName+Exported(short), ParseFuncName, SerializeFuncName)
	child := r.resolveStruct(name, childOriginal, sc.root, spec)
	sc.owned = append(sc.owned, Owned{Struct: child})
	return child
}

// refShape resolves a reference to a declared type, then to a nested type
// owned by the current scope. Anything else falls back to any.
func (r *resolverImpl) refShape(sc *scope, ref string) Shape {
	if name, ok := r.ctx.TypeName(ref); ok {
		return namedShape(name)
	}
	if name, ok := sc.lookupOwned(ref); ok {
		return namedShape(name)
	}
	r.ctx.Logger.Warn("unresolved reference",
		zap.String("type", sc.goName),
		zap.String("ref", ref))
	return anyShape
}

func capFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
