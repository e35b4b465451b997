package driver

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/seitarof/gen-schema/internal/graph"
	"github.com/seitarof/gen-schema/internal/parser"
	"github.com/seitarof/gen-schema/internal/resolver"
)

// UnitKind identifies one emitted block.
type UnitKind int

const (
	UnitEnumDecl UnitKind = iota
	UnitEnumFuncs
	UnitStructDecl
	UnitStructFuncs
	UnitUnion
	UnitAlias
	UnitInternedAlias
)

func (k UnitKind) String() string {
	switch k {
	case UnitEnumDecl:
		return "enum-decl"
	case UnitEnumFuncs:
		return "enum-funcs"
	case UnitStructDecl:
		return "struct-decl"
	case UnitStructFuncs:
		return "struct-funcs"
	case UnitUnion:
		return "union"
	case UnitAlias:
		return "alias"
	default:
		return "interned-alias"
	}
}

// Unit is one block of the output; the field matching Kind is set.
type Unit struct {
	Kind   UnitKind
	Enum   *resolver.EnumResolution
	Struct *resolver.ResolvedStruct
	Union  *resolver.UnionResolution
	Alias  *resolver.AliasResolution
}

// Name returns the Go type the unit declares or serves.
func (u Unit) Name() string {
	switch {
	case u.Enum != nil:
		return u.Enum.Name
	case u.Struct != nil:
		return u.Struct.Name
	case u.Union != nil:
		return u.Union.Name
	case u.Alias != nil:
		return u.Alias.Name
	}
	return ""
}

// Output is the ordered emission plan of one catalog.
type Output struct {
	Package     string
	Units       []Unit
	Conversions map[string]string
}

// UnresolvedError reports unions and aliases whose references never got
// emitted, typically because they reference each other.
type UnresolvedError struct {
	Names []string
}

func (e *UnresolvedError) Error() string {
	return "could not resolve all type dependencies. Remaining: " + strings.Join(e.Names, ", ")
}

// Driver schedules and resolves every declared type.
type Driver interface {
	Run(cat *parser.Catalog) (*Output, error)
}

type driverImpl struct {
	pkg  string
	opts []resolver.Option
}

// New creates a driver emitting into package pkg.
func New(pkg string, opts ...resolver.Option) Driver {
	return &driverImpl{pkg: pkg, opts: opts}
}

func (d *driverImpl) Run(cat *parser.Catalog) (*Output, error) {
	ctx := resolver.NewContext(cat, d.opts...)
	r := resolver.New(ctx)
	g := graph.Build(cat)
	for _, e := range g.Cycles() {
		ctx.Logger.Warn("dependency cycle", zap.String("from", e.From), zap.String("to", e.To))
	}

	run := &run{r: r, g: g, cat: cat, log: ctx.Logger, emitted: map[string]bool{}}
	var pending []*parser.TypeSpec
	for _, name := range g.Order() {
		spec, ok := cat.Lookup(name)
		if !ok {
			continue
		}
		if !run.emit(spec) {
			ctx.Logger.Debug("deferring type", zap.String("type", name))
			pending = append(pending, spec)
		}
	}
	for len(pending) > 0 {
		var next []*parser.TypeSpec
		for _, spec := range pending {
			if !run.emit(spec) {
				next = append(next, spec)
			}
		}
		if len(next) == len(pending) {
			names := make([]string, 0, len(next))
			for _, spec := range next {
				names = append(names, spec.Name)
			}
			return nil, &UnresolvedError{Names: names}
		}
		pending = next
	}

	return &Output{
		Package:     d.pkg,
		Units:       run.units,
		Conversions: ctx.Conversions(),
	}, nil
}

type run struct {
	r       resolver.Resolver
	g       *graph.Graph
	cat     *parser.Catalog
	log     *zap.Logger
	emitted map[string]bool
	units   []Unit
}

// emit resolves spec and appends its units. Unions and aliases wait until
// everything they reference is emitted.
func (rn *run) emit(spec *parser.TypeSpec) bool {
	kind := resolver.Classify(spec)
	if kind.Deferrable() && !rn.ready(spec.Name) {
		return false
	}
	switch kind {
	case resolver.KindEnum:
		e := rn.r.Enum(spec)
		rn.units = append(rn.units, Unit{Kind: UnitEnumDecl, Enum: e}, Unit{Kind: UnitEnumFuncs, Enum: e})
	case resolver.KindStruct:
		rs := rn.r.Struct(spec)
		rn.units = append(rn.units, structUnits(rs)...)
	case resolver.KindUnion:
		u, ok := rn.r.Union(spec)
		if !ok {
			rn.log.Warn("union has no representable alternative", zap.String("type", spec.Name))
			rn.units = append(rn.units, aliasUnits(rn.r.Alias(&parser.TypeSpec{Name: spec.Name, Description: spec.Description}))...)
			break
		}
		if u.InternedAs != "" {
			rn.log.Debug("interned union", zap.String("type", u.Name), zap.String("canonical", u.InternedAs))
			rn.units = append(rn.units, Unit{Kind: UnitInternedAlias, Union: u})
			break
		}
		rn.units = append(rn.units, Unit{Kind: UnitUnion, Union: u})
	default:
		rn.units = append(rn.units, aliasUnits(rn.r.Alias(spec))...)
	}
	rn.emitted[spec.Name] = true
	return true
}

func (rn *run) ready(name string) bool {
	for _, dep := range rn.g.Deps(name) {
		if dep == name || !rn.cat.Has(dep) {
			continue
		}
		if !rn.emitted[dep] {
			return false
		}
	}
	return true
}

// structUnits flattens the owned-type tree: preamble unions, the parent
// declaration, nested declarations in pre-order, nested functions in
// post-order, then the parent functions.
func structUnits(rs *resolver.ResolvedStruct) []Unit {
	var out []Unit
	out = append(out, preamble(rs.Owned, rs.Unions)...)
	out = append(out, Unit{Kind: UnitStructDecl, Struct: rs})
	out = append(out, ownedDecls(rs.Owned)...)
	out = append(out, ownedFuncs(rs.Owned)...)
	out = append(out, Unit{Kind: UnitStructFuncs, Struct: rs})
	return out
}

func aliasUnits(a *resolver.AliasResolution) []Unit {
	var out []Unit
	out = append(out, preamble(a.Owned, a.Unions)...)
	out = append(out, ownedDecls(a.Owned)...)
	out = append(out, ownedFuncs(a.Owned)...)
	out = append(out, Unit{Kind: UnitAlias, Alias: a})
	return out
}

func preamble(owned []resolver.Owned, unions []*resolver.UnionResolution) []Unit {
	var out []Unit
	for _, o := range owned {
		if o.Struct != nil {
			out = append(out, preamble(o.Struct.Owned, o.Struct.Unions)...)
		}
	}
	for _, u := range unions {
		out = append(out, Unit{Kind: UnitUnion, Union: u})
	}
	return out
}

func ownedDecls(owned []resolver.Owned) []Unit {
	var out []Unit
	for _, o := range owned {
		if o.Enum != nil {
			out = append(out, Unit{Kind: UnitEnumDecl, Enum: o.Enum})
			continue
		}
		out = append(out, Unit{Kind: UnitStructDecl, Struct: o.Struct})
		out = append(out, ownedDecls(o.Struct.Owned)...)
	}
	return out
}

func ownedFuncs(owned []resolver.Owned) []Unit {
	var out []Unit
	for _, o := range owned {
		if o.Enum != nil {
			out = append(out, Unit{Kind: UnitEnumFuncs, Enum: o.Enum})
			continue
		}
		out = append(out, ownedFuncs(o.Struct.Owned)...)
		out = append(out, Unit{Kind: UnitStructFuncs, Struct: o.Struct})
	}
	return out
}

// Describe summarises the output for logs.
func (o *Output) Describe() string {
	counts := map[UnitKind]int{}
	for _, u := range o.Units {
		counts[u.Kind]++
	}
	return fmt.Sprintf("%d enums, %d structs, %d unions, %d aliases",
		counts[UnitEnumDecl], counts[UnitStructDecl], counts[UnitUnion], counts[UnitAlias]+counts[UnitInternedAlias])
}
