package resolver

import (
	"strings"

	"go.uber.org/zap"

	"github.com/seitarof/gen-schema/internal/matcher"
	"github.com/seitarof/gen-schema/internal/parser"
)

// reservedIdents are package-level names the rendered file always declares.
var reservedIdents = []string{
	"ErrNotObject",
	"ErrUnexpectedType",
	"ErrMissingField",
	"ErrInvalidEnum",
	"ErrNoVariant",
	"ErrConstMismatch",
}

// Context is the state of one generation run. It is created per run and
// never shared between runs.
type Context struct {
	Catalog      *parser.Catalog
	Matcher      matcher.VariantMatcher
	EmitComments bool
	Interner     *Interner
	Names        *Registry
	Logger       *zap.Logger

	typeNames   map[string]string
	declared    map[string]*parser.TypeSpec
	structs     map[string]*ResolvedStruct
	aliases     map[string]Shape
	conversions map[string]string
}

// Option configures a Context.
type Option func(*Context)

// WithComments toggles descriptions and marker comments in the output.
func WithComments(on bool) Option {
	return func(c *Context) { c.EmitComments = on }
}

// WithLogger sets the run logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Context) {
		if l != nil {
			c.Logger = l
		}
	}
}

// NewContext prepares a run over cat. Every declared type gets its Go
// identifier up front, in declaration order, so references resolve before
// their targets are emitted.
func NewContext(cat *parser.Catalog, opts ...Option) *Context {
	c := &Context{
		Catalog:      cat,
		Matcher:      matcher.NewVariantMatcher(cat),
		EmitComments: true,
		Interner:     NewInterner(),
		Names:        NewRegistry(reservedIdents...),
		Logger:       zap.NewNop(),
		typeNames:    make(map[string]string, len(cat.Types)),
		declared:     make(map[string]*parser.TypeSpec, len(cat.Types)),
		structs:      map[string]*ResolvedStruct{},
		aliases:      map[string]Shape{},
		conversions:  map[string]string{},
	}
	for _, o := range opts {
		o(c)
	}
	for _, spec := range cat.Types {
		name := c.Names.Claim(TypeIdent(spec.Name), ParseFuncName, SerializeFuncName)
		c.typeNames[spec.Name] = name
		c.declared[name] = spec
	}
	return c
}

// TypeName returns the Go identifier of a declared type.
func (c *Context) TypeName(schemaName string) (string, bool) {
	name, ok := c.typeNames[schemaName]
	return name, ok
}

// Doc returns the trimmed description, or nothing when comments are off.
func (c *Context) Doc(description string) string {
	if !c.EmitComments {
		return ""
	}
	return strings.TrimSpace(description)
}

// Conversions maps interned aliases to the type whose conversion functions
// they share.
func (c *Context) Conversions() map[string]string {
	return c.conversions
}

func (c *Context) registerStruct(rs *ResolvedStruct) {
	c.structs[rs.Name] = rs
}

func (c *Context) registerAlias(name string, target Shape) {
	c.aliases[name] = target
}

func (c *Context) intern(name, canonical string) {
	c.conversions[name] = canonical
}

// structFor returns the resolved struct behind a Go type name, following
// aliases.
func (c *Context) structFor(name string) (*ResolvedStruct, bool) {
	id := c.identity(namedShape(name))
	rs, ok := c.structs[id]
	return rs, ok
}

// identity reduces a shape to its Go type identity: aliases are followed,
// so `Cursor = string` and string are the same type.
func (c *Context) identity(s Shape) string {
	switch s.Kind {
	case ShapeNamed:
		name := s.Named
		seen := map[string]bool{}
		for !seen[name] {
			seen[name] = true
			if canonical, ok := c.conversions[name]; ok {
				name = canonical
				continue
			}
			target, ok := c.aliasTarget(name)
			if !ok {
				break
			}
			if target.Kind != ShapeNamed {
				return c.identity(target)
			}
			name = target.Named
		}
		return name
	case ShapeSlice:
		return "[]" + c.identity(*s.Elem)
	case ShapeMap:
		return "map[string]" + c.identity(*s.Elem)
	default:
		return s.GoType()
	}
}

// aliasTarget reports what a Go alias stands for. Declared aliases that are
// not resolved yet are derived from their schema when that is cheap.
func (c *Context) aliasTarget(name string) (Shape, bool) {
	if target, ok := c.aliases[name]; ok {
		return target, true
	}
	spec, ok := c.declared[name]
	if !ok {
		return Shape{}, false
	}
	switch Classify(spec) {
	case KindEnum:
		if enumFallsBack(name, spec.Enum) {
			return Shape{Kind: ShapeString}, true
		}
	case KindAlias:
		if spec.Ref != "" {
			if target, ok := c.TypeName(spec.Ref); ok {
				return namedShape(target), true
			}
			return anyShape, true
		}
		t, _ := spec.NonNullType()
		if t == "" && spec.TypeIsList && len(spec.Types) == 1 {
			t = spec.Types[0]
		}
		if t == "" && !spec.HasType() {
			return anyShape, true
		}
		if s, ok := scalarShape(t); ok && t != "array" && t != "object" {
			return s, true
		}
	}
	return Shape{}, false
}

// embeds reports whether a value of type from contains a value of type to
// without indirection: through required, non-nullable references and the
// required inline objects around them.
func (c *Context) embeds(from, to string) bool {
	return c.embedsSeen(from, to, map[string]bool{})
}

func (c *Context) embedsSeen(from, to string, seen map[string]bool) bool {
	if from == to {
		return true
	}
	if seen[from] {
		return false
	}
	seen[from] = true
	spec, ok := c.Catalog.Lookup(from)
	if !ok {
		return false
	}
	for _, next := range c.valueRefs(spec) {
		if c.embedsSeen(next, to, seen) {
			return true
		}
	}
	return false
}

// valueRefs lists the declared types a value of spec holds directly.
func (c *Context) valueRefs(spec *parser.TypeSpec) []string {
	if spec.Ref != "" {
		return []string{spec.Ref}
	}
	if !spec.HasProperties && len(spec.AllOf) == 0 {
		return nil
	}
	flat := c.Catalog.Flatten(spec)
	var out []string
	for _, p := range flat.Properties {
		ps := p.Spec
		if !flat.IsRequired(p.Name) {
			continue
		}
		if _, nullable := ps.NonNullType(); nullable {
			continue
		}
		switch {
		case len(ps.AllOf) == 1 && ps.AllOf[0].Ref != "" && len(ps.Properties) == 0:
			out = append(out, ps.AllOf[0].Ref)
		case ps.Ref != "":
			out = append(out, ps.Ref)
		case ps.IsInlineObject() || len(ps.AllOf) > 0:
			out = append(out, c.valueRefs(ps)...)
		}
	}
	return out
}
