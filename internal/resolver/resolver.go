package resolver

import (
	"go.uber.org/zap"

	"github.com/seitarof/gen-schema/internal/parser"
)

// Resolver turns declared types into emission-ready resolutions.
type Resolver interface {
	Enum(spec *parser.TypeSpec) *EnumResolution
	Struct(spec *parser.TypeSpec) *ResolvedStruct
	// Union reports false when no alternative could be represented.
	Union(spec *parser.TypeSpec) (*UnionResolution, bool)
	Alias(spec *parser.TypeSpec) *AliasResolution
	Context() *Context
}

type resolverImpl struct {
	ctx *Context
}

// New builds a resolver over one run context.
func New(ctx *Context) Resolver {
	return &resolverImpl{ctx: ctx}
}

func (r *resolverImpl) Context() *Context {
	return r.ctx
}

func (r *resolverImpl) Enum(spec *parser.TypeSpec) *EnumResolution {
	name, _ := r.ctx.TypeName(spec.Name)
	return r.resolveEnum(name, spec)
}

func (r *resolverImpl) Struct(spec *parser.TypeSpec) *ResolvedStruct {
	name, _ := r.ctx.TypeName(spec.Name)
	flat := r.ctx.Catalog.Flatten(spec)
	if len(spec.AllOf) > 0 && len(flat.Properties) == 0 {
		r.ctx.Logger.Debug("allOf merged to no properties", zap.String("type", name))
	}
	return r.resolveStruct(name, spec.Name, spec.Name, flat)
}

func (r *resolverImpl) Union(spec *parser.TypeSpec) (*UnionResolution, bool) {
	return r.resolveUnion(spec)
}

func (r *resolverImpl) Alias(spec *parser.TypeSpec) *AliasResolution {
	return r.resolveAlias(spec)
}
