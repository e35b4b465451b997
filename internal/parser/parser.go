package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
)

// ErrNoCatalog is returned when none of the recognised catalog keys is present.
var ErrNoCatalog = errors.New("schema format not recognized: expected 'definitions', 'components.schemas', or '$defs'")

// Format selects the document decoder.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatFor picks the decoder from the file extension.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// catalogKeys lists catalog locations in priority order.
var catalogKeys = [][]string{
	{"definitions"},
	{"components", "schemas"},
	{"$defs"},
}

// Parser loads a type catalog from a schema document.
type Parser interface {
	Parse(path string) (*Catalog, error)
	ParseBytes(data []byte, format Format) (*Catalog, error)
}

type parserImpl struct{}

// New returns default parser.
func New() Parser {
	return &parserImpl{}
}

func (p *parserImpl) Parse(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema %q: %w", path, err)
	}
	return p.ParseBytes(data, FormatFor(path))
}

func (p *parserImpl) ParseBytes(data []byte, format Format) (*Catalog, error) {
	var (
		root *Node
		err  error
	)
	switch format {
	case FormatYAML:
		root, err = decodeYAML(data)
	default:
		root, err = decodeJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}

	key, entries, ok := locateCatalog(root)
	if !ok {
		return nil, ErrNoCatalog
	}

	b := &specBuilder{}
	specs := make([]*TypeSpec, 0, len(entries.Keys))
	for _, name := range entries.Keys {
		spec := b.build(name, entries.Fields[name])
		spec.Name = name
		specs = append(specs, spec)
	}
	if b.errs != nil {
		return nil, fmt.Errorf("invalid schema: %w", b.errs)
	}
	return NewCatalog(key, specs), nil
}

func locateCatalog(root *Node) (string, *Node, bool) {
	for _, path := range catalogKeys {
		n, ok := root.Lookup(path...)
		if ok && n.Kind == NodeObject {
			return strings.Join(path, "."), n, true
		}
	}
	return "", nil, false
}

// RefName extracts the target type name from a reference such as
// "#/$defs/Foo".
func RefName(ref string) string {
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		ref = ref[i+1:]
	}
	ref = strings.ReplaceAll(ref, "~1", "/")
	return strings.ReplaceAll(ref, "~0", "~")
}

// specBuilder converts nodes into TypeSpecs, collecting every malformed
// keyword instead of stopping at the first one.
type specBuilder struct {
	errs error
}

func (b *specBuilder) fail(path, format string, args ...any) {
	b.errs = multierr.Append(b.errs, fmt.Errorf("%s: %s", path, fmt.Sprintf(format, args...)))
}

func (b *specBuilder) build(path string, n *Node) *TypeSpec {
	spec := &TypeSpec{}
	if n.Kind == NodeBool {
		return spec
	}
	if n.Kind != NodeObject {
		b.fail(path, "expected schema object, got %s", n.Kind)
		return spec
	}

	for _, key := range n.Keys {
		v := n.Fields[key]
		at := path + "." + key
		switch key {
		case "type":
			b.buildType(at, v, spec)
		case "enum":
			b.buildEnum(at, v, spec)
		case "const":
			spec.HasConst = true
			if v.Kind == NodeString {
				c := v.String
				spec.Const = &c
			}
		case "$ref":
			if v.Kind != NodeString {
				b.fail(at, "expected string, got %s", v.Kind)
				continue
			}
			spec.Ref = RefName(v.String)
		case "description":
			if v.Kind == NodeString {
				spec.Description = v.String
			}
		case "properties":
			if v.Kind != NodeObject {
				b.fail(at, "expected object, got %s", v.Kind)
				continue
			}
			spec.HasProperties = true
			for _, name := range v.Keys {
				spec.Properties = append(spec.Properties, Property{
					Name: name,
					Spec: b.build(at+"."+name, v.Fields[name]),
				})
			}
		case "required":
			spec.Required = b.stringList(at, v)
		case "items":
			switch v.Kind {
			case NodeObject:
				spec.Items = b.build(at, v)
			case NodeBool:
			default:
				b.fail(at, "expected schema object, got %s", v.Kind)
			}
		case "additionalProperties":
			switch v.Kind {
			case NodeBool:
				if v.Bool {
					spec.Additional = &Additional{Open: true}
				}
			case NodeObject:
				if len(v.Keys) == 0 {
					spec.Additional = &Additional{Open: true}
				} else {
					spec.Additional = &Additional{Schema: b.build(at, v)}
				}
			default:
				b.fail(at, "expected boolean or object, got %s", v.Kind)
			}
		case "allOf":
			spec.AllOf = b.schemaList(at, v)
		case "anyOf":
			spec.AnyOf = b.schemaList(at, v)
		case "oneOf":
			spec.OneOf = b.schemaList(at, v)
		}
	}
	return spec
}

func (b *specBuilder) buildType(path string, v *Node, spec *TypeSpec) {
	switch v.Kind {
	case NodeString:
		spec.Types = []string{v.String}
	case NodeArray:
		spec.TypeIsList = true
		spec.Types = b.stringList(path, v)
	default:
		b.fail(path, "expected string or array, got %s", v.Kind)
	}
}

func (b *specBuilder) buildEnum(path string, v *Node, spec *TypeSpec) {
	if v.Kind != NodeArray {
		b.fail(path, "expected array, got %s", v.Kind)
		return
	}
	spec.HasEnum = true
	for _, item := range v.Items {
		switch item.Kind {
		case NodeString:
			spec.Enum = append(spec.Enum, item.String)
		case NodeNumber:
			spec.Enum = append(spec.Enum, item.Number)
		case NodeBool:
			spec.Enum = append(spec.Enum, fmt.Sprint(item.Bool))
		}
	}
}

func (b *specBuilder) stringList(path string, v *Node) []string {
	if v.Kind != NodeArray {
		b.fail(path, "expected array, got %s", v.Kind)
		return nil
	}
	out := make([]string, 0, len(v.Items))
	for i, item := range v.Items {
		if item.Kind != NodeString {
			b.fail(fmt.Sprintf("%s[%d]", path, i), "expected string, got %s", item.Kind)
			continue
		}
		out = append(out, item.String)
	}
	return out
}

func (b *specBuilder) schemaList(path string, v *Node) []*TypeSpec {
	if v.Kind != NodeArray {
		b.fail(path, "expected array, got %s", v.Kind)
		return nil
	}
	out := make([]*TypeSpec, 0, len(v.Items))
	for i, item := range v.Items {
		out = append(out, b.build(fmt.Sprintf("%s[%d]", path, i), item))
	}
	return out
}
