package parser

// TypeSpec is the raw shape of one schema node. Declared catalog entries carry
// their Name; inline shapes leave it empty.
type TypeSpec struct {
	Name        string
	Description string

	Types      []string
	TypeIsList bool

	Enum    []string
	HasEnum bool

	Const    *string
	HasConst bool

	Ref string

	Properties    []Property
	HasProperties bool
	Required      []string

	Items      *TypeSpec
	Additional *Additional

	AllOf []*TypeSpec
	AnyOf []*TypeSpec
	OneOf []*TypeSpec
}

// Property is one named entry of a properties block, in declaration order.
type Property struct {
	Name string
	Spec *TypeSpec
}

// Additional describes an additionalProperties keyword that is not false.
type Additional struct {
	// Open is set for `true` and `{}`.
	Open   bool
	Schema *TypeSpec
}

// Type returns the scalar type keyword, or "" when absent or given as a list.
func (s *TypeSpec) Type() string {
	if s == nil || s.TypeIsList || len(s.Types) != 1 {
		return ""
	}
	return s.Types[0]
}

// HasType reports whether any type keyword was present.
func (s *TypeSpec) HasType() bool {
	return s != nil && len(s.Types) > 0
}

// NonNullType returns T for a `[T, "null"]` list and reports whether the
// null alternative was present.
func (s *TypeSpec) NonNullType() (string, bool) {
	if s == nil {
		return "", false
	}
	if !s.TypeIsList {
		return s.Type(), false
	}
	nullable := false
	rest := make([]string, 0, len(s.Types))
	for _, t := range s.Types {
		if t == "null" {
			nullable = true
			continue
		}
		rest = append(rest, t)
	}
	if nullable && len(rest) == 1 {
		return rest[0], true
	}
	return "", false
}

// Property returns the declared property with the given name.
func (s *TypeSpec) Property(name string) (*TypeSpec, bool) {
	if s == nil {
		return nil, false
	}
	for _, p := range s.Properties {
		if p.Name == name {
			return p.Spec, true
		}
	}
	return nil, false
}

// IsRequired reports whether name is listed in required.
func (s *TypeSpec) IsRequired(name string) bool {
	if s == nil {
		return false
	}
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

// IsConstString reports a string field pinned to a literal value.
func (s *TypeSpec) IsConstString() bool {
	return s != nil && s.Type() == "string" && s.Const != nil
}

// IsInlineEnum reports a string enumeration declared in place.
func (s *TypeSpec) IsInlineEnum() bool {
	return s != nil && s.Type() == "string" && s.HasEnum && !s.HasConst && s.Ref == ""
}

// IsInlineObject reports an object literal with its own properties.
func (s *TypeSpec) IsInlineObject() bool {
	return s != nil && s.Type() == "object" && len(s.Properties) > 0 && s.Ref == ""
}

// IsOpenMap reports additionalProperties of `true` or `{}`.
func (s *TypeSpec) IsOpenMap() bool {
	return s != nil && s.Additional != nil && s.Additional.Open
}

// Alternatives returns anyOf, falling back to oneOf.
func (s *TypeSpec) Alternatives() []*TypeSpec {
	if s == nil {
		return nil
	}
	if len(s.AnyOf) > 0 {
		return s.AnyOf
	}
	return s.OneOf
}

// Catalog is the ordered set of declared types found in one schema document.
type Catalog struct {
	// Key is the location the catalog was found under.
	Key   string
	Types []*TypeSpec

	index map[string]*TypeSpec
}

// NewCatalog indexes specs by name. Later duplicates replace earlier ones in
// the index but keep the first declaration position.
func NewCatalog(key string, specs []*TypeSpec) *Catalog {
	c := &Catalog{Key: key, index: make(map[string]*TypeSpec, len(specs))}
	for _, s := range specs {
		if _, dup := c.index[s.Name]; !dup {
			c.Types = append(c.Types, s)
		} else {
			for i, prev := range c.Types {
				if prev.Name == s.Name {
					c.Types[i] = s
				}
			}
		}
		c.index[s.Name] = s
	}
	return c
}

// Lookup returns the declared type with the given name.
func (c *Catalog) Lookup(name string) (*TypeSpec, bool) {
	if c == nil {
		return nil, false
	}
	s, ok := c.index[name]
	return s, ok
}

// Has reports whether name is declared.
func (c *Catalog) Has(name string) bool {
	_, ok := c.Lookup(name)
	return ok
}

// Names lists declared type names in declaration order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.Types))
	for _, s := range c.Types {
		names = append(names, s.Name)
	}
	return names
}
