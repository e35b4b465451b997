package parser

// MergeAllOf flattens an allOf composition into one ordered property list and
// a required list. Components are merged in order: a later component replaces
// an earlier property of the same name but the property keeps its first
// position. A referenced component contributes its own allOf first, then its
// properties. Required names are concatenated and deduplicated.
func (c *Catalog) MergeAllOf(spec *TypeSpec) ([]Property, []string) {
	m := &merger{catalog: c, index: map[string]int{}, seenReq: map[string]bool{}, visiting: map[string]bool{}}
	if spec.Name != "" {
		m.visiting[spec.Name] = true
	}
	m.merge(spec)
	// sibling properties act as a final component
	if spec.HasProperties {
		m.add(spec.Properties, spec.Required)
	}
	return m.props, m.required
}

type merger struct {
	catalog  *Catalog
	props    []Property
	index    map[string]int
	required []string
	seenReq  map[string]bool
	visiting map[string]bool
}

func (m *merger) merge(spec *TypeSpec) {
	for _, item := range spec.AllOf {
		if item.Ref != "" {
			ref, ok := m.catalog.Lookup(item.Ref)
			if !ok || m.visiting[item.Ref] {
				continue
			}
			m.visiting[item.Ref] = true
			if len(ref.AllOf) > 0 {
				m.merge(ref)
			}
			if ref.HasProperties {
				m.add(ref.Properties, ref.Required)
			}
			delete(m.visiting, item.Ref)
			continue
		}
		if item.HasProperties {
			m.add(item.Properties, item.Required)
		}
	}
}

func (m *merger) add(props []Property, required []string) {
	for _, p := range props {
		if i, ok := m.index[p.Name]; ok {
			m.props[i] = p
			continue
		}
		m.index[p.Name] = len(m.props)
		m.props = append(m.props, p)
	}
	for _, r := range required {
		if m.seenReq[r] {
			continue
		}
		m.seenReq[r] = true
		m.required = append(m.required, r)
	}
}

// Flatten returns spec itself when it has no allOf, otherwise a synthetic
// spec carrying the merged properties and required list.
func (c *Catalog) Flatten(spec *TypeSpec) *TypeSpec {
	if spec == nil || len(spec.AllOf) == 0 {
		return spec
	}
	props, required := c.MergeAllOf(spec)
	flat := *spec
	flat.AllOf = nil
	flat.Properties = props
	flat.Required = required
	flat.HasProperties = true
	return &flat
}
