package matcher

import (
	"sort"

	"github.com/seitarof/gen-schema/internal/parser"
)

// VariantMatcher compares the declared fields of union variants. Every
// lookup sees the allOf-merged type.
type VariantMatcher interface {
	ConstFields(typeName string) map[string]string
	RequiredFields(typeName string) map[string]bool
	AllFields(typeName string) map[string]bool
	DispatchField(variants []string) (string, map[string]string, bool)
	PresenceFields(variants []string) map[string]string
	CommonRequired(variants []string) []string
}

type variantMatcherImpl struct {
	catalog *parser.Catalog
}

// NewVariantMatcher returns default variant matcher.
func NewVariantMatcher(cat *parser.Catalog) VariantMatcher {
	return &variantMatcherImpl{catalog: cat}
}

// merged returns the properties and required names of typeName after
// flattening allOf, with the same precedence as the emitted struct: later
// components override earlier ones.
func (m *variantMatcherImpl) merged(typeName string) ([]parser.Property, []string) {
	spec, ok := m.catalog.Lookup(typeName)
	if !ok {
		return nil, nil
	}
	return m.catalog.MergeAllOf(spec)
}

func (m *variantMatcherImpl) ConstFields(typeName string) map[string]string {
	out := map[string]string{}
	props, _ := m.merged(typeName)
	for _, p := range props {
		if p.Spec.IsConstString() {
			out[p.Name] = *p.Spec.Const
		}
	}
	return out
}

func (m *variantMatcherImpl) RequiredFields(typeName string) map[string]bool {
	out := map[string]bool{}
	_, required := m.merged(typeName)
	for _, r := range required {
		out[r] = true
	}
	return out
}

func (m *variantMatcherImpl) AllFields(typeName string) map[string]bool {
	out := map[string]bool{}
	props, _ := m.merged(typeName)
	for _, p := range props {
		out[p.Name] = true
	}
	return out
}

// DispatchField finds a const string field present in every variant whose
// values are pairwise distinct. Candidates are tried in sorted order.
func (m *variantMatcherImpl) DispatchField(variants []string) (string, map[string]string, bool) {
	if len(variants) == 0 {
		return "", nil, false
	}
	all := make([]map[string]string, 0, len(variants))
	for _, v := range variants {
		consts := m.ConstFields(v)
		if len(consts) == 0 {
			return "", nil, false
		}
		all = append(all, consts)
	}

	common := make([]string, 0, len(all[0]))
	for field := range all[0] {
		shared := true
		for _, consts := range all[1:] {
			if _, ok := consts[field]; !ok {
				shared = false
				break
			}
		}
		if shared {
			common = append(common, field)
		}
	}
	sort.Strings(common)

	for _, field := range common {
		seen := map[string]bool{}
		distinct := true
		for _, consts := range all {
			if seen[consts[field]] {
				distinct = false
				break
			}
			seen[consts[field]] = true
		}
		if !distinct {
			continue
		}
		values := make(map[string]string, len(variants))
		for i, v := range variants {
			values[v] = all[i][field]
		}
		return field, values, true
	}
	return "", nil, false
}

// PresenceFields maps each variant that has one to the first (sorted)
// required field no other variant declares.
func (m *variantMatcherImpl) PresenceFields(variants []string) map[string]string {
	required := make(map[string][]string, len(variants))
	declared := make(map[string]map[string]bool, len(variants))
	for _, v := range variants {
		required[v] = sortedKeys(m.RequiredFields(v))
		declared[v] = m.AllFields(v)
	}

	out := map[string]string{}
	for _, v := range variants {
		for _, field := range required[v] {
			unique := true
			for _, other := range variants {
				if other != v && declared[other][field] {
					unique = false
					break
				}
			}
			if unique {
				out[v] = field
				break
			}
		}
	}
	return out
}

// CommonRequired returns, sorted, the fields every variant requires.
func (m *variantMatcherImpl) CommonRequired(variants []string) []string {
	if len(variants) == 0 {
		return nil
	}
	common := m.RequiredFields(variants[0])
	for _, v := range variants[1:] {
		req := m.RequiredFields(v)
		for field := range common {
			if !req[field] {
				delete(common, field)
			}
		}
	}
	return sortedKeys(common)
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
