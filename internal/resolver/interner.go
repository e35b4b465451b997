package resolver

import "strings"

// Interner remembers the first union declared for each variant signature so
// later structurally identical unions can reuse it.
type Interner struct {
	bySignature map[string]string
}

// NewInterner returns an empty interner.
func NewInterner() *Interner {
	return &Interner{bySignature: map[string]string{}}
}

// Lookup returns the canonical union for a signature.
func (in *Interner) Lookup(signature string) (string, bool) {
	name, ok := in.bySignature[signature]
	return name, ok
}

// Record makes name canonical for signature unless one is already known.
func (in *Interner) Record(signature, name string) {
	if _, ok := in.bySignature[signature]; !ok {
		in.bySignature[signature] = name
	}
}

// Signature is the ordered list of variant Go types. Order matters: two
// unions with the same variants in a different order parse differently.
func Signature(variants []Variant) string {
	parts := make([]string, 0, len(variants))
	for _, v := range variants {
		parts = append(parts, v.GoType())
	}
	return strings.Join(parts, ", ")
}
