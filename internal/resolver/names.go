package resolver

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/iancoleman/strcase"
)

var (
	nonIdentChars = regexp.MustCompile(`[^A-Za-z0-9_]+`)
	bareIdent     = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Exported turns an arbitrary schema name into an exported Go identifier.
func Exported(name string) string {
	s := strcase.ToCamel(nonIdentChars.ReplaceAllString(name, "_"))
	if s == "" {
		return "X"
	}
	r := []rune(s)
	if unicode.IsDigit(r[0]) {
		return "X" + s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// TypeIdent keeps a declared type name as written when it already is an
// identifier starting with a letter, so acronyms survive.
func TypeIdent(name string) string {
	if IsBareIdentifier(name) && unicode.IsLetter(rune(name[0])) {
		return strings.ToUpper(name[:1]) + name[1:]
	}
	return Exported(name)
}

// IsBareIdentifier reports whether s can be used verbatim as an identifier.
func IsBareIdentifier(s string) bool {
	return bareIdent.MatchString(s)
}

// AdderName derives the single-element insertion method of a collection
// field: "ies" becomes "y", a trailing "s" is dropped.
func AdderName(prop string) string {
	singular := prop
	switch {
	case strings.HasSuffix(prop, "ies"):
		singular = strings.TrimSuffix(prop, "ies") + "y"
	case strings.HasSuffix(prop, "s"):
		singular = strings.TrimSuffix(prop, "s")
	}
	return "Add" + Exported(singular)
}

// NestedShortName strips the parent prefix from a generated child name:
// ("RequestParams", "RequestParams_meta") gives "Meta".
func NestedShortName(parent, child string) string {
	if strings.HasPrefix(child, parent) && len(child) > len(parent) {
		stripped := strings.TrimLeft(child[len(parent):], "_")
		if stripped != "" {
			return strings.ToUpper(stripped[:1]) + stripped[1:]
		}
	}
	return child
}

// Registry hands out identifiers that are unique within one scope. A
// colliding name gets the first free numeric suffix starting at 2.
type Registry struct {
	used map[string]bool
}

// NewRegistry returns a registry with reserved names already taken.
func NewRegistry(reserved ...string) *Registry {
	r := &Registry{used: make(map[string]bool, len(reserved))}
	for _, name := range reserved {
		r.used[name] = true
	}
	return r
}

// Claim reserves base, or base with a suffix, together with every companion
// derived from it.
func (r *Registry) Claim(base string, companions ...func(string) string) string {
	for i := 1; ; i++ {
		candidate := base
		if i > 1 {
			candidate = base + strconv.Itoa(i)
		}
		if !r.free(candidate, companions) {
			continue
		}
		r.used[candidate] = true
		for _, c := range companions {
			r.used[c(candidate)] = true
		}
		return candidate
	}
}

// TryClaim reserves name only when it is still free.
func (r *Registry) TryClaim(name string) bool {
	if r.used[name] {
		return false
	}
	r.used[name] = true
	return true
}

func (r *Registry) free(candidate string, companions []func(string) string) bool {
	if r.used[candidate] {
		return false
	}
	for _, c := range companions {
		if r.used[c(candidate)] {
			return false
		}
	}
	return true
}
