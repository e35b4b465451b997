package graph

import (
	"sort"

	"github.com/seitarof/gen-schema/internal/parser"
)

// References returns every type name spec depends on structurally, sorted
// and deduplicated. Descriptions are never scanned.
func References(spec *parser.TypeSpec) []string {
	seen := map[string]bool{}
	collect(spec, seen)
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func collect(spec *parser.TypeSpec, seen map[string]bool) {
	if spec == nil {
		return
	}
	if spec.Ref != "" {
		seen[spec.Ref] = true
	}
	for _, p := range spec.Properties {
		collect(p.Spec, seen)
	}
	collect(spec.Items, seen)
	if spec.Additional != nil {
		collect(spec.Additional.Schema, seen)
	}
	for _, group := range [][]*parser.TypeSpec{spec.AllOf, spec.AnyOf, spec.OneOf} {
		for _, s := range group {
			collect(s, seen)
		}
	}
}

// Edge is a dependency from one declared type to another.
type Edge struct {
	From string
	To   string
}

// Graph maps each declared type to the declared types it references.
type Graph struct {
	names []string
	deps  map[string][]string

	order  []string
	cycles []Edge
	sorted bool
}

// Build scans every declared type of the catalog.
func Build(cat *parser.Catalog) *Graph {
	g := &Graph{deps: make(map[string][]string, len(cat.Types))}
	for _, spec := range cat.Types {
		g.names = append(g.names, spec.Name)
		g.deps[spec.Name] = References(spec)
	}
	return g
}

// Deps returns the sorted references of name, including names the catalog
// does not declare.
func (g *Graph) Deps(name string) []string {
	return g.deps[name]
}

// Order returns all declared types with dependencies before dependents.
// Traversal is depth-first in declaration order with dependencies visited in
// sorted order; a type is marked before recursing, so a cycle is entered once.
func (g *Graph) Order() []string {
	g.sort()
	return g.order
}

// Cycles returns the back edges met while ordering. Their targets were
// emitted after the dependent type, not before it.
func (g *Graph) Cycles() []Edge {
	g.sort()
	return g.cycles
}

func (g *Graph) sort() {
	if g.sorted {
		return
	}
	g.sorted = true

	const (
		unvisited = iota
		active
		done
	)
	state := make(map[string]int, len(g.names))

	var visit func(name string)
	visit = func(name string) {
		state[name] = active
		for _, dep := range g.deps[name] {
			if _, declared := g.deps[dep]; !declared {
				continue
			}
			switch state[dep] {
			case unvisited:
				visit(dep)
			case active:
				g.cycles = append(g.cycles, Edge{From: name, To: dep})
			}
		}
		state[name] = done
		g.order = append(g.order, name)
	}

	for _, name := range g.names {
		if state[name] == unvisited {
			visit(name)
		}
	}
}
