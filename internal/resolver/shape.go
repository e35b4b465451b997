package resolver

// ShapeKind is the Go representation category of a value.
type ShapeKind int

const (
	ShapeString ShapeKind = iota
	ShapeInt
	ShapeFloat
	ShapeBool
	ShapeAny
	ShapeNamed
	ShapeSlice
	ShapeMap
)

// Shape is the recursive Go representation of a JSON value.
type Shape struct {
	Kind ShapeKind
	// Named is the Go identifier for ShapeNamed.
	Named string
	// Elem is the element or value shape for ShapeSlice and ShapeMap.
	Elem *Shape
}

// GoType renders the shape as a Go type expression.
func (s Shape) GoType() string {
	switch s.Kind {
	case ShapeString:
		return "string"
	case ShapeInt:
		return "int64"
	case ShapeFloat:
		return "float64"
	case ShapeBool:
		return "bool"
	case ShapeNamed:
		return s.Named
	case ShapeSlice:
		return "[]" + s.Elem.GoType()
	case ShapeMap:
		return "map[string]" + s.Elem.GoType()
	default:
		return "any"
	}
}

// IsCollection reports shapes whose nil value already means absent.
func (s Shape) IsCollection() bool {
	return s.Kind == ShapeSlice || s.Kind == ShapeMap || s.Kind == ShapeAny
}

func namedShape(name string) Shape {
	return Shape{Kind: ShapeNamed, Named: name}
}

func sliceOf(elem Shape) Shape {
	return Shape{Kind: ShapeSlice, Elem: &elem}
}

func mapOf(elem Shape) Shape {
	return Shape{Kind: ShapeMap, Elem: &elem}
}

var anyShape = Shape{Kind: ShapeAny}

// scalarShape maps a JSON type keyword to its Go shape. Unknown keywords
// report false.
func scalarShape(jsonType string) (Shape, bool) {
	switch jsonType {
	case "string":
		return Shape{Kind: ShapeString}, true
	case "integer":
		return Shape{Kind: ShapeInt}, true
	case "number":
		return Shape{Kind: ShapeFloat}, true
	case "boolean":
		return Shape{Kind: ShapeBool}, true
	case "object":
		return mapOf(anyShape), true
	case "array":
		return sliceOf(anyShape), true
	case "null":
		return anyShape, true
	}
	return Shape{}, false
}
