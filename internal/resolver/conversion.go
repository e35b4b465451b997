package resolver

// UnionStrategy identifies how a union picks its variant when parsing.
type UnionStrategy int

const (
	// StrategyDiscriminated switches on a constant field shared by every
	// named variant.
	StrategyDiscriminated UnionStrategy = iota
	// StrategyPresence branches on a required field unique to one variant.
	StrategyPresence
	// StrategyTryEach attempts the variants in declaration order.
	StrategyTryEach
)

func (s UnionStrategy) String() string {
	switch s {
	case StrategyDiscriminated:
		return "discriminated"
	case StrategyPresence:
		return "presence"
	default:
		return "try-each"
	}
}

// ParseFuncName returns the parse function generated for a type.
func ParseFuncName(typeName string) string {
	return "Parse" + typeName
}

// SerializeFuncName returns the serialize function generated for a type.
func SerializeFuncName(typeName string) string {
	return "Serialize" + typeName
}

// ConversionName returns the type whose conversion functions serve name.
// Interned aliases share their canonical type's functions.
func ConversionName(conversions map[string]string, name string) string {
	seen := map[string]bool{}
	for !seen[name] {
		seen[name] = true
		canonical, ok := conversions[name]
		if !ok {
			break
		}
		name = canonical
	}
	return name
}

// ParseExpr renders the expression of a func(any) (T, error) for s.
func ParseExpr(conversions map[string]string, s Shape) string {
	switch s.Kind {
	case ShapeString:
		return "parseString"
	case ShapeInt:
		return "parseInt"
	case ShapeFloat:
		return "parseFloat"
	case ShapeBool:
		return "parseBool"
	case ShapeNamed:
		return ParseFuncName(ConversionName(conversions, s.Named))
	case ShapeSlice:
		return "parseSlice(" + ParseExpr(conversions, *s.Elem) + ")"
	case ShapeMap:
		return "parseMap(" + ParseExpr(conversions, *s.Elem) + ")"
	default:
		return "parseAny"
	}
}

// SerializeExpr renders the expression of a func(T) any for s.
func SerializeExpr(conversions map[string]string, s Shape) string {
	switch s.Kind {
	case ShapeNamed:
		return SerializeFuncName(ConversionName(conversions, s.Named))
	case ShapeSlice:
		return "serializeSlice(" + SerializeExpr(conversions, *s.Elem) + ")"
	case ShapeMap:
		return "serializeMap(" + SerializeExpr(conversions, *s.Elem) + ")"
	default:
		return "serializeValue[" + s.GoType() + "]"
	}
}
