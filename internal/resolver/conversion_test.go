package resolver

import "testing"

func TestParseExpr(t *testing.T) {
	conversions := map[string]string{"ProgressToken": "RequestId"}
	cases := []struct {
		name  string
		shape Shape
		want  string
	}{
		{name: "scalar", shape: Shape{Kind: ShapeInt}, want: "parseInt"},
		{name: "named", shape: namedShape("Tool"), want: "ParseTool"},
		{name: "interned", shape: namedShape("ProgressToken"), want: "ParseRequestId"},
		{name: "nested", shape: sliceOf(mapOf(namedShape("Role"))), want: "parseSlice(parseMap(ParseRole))"},
		{name: "any", shape: anyShape, want: "parseAny"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseExpr(conversions, tc.shape); got != tc.want {
				t.Fatalf("ParseExpr() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSerializeExpr(t *testing.T) {
	conversions := map[string]string{"ProgressToken": "RequestId"}
	cases := []struct {
		name  string
		shape Shape
		want  string
	}{
		{name: "scalar", shape: Shape{Kind: ShapeString}, want: "serializeValue[string]"},
		{name: "interned", shape: namedShape("ProgressToken"), want: "SerializeRequestId"},
		{name: "slice", shape: sliceOf(namedShape("Content")), want: "serializeSlice(SerializeContent)"},
		{name: "map of any", shape: mapOf(anyShape), want: "serializeMap(serializeValue[any])"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := SerializeExpr(conversions, tc.shape); got != tc.want {
				t.Fatalf("SerializeExpr() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestConversionName_FollowsChain(t *testing.T) {
	conversions := map[string]string{"C": "B", "B": "A"}
	if got := ConversionName(conversions, "C"); got != "A" {
		t.Fatalf("ConversionName() = %q, want A", got)
	}
}
