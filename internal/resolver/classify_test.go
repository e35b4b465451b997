package resolver

import "testing"

func TestClassify(t *testing.T) {
	_, cat := loadDoc(t, `{"$defs": {
		"Enum": {"type": "string", "enum": ["a"]},
		"IntEnum": {"type": "integer", "enum": [1, 2]},
		"Obj": {"type": "object", "properties": {"a": {"type": "string"}}},
		"Empty": {"type": "object", "properties": {}},
		"Merged": {"allOf": [{"$ref": "#/$defs/Obj"}]},
		"List": {"type": ["string", "null"]},
		"Pair": {"type": ["string", "integer"]},
		"Choice": {"oneOf": [{"$ref": "#/$defs/Obj"}]},
		"Plain": {"type": "string"}
	}}`)

	cases := map[string]Kind{
		"Enum":    KindEnum,
		"IntEnum": KindAlias,
		"Obj":     KindStruct,
		"Empty":   KindStruct,
		"Merged":  KindStruct,
		"List":    KindUnion,
		"Pair":    KindUnion,
		"Choice":  KindUnion,
		"Plain":   KindAlias,
	}
	for name, want := range cases {
		if got := Classify(spec(t, cat, name)); got != want {
			t.Fatalf("Classify(%s) = %v, want %v", name, got, want)
		}
	}
}
