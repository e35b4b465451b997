package matcher

import (
	"testing"

	"github.com/seitarof/gen-schema/internal/parser"
)

const variantsDoc = `{"$defs": {
	"Base": {"type": "object", "properties": {"jsonrpc": {"type": "string", "const": "2.0"}, "id": {"type": "string"}}, "required": ["jsonrpc", "id"]},
	"Ping": {"allOf": [{"$ref": "#/$defs/Base"}, {"properties": {"method": {"type": "string", "const": "ping"}}, "required": ["method"]}]},
	"Call": {"allOf": [{"$ref": "#/$defs/Base"}, {"properties": {"method": {"type": "string", "const": "tools/call"}, "params": {"type": "object"}}, "required": ["method", "params"]}]},
	"Text": {"type": "object", "properties": {"uri": {"type": "string"}, "text": {"type": "string"}}, "required": ["uri", "text"]},
	"Blob": {"type": "object", "properties": {"uri": {"type": "string"}, "blob": {"type": "string"}}, "required": ["uri", "blob"]},
	"Loose": {"type": "object", "properties": {"uri": {"type": "string"}, "text": {"type": "string"}}, "required": ["uri"]}
}}`

func newMatcher(t *testing.T) VariantMatcher {
	t.Helper()
	cat, err := parser.New().ParseBytes([]byte(variantsDoc), parser.FormatJSON)
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}
	return NewVariantMatcher(cat)
}

func TestDispatchField_ThroughAllOf(t *testing.T) {
	m := newMatcher(t)

	field, values, ok := m.DispatchField([]string{"Ping", "Call"})
	if !ok {
		t.Fatal("expected a dispatch field")
	}
	// jsonrpc is common too but its values collide.
	if field != "method" {
		t.Fatalf("field = %q, want method", field)
	}
	if values["Ping"] != "ping" || values["Call"] != "tools/call" {
		t.Fatalf("unexpected dispatch values: %#v", values)
	}
}

func TestDispatchField_NoConst(t *testing.T) {
	m := newMatcher(t)

	if _, _, ok := m.DispatchField([]string{"Ping", "Text"}); ok {
		t.Fatal("variant without const fields must disable dispatch")
	}
}

func TestPresenceFields(t *testing.T) {
	m := newMatcher(t)

	got := m.PresenceFields([]string{"Text", "Blob"})
	if got["Text"] != "text" || got["Blob"] != "blob" {
		t.Fatalf("unexpected presence fields: %#v", got)
	}

	got = m.PresenceFields([]string{"Loose", "Blob"})
	if _, ok := got["Loose"]; ok {
		t.Fatalf("Loose has no unique required field, got %#v", got)
	}
	if got["Blob"] != "blob" {
		t.Fatalf("Blob should be identified by blob, got %#v", got)
	}
}

func TestCommonRequired(t *testing.T) {
	m := newMatcher(t)

	got := m.CommonRequired([]string{"Ping", "Call"})
	want := []string{"id", "jsonrpc", "method"}
	if len(got) != len(want) {
		t.Fatalf("CommonRequired() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("CommonRequired() = %v, want %v", got, want)
		}
	}
}

func TestAllFields_Transitive(t *testing.T) {
	m := newMatcher(t)

	fields := m.AllFields("Call")
	for _, f := range []string{"jsonrpc", "id", "method", "params"} {
		if !fields[f] {
			t.Fatalf("AllFields(Call) missing %q: %#v", f, fields)
		}
	}
}

func TestDispatchField_LaterComponentOverridesConst(t *testing.T) {
	cat, err := parser.New().ParseBytes([]byte(`{"$defs": {
		"Base": {"type": "object", "properties": {"type": {"type": "string", "const": "base"}}, "required": ["type"]},
		"X": {"allOf": [{"$ref": "#/$defs/Base"}, {"properties": {"type": {"type": "string", "const": "x"}}}]},
		"Y": {"allOf": [{"$ref": "#/$defs/Base"}, {"properties": {"type": {"type": "string", "const": "y"}}}]}
	}}`), parser.FormatJSON)
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}
	m := NewVariantMatcher(cat)

	if got := m.ConstFields("X")["type"]; got != "x" {
		t.Fatalf("ConstFields(X)[type] = %q, want x", got)
	}
	field, values, ok := m.DispatchField([]string{"X", "Y"})
	if !ok || field != "type" {
		t.Fatalf("DispatchField() = %q, %v, want type", field, ok)
	}
	if values["X"] != "x" || values["Y"] != "y" {
		t.Fatalf("unexpected dispatch values: %#v", values)
	}
}
