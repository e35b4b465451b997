package resolver

import "testing"

func TestExported(t *testing.T) {
	cases := map[string]string{
		"_meta":      "Meta",
		"utf-8":      "Utf8",
		"2fa":        "X2fa",
		"tools/call": "ToolsCall",
		"mimeType":   "MimeType",
		"":           "X",
	}
	for in, want := range cases {
		if got := Exported(in); got != want {
			t.Fatalf("Exported(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTypeIdent_KeepsAcronyms(t *testing.T) {
	cases := map[string]string{
		"RequestId":   "RequestId",
		"URLResource": "URLResource",
		"jsonrpc":     "Jsonrpc",
		"foo-bar":     "FooBar",
	}
	for in, want := range cases {
		if got := TypeIdent(in); got != want {
			t.Fatalf("TypeIdent(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAdderName(t *testing.T) {
	cases := map[string]string{
		"resources":    "AddResource",
		"capabilities": "AddCapability",
		"data":         "AddData",
		"tags":         "AddTag",
	}
	for in, want := range cases {
		if got := AdderName(in); got != want {
			t.Fatalf("AdderName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNestedShortName(t *testing.T) {
	if got := NestedShortName("RequestParams", "RequestParams_meta"); got != "Meta" {
		t.Fatalf("NestedShortName() = %q, want Meta", got)
	}
	if got := NestedShortName("Request", "Other"); got != "Other" {
		t.Fatalf("NestedShortName() = %q, want Other", got)
	}
}

func TestRegistry_Claim(t *testing.T) {
	r := NewRegistry("Foo", "ParseBar")

	if got := r.Claim("Foo"); got != "Foo2" {
		t.Fatalf("Claim(Foo) = %q, want Foo2", got)
	}
	if got := r.Claim("Foo"); got != "Foo3" {
		t.Fatalf("second Claim(Foo) = %q, want Foo3", got)
	}
	// The companion ParseBar is taken, so Bar itself is unusable.
	if got := r.Claim("Bar", ParseFuncName); got != "Bar2" {
		t.Fatalf("Claim(Bar) = %q, want Bar2", got)
	}
	if r.TryClaim("ParseBar2") {
		t.Fatal("companion of Bar2 should already be claimed")
	}
}
