package generator

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/seitarof/gen-schema/internal/driver"
	"github.com/seitarof/gen-schema/internal/parser"
	"github.com/seitarof/gen-schema/internal/resolver"
)

const protocolFixture = "../../testdata/schemas/protocol.json"

type testConfig struct {
	filename string
}

func (c testConfig) OutputFilename() string { return c.filename }

type memoryWriter struct {
	files map[string][]byte
}

func (w *memoryWriter) Write(filename string, data []byte) error {
	if w.files == nil {
		w.files = map[string][]byte{}
	}
	w.files[filename] = data
	return nil
}

type failingFormatter struct{}

func (failingFormatter) Format(_ string, _ []byte) ([]byte, error) {
	return nil, errors.New("boom")
}

func plan(t testing.TB, path string, opts ...resolver.Option) *driver.Output {
	t.Helper()
	cat, err := parser.New().Parse(path)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	out, err := driver.New("protocol", opts...).Run(cat)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return out
}

func planDoc(t testing.TB, doc string) *driver.Output {
	t.Helper()
	cat, err := parser.New().ParseBytes([]byte(doc), parser.FormatJSON)
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}
	out, err := driver.New("sample").Run(cat)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return out
}

func generate(t testing.TB, out *driver.Output) string {
	t.Helper()
	w := &memoryWriter{}
	g := New(NewGoimportsFormatter(), w)
	if err := g.Generate(testConfig{filename: "schema_gen.go"}, out); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	return string(w.files["schema_gen.go"])
}

func TestGenerate_WritesFile(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "protocol_gen.go")

	g := New(NewGoimportsFormatter(), NewFileWriter())
	if err := g.Generate(testConfig{filename: filename}, plan(t, protocolFixture)); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	b, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	got := string(b)
	if !strings.HasPrefix(got, "// Code generated by gen-schema. DO NOT EDIT.") {
		t.Fatalf("generated header missing: %s", got)
	}
	if !strings.Contains(got, "package protocol") {
		t.Fatalf("package clause missing: %s", got)
	}
}

func TestGenerate_Declarations(t *testing.T) {
	got := generate(t, plan(t, protocolFixture))

	checks := []string{
		"type Role string",
		"func ParseRole(v any) (Role, error)",
		"func (e Role) String() string",
		"type Encoding = string",
		"type ProgressToken = RequestId",
		"type RequestId struct",
		"func ParseContent(v any) (Content, error)",
		"func (u ClientRequest) DispatchValue() string",
		"func (u ClientRequest) AsPingRequest() (PingRequest, bool)",
		"func (u ResourceContents) GetUri() string",
		"func (s *Tool) AddTag(v string) *Tool",
		"func (s *Tool) GetDescription() (string, bool)",
		"func (s *ToolInputSchema) AddProperty(key string, v map[string]any) *ToolInputSchema",
		"func (s *RequestParams) SetAdditionalProperty(key string, v any) *RequestParams",
		"func (s *RequestParams) MergeAdditionalProperties(m map[string]any) *RequestParams",
		"ParseRequestId(raw)",
		"parseSlice(ParseContent)",
		"type Cursor = string",
		`unknown %s %q", ErrNoVariant, "method", tag)`,
	}
	for _, check := range checks {
		if !strings.Contains(got, check) {
			t.Fatalf("generated code does not contain %q\n%s", check, got)
		}
	}
	if strings.Contains(got, "func ParseProgressToken") {
		t.Fatalf("interned union must not get its own functions:\n%s", got)
	}
}

func TestGenerate_NestedTypesFollowParent(t *testing.T) {
	got := generate(t, plan(t, protocolFixture))

	order := []string{
		"type Request struct",
		"type RequestParams struct",
		"type RequestParamsMeta struct",
		"func ParseRequestParamsMeta(",
		"func ParseRequestParams(",
		"func ParseRequest(",
	}
	last := -1
	for _, marker := range order {
		i := strings.Index(got, marker)
		if i < 0 {
			t.Fatalf("missing %q", marker)
		}
		if i < last {
			t.Fatalf("%q emitted out of order", marker)
		}
		last = i
	}
}

func TestGenerate_Comments(t *testing.T) {
	with := generate(t, plan(t, protocolFixture))
	if !strings.Contains(with, "// The sender or recipient of messages.") {
		t.Fatalf("description should be emitted:\n%s", with)
	}

	without := generate(t, plan(t, protocolFixture, resolver.WithComments(false)))
	if strings.Contains(without, "The sender or recipient of messages.") {
		t.Fatalf("description should be dropped:\n%s", without)
	}
}

func TestGenerate_PlaceholderMarker(t *testing.T) {
	got := generate(t, planDoc(t, `{"$defs": {
		"Event": {"type": "object", "properties": {"at": {"type": "datetime"}}},
		"Stamp": {"type": "datetime"}
	}}`))

	if !strings.Contains(got, "// Unknown property type: datetime") {
		t.Fatalf("field marker missing:\n%s", got)
	}
	if !strings.Contains(got, "// Skipped unknown type alias: datetime") {
		t.Fatalf("alias marker missing:\n%s", got)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	first := generate(t, plan(t, protocolFixture))
	second := generate(t, plan(t, protocolFixture))
	if first != second {
		t.Fatal("output differs between identical runs")
	}
}

func TestGenerate_FormatErrorWrapped(t *testing.T) {
	g := New(failingFormatter{}, &memoryWriter{})

	err := g.Generate(testConfig{filename: "x.go"}, plan(t, protocolFixture))
	if err == nil || !strings.HasPrefix(err.Error(), "format: ") {
		t.Fatalf("Generate() error = %v, want format error", err)
	}
}

func TestDocComment(t *testing.T) {
	got := docComment("first line\n\nsecond  ")
	want := "// first line\n//\n// second\n"
	if got != want {
		t.Fatalf("docComment() = %q, want %q", got, want)
	}
}
