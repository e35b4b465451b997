package generator

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/template"

	"golang.org/x/tools/imports"

	"github.com/seitarof/gen-schema/internal/driver"
	"github.com/seitarof/gen-schema/internal/resolver"
)

//go:embed templates/*.go.tmpl
var templateFS embed.FS

// Generator renders an emission plan into one Go file.
type Generator interface {
	Generate(cfg Config, out *driver.Output) error
}

// Config is the minimum config contract required by generator.
type Config interface {
	OutputFilename() string
}

// Formatter formats generated Go code and organizes imports.
type Formatter interface {
	Format(filename string, src []byte) ([]byte, error)
}

// FileWriter writes generated code to disk.
type FileWriter interface {
	Write(filename string, data []byte) error
}

type generatorImpl struct {
	formatter Formatter
	writer    FileWriter
	tmpl      *template.Template
}

type goimportsFormatter struct{}

type fileWriter struct{}

var unitTemplates = map[driver.UnitKind]string{
	driver.UnitEnumDecl:      "enumDecl",
	driver.UnitEnumFuncs:     "enumFuncs",
	driver.UnitStructDecl:    "structDecl",
	driver.UnitStructFuncs:   "structFuncs",
	driver.UnitUnion:         "union",
	driver.UnitAlias:         "alias",
	driver.UnitInternedAlias: "internedAlias",
}

// New creates a code generator.
func New(f Formatter, w FileWriter) Generator {
	tmpl := template.Must(template.New("").Funcs(funcMap(nil)).ParseFS(templateFS, "templates/*.go.tmpl"))
	return &generatorImpl{formatter: f, writer: w, tmpl: tmpl}
}

// NewGoimportsFormatter creates a formatter backed by goimports.
func NewGoimportsFormatter() Formatter {
	return &goimportsFormatter{}
}

// NewFileWriter creates a plain file writer.
func NewFileWriter() FileWriter {
	return &fileWriter{}
}

func (g *generatorImpl) Generate(cfg Config, out *driver.Output) error {
	src, err := g.render(out)
	if err != nil {
		return fmt.Errorf("template: %w", err)
	}

	formatted, err := g.formatter.Format(cfg.OutputFilename(), src)
	if err != nil {
		return fmt.Errorf("format: %w", err)
	}
	if err := g.writer.Write(cfg.OutputFilename(), formatted); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

func (g *generatorImpl) render(out *driver.Output) ([]byte, error) {
	if out == nil {
		return nil, fmt.Errorf("no output to render")
	}
	tmpl, err := g.tmpl.Clone()
	if err != nil {
		return nil, err
	}
	tmpl.Funcs(funcMap(out.Conversions))

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "header", out); err != nil {
		return nil, err
	}
	for _, u := range out.Units {
		name, ok := unitTemplates[u.Kind]
		if !ok {
			return nil, fmt.Errorf("unknown unit kind %v", u.Kind)
		}
		buf.WriteString("\n")
		if err := tmpl.ExecuteTemplate(&buf, name, unitData(u)); err != nil {
			return nil, fmt.Errorf("%s %s: %w", u.Kind, u.Name(), err)
		}
	}
	return buf.Bytes(), nil
}

func unitData(u driver.Unit) any {
	switch {
	case u.Enum != nil:
		return u.Enum
	case u.Struct != nil:
		return u.Struct
	case u.Union != nil:
		return u.Union
	default:
		return u.Alias
	}
}

func (f *goimportsFormatter) Format(filename string, src []byte) ([]byte, error) {
	return imports.Process(filename, src, nil)
}

func (w *fileWriter) Write(filename string, data []byte) error {
	return os.WriteFile(filename, data, 0o644)
}

func funcMap(conversions map[string]string) template.FuncMap {
	return template.FuncMap{
		"parse": func(s resolver.Shape) string {
			return resolver.ParseExpr(conversions, s)
		},
		"serialize": func(s resolver.Shape) string {
			return resolver.SerializeExpr(conversions, s)
		},
		"parseName":     resolver.ParseFuncName,
		"serializeName": resolver.SerializeFuncName,
		"q":             strconv.Quote,
		"doc":           docComment,
		"tag":           fieldTag,
	}
}

// docComment renders text as a line comment block, one "//" per line.
func docComment(text string) string {
	if text == "" {
		return ""
	}
	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			b.WriteString("//\n")
			continue
		}
		b.WriteString("// ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// fieldTag documents the JSON key on the struct field. Keys that cannot sit
// inside a raw string tag get none.
func fieldTag(f resolver.FieldPlan) string {
	if strings.ContainsAny(f.JSONName, "`\"") {
		return ""
	}
	opts := ""
	if f.Optional() {
		opts = ",omitempty"
	}
	return " `json:\"" + f.JSONName + opts + "\"`"
}
