package cli

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseArgs_Success(t *testing.T) {
	cfg, err := ParseArgs([]string{"-p", "mcp", "--no-comments", "schema.json", "out/types.go"})
	if err != nil {
		t.Fatalf("ParseArgs() error = %v", err)
	}
	if cfg.Schema != "schema.json" || cfg.Output != "out/types.go" {
		t.Fatalf("unexpected paths: %#v", cfg)
	}
	if cfg.Package != "mcp" || !cfg.NoComments || cfg.Verbose {
		t.Fatalf("unexpected flags: %#v", cfg)
	}
	if cfg.OutputFilename() != "out/types.go" {
		t.Fatalf("OutputFilename() = %q", cfg.OutputFilename())
	}
}

func TestParseArgs_DefaultPackage(t *testing.T) {
	cfg, err := ParseArgs([]string{"schema.json", "types.go"})
	if err != nil {
		t.Fatalf("ParseArgs() error = %v", err)
	}
	if cfg.Package != "generatedschema" {
		t.Fatalf("package = %q, want generatedschema", cfg.Package)
	}
	if cfg.NoComments {
		t.Fatal("comments should be on by default")
	}
}

func TestParseArgs_Version(t *testing.T) {
	cfg, err := ParseArgs([]string{"-v"})
	if err != nil {
		t.Fatalf("ParseArgs() error = %v", err)
	}
	if !cfg.ShowVersion {
		t.Fatal("expected ShowVersion")
	}
}

func TestParseArgs_RequiresPositionals(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "none", args: nil},
		{name: "schema only", args: []string{"schema.json"}},
		{name: "too many", args: []string{"a.json", "b.go", "c.go"}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseArgs(tc.args); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestParseArgs_InvalidPackage(t *testing.T) {
	for _, pkg := range []string{"my-pkg", "func", "1st"} {
		if _, err := ParseArgs([]string{"-p", pkg, "s.json", "o.go"}); err == nil {
			t.Fatalf("package %q: expected error, got nil", pkg)
		}
	}
}

func TestParseArgs_ConfigFileLayering(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gen-schema.yaml")
	body := "package: fromfile\nno-comments: true\nschema: file.json\noutput: file.go\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := ParseArgs([]string{"-c", path})
	if err != nil {
		t.Fatalf("ParseArgs() error = %v", err)
	}
	if cfg.Package != "fromfile" || !cfg.NoComments {
		t.Fatalf("file values not applied: %#v", cfg)
	}
	if cfg.Schema != "file.json" || cfg.Output != "file.go" {
		t.Fatalf("file paths not applied: %#v", cfg)
	}

	cfg, err = ParseArgs([]string{"-c", path, "--package", "fromflag", "cli.json", "cli.go"})
	if err != nil {
		t.Fatalf("ParseArgs() error = %v", err)
	}
	if cfg.Package != "fromflag" {
		t.Fatalf("flag should override file, got package %q", cfg.Package)
	}
	if !cfg.NoComments {
		t.Fatal("unset flag should keep file value")
	}
	if cfg.Schema != "cli.json" || cfg.Output != "cli.go" {
		t.Fatalf("positionals should override file, got %#v", cfg)
	}
}

func TestParseArgs_MissingConfigFile(t *testing.T) {
	_, err := ParseArgs([]string{"-c", filepath.Join(t.TempDir(), "missing.yaml"), "s.json", "o.go"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestNewLogger(t *testing.T) {
	quiet, err := NewLogger(false)
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	if quiet.Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("debug should be disabled without verbose")
	}
	loud, err := NewLogger(true)
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	if !loud.Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("debug should be enabled with verbose")
	}
}
