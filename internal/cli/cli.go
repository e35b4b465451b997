package cli

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/spf13/pflag"
)

// ParseArgs parses command line arguments into Config. Values are layered:
// defaults, then the --config file, then flags set on the command line, then
// the positional <schema> <output> arguments.
func ParseArgs(args []string) (*Config, error) {
	fs := pflag.NewFlagSet("gen-schema", pflag.ContinueOnError)
	fs.StringP("package", "p", defaultPackage, "package name of the generated file")
	fs.Bool("no-comments", false, "omit doc comments taken from descriptions")
	fs.StringP("config", "c", "", "YAML file with default option values")
	fs.Bool("verbose", false, "log debug diagnostics")
	fs.BoolP("version", "v", false, "show version")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if v, _ := fs.GetBool("version"); v {
		return &Config{ShowVersion: true}, nil
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(map[string]any{"package": defaultPackage}, "."), nil); err != nil {
		return nil, err
	}
	if path, _ := fs.GetString("config"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}
	if err := k.Load(posflag.Provider(fs, ".", k), nil); err != nil {
		return nil, fmt.Errorf("load flags: %w", err)
	}

	positional := fs.Args()
	if len(positional) > 2 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(positional[2:], " "))
	}
	overrides := map[string]any{}
	if len(positional) > 0 {
		overrides["schema"] = positional[0]
	}
	if len(positional) > 1 {
		overrides["output"] = positional[1]
	}
	if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if strings.TrimSpace(cfg.Schema) == "" {
		return nil, fmt.Errorf("schema path is required")
	}
	if strings.TrimSpace(cfg.Output) == "" {
		return nil, fmt.Errorf("output path is required")
	}
	if !token.IsIdentifier(cfg.Package) || token.IsKeyword(cfg.Package) {
		return nil, fmt.Errorf("--package %q is not a valid Go package name", cfg.Package)
	}
	return cfg, nil
}
