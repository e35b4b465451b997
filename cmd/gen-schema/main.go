package main

import (
	"fmt"
	"log"
	"os"

	"github.com/seitarof/gen-schema/internal/cli"
	"github.com/seitarof/gen-schema/internal/driver"
	"github.com/seitarof/gen-schema/internal/generator"
	"github.com/seitarof/gen-schema/internal/parser"
)

var version = "dev"

func main() {
	cfg, err := cli.ParseArgs(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	if cfg.ShowVersion {
		fmt.Println(version)
		return
	}

	logger, err := cli.NewLogger(cfg.Verbose)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	p := parser.New()
	f := generator.NewGoimportsFormatter()
	w := generator.NewFileWriter()
	g := generator.New(f, w)

	runner := cli.NewRunner(p, driver.New, g, logger)
	if err := runner.Run(cfg); err != nil {
		_ = logger.Sync()
		log.Fatal(err)
	}
	fmt.Printf("Generated Go bindings at %s\n", cfg.OutputFilename())
}
