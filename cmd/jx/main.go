package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jacoelho/jx/internal/config"
	"github.com/jacoelho/jx/internal/engine"
	"github.com/jacoelho/jx/internal/value"
)

func main() {
	exitCode := run()
	os.Exit(exitCode)
}

func run() int {
	cfg, exitResult := config.Parse(os.Args)
	if exitResult != nil {
		exitResult.Print()
		return exitResult.ExitCode
	}

	result := evaluate(cfg)

	output, err := render(result, cfg.Pretty)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Println(output)
	return 0
}

func evaluate(cfg *config.Config) value.Value {
	if !cfg.QueryMode() {
		return engine.Eval(cfg.Expression)
	}

	if cfg.Format == config.FormatYAML {
		return engine.FromYAML(cfg.Document, cfg.Path)
	}
	return engine.FromJSON(cfg.Document, cfg.Path)
}

func render(v value.Value, pretty bool) (string, error) {
	compact := v.JSON()
	if !pretty {
		return compact, nil
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(compact), "", "  "); err != nil {
		return "", fmt.Errorf("failed to indent output: %w", err)
	}
	return buf.String(), nil
}
