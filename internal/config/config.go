package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jacoelho/jx/internal/exit"
)

var (
	ErrNoArguments    = errors.New("no arguments provided")
	ErrNoExpression   = errors.New("no expression provided")
	ErrNoDocument     = errors.New("no document provided for path query")
	ErrTooManyInputs  = errors.New("expression given more than once")
	ErrUnknownFormat  = errors.New("input format must be json or yaml")
	ErrMixedModes     = errors.New("-p cannot be combined with an expression")
	ErrConflictingDoc = errors.New("-d and -f cannot both supply the document")
)

// Input format for the -p query mode document.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config represents the complete configuration for the jx tool.
type Config struct {
	// Expression mode: one expression evaluated by the engine.
	Expression string

	// Query mode: a bare path applied to a document, set when Path != "".
	Path     string
	Document string
	Format   string

	Pretty bool
}

// QueryMode reports whether a bare path query was requested instead of an
// expression.
func (c *Config) QueryMode() bool {
	return c.Path != ""
}

// Parse parses command-line arguments and returns a validated Config.
// If parsing fails or help is requested, returns nil config and exit result.
func Parse(args []string) (*Config, *exit.Result) {
	return parse(args, os.Stdin)
}

func parse(args []string, stdin io.Reader) (*Config, *exit.Result) {
	if len(args) == 0 {
		return nil, exit.Errorf("Error: %v\n\n%s", ErrNoArguments, Usage())
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)

	// Suppress the default usage output since we handle it ourselves
	fs.Usage = func() {}
	// Suppress error output since we handle it ourselves
	fs.SetOutput(io.Discard)

	var (
		expression = fs.String("e", "", "Expression to evaluate")
		file       = fs.String("f", "", "Read expression (or query document with -p) from file, '-' for stdin")
		path       = fs.String("p", "", "Apply a bare path query instead of an expression")
		document   = fs.String("d", "", "Inline document text for -p query mode")
		format     = fs.String("i", FormatJSON, "Document format for -p query mode: json or yaml")
		pretty     = fs.Bool("pretty", false, "Indent JSON output")
	)

	if err := fs.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return nil, exit.Success(Usage())
		}
		return nil, exit.Errorf("Error: failed to parse arguments: %v\n\n%s", err, Usage())
	}

	if *format != FormatJSON && *format != FormatYAML {
		return nil, exit.Errorf("Error: %v, got: %s\n\n%s", ErrUnknownFormat, *format, Usage())
	}

	positional := fs.Args()
	if len(positional) > 1 {
		return nil, exit.Errorf("Error: %v\n\n%s", ErrTooManyInputs, Usage())
	}

	fileText := ""
	if *file != "" {
		text, err := readInput(*file, stdin)
		if err != nil {
			return nil, exit.Errorf("Error: %v\n\n%s", err, Usage())
		}
		fileText = text
	}

	cfg := &Config{Format: *format, Pretty: *pretty}

	if *path != "" {
		if *expression != "" || len(positional) > 0 {
			return nil, exit.Errorf("Error: %v\n\n%s", ErrMixedModes, Usage())
		}
		doc, result := queryDocument(*document, *file, fileText)
		if result != nil {
			return nil, result
		}
		cfg.Path = *path
		cfg.Document = doc
		return cfg, nil
	}

	expr, result := expressionText(*expression, len(positional) > 0, positional, *file, fileText)
	if result != nil {
		return nil, result
	}
	cfg.Expression = expr
	return cfg, nil
}

func queryDocument(inline, file, fileText string) (string, *exit.Result) {
	switch {
	case inline != "" && file != "":
		return "", exit.Errorf("Error: %v\n\n%s", ErrConflictingDoc, Usage())
	case inline != "":
		return inline, nil
	case file != "":
		return fileText, nil
	default:
		return "", exit.Errorf("Error: %v\n\n%s", ErrNoDocument, Usage())
	}
}

func expressionText(flagExpr string, hasPositional bool, positional []string, file, fileText string) (string, *exit.Result) {
	sources := 0
	for _, set := range []bool{flagExpr != "", hasPositional, file != ""} {
		if set {
			sources++
		}
	}

	switch {
	case sources > 1:
		return "", exit.Errorf("Error: %v\n\n%s", ErrTooManyInputs, Usage())
	case flagExpr != "":
		return flagExpr, nil
	case hasPositional:
		return positional[0], nil
	case file != "":
		return fileText, nil
	default:
		return "", exit.Errorf("Error: %v\n\n%s", ErrNoExpression, Usage())
	}
}

// readInput returns the contents of a file argument, reading stdin when the
// argument is '-'.
func readInput(name string, stdin io.Reader) (string, error) {
	if name == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return strings.TrimRight(string(data), "\n"), nil
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", name, err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

// Usage returns the command-line usage message.
func Usage() string {
	return `jx - JSON value extraction tool

Usage: jx [options] [expression]

Options:
  -e EXPRESSION   Expression to evaluate
  -f FILE         Read expression from file, '-' for stdin
                  (with -p, FILE supplies the query document instead)
  -p PATH         Apply a bare path query instead of an expression
  -d TEXT         Inline document text for -p query mode
  -i FORMAT       Document format for -p query mode: json or yaml (default: json)
  -pretty         Indent JSON output
  -h, --help      Show this help message

Examples:
  jx "first(from_json('{\"a\":[1,2]}', '$.a[*]'))"   # Evaluate an expression
  jx -e "unique(from_json('[1,1]', '$[*]'))"         # Same via flag
  jx -f query.jx                                     # Expression from file
  jx -p '$.a[*]' -d '{"a":[1,2]}'                    # Direct path query
  jx -p '$.a.b' -i yaml -f config.yaml               # Query a YAML document
  cat doc.json | jx -p '$..name' -f -                # Document from stdin`
}
