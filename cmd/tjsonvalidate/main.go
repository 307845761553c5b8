// Command tjsonvalidate parses a JSON document against a schema and
// reports whether it conforms, with a located error on failure.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	emit "github.com/cloudresty/go-log"
	"github.com/fatih/color"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mossheim/tjson/parser"
	"github.com/mossheim/tjson/schema"
	"github.com/mossheim/tjson/value"
)

var (
	green = color.New(color.FgGreen, color.Bold).SprintFunc()
	red   = color.New(color.FgRed, color.Bold).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
)

// config collects the CLI's flags, registered on pflag.FlagSet the way
// MacroPower-x's magicschema.Config registers its own.
type config struct {
	SchemaPath   string
	SchemaFormat string
	Pretty       bool
}

func (c *config) registerFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.SchemaPath, "schema", "", "path to a schema file, YAML type-config or JSON Schema per --schema-format (required)")
	flags.StringVar(&c.SchemaFormat, "schema-format", "yaml", "schema format: \"yaml\" or \"jsonschema\"")
	flags.BoolVar(&c.Pretty, "pretty", false, "pretty-print the parsed value on success")
}

func main() {
	cfg := &config{}

	rootCmd := &cobra.Command{
		Use:           "tjsonvalidate [flags] <file.json|->",
		Short:         "Validate a JSON document against a schema",
		Long:          "tjsonvalidate parses a JSON document through the schema-directed streaming parser and reports success or a located failure.",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(_ *cobra.Command, args []string) error {
			return run(cfg, args[0])
		},
	}

	cfg.registerFlags(rootCmd.Flags())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, red("error:"), err)
		os.Exit(1)
	}
}

func run(cfg *config, target string) error {
	if cfg.SchemaPath == "" {
		return fmt.Errorf("--schema is required")
	}

	expected, err := loadSchema(cfg.SchemaPath, cfg.SchemaFormat)
	if err != nil {
		emit.ErrorKV("load schema failed", "path", cfg.SchemaPath, "format", cfg.SchemaFormat, "error", err.Error())
		return err
	}

	var r io.Reader
	if target == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(target)
		if err != nil {
			return fmt.Errorf("open %s: %w", target, err)
		}
		defer f.Close()
		r = f
	}

	got, err := value.Parse(r, expected)
	if err != nil {
		emit.ErrorKV("parse failed", "target", target, "error", err.Error())
		printFailure(target, err)
		return err
	}

	emit.InfoKV("parse succeeded", "target", target)
	printSuccess(target, got, cfg.Pretty)
	return nil
}

func loadSchema(path, format string) (schema.Type, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return schema.Type{}, fmt.Errorf("read schema %s: %w", path, err)
	}

	switch format {
	case "yaml":
		return schema.FromYAML(data)
	case "jsonschema":
		var s jsonschema.Schema
		if err := json.Unmarshal(data, &s); err != nil {
			return schema.Type{}, fmt.Errorf("decode json schema %s: %w", path, err)
		}
		return schema.FromJSONSchema(&s)
	default:
		return schema.Type{}, fmt.Errorf("unknown --schema-format %q (want yaml or jsonschema)", format)
	}
}

func printSuccess(target string, got *value.Value, pretty bool) {
	fmt.Printf("%s %s conforms to the schema\n", green("PASS"), cyan(target))
	if pretty {
		fmt.Println(got.String())
	}
}

func printFailure(target string, err error) {
	var parseErr *parser.ParseError
	if errors.As(err, &parseErr) {
		fmt.Printf("%s %s: %s at line %d, column %d\n", red("FAIL"), cyan(target), parseErr.Err, parseErr.Line, parseErr.Column)
		return
	}
	fmt.Printf("%s %s: %s\n", red("FAIL"), cyan(target), err)
}
