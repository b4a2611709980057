package main

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/repr"
	"github.com/urfave/cli/v2"

	"github.com/kartiknair/blockc/pkg/ast"
	"github.com/kartiknair/blockc/pkg/builtins"
	"github.com/kartiknair/blockc/pkg/compiler"
	"github.com/kartiknair/blockc/pkg/lexer"
	"github.com/kartiknair/blockc/pkg/parser"
)

func options(c *cli.Context) []compiler.Option {
	opts := []compiler.Option{}
	if mod := c.String("runtime-module"); mod != "" {
		opts = append(opts, compiler.WithRuntimeModule(mod))
	}
	return opts
}

func printTimings(c *cli.Context, r *compiler.Result) {
	if !c.Bool("verbose") {
		return
	}
	fmt.Fprintf(os.Stderr, "time: %dus for lexing\n", r.Timings.Lex.Microseconds())
	fmt.Fprintf(os.Stderr, "time: %dus for parsing\n", r.Timings.Parse.Microseconds())
	fmt.Fprintf(os.Stderr, "time: %dus for analysis\n", r.Timings.Analyze.Microseconds())
	fmt.Fprintf(os.Stderr, "time: %dus to generate Python\n", r.Timings.Gen.Microseconds())
}

// outputPath swaps the source extension for .py.
func outputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + ".py"
}

func build(c *cli.Context) error {
	if c.Args().Len() > 2 {
		return errors.New(`

Too many arguments provided.

If you've provided flags make sure they go before the arguments.
    Wrong: $ blockc build main.block --check
    Right: $ blockc build --check main.block
`)
	}

	input := c.Args().First()
	if input == "" {
		return errors.New("Source file not provided.")
	}
	output := c.Args().Get(1)
	if output == "" {
		output = outputPath(input)
	}

	r, err := compiler.TranspileFile(input, options(c)...)
	if err != nil {
		return err
	}
	printTimings(c, r)

	if c.Bool("check") {
		existing, err := os.ReadFile(output)
		if err != nil {
			return fmt.Errorf("%s is missing: %w", output, err)
		}
		if compiler.Fingerprint(existing) != r.Fingerprint() {
			return fmt.Errorf("%s is out of date with %s", output, input)
		}
		return nil
	}

	if err := os.WriteFile(output, []byte(r.Code), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

func inline(c *cli.Context, code string) error {
	r, err := compiler.Transpile(code, options(c)...)
	if err != nil {
		return err
	}
	printTimings(c, r)
	fmt.Println(r.Code)
	return nil
}

func dumpNodes(c *cli.Context) error {
	input := c.Args().First()
	if input == "" {
		return errors.New("Source file not provided.")
	}

	code, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("failed to read source file: %w", err)
	}

	m := ast.Module{Path: input, Source: string(code)}
	lexer.Lex(&m)
	if err := parser.Parse(&m); err != nil {
		return err
	}

	switch format := c.String("format"); format {
	case "repr":
		repr.Println(m.Nodes, repr.Indent("  "), repr.OmitEmpty(true))
	case "cbor":
		data, err := m.Nodes.MarshalBinary()
		if err != nil {
			return err
		}
		if _, err := os.Stdout.Write(data); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q, want repr or cbor", format)
	}
	return nil
}

func listBuiltins(c *cli.Context) error {
	var b bytes.Buffer
	category := builtins.Category("")
	for _, sig := range builtins.Functions() {
		if sig.Category != category {
			category = sig.Category
			fmt.Fprintf(&b, "%s:\n", category)
		}
		fmt.Fprintf(&b, "    %s\n", sig)
	}

	fmt.Fprintf(&b, "constants:\n")
	for _, name := range []string{"true", "false", "none"} {
		fmt.Fprintf(&b, "    %s = %s\n", name, builtins.Constants[name].Target)
	}

	_, err := os.Stdout.Write(b.Bytes())
	return err
}

func main() {
	app := &cli.App{
		Name:      "blockc",
		Usage:     "Transpiles Block source files to Python.",
		ArgsUsage: "<input> [output]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "code",
				Aliases: []string{"c"},
				Usage:   "Transpile `CODE` and print the result.",
			},
			&cli.StringFlag{
				Name:    "runtime-module",
				Usage:   "Python module the generated code star-imports.",
				EnvVars: []string{"BLOCKC_RUNTIME_MODULE"},
			},
			&cli.BoolFlag{
				Name:  "check",
				Usage: "Fail if the output file is missing or differs, write nothing.",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Print time spent in each phase.",
			},
		},
		Action: func(c *cli.Context) error {
			if c.IsSet("code") {
				return inline(c, c.String("code"))
			}
			if c.Args().Len() == 0 {
				return cli.ShowAppHelp(c)
			}
			return build(c)
		},
		Commands: []*cli.Command{
			{
				Name:      "build",
				Usage:     "Transpiles the provided source file.",
				ArgsUsage: "<input> [output]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "check",
						Usage: "Fail if the output file is missing or differs, write nothing.",
					},
				},
				Action: build,
			},
			{
				Name:      "nodes",
				Usage:     "Dumps the flat node sequence of the provided source file.",
				ArgsUsage: "<input>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Value: "repr",
						Usage: "Output format, repr or cbor.",
					},
				},
				Action: dumpNodes,
			},
			{
				Name:   "builtins",
				Usage:  "Lists the runtime functions generated code may call.",
				Action: listBuiltins,
			},
			{
				Name:   "repl",
				Usage:  "Transpiles lines interactively.",
				Action: repl,
			},
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		var e *ast.Error
		if errors.As(err, &e) && e.Context != "" {
			log.Fatalf("%s\n%s", e.Error(), e.Context)
		}
		log.Fatal(err)
	}
}
