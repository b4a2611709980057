// Package compiler runs the whole pipeline over one source text. Every call
// builds its own module and scope, so calls may run concurrently.
package compiler

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/kartiknair/blockc/pkg/analyzer"
	"github.com/kartiknair/blockc/pkg/ast"
	"github.com/kartiknair/blockc/pkg/gen"
	"github.com/kartiknair/blockc/pkg/lexer"
	"github.com/kartiknair/blockc/pkg/parser"
)

// Extension is the file extension of source files.
const Extension = ".block"

type Option func(*config)

type config struct {
	path          string
	runtimeModule string
}

// WithRuntimeModule star-imports the named Python module at the top of the
// output.
func WithRuntimeModule(name string) Option {
	return func(c *config) {
		c.runtimeModule = name
	}
}

// WithPath names the source in the module. It has no effect on the output.
func WithPath(path string) Option {
	return func(c *config) {
		c.path = path
	}
}

type Timings struct {
	Lex     time.Duration
	Parse   time.Duration
	Analyze time.Duration
	Gen     time.Duration
}

func (t Timings) Total() time.Duration {
	return t.Lex + t.Parse + t.Analyze + t.Gen
}

type Result struct {
	Code    string
	Module  *ast.Module
	Scope   *analyzer.Scope
	Timings Timings
}

// Fingerprint is the hex BLAKE2b-256 digest of the generated code.
func (r *Result) Fingerprint() string {
	return Fingerprint([]byte(r.Code))
}

func Fingerprint(code []byte) string {
	sum := blake2b.Sum256(code)
	return hex.EncodeToString(sum[:])
}

// Transpile turns Block source into Python. On failure the error is an
// *ast.Error and no code is returned.
func Transpile(source string, opts ...Option) (*Result, error) {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}

	m := &ast.Module{
		Path:   cfg.path,
		Source: source,
	}
	r := &Result{Module: m}

	start := time.Now()
	lexer.Lex(m)
	lexTime := time.Now()
	r.Timings.Lex = lexTime.Sub(start)

	if err := parser.Parse(m); err != nil {
		return nil, err
	}
	parseTime := time.Now()
	r.Timings.Parse = parseTime.Sub(lexTime)

	scope, err := analyzer.Analyze(m)
	if err != nil {
		return nil, err
	}
	r.Scope = scope
	analyzeTime := time.Now()
	r.Timings.Analyze = analyzeTime.Sub(parseTime)

	code, err := gen.Python(m, scope, gen.Options{RuntimeModule: cfg.runtimeModule})
	if err != nil {
		return nil, err
	}
	r.Code = code
	r.Timings.Gen = time.Since(analyzeTime)

	return r, nil
}

var ErrNotFound = errors.New("source file not found")

func TranspileFile(path string, opts ...Option) (*Result, error) {
	code, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read source file: %w", err)
	}

	return Transpile(string(code), append([]Option{WithPath(path)}, opts...)...)
}
