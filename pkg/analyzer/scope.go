package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kartiknair/blockc/pkg/ast"
	"github.com/kartiknair/blockc/pkg/builtins"
	"github.com/kartiknair/blockc/pkg/token"
)

type Param struct {
	Name string
	Type string

	// Default holds the nodes of the default value expression, nil when the
	// parameter is required.
	Default ast.Program
}

// DefaultText is the default value as written, in its rendered form.
func (p Param) DefaultText() string {
	var b strings.Builder
	for _, n := range p.Default {
		b.WriteString(n.Rendered)
	}
	return strings.TrimSpace(b.String())
}

type Function struct {
	Name       string
	ReturnType string
	Params     []Param
}

// Scope is the symbol table of one transpilation. It is filled by Analyze and
// only read afterwards.
type Scope struct {
	variables   map[string]string
	functions   map[string]*Function
	collections map[string]bool
}

func NewScope() *Scope {
	return &Scope{
		variables:   make(map[string]string),
		functions:   make(map[string]*Function),
		collections: make(map[string]bool),
	}
}

// IsCollectionType accepts any bracketed shape; the contents are not checked.
func IsCollectionType(typ string) bool {
	if len(typ) < 2 {
		return false
	}
	first, last := typ[0], typ[len(typ)-1]
	return (first == '[' && last == ']') ||
		(first == '(' && last == ')') ||
		(first == '{' && last == '}')
}

func IsValidType(typ string) bool {
	return builtins.IsType(typ) || IsCollectionType(typ)
}

func (s *Scope) DefineVariable(name string, typ string) error {
	if !IsValidType(typ) {
		return fmt.Errorf("undefined type '%s'", typ)
	}
	s.variables[name] = typ
	return nil
}

func (s *Scope) DefineFunction(name string, returnType string, params []Param) error {
	if !IsValidType(returnType) {
		return fmt.Errorf("undefined return type '%s'", returnType)
	}
	for _, p := range params {
		if !IsValidType(p.Type) {
			return fmt.Errorf("undefined parameter type '%s'", p.Type)
		}
	}

	s.functions[name] = &Function{
		Name:       name,
		ReturnType: returnType,
		Params:     params,
	}
	return nil
}

func (s *Scope) IsDefinedVariable(name string) bool {
	_, ok := s.variables[name]
	return ok
}

func (s *Scope) IsDefinedFunction(name string) bool {
	_, ok := s.functions[name]
	return ok
}

func (s *Scope) VariableType(name string) (string, bool) {
	t, ok := s.variables[name]
	return t, ok
}

func (s *Scope) FunctionType(name string) (string, bool) {
	f, ok := s.functions[name]
	if !ok {
		return "", false
	}
	return f.ReturnType, true
}

func (s *Scope) Function(name string) (*Function, bool) {
	f, ok := s.functions[name]
	return f, ok
}

// IsCollection reports whether the latest declaration of name was a
// collection literal.
func (s *Scope) IsCollection(name string) bool {
	return s.collections[name]
}

func (s *Scope) setCollection(name string, isCollection bool) {
	if isCollection {
		s.collections[name] = true
	} else {
		delete(s.collections, name)
	}
}

// Names lists every name a value position may use: declared variables and
// functions, builtin functions and builtin constants. Sorted.
func (s *Scope) Names() []string {
	seen := map[string]bool{}
	for n := range s.variables {
		seen[n] = true
	}
	for n := range s.functions {
		seen[n] = true
	}
	for _, n := range builtins.Names() {
		seen[n] = true
	}
	for n := range builtins.Constants {
		seen[n] = true
	}

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// InferType guesses the type of a declaration from the first node of its
// right-hand side. Nothing past that node is looked at.
func (s *Scope) InferType(first ast.Node) string {
	if c, ok := builtins.LookupConstant(first.Value); ok && first.Kind == token.OPERAND {
		return c.Type
	}

	switch first.Kind {
	case token.STRING:
		return "str"
	case token.NUMBER:
		return "num"
	case token.OPERAND, token.OPERATOR:
		switch first.Value {
		case "[":
			return "list"
		case "(":
			return "tuple"
		case "{":
			// could be a map as well; the generator settles it
			return "set"
		}
		if t, ok := s.variables[first.Value]; ok {
			return t
		}
		if s.IsDefinedFunction(first.Value) {
			return "func"
		}
	}

	return "num"
}
