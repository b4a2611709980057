package analyzer

import (
	"github.com/kartiknair/blockc/pkg/ast"
	"github.com/kartiknair/blockc/pkg/builtins"
	"github.com/kartiknair/blockc/pkg/token"
)

// Analyzer is the discovery pass. It walks the flat program once and records
// every variable, function and collection literal it declares.
type Analyzer struct {
	current int
	scope   *Scope

	Module *ast.Module
}

func (a *Analyzer) peek(distance int) ast.Node {
	i := a.current + distance
	if i < 0 || i >= len(a.Module.Nodes) {
		return ast.Node{Kind: token.EOL}
	}
	return a.Module.Nodes[i]
}

func isCollectionOpener(n ast.Node) bool {
	return n.IsOperand("[") || n.IsOperator("(") || n.IsOperator("{")
}

// isCollectionParam reports whether a parameter of type typ is indexed rather
// than called.
func isCollectionParam(typ string) bool {
	switch typ {
	case "list", "tuple", "map", "str":
		return true
	}
	return IsCollectionType(typ)
}

// IsBuiltinKeyword reports whether name, written right after before on the
// same line and followed by `=`, is a keyword argument of a call to a builtin
// function, as in `colJoin[xs, sep=","]`.
func IsBuiltinKeyword(before ast.Program, name ast.Node) bool {
	if len(before) == 0 {
		return false
	}
	if prev := before[len(before)-1]; !prev.IsOperand(",") && !prev.IsOperand("[") {
		return false
	}

	// find the bracket this argument sits in
	depth := 0
	for i := len(before) - 1; i >= 0; i-- {
		b := before[i]
		switch {
		case b.IsOperand("]") || b.IsOperator(")") || b.IsOperator("}"):
			depth++
		case isCollectionOpener(b):
			if depth > 0 {
				depth--
				continue
			}
			if !b.IsOperand("[") || i == 0 {
				return false
			}
			callee := before[i-1]
			sig, ok := builtins.Function(callee.Value)
			if !ok || callee.Kind != token.OPERAND {
				return false
			}
			for _, p := range sig.Params {
				if p.Name == name.Value {
					return true
				}
			}
			return false
		}
	}
	return false
}

// lineBegin returns the index of the first node of the current line.
func (a *Analyzer) lineBegin() int {
	i := a.current
	for i > 0 && a.Module.Nodes[i-1].Kind != token.EOL {
		i--
	}
	return i
}

// lineStart reports whether the node at current is the first token of its line.
func (a *Analyzer) lineStart() bool {
	prev := a.peek(-1)
	return a.current == 0 || prev.Kind == token.EOL || prev.Kind == token.INDENT
}

func (a *Analyzer) analyzeFor() error {
	for a.current++; a.current < len(a.Module.Nodes); a.current++ {
		n := a.peek(0)
		if n.IsKeyword("in") || n.Kind == token.EOL {
			return nil
		}
		if n.IsIdentifier() {
			if err := a.scope.DefineVariable(n.Value, "num"); err != nil {
				return a.Module.Errorf(n.Pos, "%s", err.Error())
			}
		}
	}
	return nil
}

// analyzeParam reads one parameter starting at current and leaves current on
// the `,` or `]` that ends it.
func (a *Analyzer) analyzeParam() (Param, error) {
	name := a.peek(0)
	param := Param{Name: name.Value}
	a.current++

	if a.peek(0).Kind == token.TYPE {
		param.Type = a.peek(0).Value
		a.current++
	}

	if a.peek(0).IsOperator("=") {
		a.current++
		depth := 0
		for a.current < len(a.Module.Nodes) {
			n := a.peek(0)
			if n.Kind == token.EOL {
				break
			}
			if depth == 0 && (n.IsOperand(",") || n.IsOperand("]")) {
				break
			}
			if isCollectionOpener(n) {
				depth++
			} else if n.IsOperand("]") || n.IsOperator(")") || n.IsOperator("}") {
				depth--
			}
			param.Default = append(param.Default, n)
			a.current++
		}
		if len(param.Default) == 0 {
			return param, a.Module.Errorf(name.Pos, "missing default value for parameter '%s'", name.Value)
		}
	}

	if param.Type == "" {
		param.Type = "num"
		if len(param.Default) > 0 {
			param.Type = a.scope.InferType(param.Default[0])
		}
	}

	return param, nil
}

func (a *Analyzer) analyzeFunction() error {
	fn := a.peek(0)
	name := a.peek(1)
	if !name.IsIdentifier() {
		return a.Module.Errorf(fn.Pos, "expected function name after 'fn'")
	}
	if !a.peek(2).IsOperand("[") {
		return a.Module.Errorf(name.Pos, "expected '[' after function name '%s'", name.Value)
	}

	a.current += 3
	params := []Param{}
	for a.current < len(a.Module.Nodes) {
		n := a.peek(0)
		if n.IsOperand("]") || n.Kind == token.EOL {
			break
		}
		if !n.IsIdentifier() {
			a.current++
			continue
		}
		param, err := a.analyzeParam()
		if err != nil {
			return err
		}
		params = append(params, param)
	}

	if !a.peek(0).IsOperand("]") {
		return a.Module.Errorf(name.Pos, "unterminated parameter list of function '%s'", name.Value)
	}

	returnType := "num"
	if a.peek(1).Kind == token.TYPE {
		a.current++
		returnType = a.peek(0).Value
	}

	for _, p := range params {
		for _, n := range p.Default {
			if !n.IsIdentifier() {
				continue
			}
			for _, other := range params {
				if other.Name == n.Value {
					return a.Module.Errorf(n.Pos, "default for parameter '%s' cannot reference parameter '%s'", p.Name, other.Name)
				}
			}
		}
	}

	if err := a.scope.DefineFunction(name.Value, returnType, params); err != nil {
		return a.Module.Errorf(name.Pos, "%s", err.Error())
	}
	for _, p := range params {
		if err := a.scope.DefineVariable(p.Name, p.Type); err != nil {
			return a.Module.Errorf(name.Pos, "%s", err.Error())
		}
		// a parameter never hides a collection declared elsewhere
		if isCollectionParam(p.Type) {
			a.scope.setCollection(p.Name, true)
		}
	}

	return nil
}

func (a *Analyzer) analyzeDeclaration() error {
	name := a.peek(0)

	switch next := a.peek(1); {
	case next.Kind == token.TYPE:
		if err := a.scope.DefineVariable(name.Value, next.Value); err != nil {
			return a.Module.Errorf(next.Pos, "%s", err.Error())
		}
		if a.peek(2).IsOperator("=") {
			a.scope.setCollection(name.Value, isCollectionOpener(a.peek(3)))
		}
		a.current++
	case next.IsOperator("="):
		if IsBuiltinKeyword(a.Module.Nodes[a.lineBegin():a.current], name) {
			return nil
		}
		rhs := a.peek(2)
		if rhs.Kind == token.EOL {
			return a.Module.Errorf(next.Pos, "missing value in declaration of '%s'", name.Value)
		}
		if err := a.scope.DefineVariable(name.Value, a.scope.InferType(rhs)); err != nil {
			return a.Module.Errorf(name.Pos, "%s", err.Error())
		}
		a.scope.setCollection(name.Value, isCollectionOpener(rhs))
	}

	return nil
}

// Analyze runs the discovery pass over m.Nodes and returns a fresh scope. The
// scope is not modified after this returns.
func Analyze(m *ast.Module) (*Scope, error) {
	a := Analyzer{Module: m, scope: NewScope()}

	for a.current < len(m.Nodes) {
		n := a.peek(0)

		var err error
		switch {
		case n.IsKeyword("for"):
			err = a.analyzeFor()
		case n.IsKeyword("fn") && a.lineStart():
			err = a.analyzeFunction()
		case n.IsIdentifier():
			err = a.analyzeDeclaration()
		}
		if err != nil {
			return nil, err
		}

		a.current++
	}

	return a.scope, nil
}
