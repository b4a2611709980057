package parser

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kartiknair/blockc/pkg/ast"
	"github.com/kartiknair/blockc/pkg/builtins"
	"github.com/kartiknair/blockc/pkg/lexer"
	"github.com/kartiknair/blockc/pkg/token"
)

// Parser folds the tokens of one line. The program stays flat: the only
// structure recovered here is which colons start a type annotation.
type Parser struct {
	current int
	tokens  []ast.Node
	out     []ast.Node

	// parameter list of an `fn` header, as token indexes; -1 when the line is
	// not a function definition
	headerOpen  int
	headerClose int

	Module *ast.Module
}

var closers = map[string]string{"[": "]", "(": ")", "{": "}"}

func (p *Parser) peek(distance int) ast.Node {
	i := p.current + distance
	if i < 0 || i >= len(p.tokens) {
		return ast.Node{Kind: token.EOL}
	}
	return p.tokens[i]
}

func isBracket(n ast.Node) bool {
	return n.Kind == token.OPERAND || n.Kind == token.OPERATOR
}

func isOpener(n ast.Node) bool {
	_, ok := closers[n.Value]
	return ok && isBracket(n)
}

func isCloser(n ast.Node) bool {
	return isBracket(n) && (n.Value == "]" || n.Value == ")" || n.Value == "}")
}

// matching returns the index of the bracket closing the one at open, or -1.
func (p *Parser) matching(open int) int {
	opener := p.tokens[open].Value
	closer := closers[opener]
	depth := 0
	for i := open; i < len(p.tokens); i++ {
		if !isBracket(p.tokens[i]) {
			continue
		}
		switch p.tokens[i].Value {
		case opener:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// typeGroupEnd returns the index of the bracket closing a group made only of
// type tags, nested groups and `, :`, or -1 when the group holds anything else.
func (p *Parser) typeGroupEnd(open int) int {
	end := p.matching(open)
	if end == -1 {
		return -1
	}
	for _, n := range p.tokens[open+1 : end] {
		switch {
		case n.Kind == token.OPERAND && (n.Value == "," || n.Value == ":"):
		case isOpener(n), isCloser(n):
		case n.IsIdentifier() && builtins.IsType(n.Value):
		default:
			return -1
		}
	}
	return end
}

func (p *Parser) locateHeader() {
	p.headerOpen, p.headerClose = -1, -1
	if len(p.tokens) < 3 || !p.tokens[0].IsKeyword("fn") || !p.tokens[2].IsOperand("[") {
		return
	}
	p.headerOpen = 2
	p.headerClose = p.matching(2)
}

func (p *Parser) inHeader() bool {
	if p.headerOpen == -1 {
		return false
	}
	if p.headerClose == -1 {
		return p.current > p.headerOpen
	}
	// inside the parameter list at its own depth, or the return type
	// annotation right after it
	if p.current == p.headerClose+1 {
		return true
	}
	if p.current <= p.headerOpen || p.current >= p.headerClose {
		return false
	}
	depth := 0
	for i := p.headerOpen + 1; i < p.current; i++ {
		n := p.tokens[i]
		if isOpener(n) {
			depth++
		} else if isCloser(n) {
			depth--
		}
	}
	return depth == 0
}

// annotationEnd decides whether the colon at p.current starts a type
// annotation and returns the index of the annotation's last token, or -1.
func (p *Parser) annotationEnd() int {
	next := p.peek(1)

	if p.inHeader() {
		if next.IsIdentifier() {
			return p.current + 1
		}
		if isOpener(next) {
			return p.matching(p.current + 1)
		}
		return -1
	}

	// outside a header only `name: type` at the start of a line declares;
	// inside a bracket group the colon belongs to a map entry
	if p.current != 1 || !p.peek(-1).IsIdentifier() {
		return -1
	}

	switch {
	case next.IsIdentifier() && builtins.IsType(next.Value):
		return p.current + 1
	case isOpener(next):
		return p.typeGroupEnd(p.current + 1)
	case next.IsIdentifier() && p.peek(2).IsOperator("="):
		// `name: sometype = value` where sometype is unknown; the type system
		// reports it.
		return p.current + 1
	}
	return -1
}

func (p *Parser) foldLine(tokens []ast.Node) []ast.Node {
	p.tokens = tokens
	p.out = make([]ast.Node, 0, len(tokens))
	p.locateHeader()

	for p.current = 0; p.current < len(p.tokens); p.current++ {
		t := p.tokens[p.current]
		if t.IsOperand(":") {
			if end := p.annotationEnd(); end != -1 {
				var descriptor strings.Builder
				for _, n := range p.tokens[p.current+1 : end+1] {
					descriptor.WriteString(n.Value)
				}
				p.out = append(p.out, ast.NewType(descriptor.String(), t.Pos))
				p.current = end
				continue
			}
		}
		p.out = append(p.out, t)
	}

	return p.out
}

// Parse assembles the module's logical lines into one flat node sequence:
// indentation, tokens and a line terminator per line.
func Parse(m *ast.Module) error {
	p := Parser{Module: m}
	nodes := ast.Program{}

	for _, line := range m.Lines {
		if line.Text == "" {
			nodes = append(nodes, ast.NewEOL(line.Pos))
			continue
		}

		content := strings.TrimLeftFunc(line.Text, unicode.IsSpace)
		indent := line.Text[:len(line.Text)-len(content)]
		if indent != "" {
			nodes = append(nodes, ast.NewIndent(indent, line.Pos))
		}

		tokens, err := lexer.Tokenize(content, line.Pos.Line, utf8.RuneCountInString(indent))
		if err != nil {
			var e *ast.Error
			if errors.As(err, &e) {
				return m.Errorf(e.Pos, "%s", e.Message)
			}
			return m.Errorf(line.Pos, "%s", err.Error())
		}

		nodes = append(nodes, p.foldLine(tokens)...)
		nodes = append(nodes, ast.NewEOL(token.Pos{
			Line:   line.Pos.Line,
			Column: utf8.RuneCountInString(line.Text) + 1,
		}))
	}

	m.Nodes = nodes
	return nil
}
