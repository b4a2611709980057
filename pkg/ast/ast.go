package ast

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/kartiknair/blockc/pkg/token"
)

// Line is one logical line produced by the lexer. Pos points at the physical
// line the logical line started on.
type Line struct {
	Text string
	Pos  token.Pos
}

// Node is a single element of the flat program: a token, an indentation run or
// a line terminator. Rendered holds the Python text for the node, resolved when
// the node is built. Brackets and identifiers are re-resolved by the generator.
type Node struct {
	Kind     token.TokenType
	Value    string
	Rendered string
	Float    bool
	Pos      token.Pos
}

type Module struct {
	Path   string
	Source string
	Lines  []Line
	Nodes  Program
}

func NewString(value string, pos token.Pos) Node {
	return Node{Kind: token.STRING, Value: value, Rendered: `"` + value + `"`, Pos: pos}
}

func NewNumber(lexeme string, pos token.Pos) (Node, error) {
	if strings.Contains(lexeme, ".") {
		rendered, err := formatFloat(lexeme)
		if err != nil {
			return Node{}, err
		}
		return Node{Kind: token.NUMBER, Value: lexeme, Rendered: rendered, Float: true, Pos: pos}, nil
	}

	rendered, err := formatInt(lexeme)
	if err != nil {
		return Node{}, err
	}
	return Node{Kind: token.NUMBER, Value: lexeme, Rendered: rendered, Pos: pos}, nil
}

func NewOperand(value string, pos token.Pos) Node {
	return Node{Kind: token.OPERAND, Value: value, Rendered: value, Pos: pos}
}

func NewOperator(value string, pos token.Pos) Node {
	rendered, ok := token.Operators[value]
	if !ok {
		rendered = value
	}
	return Node{Kind: token.OPERATOR, Value: value, Rendered: rendered, Pos: pos}
}

func NewKeyword(value string, pos token.Pos) Node {
	return Node{Kind: token.KEYWORD, Value: value, Rendered: token.KeywordTarget(value), Pos: pos}
}

// NewType builds an annotation node. Annotations never reach the output.
func NewType(descriptor string, pos token.Pos) Node {
	return Node{Kind: token.TYPE, Value: descriptor, Pos: pos}
}

func NewIndent(whitespace string, pos token.Pos) Node {
	return Node{Kind: token.INDENT, Value: whitespace, Rendered: whitespace, Pos: pos}
}

func NewEOL(pos token.Pos) Node {
	return Node{Kind: token.EOL, Value: "\n", Rendered: "\n", Pos: pos}
}

func (n Node) Is(kind token.TokenType, value string) bool {
	return n.Kind == kind && n.Value == value
}

func (n Node) IsOperand(value string) bool {
	return n.Is(token.OPERAND, value)
}

func (n Node) IsOperator(value string) bool {
	return n.Is(token.OPERATOR, value)
}

func (n Node) IsKeyword(value string) bool {
	return n.Is(token.KEYWORD, value)
}

// IsIdentifier reports whether the node is an operand naming something, as
// opposed to the bracket and separator punctuation that shares the kind.
func (n Node) IsIdentifier() bool {
	if n.Kind != token.OPERAND || n.Value == "" {
		return false
	}
	r := []rune(n.Value)[0]
	return r == '_' || unicode.IsLetter(r)
}

func (n Node) String() string {
	switch n.Kind {
	case token.EOL:
		return "EOL"
	case token.INDENT:
		return fmt.Sprintf("INDENT(%d)", len(n.Value))
	}
	return fmt.Sprintf("%s(%q)", n.Kind, n.Value)
}

// SourceContext renders the lines around pos with a caret under the column,
// in the same shape for every diagnostic the pipeline reports.
func (m *Module) SourceContext(pos token.Pos) string {
	source := strings.ReplaceAll(m.Source, "\r\n", "\n")
	sourceLines := strings.Split(source, "\n")
	numLines := len(sourceLines)

	if pos.Line < 1 || pos.Line > numLines {
		return ""
	}

	current := sourceLines[pos.Line-1]
	column := pos.Column
	if column < 1 {
		column = 1
	}
	if column > len(current)+1 {
		column = len(current) + 1
	}

	offsetHighlight := make([]byte, column)
	for i := 0; i < column-1; i++ {
		if current[i] == '\t' {
			offsetHighlight[i] = '\t'
		} else {
			offsetHighlight[i] = ' '
		}
	}
	offsetHighlight[column-1] = '^'

	var b strings.Builder
	b.WriteString("\n")
	if pos.Line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", pos.Line-1, sourceLines[pos.Line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", pos.Line, current)
	fmt.Fprintf(&b, "     | %s", string(offsetHighlight))
	if pos.Line < numLines {
		fmt.Fprintf(&b, "\n%4d | %s", pos.Line+1, sourceLines[pos.Line])
	}

	return b.String()
}

// Errorf builds a transpilation error located at pos.
func (m *Module) Errorf(pos token.Pos, format string, args ...interface{}) *Error {
	return &Error{
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
		Context: m.SourceContext(pos),
	}
}
