package lexer

import (
	"strings"
	"unicode"

	"github.com/kartiknair/blockc/pkg/ast"
	"github.com/kartiknair/blockc/pkg/token"
)

type Tokenizer struct {
	start   int
	current int
	source  []rune
	line    int
	indent  int

	tokens []ast.Node
}

func (t *Tokenizer) isAtEnd() bool {
	return t.current >= len(t.source)
}

func (t *Tokenizer) peek(distance int) rune {
	if t.current+distance >= len(t.source) {
		return 0
	}
	return t.source[t.current+distance]
}

func (t *Tokenizer) pos() token.Pos {
	return token.Pos{Line: t.line, Column: t.indent + t.start + 1}
}

func (t *Tokenizer) lexeme() string {
	return string(t.source[t.start:t.current])
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

func (t *Tokenizer) lexString() {
	t.current++ // opening quote

	for !t.isAtEnd() {
		if t.peek(0) == '"' && t.source[t.current-1] != '\\' {
			break
		}
		t.current++
	}

	value := string(t.source[t.start+1 : t.current])
	t.tokens = append(t.tokens, ast.NewString(value, t.pos()))

	if !t.isAtEnd() {
		t.current++ // closing quote
	}
}

func (t *Tokenizer) lexNumber() error {
	t.current++ // first digit or sign

	hasDot := false
	for !t.isAtEnd() {
		c := t.peek(0)
		if c == '.' && !hasDot {
			// `1..5` is a range, not a decimal point.
			if t.peek(1) == '.' {
				break
			}
			hasDot = true
		} else if !isDigit(c) {
			break
		}
		t.current++
	}

	n, err := ast.NewNumber(t.lexeme(), t.pos())
	if err != nil {
		return &ast.Error{Pos: t.pos(), Message: err.Error()}
	}
	t.tokens = append(t.tokens, n)
	return nil
}

func (t *Tokenizer) lexIdent() {
	for !t.isAtEnd() && isIdentPart(t.peek(0)) {
		t.current++
	}

	word := t.lexeme()
	if token.IsKeyword(word) {
		t.tokens = append(t.tokens, ast.NewKeyword(word, t.pos()))
	} else {
		t.tokens = append(t.tokens, ast.NewOperand(word, t.pos()))
	}
}

func (t *Tokenizer) scanToken() error {
	c := t.peek(0)

	switch {
	case unicode.IsSpace(c):
		t.current++
		return nil
	case c == '"':
		t.lexString()
		return nil
	case isDigit(c) || (c == '-' && isDigit(t.peek(1))):
		return t.lexNumber()
	}

	if !t.isAtEnd() && t.current+1 < len(t.source) {
		pair := string(t.source[t.current : t.current+2])
		for _, op := range token.TwoCharOperators {
			if pair != op {
				continue
			}
			t.current += 2
			if op == "->" {
				t.tokens = append(t.tokens, ast.NewKeyword(op, t.pos()))
			} else {
				t.tokens = append(t.tokens, ast.NewOperator(op, t.pos()))
			}
			return nil
		}
	}

	switch {
	case strings.ContainsRune(token.SingleCharOperators, c):
		t.current++
		t.tokens = append(t.tokens, ast.NewOperator(string(c), t.pos()))
	case strings.ContainsRune(token.Punctuation, c):
		t.current++
		t.tokens = append(t.tokens, ast.NewOperand(string(c), t.pos()))
	case isIdentStart(c):
		t.lexIdent()
	default:
		// Characters outside the grammar are dropped.
		t.current++
	}

	return nil
}

// Tokenize splits the content of one logical line (leading indentation already
// removed) into tokens. indent is the width of the removed indentation and only
// offsets the reported columns.
func Tokenize(content string, line int, indent int) ([]ast.Node, error) {
	t := Tokenizer{source: []rune(content), line: line, indent: indent}

	for !t.isAtEnd() {
		t.start = t.current
		if err := t.scanToken(); err != nil {
			return nil, err
		}
	}

	return t.tokens, nil
}
