package lexer

import (
	"strings"

	"github.com/kartiknair/blockc/pkg/ast"
	"github.com/kartiknair/blockc/pkg/token"
)

// Lines starting with one of these (after trimming) are comments.
var commentMarkers = [...]string{">>", "#", "//", "/*", "*/"}

type Lexer struct {
	current int
	line    int

	// text and first physical line of the logical line being built
	buffer    strings.Builder
	lineStart int

	inString    bool
	stringStart int
	inComment   bool

	lines []ast.Line

	Module *ast.Module
}

func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.Module.Source)
}

func (l *Lexer) peek(distance int) byte {
	if l.current+distance >= len(l.Module.Source) {
		return 0
	}
	return l.Module.Source[l.current+distance]
}

func (l *Lexer) previous() byte {
	if l.current == 0 {
		return 0
	}
	return l.Module.Source[l.current-1]
}

func isComment(line string) bool {
	for _, marker := range commentMarkers {
		if strings.HasPrefix(line, marker) {
			return true
		}
	}
	return false
}

// endLine closes the logical line being built, dropping it when it is blank or
// a comment.
func (l *Lexer) endLine() {
	text := l.buffer.String()
	trimmed := strings.TrimSpace(text)

	if trimmed != "" && !isComment(trimmed) {
		l.lines = append(l.lines, ast.Line{
			Text: strings.TrimRight(text, " \t\r\n\v\f"),
			Pos:  token.Pos{Line: l.lineStart, Column: 1},
		})
	}

	l.buffer.Reset()
	l.lineStart = l.line
}

// markStart pins the logical line to the physical line of its first
// character.
func (l *Lexer) markStart() {
	if l.buffer.Len() == 0 {
		l.lineStart = l.line
	}
}

// closeString copies the quoted run into the current line with raw newlines
// escaped, so a multi-line literal stays on one logical line.
func (l *Lexer) closeString() {
	content := l.Module.Source[l.stringStart+1 : l.current]
	content = strings.ReplaceAll(content, "\n", `\n`)
	content = strings.ReplaceAll(content, "\r", `\r`)

	l.buffer.WriteByte('"')
	l.buffer.WriteString(content)
	l.buffer.WriteByte('"')
}

func (l *Lexer) scan() {
	c := l.peek(0)

	if l.inComment {
		if c == '*' && l.peek(1) == '/' {
			l.inComment = false
			l.current += 2
			return
		}
		if c == '\n' {
			l.line++
		}
		l.current++
		return
	}

	if c == '"' && l.previous() != '\\' {
		if !l.inString {
			l.markStart()
			l.inString = true
			l.stringStart = l.current
		} else {
			l.closeString()
			l.inString = false
		}
		l.current++
		return
	}

	if l.inString {
		if c == '\n' {
			l.line++
		}
		l.current++
		return
	}

	switch {
	case c == '/' && l.peek(1) == '*':
		l.inComment = true
		l.current += 2
	case c == '\n':
		l.current++
		l.line++
		l.endLine()
	default:
		l.markStart()
		l.buffer.WriteByte(c)
		l.current++
	}
}

// Lex splits the module source into logical lines. Comments and blank lines are
// removed. An unterminated string or block comment swallows the rest of the
// input without complaint.
func Lex(m *ast.Module) {
	l := Lexer{Module: m, line: 1, lineStart: 1}

	for !l.isAtEnd() {
		l.scan()
	}

	l.endLine()
	m.Lines = l.lines
}
