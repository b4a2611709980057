package lexer

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kartiknair/blockc/pkg/ast"
	"github.com/kartiknair/blockc/pkg/token"
)

func line(text string, n int) ast.Line {
	return ast.Line{Text: text, Pos: token.Pos{Line: n, Column: 1}}
}

func TestLex(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []ast.Line
	}{
		{
			name:   "comment lines dropped",
			source: "x = 1\n# comment\n>> note\n// another\n\ny = 2\n",
			want:   []ast.Line{line("x = 1", 1), line("y = 2", 6)},
		},
		{
			name:   "block comment spanning lines",
			source: "a = 1 /* multi\nline */ b = 2\nc = 3",
			want:   []ast.Line{line("a = 1  b = 2", 1), line("c = 3", 3)},
		},
		{
			name:   "block comment on its own line",
			source: "/* header */\nx = 1",
			want:   []ast.Line{line("x = 1", 2)},
		},
		{
			name:   "multi-line string folded",
			source: "s = \"a\nb\"\nt = 1",
			want:   []ast.Line{line(`s = "a\nb"`, 1), line("t = 1", 3)},
		},
		{
			name:   "escaped quote stays in string",
			source: `s = "say \"hi\" # not a comment"`,
			want:   []ast.Line{line(`s = "say \"hi\" # not a comment"`, 1)},
		},
		{
			name:   "indentation kept and trailing space trimmed",
			source: "if x\n    y = 1   \n",
			want:   []ast.Line{line("if x", 1), line("    y = 1", 2)},
		},
		{
			name:   "unterminated string swallows the rest",
			source: "x = 1\ns = \"abc\ny = 2",
			want:   []ast.Line{line("x = 1", 1), line("s =", 2)},
		},
		{
			name:   "unterminated block comment swallows the rest",
			source: "x = 1\n/* open\ny = 2",
			want:   []ast.Line{line("x = 1", 1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ast.Module{Source: tt.source}
			Lex(&m)
			if diff := cmp.Diff(tt.want, m.Lines); diff != "" {
				t.Fatalf("lines mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
