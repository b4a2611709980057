package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kartiknair/blockc/pkg/ast"
	"github.com/kartiknair/blockc/pkg/lexer"
	"github.com/kartiknair/blockc/pkg/token"
)

func parse(t *testing.T, source string) ast.Program {
	t.Helper()
	m := ast.Module{Source: source}
	lexer.Lex(&m)
	require.NoError(t, Parse(&m))
	return m.Nodes
}

func describe(nodes ast.Program) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.String()
	}
	return out
}

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []string
	}{
		{
			name:   "typed declaration",
			source: "x: num = 5",
			want:   []string{`OPERAND("x")`, `TYPE("num")`, `OPERATOR("=")`, `NUMBER("5")`, "EOL"},
		},
		{
			name:   "collection type",
			source: "xs: [num] = []",
			want:   []string{`OPERAND("xs")`, `TYPE("[num]")`, `OPERATOR("=")`, `OPERAND("[")`, `OPERAND("]")`, "EOL"},
		},
		{
			name:   "map literal keeps its colons",
			source: `m = ["a": 1]`,
			want:   []string{`OPERAND("m")`, `OPERATOR("=")`, `OPERAND("[")`, `STRING("a")`, `OPERAND(":")`, `NUMBER("1")`, `OPERAND("]")`, "EOL"},
		},
		{
			name:   "function header",
			source: "fn add[a: num, b = 2]: num",
			want: []string{
				`KEYWORD("fn")`, `OPERAND("add")`, `OPERAND("[")`,
				`OPERAND("a")`, `TYPE("num")`, `OPERAND(",")`,
				`OPERAND("b")`, `OPERATOR("=")`, `NUMBER("2")`,
				`OPERAND("]")`, `TYPE("num")`, "EOL",
			},
		},
		{
			name:   "one-line if keeps its block colon",
			source: "if flag: x = 1",
			want:   []string{`KEYWORD("if")`, `OPERAND("flag")`, `OPERAND(":")`, `OPERAND("x")`, `OPERATOR("=")`, `NUMBER("1")`, "EOL"},
		},
		{
			name:   "unknown declared type still folds",
			source: "y: thing = 1",
			want:   []string{`OPERAND("y")`, `TYPE("thing")`, `OPERATOR("=")`, `NUMBER("1")`, "EOL"},
		},
		{
			name:   "map entry with a type-named value",
			source: "m = [k: none, j: num]",
			want: []string{
				`OPERAND("m")`, `OPERATOR("=")`, `OPERAND("[")`,
				`OPERAND("k")`, `OPERAND(":")`, `OPERAND("none")`, `OPERAND(",")`,
				`OPERAND("j")`, `OPERAND(":")`, `OPERAND("num")`,
				`OPERAND("]")`, "EOL",
			},
		},
		{
			name:   "indented declaration",
			source: "if x\n    n: num = 1",
			want:   []string{`KEYWORD("if")`, `OPERAND("x")`, "EOL", "INDENT(4)", `OPERAND("n")`, `TYPE("num")`, `OPERATOR("=")`, `NUMBER("1")`, "EOL"},
		},
		{
			name:   "indentation node",
			source: "if x\n    y = 1",
			want:   []string{`KEYWORD("if")`, `OPERAND("x")`, "EOL", "INDENT(4)", `OPERAND("y")`, `OPERATOR("=")`, `NUMBER("1")`, "EOL"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, describe(parse(t, tt.source))); diff != "" {
				t.Fatalf("nodes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParsePositions(t *testing.T) {
	nodes := parse(t, "x = 1\n\n  y = 2")

	assert.Equal(t, token.Pos{Line: 1, Column: 1}, nodes[0].Pos)
	assert.Equal(t, token.Pos{Line: 1, Column: 6}, nodes[3].Pos)

	require.Equal(t, token.INDENT, nodes[4].Kind)
	assert.Equal(t, token.Pos{Line: 3, Column: 3}, nodes[5].Pos)
}
