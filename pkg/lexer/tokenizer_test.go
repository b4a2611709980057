package lexer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kartiknair/blockc/pkg/ast"
	"github.com/kartiknair/blockc/pkg/token"
)

func describe(nodes []ast.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.String()
	}
	return out
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		content string
		want    []string
	}{
		{
			`x = [1, 2.50]`,
			[]string{`OPERAND("x")`, `OPERATOR("=")`, `OPERAND("[")`, `NUMBER("1")`, `OPERAND(",")`, `NUMBER("2.50")`, `OPERAND("]")`},
		},
		{
			`for i in 1..10`,
			[]string{`KEYWORD("for")`, `OPERAND("i")`, `KEYWORD("in")`, `NUMBER("1")`, `OPERATOR("..")`, `NUMBER("10")`},
		},
		{
			`-> a != b // c`,
			[]string{`KEYWORD("->")`, `OPERAND("a")`, `OPERATOR("!=")`, `OPERAND("b")`, `OPERATOR("//")`, `OPERAND("c")`},
		},
		{
			`-5 - 3`,
			[]string{`NUMBER("-5")`, `OPERATOR("-")`, `NUMBER("3")`},
		},
		{
			`m = ["k": (1)]`,
			[]string{`OPERAND("m")`, `OPERATOR("=")`, `OPERAND("[")`, `STRING("k")`, `OPERAND(":")`, `OPERATOR("(")`, `NUMBER("1")`, `OPERATOR(")")`, `OPERAND("]")`},
		},
		{
			`a @ b`,
			[]string{`OPERAND("a")`, `OPERAND("b")`},
		},
		{
			`s = "he said \"hi\""`,
			[]string{`OPERAND("s")`, `OPERATOR("=")`, `STRING("he said \\\"hi\\\"")`},
		},
		{
			`if x >= 1 & !done`,
			[]string{`KEYWORD("if")`, `OPERAND("x")`, `OPERATOR(">=")`, `NUMBER("1")`, `OPERATOR("&")`, `OPERATOR("!")`, `OPERAND("done")`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			nodes, err := Tokenize(tt.content, 1, 0)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, describe(nodes)); diff != "" {
				t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTokenizeRendering(t *testing.T) {
	nodes, err := Tokenize(`x = 2 ^ 007 | "s"`, 1, 0)
	require.NoError(t, err)

	rendered := make([]string, len(nodes))
	for i, n := range nodes {
		rendered[i] = n.Rendered
	}
	assert.Equal(t, []string{"x", "=", "2", "**", "7", " or ", `"s"`}, rendered)
}

func TestTokenizePositions(t *testing.T) {
	nodes, err := Tokenize("x = 1", 3, 4)
	require.NoError(t, err)
	require.Len(t, nodes, 3)

	assert.Equal(t, token.Pos{Line: 3, Column: 5}, nodes[0].Pos)
	assert.Equal(t, token.Pos{Line: 3, Column: 7}, nodes[1].Pos)
	assert.Equal(t, token.Pos{Line: 3, Column: 9}, nodes[2].Pos)
}
