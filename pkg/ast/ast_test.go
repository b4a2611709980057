package ast

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kartiknair/blockc/pkg/token"
)

func TestNewNumberRendersLikePython(t *testing.T) {
	tests := []struct {
		lexeme string
		want   string
		float  bool
	}{
		{"5", "5", false},
		{"007", "7", false},
		{"-0", "-0", false},
		{"-000", "-0", false},
		{"-12", "-12", false},
		{"12345678901234567890", "12345678901234567890", false},
		{"1.50", "1.5", true},
		{"3.", "3.0", true},
		{"-0.0", "-0.0", true},
		{"0.0001", "0.0001", true},
		{"0.00001", "1e-05", true},
		{"10000000000000000.0", "1e+16", true},
	}

	for _, tt := range tests {
		t.Run(tt.lexeme, func(t *testing.T) {
			n, err := NewNumber(tt.lexeme, token.Pos{Line: 1, Column: 1})
			require.NoError(t, err)
			assert.Equal(t, tt.want, n.Rendered)
			assert.Equal(t, tt.float, n.Float)
			assert.Equal(t, tt.lexeme, n.Value)
		})
	}
}

func TestNewNumberRejectsGarbage(t *testing.T) {
	_, err := NewNumber("1x", token.Pos{})
	require.Error(t, err)

	_, err = NewNumber("-", token.Pos{})
	require.Error(t, err)
}

func TestIsIdentifier(t *testing.T) {
	assert.True(t, NewOperand("total", token.Pos{}).IsIdentifier())
	assert.True(t, NewOperand("_x", token.Pos{}).IsIdentifier())
	assert.False(t, NewOperand("[", token.Pos{}).IsIdentifier())
	assert.False(t, NewOperand(",", token.Pos{}).IsIdentifier())
	assert.False(t, NewString("total", token.Pos{}).IsIdentifier())
	assert.False(t, NewKeyword("for", token.Pos{}).IsIdentifier())
}

func TestSourceContext(t *testing.T) {
	m := Module{Source: "a = 1\nb = c\nd = 2"}

	want := "\n   1 | a = 1\n   2 | b = c\n     |     ^\n   3 | d = 2"
	if diff := cmp.Diff(want, m.SourceContext(token.Pos{Line: 2, Column: 5})); diff != "" {
		t.Fatalf("context mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, "", m.SourceContext(token.Pos{Line: 9, Column: 1}))
}

func TestErrorMessage(t *testing.T) {
	m := Module{Source: "x = y"}
	err := m.Errorf(token.Pos{Line: 1, Column: 5}, "undefined identifier '%s'", "y")

	assert.Equal(t, "transpile-error: 1:5: undefined identifier 'y'", err.Error())
	assert.Equal(t, "undefined identifier 'y'", err.Message)
	assert.Contains(t, err.Context, "^")

	bare := &Error{Message: "boom"}
	assert.Equal(t, "transpile-error: boom", bare.Error())
}

func TestProgramLine(t *testing.T) {
	p := Program{
		NewOperand("x", token.Pos{Line: 1, Column: 1}),
		NewEOL(token.Pos{Line: 1, Column: 2}),
		NewOperand("y", token.Pos{Line: 2, Column: 1}),
	}

	line, next := p.Line(0)
	assert.Len(t, line, 1)
	assert.Equal(t, 2, next)

	line, next = p.Line(next)
	assert.Len(t, line, 1)
	assert.Equal(t, 3, next)
}

func TestProgramBinaryEncoding(t *testing.T) {
	num, err := NewNumber("2.50", token.Pos{Line: 1, Column: 5})
	require.NoError(t, err)

	p := Program{
		NewOperand("x", token.Pos{Line: 1, Column: 1}),
		NewType("num", token.Pos{Line: 1, Column: 2}),
		NewOperator("=", token.Pos{Line: 1, Column: 3}),
		num,
		NewEOL(token.Pos{Line: 1, Column: 9}),
		NewIndent("    ", token.Pos{Line: 2, Column: 1}),
		NewKeyword("->", token.Pos{Line: 2, Column: 5}),
		NewString("hi", token.Pos{Line: 2, Column: 8}),
		NewEOL(token.Pos{Line: 2, Column: 12}),
	}

	data, err := p.MarshalBinary()
	require.NoError(t, err)

	again, err := p.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, data, again, "encoding must be deterministic")

	var decoded Program
	require.NoError(t, decoded.UnmarshalBinary(data))
	if diff := cmp.Diff(p, decoded); diff != "" {
		t.Fatalf("decoded program mismatch (-want +got):\n%s", diff)
	}
}
