package ast

import (
	"fmt"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/kartiknair/blockc/pkg/token"
)

// Program is the flat node sequence for a whole source file.
type Program []Node

// Line returns the nodes of the logical line starting at index start, without
// the terminating EOL, and the index just past that EOL.
func (p Program) Line(start int) (Program, int) {
	end := start
	for end < len(p) && p[end].Kind != token.EOL {
		end++
	}
	if end < len(p) {
		return p[start:end], end + 1
	}
	return p[start:end], end
}

func (p Program) String() string {
	var b strings.Builder
	for _, n := range p {
		b.WriteString(n.String())
		if n.Kind == token.EOL {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
	}
	return b.String()
}

type encodedNode struct {
	Kind   string `cbor:"kind"`
	Value  string `cbor:"value"`
	Float  bool   `cbor:"float,omitempty"`
	Line   int    `cbor:"line"`
	Column int    `cbor:"column"`
}

// MarshalBinary produces a deterministic CBOR encoding of the node sequence.
func (p Program) MarshalBinary() ([]byte, error) {
	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("failed to create CBOR encoder: %w", err)
	}

	nodes := make([]encodedNode, len(p))
	for i, n := range p {
		nodes[i] = encodedNode{
			Kind:   n.Kind.String(),
			Value:  n.Value,
			Float:  n.Float,
			Line:   n.Pos.Line,
			Column: n.Pos.Column,
		}
	}

	data, err := encMode.Marshal(nodes)
	if err != nil {
		return nil, fmt.Errorf("CBOR encoding failed: %w", err)
	}
	return data, nil
}

// UnmarshalBinary restores a sequence written by MarshalBinary. Rendered forms
// are rebuilt from the raw values.
func (p *Program) UnmarshalBinary(data []byte) error {
	var nodes []encodedNode
	if err := cbor.Unmarshal(data, &nodes); err != nil {
		return fmt.Errorf("CBOR decoding failed: %w", err)
	}

	out := make(Program, 0, len(nodes))
	for _, e := range nodes {
		pos := token.Pos{Line: e.Line, Column: e.Column}
		var n Node
		switch e.Kind {
		case token.STRING.String():
			n = NewString(e.Value, pos)
		case token.NUMBER.String():
			var err error
			n, err = NewNumber(e.Value, pos)
			if err != nil {
				return err
			}
		case token.OPERAND.String():
			n = NewOperand(e.Value, pos)
		case token.OPERATOR.String():
			n = NewOperator(e.Value, pos)
		case token.KEYWORD.String():
			n = NewKeyword(e.Value, pos)
		case token.TYPE.String():
			n = NewType(e.Value, pos)
		case token.INDENT.String():
			n = NewIndent(e.Value, pos)
		case token.EOL.String():
			n = NewEOL(pos)
		default:
			return fmt.Errorf("unknown node kind %q", e.Kind)
		}
		out = append(out, n)
	}

	*p = out
	return nil
}
