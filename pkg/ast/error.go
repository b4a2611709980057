package ast

import (
	"fmt"

	"github.com/kartiknair/blockc/pkg/token"
)

// Error is the single failure kind of the pipeline. Callers tell failures apart
// by Message only.
type Error struct {
	Pos     token.Pos
	Message string

	// Context is the source excerpt pointing at Pos, empty when the position is
	// unknown.
	Context string
}

func (e *Error) Error() string {
	if e.Pos.Line == 0 {
		return "transpile-error: " + e.Message
	}
	return fmt.Sprintf("transpile-error: %d:%d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}
