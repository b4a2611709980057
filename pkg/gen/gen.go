package gen

import (
	"github.com/kartiknair/blockc/pkg/analyzer"
	"github.com/kartiknair/blockc/pkg/ast"
	pygen "github.com/kartiknair/blockc/pkg/gen/python"
)

type Options = pygen.Options

func Python(m *ast.Module, scope *analyzer.Scope, opts Options) (string, error) {
	return pygen.Gen(m, scope, opts)
}
