package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/alecthomas/repr"

	"github.com/kartiknair/blockc/pkg/analyzer"
	"github.com/kartiknair/blockc/pkg/ast"
	"github.com/kartiknair/blockc/pkg/gen"
	"github.com/kartiknair/blockc/pkg/lexer"
	"github.com/kartiknair/blockc/pkg/parser"
)

func main() {
	code := `
>> inclusive ranges and slices
xs = [1, 2, 3, 4]
fn total[ys: list, scale = 1]: num
    sum = 0
    for i in 0..len[ys] - 1
        sum = sum + ys[i] * scale
    -> sum

echo[total[xs[0, 1]]]
m = ["a": 1, "b": 2]
if m["a"] == 1 & true
    echo["yes"]
`
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err.Error())
	}

	m := ast.Module{
		Path:   filepath.Join(cwd, "main.block"),
		Source: code,
	}

	lexer.Lex(&m)
	repr.Println(m.Lines)
	if err := parser.Parse(&m); err != nil {
		log.Fatal(err)
	}
	fmt.Print(m.Nodes)

	scope, err := analyzer.Analyze(&m)
	if err != nil {
		log.Fatal(err)
	}
	repr.Println(scope.Names())

	// gen.Python(&m, scope, gen.Options{RuntimeModule: "block_runtime"})
	python, err := gen.Python(&m, scope, gen.Options{})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(python)
}
