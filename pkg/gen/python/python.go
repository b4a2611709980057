package pygen

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/kartiknair/blockc/pkg/analyzer"
	"github.com/kartiknair/blockc/pkg/ast"
	"github.com/kartiknair/blockc/pkg/builtins"
	"github.com/kartiknair/blockc/pkg/token"
)

// Prefix is put in front of every user-declared name so it cannot clash with a
// Python keyword or builtin.
const Prefix = "block_"

type Options struct {
	// RuntimeModule, when set, is star-imported on the first line.
	RuntimeModule string
}

type generator struct {
	module *ast.Module
	scope  *analyzer.Scope
}

// blockKeywords open an indented block in Python and need a trailing colon.
// Function headers place their own.
var blockKeywords = map[string]bool{
	"if":    true,
	"elif":  true,
	"while": true,
	"else":  true,
	"for":   true,
}

func genKeyword(n ast.Node) string {
	switch n.Value {
	case "if", "elif", "while", "for":
		return n.Value + " "
	case "in":
		return " in "
	case "fn":
		return "def "
	case "->":
		return "return "
	}
	return n.Rendered
}

func opens(n ast.Node) bool {
	return n.IsOperand("[") || n.IsOperator("(") || n.IsOperator("{")
}

func closes(n ast.Node) bool {
	return n.IsOperand("]") || n.IsOperator(")") || n.IsOperator("}")
}

// topLevel returns the indexes of the nodes at bracket depth zero that satisfy
// match.
func topLevel(nodes ast.Program, match func(ast.Node) bool) []int {
	found := []int{}
	depth := 0
	for i, n := range nodes {
		switch {
		case opens(n):
			depth++
		case closes(n):
			depth--
		case depth == 0 && match(n):
			found = append(found, i)
		}
	}
	return found
}

// groupEnd returns the index of the node closing the group opened at open, or
// len(nodes) when the group is never closed.
func groupEnd(nodes ast.Program, open int) int {
	depth := 0
	for i := open; i < len(nodes); i++ {
		switch {
		case opens(nodes[i]):
			depth++
		case closes(nodes[i]):
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(nodes)
}

func isColon(n ast.Node) bool { return n.IsOperand(":") }

func isComma(n ast.Node) bool { return n.IsOperand(",") }

// maxHintDistance bounds how far a suggestion may be from the name actually
// written. Subsequence matches of short names are otherwise mostly noise.
func maxHintDistance(name string) int {
	return utf8.RuneCountInString(name)/3 + 1
}

func (g *generator) undefined(n ast.Node, what string) error {
	err := g.module.Errorf(n.Pos, "undefined %s '%s'", what, n.Value)

	ranks := fuzzy.RankFindFold(n.Value, g.scope.Names())
	if len(ranks) > 0 {
		sort.SliceStable(ranks, func(i, j int) bool {
			if ranks[i].Distance != ranks[j].Distance {
				return ranks[i].Distance < ranks[j].Distance
			}
			return ranks[i].Target < ranks[j].Target
		})
		if ranks[0].Distance <= maxHintDistance(n.Value) {
			err.Message += fmt.Sprintf(" (did you mean '%s'?)", ranks[0].Target)
		}
	}

	return err
}

func (g *generator) genIdentifier(n ast.Node, call bool) (string, error) {
	if c, ok := builtins.LookupConstant(n.Value); ok {
		return c.Target, nil
	}
	if builtins.IsFunction(n.Value) {
		return n.Value, nil
	}
	if g.scope.IsDefinedVariable(n.Value) || g.scope.IsDefinedFunction(n.Value) {
		return Prefix + n.Value, nil
	}

	if call {
		return "", g.undefined(n, "function")
	}
	return "", g.undefined(n, "identifier")
}

// emitter renders one run of nodes. The closers stack records, for every `[`
// still open, the character chosen when it was opened.
type emitter struct {
	g       *generator
	nodes   ast.Program
	current int
	out     strings.Builder
	closers []string
}

func (g *generator) genExpression(nodes ast.Program) (string, error) {
	e := emitter{g: g, nodes: nodes}
	if err := e.run(); err != nil {
		return "", err
	}
	return e.out.String(), nil
}

func (e *emitter) peek(distance int) ast.Node {
	i := e.current + distance
	if i < 0 || i >= len(e.nodes) {
		return ast.Node{Kind: token.EOL}
	}
	return e.nodes[i]
}

func (e *emitter) run() error {
	for ; e.current < len(e.nodes); e.current++ {
		n := e.nodes[e.current]

		switch n.Kind {
		case token.TYPE, token.EOL:
		case token.KEYWORD:
			e.out.WriteString(genKeyword(n))
		case token.OPERAND:
			if err := e.genOperand(n); err != nil {
				return err
			}
		default:
			e.out.WriteString(n.Rendered)
		}
	}
	return nil
}

func (e *emitter) genOperand(n ast.Node) error {
	switch {
	case n.IsOperand("["):
		return e.genOpenBracket()
	case n.IsOperand("]"):
		closer := "]"
		if len(e.closers) > 0 {
			closer = e.closers[len(e.closers)-1]
			e.closers = e.closers[:len(e.closers)-1]
		}
		e.out.WriteString(closer)
		return nil
	case n.IsIdentifier():
		call := e.peek(1).IsOperand("[") && !e.g.scope.IsCollection(n.Value)
		// a parameter name in a call is a keyword argument to a builtin
		if e.peek(1).IsOperator("=") && analyzer.IsBuiltinKeyword(e.nodes[:e.current], n) {
			e.out.WriteString(n.Value)
			return nil
		}
		s, err := e.g.genIdentifier(n, call)
		if err != nil {
			return err
		}
		e.out.WriteString(s)
		return nil
	}

	e.out.WriteString(n.Rendered)
	return nil
}

func (e *emitter) genOpenBracket() error {
	open := e.current
	end := groupEnd(e.nodes, open)
	contents := e.nodes[open+1 : end]
	prev := e.peek(-1)

	if prev.IsIdentifier() {
		if !e.g.scope.IsCollection(prev.Value) {
			e.push("(", ")")
			return nil
		}
		return e.genSubscript(contents, end)
	}

	if len(topLevel(contents, isColon)) > 0 {
		e.push("{", "}")
		return nil
	}

	if err := e.checkHashable(contents); err != nil {
		return err
	}
	e.push("[", "]")
	return nil
}

func (e *emitter) push(open, close string) {
	e.out.WriteString(open)
	e.closers = append(e.closers, close)
}

// genSubscript handles a bracket after a collection variable. Whole-collection
// copies and two-part slices are rendered in one go; anything else is a plain
// subscript left open on the closers stack.
func (e *emitter) genSubscript(contents ast.Program, end int) error {
	if end == len(e.nodes) {
		e.push("[", "]")
		return nil
	}

	if len(contents) == 0 {
		e.out.WriteString("[:]")
		e.current = end
		return nil
	}

	commas := topLevel(contents, isComma)
	if len(commas) != 1 || len(topLevel(contents, isColon)) > 0 {
		e.push("[", "]")
		return nil
	}

	start, stop := contents[:commas[0]], contents[commas[0]+1:]
	if len(start) == 0 || len(stop) == 0 {
		return e.g.module.Errorf(e.nodes[e.current].Pos, "malformed slice expression")
	}

	s, err := e.g.genExpression(start)
	if err != nil {
		return err
	}
	t, err := e.g.genExpression(stop)
	if err != nil {
		return err
	}

	e.out.WriteString("[" + s + ":" + t + "+1]")
	e.current = end
	return nil
}

// checkHashable rejects a map literal written directly as an element of a list
// literal.
func (e *emitter) checkHashable(contents ast.Program) error {
	depth := 0
	for i, n := range contents {
		switch {
		case n.IsOperand("[") && depth == 0:
			if i > 0 && contents[i-1].IsIdentifier() {
				break
			}
			end := groupEnd(contents, i)
			if len(topLevel(contents[i+1:end], isColon)) > 0 {
				return e.g.module.Errorf(n.Pos, "cannot use map (unhashable) type in list literal")
			}
		}
		if opens(n) {
			depth++
		} else if closes(n) {
			depth--
		}
	}
	return nil
}

// hasBlockColon reports whether the line already carries its own block colon.
func hasBlockColon(line ast.Program) bool {
	return len(topLevel(line, isColon)) > 0
}

func (g *generator) genFunction(line ast.Program) (string, error) {
	fn := line[0]
	if len(line) < 3 || !line[1].IsIdentifier() || !line[2].IsOperand("[") {
		return "", g.module.Errorf(fn.Pos, "malformed function definition")
	}

	name, err := g.genIdentifier(line[1], false)
	if err != nil {
		return "", err
	}

	end := groupEnd(line, 2)
	params, err := g.genExpression(line[3:end])
	if err != nil {
		return "", err
	}

	rest := ast.Program{}
	if end < len(line) {
		rest = line[end+1:]
	}
	tail, err := g.genExpression(rest)
	if err != nil {
		return "", err
	}

	header := genKeyword(fn) + name + "(" + params + ")"
	if hasBlockColon(rest) {
		return header + tail, nil
	}
	// the colon goes between the header and a body written on the same line
	return header + ":" + tail, nil
}

// genFor renders a loop header. The iterable clause runs from `in` to the
// block colon; only there does `..` mean an inclusive range.
func (g *generator) genFor(line ast.Program) (string, error) {
	in := topLevel(line, func(n ast.Node) bool { return n.IsKeyword("in") })
	if len(in) == 0 {
		return g.genExpression(line)
	}

	head, err := g.genExpression(line[:in[0]+1])
	if err != nil {
		return "", err
	}

	iterable := line[in[0]+1:]
	tail := ast.Program{}
	if colons := topLevel(iterable, isColon); len(colons) > 0 {
		iterable, tail = iterable[:colons[0]], iterable[colons[0]:]
	}

	var clause string
	ranges := topLevel(iterable, func(n ast.Node) bool { return n.IsOperator("..") })
	if len(ranges) == 0 {
		clause, err = g.genExpression(iterable)
		if err != nil {
			return "", err
		}
	} else {
		dots := ranges[0]
		start, stop := iterable[:dots], iterable[dots+1:]
		if len(start) == 0 || len(stop) == 0 || len(ranges) > 1 {
			return "", g.module.Errorf(iterable[dots].Pos, "malformed range expression")
		}

		s, err := g.genExpression(start)
		if err != nil {
			return "", err
		}
		t, err := g.genExpression(stop)
		if err != nil {
			return "", err
		}
		clause = "range(" + s + ", " + t + " + 1)"
	}

	rest, err := g.genExpression(tail)
	if err != nil {
		return "", err
	}
	return head + clause + rest, nil
}

func (g *generator) genLine(line ast.Program) (string, error) {
	indent := ""
	if len(line) > 0 && line[0].Kind == token.INDENT {
		indent = line[0].Value
		line = line[1:]
	}
	if len(line) == 0 {
		return indent, nil
	}

	first := line[0]

	var body string
	var err error
	switch {
	case first.IsKeyword("fn"):
		body, err = g.genFunction(line)
	case first.IsKeyword("for"):
		body, err = g.genFor(line)
	default:
		body, err = g.genExpression(line)
	}
	if err != nil {
		return "", err
	}

	if first.Kind == token.KEYWORD && blockKeywords[first.Value] && !hasBlockColon(line) {
		body += ":"
	}

	return indent + body, nil
}

// Gen emits Python for the module. scope must come from analyzer.Analyze on the
// same module and is only read.
func Gen(m *ast.Module, scope *analyzer.Scope, opts Options) (string, error) {
	g := generator{module: m, scope: scope}

	lines := []string{}
	if opts.RuntimeModule != "" {
		lines = append(lines, "from "+opts.RuntimeModule+" import *")
	}

	for i := 0; i < len(m.Nodes); {
		line, next := m.Nodes.Line(i)
		text, err := g.genLine(line)
		if err != nil {
			return "", err
		}
		lines = append(lines, text)
		i = next
	}

	return strings.Join(lines, "\n"), nil
}
