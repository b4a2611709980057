// Package builtins describes the runtime library that generated Python calls
// into. Names, parameter order and default values are a contract with code that
// has already been generated; changing any of them breaks that code.
package builtins

import (
	"sort"
	"strings"
)

type Category string

const (
	Core       Category = "core"
	String     Category = "string"
	Number     Category = "number"
	List       Category = "list"
	Tuple      Category = "tuple"
	Set        Category = "set"
	Map        Category = "map"
	Collection Category = "collection"
)

type Param struct {
	Name string
	// Default is the Python text of the default value, empty when the
	// parameter is required.
	Default  string
	Variadic bool
}

type Signature struct {
	Name     string
	Category Category
	Params   []Param
}

func (s Signature) String() string {
	params := make([]string, len(s.Params))
	for i, p := range s.Params {
		switch {
		case p.Variadic:
			params[i] = "*" + p.Name
		case p.Default != "":
			params[i] = p.Name + "=" + p.Default
		default:
			params[i] = p.Name
		}
	}
	return s.Name + "(" + strings.Join(params, ", ") + ")"
}

type Constant struct {
	Type   string
	Target string
}

// Types are the scalar type tags a declaration may name.
var Types = [...]string{"str", "num", "bool", "boolean", "list", "tuple", "set", "map", "func", "none"}

var Constants = map[string]Constant{
	"true":  {Type: "boolean", Target: "boolean(True)"},
	"false": {Type: "boolean", Target: "boolean()"},
	"none":  {Type: "none", Target: "NONE"},
}

// Runtime values the library exports besides its functions.
const (
	BooleanType = "boolean"
	NoneValue   = "NONE"
)

func req(name string) Param { return Param{Name: name} }

func opt(name, def string) Param { return Param{Name: name, Default: def} }

func fn(c Category, name string, params ...Param) Signature {
	return Signature{Name: name, Category: c, Params: params}
}

var table = []Signature{
	fn(Core, "echo", Param{Name: "args", Variadic: true}),
	fn(Core, "typeOf", req("obj")),
	fn(Core, "toStr", req("obj")),
	fn(Core, "toNum", req("obj")),
	fn(Core, "toBool", req("obj")),
	fn(Core, "toList", req("obj")),
	fn(Core, "toTuple", req("obj")),
	fn(Core, "toSet", req("obj")),
	fn(Core, "toMap", req("obj")),
	fn(Core, "len", req("obj")),

	fn(String, "strToUpper", req("obj")),
	fn(String, "strToLower", req("obj")),
	fn(String, "strToTitle", req("obj")),
	fn(String, "strToCapital", req("obj")),
	fn(String, "strSwapCase", req("obj")),
	fn(String, "strStrip", req("obj")),
	fn(String, "strLStrip", req("obj")),
	fn(String, "strRStrip", req("obj")),
	fn(String, "strSplit", req("obj"), opt("sep", "None")),
	fn(String, "strCount", req("obj"), req("sub")),
	fn(String, "strReplace", req("obj"), req("old"), req("new")),
	fn(String, "strStartsWith", req("obj"), req("prefix")),
	fn(String, "strEndsWith", req("obj"), req("suffix")),
	fn(String, "strFind", req("obj"), req("substring")),
	fn(String, "strEncode", req("obj"), opt("encoding", "'utf-8'")),
	fn(String, "strLen", req("obj")),

	fn(Number, "numAbs", req("x")),
	fn(Number, "numRound", req("x"), opt("ndigits", "0")),
	fn(Number, "numFloor", req("x")),
	fn(Number, "numCeil", req("x")),
	fn(Number, "numTrunc", req("x")),
	fn(Number, "numPow", req("a"), req("b")),
	fn(Number, "numSqrt", req("x")),
	fn(Number, "numClamp", req("x"), req("lo"), req("hi")),
	fn(Number, "numSign", req("x")),
	fn(Number, "numToBin", req("x")),
	fn(Number, "numToOct", req("x")),
	fn(Number, "numToHex", req("x")),
	fn(Number, "numFromBase", req("obj"), opt("base", "10")),

	fn(List, "listAppend", req("lst"), req("value")),
	fn(List, "listPop", req("lst"), opt("index", "-1")),
	fn(List, "listLen", req("lst")),
	fn(List, "listExtend", req("lst"), req("items")),
	fn(List, "listContains", req("lst"), req("value")),

	fn(Tuple, "tupleLen", req("t")),
	fn(Tuple, "tupleContains", req("t"), req("value")),

	fn(Set, "setAdd", req("s"), req("value")),
	fn(Set, "setRemove", req("s"), req("value")),
	fn(Set, "setContains", req("s"), req("value")),

	fn(Map, "mapGet", req("m"), req("key"), opt("default", "None")),
	fn(Map, "mapSet", req("m"), req("key"), req("value")),
	fn(Map, "mapKeys", req("m")),
	fn(Map, "mapValues", req("m")),
	fn(Map, "mapItems", req("m")),

	fn(Collection, "colFilter", req("col"), req("predicate")),
	fn(Collection, "colMap", req("col"), req("func")),
	fn(Collection, "colContains", req("col"), req("value")),
	fn(Collection, "colJoin", req("col"), opt("sep", "''")),
	fn(Collection, "colIndexOf", req("col"), req("value")),
}

var byName = func() map[string]Signature {
	m := make(map[string]Signature, len(table))
	for _, s := range table {
		m[s.Name] = s
	}
	return m
}()

func IsFunction(name string) bool {
	_, ok := byName[name]
	return ok
}

func Function(name string) (Signature, bool) {
	s, ok := byName[name]
	return s, ok
}

// Functions returns the contract grouped by category, in declaration order.
func Functions() []Signature {
	out := make([]Signature, len(table))
	copy(out, table)
	return out
}

// Names returns every builtin function name, sorted.
func Names() []string {
	names := make([]string, 0, len(table))
	for _, s := range table {
		names = append(names, s.Name)
	}
	sort.Strings(names)
	return names
}

func LookupConstant(name string) (Constant, bool) {
	c, ok := Constants[name]
	return c, ok
}

func IsType(name string) bool {
	for _, t := range Types {
		if t == name {
			return true
		}
	}
	return false
}
