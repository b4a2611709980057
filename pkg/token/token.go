package token

type TokenType int

const (
	STRING TokenType = iota
	NUMBER
	OPERAND
	OPERATOR
	KEYWORD
	TYPE
	INDENT
	EOL
)

var typeNames = [...]string{
	STRING:   "STRING",
	NUMBER:   "NUMBER",
	OPERAND:  "OPERAND",
	OPERATOR: "OPERATOR",
	KEYWORD:  "KEYWORD",
	TYPE:     "TYPE",
	INDENT:   "INDENT",
	EOL:      "EOL",
}

func (t TokenType) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "UNKNOWN"
}

type Pos struct {
	Line   int
	Column int
}

// Keywords of the source language. `->` is spelled with symbols but lexes as
// the return keyword.
var Keywords = [...]string{
	"for",
	"while",
	"if",
	"elif",
	"else",
	"in",
	"fn",
	"->",
}

func IsKeyword(word string) bool {
	for _, kw := range Keywords {
		if kw == word {
			return true
		}
	}
	return false
}

// Operators maps source operators to their Python spelling.
var Operators = map[string]string{
	"^":  "**",
	"!":  "not ",
	"&":  " and ",
	"|":  " or ",
	"+":  "+",
	"-":  "-",
	"*":  "*",
	"/":  "/",
	"//": "//",
	"%":  "%",
	"=":  "=",
	"==": "==",
	"!=": "!=",
	">=": ">=",
	"<=": "<=",
	">":  ">",
	"<":  "<",
	"(":  "(",
	")":  ")",
	"{":  "{",
	"}":  "}",
	"..": "..",
}

// TwoCharOperators are matched before any single character operator.
var TwoCharOperators = [...]string{"..", "==", "!=", ">=", "<=", "//", "->"}

const SingleCharOperators = "+-*/^%=!&|()<>{}"

// Punctuation takes part in bracket disambiguation and is therefore kept apart
// from the operators.
const Punctuation = "[],:"

// KeywordTarget renders a keyword in Python.
func KeywordTarget(kw string) string {
	switch kw {
	case "fn":
		return "def"
	case "->":
		return "return"
	}
	return kw
}
