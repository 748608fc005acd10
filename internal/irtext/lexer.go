package irtext

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// IRLexer tokenizes the textual IR dump/input format: class declarations
// with fields and methods, method bodies as flat, labeled statement lists
// (spec §1's "IR provider" contract, made concrete as a parseable surface
// syntax instead of left abstract).
var IRLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"DocComment", `///[^\n]*`, nil},
		{"Comment", `//[^\n]*`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Integer", `-?[0-9]+`, nil},
		{"Operator", `(::|==|!=|<=|>=|&&|\|\||<<|>>|[-+*/%&|^<>=])`, nil},
		{"Punctuation", `[{}\[\]():;,.]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
