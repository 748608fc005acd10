// Package irtext defines a textual surface syntax for the class-based IR
// (internal/ir) this engine analyzes, plus a participle parser, a printer,
// and a small incremental-edit helper for the LSP front end. The analyses
// themselves never see this package — they consume *ir.Class values however
// they were built (spec §1 leaves IR construction out of scope); this is
// just the one concrete way this repo builds them, a disassembly-style
// listing format rather than a source language.
package irtext

import "github.com/alecthomas/participle/v2/lexer"

// Program is the parse root: an ordered list of class/interface declarations.
type Program struct {
	Pos     lexer.Position
	Classes []*ClassDecl `@@*`
}

// TypeRef names a type reference: a primitive keyword, a declared class
// name, or either suffixed with "[]" for an array of that element type.
type TypeRef struct {
	Pos     lexer.Position
	Name    string `@Ident`
	IsArray bool   `[ @"[" "]" ]`
}

// FieldDecl is one field declaration: `field name: Type;`, optionally static.
type FieldDecl struct {
	Pos    lexer.Position
	Static bool     `[ @"static" ]`
	Name   string   `"field" @Ident ":"`
	Type   *TypeRef `@@ ";"`
}

// ParamDecl is one formal parameter: `name: Type`.
type ParamDecl struct {
	Pos  lexer.Position
	Name string   `@Ident ":"`
	Type *TypeRef `@@`
}

// MethodDecl is one method declaration. Abstract methods (and interface
// methods) end in ";" instead of a body.
type MethodDecl struct {
	Pos      lexer.Position
	Static   bool         `[ @"static" ]`
	Abstract bool         `[ @"abstract" ]`
	Name     string       `"method" @Ident "("`
	Params   []*ParamDecl `[ @@ { "," @@ } ] ")"`
	Return   *TypeRef     `[ ":" @@ ]`
	Body     *Block       `( @@ | ";" )`
}

// Member is either a field or a method declaration, in declaration order.
type Member struct {
	Field  *FieldDecl  `  @@`
	Method *MethodDecl `| @@`
}

// ClassDecl is one class or interface declaration.
type ClassDecl struct {
	Pos         lexer.Position
	Abstract    bool      `[ @"abstract" ]`
	IsInterface bool      `( @"interface" | "class" )`
	Name        string    `@Ident`
	Super       string    `[ "extends" @Ident ]`
	Interfaces  []string  `[ "implements" @Ident { "," @Ident } ]`
	Members     []*Member `"{" @@* "}"`
}

// Operand is a use: either a local variable reference or an integer literal.
type Operand struct {
	Pos   lexer.Position
	Var   *string `  @Ident`
	Const *string `| @Integer`
}

// Block is a method body: a brace-delimited, flat list of labeled
// statements (spec §4.1's CFG is exactly this list once labels resolve to
// indices — see lower.go).
type Block struct {
	Pos   lexer.Position
	Stmts []*LabeledStmt `"{" @@* "}"`
}

// LabeledStmt optionally names its own position (`L3:`) so If/Goto/Switch
// targets elsewhere in the same body can refer to it by name instead of by
// raw index — indices shift once internal/ir.NewCFG inserts its Entry/Exit
// sentinels, so the surface syntax never spells them out directly.
type LabeledStmt struct {
	Pos   lexer.Position
	Label string `[ @Ident ":" ]`
	Stmt  *Stmt  `@@`
}

// RHSExpr is the right-hand side of an assignment. Alternatives are listed
// most-specific-first so the parser's bounded lookahead commits to the
// right shape before falling through to a bare operand.
type RHSExpr struct {
	Cast       *CastRHS       `  @@`
	StaticLoad *StaticLoadRHS `| @@`
	FieldLoad  *FieldLoadRHS  `| @@`
	ArrayLoad  *ArrayLoadRHS  `| @@`
	Binary     *BinaryRHS     `| @@`
	Simple     *Operand       `| @@`
}

type CastRHS struct {
	To      *TypeRef `"(" @@ ")"`
	Operand string   `@Ident`
}

type StaticLoadRHS struct {
	Class string `@Ident "::"`
	Field string `@Ident`
}

type FieldLoadRHS struct {
	Base  string `@Ident "."`
	Field string `@Ident`
}

type ArrayLoadRHS struct {
	Base  string   `@Ident "["`
	Index *Operand `@@ "]"`
}

type BinaryRHS struct {
	X  *Operand `@@`
	Op string   `@("=="|"!="|"<="|">="|"<<"|">>"|"&&"|"||"|"<"|">"|"+"|"-"|"*"|"/"|"%"|"&"|"|"|"^")`
	Y  *Operand `@@`
}

// Stmt is one statement shape, dispatched on which alternative matched —
// the textual mirror of internal/ir.Stmt's Kind() switch.
type Stmt struct {
	Nop         *NopStmt         `  @@`
	If          *IfStmt          `| @@`
	Goto        *GotoStmt        `| @@`
	Switch      *SwitchStmt      `| @@`
	Return      *ReturnStmt      `| @@`
	Invoke      *InvokeStmt      `| @@`
	StoreStatic *StoreStaticStmt `| @@`
	StoreField  *StoreFieldStmt  `| @@`
	StoreArray  *StoreArrayStmt  `| @@`
	New         *NewStmt         `| @@`
	Assign      *AssignStmt      `| @@`
}

type NopStmt struct {
	Tag string `@"nop" ";"`
}

type IfStmt struct {
	X    *Operand `"if" @@`
	Op   string   `@("=="|"!="|"<="|">="|"<"|">")`
	Y    *Operand `@@`
	Then string   `"goto" @Ident`
	Else string   `"else" @Ident ";"`
}

type GotoStmt struct {
	Target string `"goto" @Ident ";"`
}

type SwitchCaseClause struct {
	Value  string `@Integer ":"`
	Target string `@Ident`
}

type SwitchStmt struct {
	Operand       *Operand            `"switch" @@ "{"`
	Cases         []*SwitchCaseClause `@@*`
	DefaultTarget string              `"default" ":" @Ident "}"`
}

type ReturnStmt struct {
	Value *Operand `"return" [ @@ ] ";"`
}

// InvokeStmt covers all four call-resolution kinds (spec §4.4): Kind picks
// the strategy, Recv is present for call/icall/specialcall and absent for
// staticcall, and Class/Method name the declared target — Subsig itself is
// resolved at lowering time against Class's declared methods (see lower.go).
type InvokeStmt struct {
	LHS    *string    `[ @Ident "=" ]`
	Kind   string     `@("staticcall"|"specialcall"|"icall"|"call")`
	Recv   *string    `[ @Ident "." ]`
	Class  string     `@Ident "."`
	Method string     `@Ident "("`
	Args   []*Operand `[ @@ { "," @@ } ] ")" ";"`
}

type StoreStaticStmt struct {
	Class string   `@Ident "::"`
	Field string   `@Ident "="`
	RHS   *Operand `@@ ";"`
}

type StoreFieldStmt struct {
	Base  string   `@Ident "."`
	Field string   `@Ident "="`
	RHS   *Operand `@@ ";"`
}

type StoreArrayStmt struct {
	Base  string   `@Ident "["`
	Index *Operand `@@ "]" "="`
	RHS   *Operand `@@ ";"`
}

type NewStmt struct {
	LHS   string `@Ident "=" "new"`
	Class string `@Ident ";"`
}

type AssignStmt struct {
	LHS string   `@Ident "="`
	RHS *RHSExpr `@@ ";"`
}
