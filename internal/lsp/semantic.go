package lsp

import (
	"github.com/alecthomas/participle/v2/lexer"

	"staticore/internal/irtext"
)

// SemanticToken is one LSP semantic token entry, in absolute (not yet
// delta-encoded) line/character coordinates.
type SemanticToken struct {
	Line           uint32
	StartChar      uint32
	Length         uint32
	TokenType      int
	TokenModifiers int
}

func collectSemanticTokens(prog *irtext.Program) []SemanticToken {
	var tokens []SemanticToken
	if prog == nil {
		return tokens
	}
	for _, c := range prog.Classes {
		tokens = append(tokens, walkClass(c)...)
	}
	return tokens
}

func walkClass(c *irtext.ClassDecl) []SemanticToken {
	var tokens []SemanticToken
	tokens = append(tokens, makeToken(c.Pos, c.Name, "type", declMod()))

	for _, mem := range c.Members {
		switch {
		case mem.Field != nil:
			f := mem.Field
			mods := 0
			if f.Static {
				mods |= staticMod()
			}
			tokens = append(tokens, makeToken(f.Pos, f.Name, "property", declMod()|mods))
			tokens = append(tokens, typeToken(f.Type)...)
		case mem.Method != nil:
			tokens = append(tokens, walkMethod(mem.Method)...)
		}
	}
	return tokens
}

func walkMethod(m *irtext.MethodDecl) []SemanticToken {
	var tokens []SemanticToken
	mods := declMod()
	if m.Static {
		mods |= staticMod()
	}
	if m.Abstract {
		mods |= abstractMod()
	}
	tokens = append(tokens, makeToken(m.Pos, m.Name, "function", mods))

	for _, p := range m.Params {
		tokens = append(tokens, makeToken(p.Pos, p.Name, "parameter", 0))
		tokens = append(tokens, typeToken(p.Type)...)
	}
	if m.Return != nil {
		tokens = append(tokens, typeToken(m.Return)...)
	}
	if m.Body != nil {
		tokens = append(tokens, walkBlock(m.Body)...)
	}
	return tokens
}

func walkBlock(b *irtext.Block) []SemanticToken {
	var tokens []SemanticToken
	for _, ls := range b.Stmts {
		tokens = append(tokens, walkStmt(ls)...)
	}
	return tokens
}

// walkStmt tokenizes one labeled statement. Most Stmt alternatives don't
// carry their own lexer.Position (only LabeledStmt and the handful of
// declaration nodes do), so every token from a statement anchors to that
// statement's own starting position — close enough for the editor to
// highlight the right line even if a multi-name statement's tokens land on
// top of one another within it.
func walkStmt(ls *irtext.LabeledStmt) []SemanticToken {
	var tokens []SemanticToken
	s := ls.Stmt
	switch {
	case s.New != nil:
		tokens = append(tokens, makeToken(ls.Pos, s.New.LHS, "variable", declMod()))
	case s.Invoke != nil:
		if s.Invoke.LHS != nil {
			tokens = append(tokens, makeToken(ls.Pos, *s.Invoke.LHS, "variable", declMod()))
		}
		tokens = append(tokens, makeToken(ls.Pos, s.Invoke.Method, "function", 0))
	case s.Assign != nil:
		tokens = append(tokens, makeToken(ls.Pos, s.Assign.LHS, "variable", declMod()))
	}
	return tokens
}

func typeToken(t *irtext.TypeRef) []SemanticToken {
	if t == nil {
		return nil
	}
	return []SemanticToken{makeToken(t.Pos, t.Name, "type", 0)}
}

func makeToken(pos lexer.Position, value, tokenType string, modifiers int) SemanticToken {
	return SemanticToken{
		Line:           uint32(pos.Line - 1),
		StartChar:      uint32(pos.Column - 1),
		Length:         uint32(len(value)),
		TokenType:      indexOf(tokenType, SemanticTokenTypes),
		TokenModifiers: modifiers,
	}
}

func declMod() int     { return 1 << indexOf("declaration", SemanticTokenModifiers) }
func staticMod() int   { return 1 << indexOf("static", SemanticTokenModifiers) }
func abstractMod() int { return 1 << indexOf("abstract", SemanticTokenModifiers) }

func indexOf(target string, list []string) int {
	for i, v := range list {
		if v == target {
			return i
		}
	}
	return -1
}
