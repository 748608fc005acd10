// Package lsp exposes the dead-code detector over the Language Server
// Protocol: open/change a textual IR document and the editor gets
// unreachable-statement and useless-assignment findings as inline
// diagnostics, the same Result internal/dcd computes for the CLI.
package lsp

import (
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"staticore/internal/dcd"
	"staticore/internal/ir"
	"staticore/internal/irtext"
)

// SemanticTokenTypes is the set of token types this server advertises.
var SemanticTokenTypes = []string{
	"namespace",
	"type",
	"function",
	"variable",
	"parameter",
	"property",
	"keyword",
	"modifier",
}

// SemanticTokenModifiers is the set of token modifiers this server advertises.
var SemanticTokenModifiers = []string{
	"declaration",
	"definition",
	"static",
	"abstract",
}

// Handler implements the LSP server handlers for the textual IR surface
// language (internal/irtext).
type Handler struct {
	mu      sync.RWMutex
	content map[string]string
	classes map[string][]*ir.Class
	program map[string]*irtext.Program
}

// NewHandler creates an empty Handler.
func NewHandler() *Handler {
	return &Handler{
		content: make(map[string]string),
		classes: make(map[string][]*ir.Class),
		program: make(map[string]*irtext.Program),
	}
}

func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Println("LSP Initialize called")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
			SemanticTokensProvider: &protocol.SemanticTokensOptions{
				Legend: protocol.SemanticTokensLegend{
					TokenTypes:     SemanticTokenTypes,
					TokenModifiers: SemanticTokenModifiers,
				},
				Full: ptrBool(true),
			},
		},
	}, nil
}

func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Println("LSP server initialized")
	return nil
}

func (h *Handler) Shutdown(ctx *glsp.Context) error {
	log.Println("LSP server shutdown")
	return nil
}

func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	diagnostics, err := h.refresh(params.TextDocument.URI)
	if err != nil {
		return fmt.Errorf("failed to refresh document: %w", err)
	}
	sendDiagnosticNotification(ctx, params.TextDocument.URI, diagnostics)
	return nil
}

func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return fmt.Errorf("failed to convert URI %s: %w", params.TextDocument.URI, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.content, path)
	delete(h.classes, path)
	delete(h.program, path)
	return nil
}

func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	diagnostics, err := h.refresh(params.TextDocument.URI)
	if err != nil {
		return fmt.Errorf("failed to refresh document: %w", err)
	}
	sendDiagnosticNotification(ctx, params.TextDocument.URI, diagnostics)
	return nil
}

func (h *Handler) TextDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (interface{}, error) {
	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        []protocol.CompletionItem{},
	}, nil
}

func (h *Handler) TextDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, fmt.Errorf("failed to convert URI %s: %w", params.TextDocument.URI, err)
	}

	h.mu.RLock()
	prog, ok := h.program[path]
	h.mu.RUnlock()
	if !ok {
		if _, err := h.refresh(params.TextDocument.URI); err != nil {
			return nil, err
		}
		h.mu.RLock()
		prog = h.program[path]
		h.mu.RUnlock()
	}

	tokens := collectSemanticTokens(prog)

	var data []uint32
	var prevLine, prevStart uint32
	for _, token := range tokens {
		deltaLine := token.Line - prevLine
		var deltaStart uint32
		if deltaLine == 0 {
			deltaStart = token.StartChar - prevStart
		} else {
			deltaStart = token.StartChar
		}
		data = append(data, deltaLine, deltaStart, token.Length, uint32(token.TokenType), uint32(token.TokenModifiers))
		prevLine = token.Line
		prevStart = token.StartChar
	}

	return &protocol.SemanticTokens{Data: data}, nil
}

// refresh reparses the document at uri from disk, lowers it, runs dead-code
// detection over every method, and returns the resulting diagnostics.
// Parse failures are reported as a single diagnostic instead of a crash;
// the previously-cached classes/program are left untouched so semantic
// tokens keep serving the last good parse.
func (h *Handler) refresh(rawURI protocol.DocumentUri) ([]protocol.Diagnostic, error) {
	path, err := uriToPath(rawURI)
	if err != nil {
		return nil, fmt.Errorf("failed to convert URI %s: %w", rawURI, err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	source := string(content)

	prog, classes, err := irtext.ParseAndLower(path, source)
	if err != nil {
		return ConvertParseError(err), nil
	}

	h.mu.Lock()
	h.content[path] = source
	h.classes[path] = classes
	h.program[path] = prog
	h.mu.Unlock()

	return diagnosticsForClasses(classes), nil
}

func diagnosticsForClasses(classes []*ir.Class) []protocol.Diagnostic {
	var out []protocol.Diagnostic
	for _, c := range classes {
		for _, m := range c.Methods {
			if m.CFG == nil {
				continue
			}
			res := dcd.Analyze(m)
			for _, idx := range res.UnreachableStmts {
				out = append(out, protocol.Diagnostic{
					Range:    stmtRange(idx),
					Severity: ptrSeverity(protocol.DiagnosticSeverityWarning),
					Source:   ptrString("dcd"),
					Message:  fmt.Sprintf("unreachable statement in %s.%s", c.Name, m.Name),
				})
			}
			for _, idx := range res.UselessAssigns {
				out = append(out, protocol.Diagnostic{
					Range:    stmtRange(idx),
					Severity: ptrSeverity(protocol.DiagnosticSeverityHint),
					Source:   ptrString("dcd"),
					Message:  fmt.Sprintf("assigned value never used in %s.%s", c.Name, m.Name),
				})
			}
		}
	}
	return out
}

// stmtRange approximates a source range from a CFG statement index by
// using the index as a zero-based line number. Class and method header
// lines precede a method's statements in any listing, so the range does
// not in general land on the statement's own line; every finding still
// gets a diagnostic, just an imprecisely placed one.
func stmtRange(idx int) protocol.Range {
	line := uint32(idx)
	return protocol.Range{
		Start: protocol.Position{Line: line, Character: 0},
		End:   protocol.Position{Line: line, Character: 200},
	}
}

func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}

	path := u.Path
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}
	return filepath.FromSlash(path), nil
}

func sendDiagnosticNotification(ctx *glsp.Context, uri protocol.URI, diagnostics []protocol.Diagnostic) {
	diagnosticsJSON, err := json.MarshalIndent(diagnostics, "", "  ")
	if err != nil {
		fmt.Println("failed to marshal diagnostics:", err)
		return
	}
	log.Println("sending diagnostics:", string(diagnosticsJSON))

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func ptrBool(b bool) *bool { return &b }

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind { return &k }

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity { return &s }

func ptrString(s string) *string { return &s }
