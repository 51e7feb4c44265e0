package lsp

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/aetherscript/aetherscript-lsp/internal/tooling"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
)

// handleTextDocumentCompletion handles completion requests
func (s *Server) handleTextDocumentCompletion(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.CompletionParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "failed to parse completion params")
	}

	docURI := string(params.TextDocument.URI)
	pos := tooling.Position{
		Line:      int(params.Position.Line),
		Character: int(params.Position.Character),
	}

	completions := s.api.GetCompletions(docURI, pos)

	items := make([]protocol.CompletionItem, 0, len(completions))
	for _, c := range completions {
		items = append(items, protocol.CompletionItem{
			Label:            c.Label,
			Kind:             convertCompletionKind(c.Kind),
			Detail:           c.Detail,
			InsertTextFormat: protocol.InsertTextFormatPlainText,
		})
	}

	result := protocol.CompletionList{
		IsIncomplete: false,
		Items:        items,
	}

	return reply(ctx, result, nil)
}

// handleTextDocumentHover handles hover requests
func (s *Server) handleTextDocumentHover(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.HoverParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "failed to parse hover params")
	}

	docURI := string(params.TextDocument.URI)
	pos := tooling.Position{
		Line:      int(params.Position.Line),
		Character: int(params.Position.Character),
	}

	hover, ok := s.api.GetHover(docURI, pos)
	if !ok {
		return reply(ctx, nil, nil)
	}

	result := protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.Markdown,
			Value: hover.Contents,
		},
		Range: &protocol.Range{
			Start: protocol.Position{
				Line:      uint32(hover.Range.Start.Line),
				Character: uint32(hover.Range.Start.Character),
			},
			End: protocol.Position{
				Line:      uint32(hover.Range.End.Line),
				Character: uint32(hover.Range.End.Character),
			},
		},
	}

	return reply(ctx, result, nil)
}

// handleTextDocumentDefinition handles go-to-definition requests
func (s *Server) handleTextDocumentDefinition(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DefinitionParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "failed to parse definition params")
	}

	docURI := string(params.TextDocument.URI)
	pos := tooling.Position{
		Line:      int(params.Position.Line),
		Character: int(params.Position.Character),
	}

	location, ok := s.api.GetDefinition(docURI, pos)
	if !ok {
		return reply(ctx, nil, nil)
	}

	result := protocol.Location{
		URI: protocol.DocumentURI(location.URI),
		Range: protocol.Range{
			Start: protocol.Position{
				Line:      uint32(location.Range.Start.Line),
				Character: uint32(location.Range.Start.Character),
			},
			End: protocol.Position{
				Line:      uint32(location.Range.End.Line),
				Character: uint32(location.Range.End.Character),
			},
		},
	}

	return reply(ctx, result, nil)
}

// handleTextDocumentReferences handles find references requests
func (s *Server) handleTextDocumentReferences(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.ReferenceParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "failed to parse references params")
	}

	docURI := string(params.TextDocument.URI)
	pos := tooling.Position{
		Line:      int(params.Position.Line),
		Character: int(params.Position.Character),
	}

	references := s.api.GetReferences(docURI, pos)

	locations := make([]protocol.Location, 0, len(references))
	for _, ref := range references {
		locations = append(locations, protocol.Location{
			URI: protocol.DocumentURI(ref.URI),
			Range: protocol.Range{
				Start: protocol.Position{
					Line:      uint32(ref.Range.Start.Line),
					Character: uint32(ref.Range.Start.Character),
				},
				End: protocol.Position{
					Line:      uint32(ref.Range.End.Line),
					Character: uint32(ref.Range.End.Character),
				},
			},
		})
	}

	return reply(ctx, locations, nil)
}

// handleTextDocumentDocumentSymbol handles document symbol requests
func (s *Server) handleTextDocumentDocumentSymbol(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DocumentSymbolParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "failed to parse document symbol params")
	}

	docURI := string(params.TextDocument.URI)
	symbols := s.api.GetDocumentSymbols(docURI)

	lspSymbols := make([]protocol.DocumentSymbol, 0, len(symbols))
	for _, sym := range symbols {
		r := protocol.Range{
			Start: protocol.Position{
				Line:      uint32(sym.Range.Start.Line),
				Character: uint32(sym.Range.Start.Character),
			},
			End: protocol.Position{
				Line:      uint32(sym.Range.End.Line),
				Character: uint32(sym.Range.End.Character),
			},
		}
		lspSymbols = append(lspSymbols, protocol.DocumentSymbol{
			Name:           sym.Name,
			Kind:           convertSymbolKind(sym.Kind),
			Detail:         sym.Detail,
			Range:          r,
			SelectionRange: r,
		})
	}

	return reply(ctx, lspSymbols, nil)
}

// handleWorkspaceSymbol handles workspace symbol search requests
func (s *Server) handleWorkspaceSymbol(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.WorkspaceSymbolParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "failed to parse workspace symbol params")
	}

	query := strings.ToLower(params.Query)

	var symbols []protocol.SymbolInformation
	for _, doc := range s.api.AllDocuments() {
		for _, sym := range doc.Symbols {
			if query != "" && !strings.Contains(strings.ToLower(sym.Name), query) {
				continue
			}
			symbols = append(symbols, protocol.SymbolInformation{
				Name: sym.Name,
				Kind: convertSymbolKind(sym.Kind),
				Location: protocol.Location{
					URI: protocol.DocumentURI(doc.URI),
					Range: protocol.Range{
						Start: protocol.Position{
							Line:      uint32(sym.Range.Start.Line),
							Character: uint32(sym.Range.Start.Character),
						},
						End: protocol.Position{
							Line:      uint32(sym.Range.End.Line),
							Character: uint32(sym.Range.End.Character),
						},
					},
				},
				ContainerName: sym.ContainerName,
			})
		}
	}

	return reply(ctx, symbols, nil)
}

// Helper functions to convert between tooling and LSP types

func convertCompletionKind(kind tooling.CompletionKind) protocol.CompletionItemKind {
	switch kind {
	case tooling.CompletionKindKeyword:
		return protocol.CompletionItemKindKeyword
	case tooling.CompletionKindType:
		return protocol.CompletionItemKindClass
	case tooling.CompletionKindFunction:
		return protocol.CompletionItemKindFunction
	case tooling.CompletionKindVariable:
		return protocol.CompletionItemKindVariable
	default:
		return protocol.CompletionItemKindText
	}
}

func convertSymbolKind(kind tooling.SymbolKind) protocol.SymbolKind {
	switch kind {
	case tooling.SymbolKindFunction:
		return protocol.SymbolKindFunction
	case tooling.SymbolKindVariable:
		return protocol.SymbolKindVariable
	case tooling.SymbolKindParameter:
		return protocol.SymbolKindVariable
	default:
		return protocol.SymbolKindObject
	}
}
