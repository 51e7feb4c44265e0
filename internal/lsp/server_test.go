package lsp

import (
	"testing"

	"github.com/aetherscript/aetherscript-lsp/internal/tooling"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"
)

func TestServerInitialization(t *testing.T) {
	server := NewServer(zap.NewNop(), 200)
	if server == nil {
		t.Fatal("NewServer() returned nil")
	}

	if server.api == nil {
		t.Error("Server API is nil")
	}

	if server.logger == nil {
		t.Error("Server logger is nil")
	}

	if server.capabilities.CompletionProvider == nil {
		t.Error("CompletionProvider is nil")
	}

	if server.capabilities.DefinitionProvider == nil {
		t.Error("DefinitionProvider is nil")
	}

	caps := server.capabilities
	if caps.HoverProvider != true {
		t.Error("HoverProvider should be true")
	}
	if caps.ReferencesProvider != true {
		t.Error("ReferencesProvider should be true")
	}
	if caps.DocumentSymbolProvider != true {
		t.Error("DocumentSymbolProvider should be true")
	}
	if caps.WorkspaceSymbolProvider != true {
		t.Error("WorkspaceSymbolProvider should be true")
	}
}

func TestServerTruncationCallbackDoesNotPanic(t *testing.T) {
	server := NewServer(zap.NewNop(), 1)
	server.api.ParseFile("test.aether", `var a: Int = "x";
var b: Int = "y";`)

	// The OnTruncate callback wired in NewServer must not panic when it
	// fires, regardless of logger sink.
	_ = server.api.GetDiagnostics("test.aether")
}

func TestConvertSeverity(t *testing.T) {
	tests := []struct {
		name     string
		input    tooling.DiagnosticSeverity
		expected protocol.DiagnosticSeverity
	}{
		{"Error severity", tooling.SeverityError, protocol.DiagnosticSeverityError},
		{"Warning severity", tooling.SeverityWarning, protocol.DiagnosticSeverityWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := convertSeverity(tt.input)
			if result != tt.expected {
				t.Errorf("convertSeverity(%v): expected %v, got %v", tt.input, tt.expected, result)
			}
		})
	}
}

func TestStdRWC(t *testing.T) {
	rwc := stdrwc{}
	_ = rwc.Read
	_ = rwc.Write
	_ = rwc.Close
}
