package config

import (
	"os"
	"testing"

	"github.com/spf13/pflag"
)

func TestLoadDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("expected no error loading defaults, got %v", err)
	}

	if cfg.LogLevel != "INFO" {
		t.Errorf("expected default logLevel 'INFO', got %s", cfg.LogLevel)
	}
	if cfg.LogFile != "" {
		t.Errorf("expected default logFile '', got %s", cfg.LogFile)
	}
	if cfg.MaxDiagnosticsPerFile != 200 {
		t.Errorf("expected default maxDiagnosticsPerFile 200, got %d", cfg.MaxDiagnosticsPerFile)
	}
}

func TestLoadWithProjectFile(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	configContent := `
logFile: /tmp/aetherscript.log
logLevel: DEBUG
maxDiagnosticsPerFile: 50
`
	if err := os.WriteFile(".aetherscript.yaml", []byte(configContent), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}

	if cfg.LogLevel != "DEBUG" {
		t.Errorf("expected logLevel 'DEBUG', got %s", cfg.LogLevel)
	}
	if cfg.LogFile != "/tmp/aetherscript.log" {
		t.Errorf("expected logFile from project file, got %s", cfg.LogFile)
	}
	if cfg.MaxDiagnosticsPerFile != 50 {
		t.Errorf("expected maxDiagnosticsPerFile 50, got %d", cfg.MaxDiagnosticsPerFile)
	}
}

func TestLoadFlagsOverrideProjectFile(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	if err := os.WriteFile(".aetherscript.yaml", []byte("logLevel: DEBUG\n"), 0644); err != nil {
		t.Fatal(err)
	}

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-file", "", "")
	flags.String("log-level", "INFO", "")
	if err := flags.Set("log-level", "ERROR"); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(flags)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.LogLevel != "ERROR" {
		t.Errorf("expected a CLI flag to override the project file, got %s", cfg.LogLevel)
	}
}

func TestLoadRejectsInvalidLogLevel(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	if err := os.WriteFile(".aetherscript.yaml", []byte("logLevel: VERBOSE\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(nil); err == nil {
		t.Error("expected an error for an invalid logLevel")
	}
}

func TestLoadRejectsNegativeMaxDiagnostics(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	if err := os.WriteFile(".aetherscript.yaml", []byte("maxDiagnosticsPerFile: -1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(nil); err == nil {
		t.Error("expected an error for a negative maxDiagnosticsPerFile")
	}
}

func TestNewLoggerFallsBackToStderr(t *testing.T) {
	// An unwritable path must not make NewLogger fail or panic; it
	// prints a notice to stderr and falls back to stderr instead.
	logger := NewLogger("/nonexistent/dir/aetherscript.log", "INFO")
	if logger == nil {
		t.Fatal("expected a non-nil logger even when the log file can't be opened")
	}
	logger.Info("smoke test")
}

func TestZapLevelMapping(t *testing.T) {
	tests := map[string]bool{
		"DEBUG":    true,
		"INFO":     true,
		"WARNING":  true,
		"ERROR":    true,
		"CRITICAL": true,
		"":         true,
	}
	for level := range tests {
		// zapLevel must never panic on any of the five accepted levels
		// (or the empty default).
		_ = zapLevel(level)
	}
}
