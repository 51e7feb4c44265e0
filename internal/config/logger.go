package config

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the structured logger every aetherscript-lsp entry
// point uses. It writes JSON to logFile if one is given, falling back
// to stderr if the file can't be opened — a logging misconfiguration
// must never prevent the server from starting.
func NewLogger(logFile, level string) *zap.Logger {
	var writer zapcore.WriteSyncer
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "aetherscript-lsp: could not open log file %q, falling back to stderr: %v\n", logFile, err)
			writer = zapcore.AddSync(os.Stderr)
		} else {
			writer = zapcore.AddSync(f)
		}
	} else {
		writer = zapcore.AddSync(os.Stderr)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderCfg)

	core := zapcore.NewCore(encoder, writer, zapLevel(level))
	return zap.New(core)
}

// zapLevel maps the server's five-level log-level vocabulary onto
// zap's. CRITICAL maps to ErrorLevel rather than zap's fatal levels —
// a critical-severity message is still just logged, never a reason to
// os.Exit out from under the LSP connection; callers that want the
// distinction add zap.String("critical", "true") to the log call.
func zapLevel(level string) zapcore.Level {
	switch level {
	case "DEBUG":
		return zapcore.DebugLevel
	case "INFO":
		return zapcore.InfoLevel
	case "WARNING":
		return zapcore.WarnLevel
	case "ERROR", "CRITICAL":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
