package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aetherscript/aetherscript-lsp/internal/config"
	"github.com/aetherscript/aetherscript-lsp/internal/lsp"
	"github.com/spf13/cobra"
)

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	logger := config.NewLogger(cfg.LogFile, cfg.LogLevel)
	defer logger.Sync()

	server := lsp.NewServer(logger, cfg.MaxDiagnosticsPerFile)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	return server.Run(ctx)
}
