package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/a3tai/mcp-pdf-links/internal/config"
	"github.com/a3tai/mcp-pdf-links/internal/logger"
	"github.com/a3tai/mcp-pdf-links/internal/mcp"
	"github.com/a3tai/mcp-pdf-links/internal/pdf"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// logOutput picks where log lines go. Stdout carries the protocol in stdio
// mode, so logs go to stderr there and only when debugging.
func logOutput(cfg *config.Config, stderr io.Writer) io.Writer {
	if cfg.IsStdioMode() && !cfg.IsDebug() {
		return io.Discard
	}
	return stderr
}

func setupLogging(cfg *config.Config, stderr io.Writer) {
	out := logOutput(cfg, stderr)
	log.SetOutput(out)
	logger.Configure(out, cfg.Level())
}

func newService(cfg *config.Config) (*pdf.Service, error) {
	return pdf.NewService(cfg.MaxFileSize, cfg.PDFDirectory,
		pdf.WithOutputDirectory(cfg.OutputDirectory),
		pdf.WithIdentifierPages(cfg.IdentifierPages),
		pdf.WithWorkers(cfg.Workers),
	)
}

// runServerMode runs the server until it fails or a signal arrives.
func runServerMode(ctx context.Context, cancel context.CancelFunc, server *mcp.Server) error {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(signalCh)

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.Run(ctx)
	}()

	select {
	case sig := <-signalCh:
		logger.Info("shutting down", "signal", sig.String())
		cancel()
		return <-serverErrCh
	case err := <-serverErrCh:
		return err
	}
}

// runStdioMode serves until the parent closes stdin.
func runStdioMode(ctx context.Context, server *mcp.Server) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return server.Run(ctx)
}

func versionRequested(args []string) bool {
	for _, arg := range args {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return true
		}
	}
	return false
}

func main() {
	if versionRequested(os.Args[1:]) {
		printVersion(os.Stdout)
		return
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if version != "dev" {
		cfg.Version = version
	}

	setupLogging(cfg, os.Stderr)
	logger.Debug("starting", "config", cfg.String())

	pdfService, err := newService(cfg)
	if err != nil {
		log.Fatalf("Failed to create PDF service: %v", err)
	}

	server, err := mcp.NewServer(cfg, pdfService)
	if err != nil {
		log.Fatalf("Failed to create MCP server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.IsServerMode() {
		err = runServerMode(ctx, cancel, server)
	} else {
		err = runStdioMode(ctx, server)
	}
	if err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "MCP PDF Links\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(w, "Built with: %s\n", runtime.Version())
}
