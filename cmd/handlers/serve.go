package handlers

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"boardbrief/internal/brief"
	"boardbrief/internal/config"
	"boardbrief/internal/llm"
	"boardbrief/internal/logger"
	"boardbrief/internal/mailbox"
	"boardbrief/internal/news"
	"boardbrief/internal/server"
	"boardbrief/internal/tailor"
)

// NewServeCmd creates the serve command for starting the HTTP server
func NewServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the boardbrief API server backing the dashboard frontend.

The server provides:
  • News curation and board analysis endpoints
  • Strategy document upload
  • Department inboxes with tailored dispatches
  • Proposal submission with board screening

Examples:
  # Start server on default port 8080
  boardbrief serve

  # Start on custom port
  boardbrief serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "HTTP server port (default from config: 8080)")

	return cmd
}

func runServe(ctx context.Context, port int) error {
	log := logger.Get()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if port == 0 {
		port = cfg.Server.Port
	}

	client, err := llm.NewClient(cfg.AI.Gemini.Model)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}

	store, err := mailbox.NewStore(cfg.Mailbox.Directory)
	if err != nil {
		return fmt.Errorf("failed to open mailbox store: %w", err)
	}
	defer store.Close()

	srv := server.New(
		news.NewDefaultFetcher(),
		brief.NewAnalyzer(client),
		tailor.NewTailorer(client),
		store,
		server.Config{
			Port:           port,
			AllowedOrigins: cfg.Server.AllowedOrigins,
		},
	)

	serverErrors := make(chan error, 1)
	go func() {
		log.Info(fmt.Sprintf("Server listening on http://localhost:%d", port))
		log.Info("Press Ctrl+C to stop")
		serverErrors <- srv.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}
