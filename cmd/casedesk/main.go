// casedesk dashboard server: serves the case-management dashboard API,
// forwards calls to the backend and AI services, and tracks due-diligence
// requests until they finish.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/lexdesk/casedesk/pkg/api"
	"github.com/lexdesk/casedesk/pkg/apiclient"
	"github.com/lexdesk/casedesk/pkg/backend"
	"github.com/lexdesk/casedesk/pkg/compliance"
	"github.com/lexdesk/casedesk/pkg/config"
	"github.com/lexdesk/casedesk/pkg/documents"
	"github.com/lexdesk/casedesk/pkg/duediligence"
	"github.com/lexdesk/casedesk/pkg/events"
	"github.com/lexdesk/casedesk/pkg/version"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	configDir := flag.String("config-dir",
		getEnv("CONFIG_DIR", "./deploy/config"),
		"Path to configuration directory")
	flag.Parse()

	// Load .env file from config directory
	envPath := filepath.Join(*configDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		slog.Warn("Could not load .env file, continuing with existing environment",
			"path", envPath, "error", err)
	} else {
		slog.Info("Loaded environment", "path", envPath)
	}

	slog.Info("Starting casedesk", "version", version.Full(), "config_dir", *configDir)

	ctx := context.Background()

	// 1. Configuration
	cfg, err := config.Initialize(ctx, *configDir)
	if err != nil {
		slog.Error("Failed to initialize configuration", "error", err)
		os.Exit(1)
	}

	// 2. Request clients. Backend calls carry the browser's token from the
	// request context; there is no shared server-side session.
	clientOpts := []apiclient.Option{
		apiclient.WithTimeout(cfg.Backend.Timeout),
		apiclient.WithUserAgent(version.Full()),
	}
	// A 401 is relayed to the browser, which drops its own token.
	backendAPI := apiclient.New(cfg.Backend.BaseURL,
		append(clientOpts,
			apiclient.WithCredentials(apiclient.ContextToken{}),
			apiclient.WithUnauthorizedHandler(func() {
				slog.Warn("Backend rejected caller token")
			}),
		)...)
	backendClient := backend.New(backendAPI, nil)
	ddClient := duediligence.NewClient(apiclient.New(cfg.Services.DueDiligenceURL, clientOpts...))
	docClient := documents.NewClient(
		apiclient.New(cfg.Services.UploadURL, clientOpts...),
		apiclient.New(cfg.Services.ProcessURL, clientOpts...),
		cfg.Services.UploadPath,
		cfg.Services.ProcessPath,
	)
	slog.Info("Request clients initialized",
		"backend_url", backendAPI.BaseURL(),
		"due_diligence_url", cfg.Services.DueDiligenceURL)

	// 3. Notifications: always logged, also published to NATS when configured.
	publishers := events.Multi{events.NewLogPublisher(nil)}
	if cfg.NATSEnabled() {
		nc, err := events.Connect(cfg.NATS.URL, cfg.NATS.Name)
		if err != nil {
			// Non-fatal: notifications still reach the log.
			slog.Error("Failed to connect to NATS, continuing without it", "url", cfg.NATS.URL, "error", err)
		} else {
			defer nc.Close()
			publishers = append(publishers, events.NewCommsPublisher(nc))
			slog.Info("Publishing notifications to NATS", "url", cfg.NATS.URL)
		}
	}

	// 4. HTTP server
	httpServer := api.NewServer(api.Deps{
		Backend:      backendClient,
		DueDiligence: ddClient,
		Documents:    docClient,
		Publisher:    publishers,
		Compliance: compliance.Config{
			PollInterval:    cfg.Compliance.PollInterval,
			MaxPollFailures: cfg.Compliance.MaxPollFailures,
		},
		SessionTTL: cfg.Server.SessionTTL,
	})

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.Start(":" + cfg.Server.Port); err != nil {
			slog.Error("HTTP server error", "error", err)
			errCh <- err
		}
	}()

	slog.Info("casedesk started successfully", "http_port", cfg.Server.Port)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigCh:
		slog.Info("Shutdown signal received", "signal", sig)
	case err := <-errCh:
		slog.Error("Server error triggered shutdown", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}
