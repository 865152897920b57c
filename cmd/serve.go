package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/subha54820/Scam-Shield/internal/api"
	"github.com/subha54820/Scam-Shield/internal/audit"
	"github.com/subha54820/Scam-Shield/internal/dashboard"
	"github.com/subha54820/Scam-Shield/internal/metrics"
	"github.com/subha54820/Scam-Shield/internal/pipeline"
	"github.com/subha54820/Scam-Shield/internal/store"
)

const databaseURLEnv = "SCAMSHIELD_DATABASE_URL"

var (
	listenAddr    string
	auditFile     string
	auditMessages bool
	noDashboard   bool
	databaseURL   string
	dbMaxConns    int32
	storeBuffer   int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Scam Shield HTTP service",
	Long: `Start the HTTP service that scores messages on POST /api/analyze.
Scans are audited, counted in Prometheus metrics, optionally persisted to
PostgreSQL and streamed to the real-time dashboard.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", ":8080", "Address to listen on")
	serveCmd.Flags().StringVar(&auditFile, "audit-log", "", "Path to audit log file (default: stderr)")
	serveCmd.Flags().BoolVar(&auditMessages, "audit-messages", false, "Include message text in audit entries and the dashboard feed")
	serveCmd.Flags().BoolVar(&noDashboard, "no-dashboard", false, "Disable the real-time dashboard")
	serveCmd.Flags().StringVar(&databaseURL, "database-url", "", "PostgreSQL URL for scan history (default: $"+databaseURLEnv+")")
	serveCmd.Flags().Int32Var(&dbMaxConns, "db-max-conns", 10, "Maximum PostgreSQL connections")
	serveCmd.Flags().IntVar(&storeBuffer, "store-buffer", 1000, "Pending scan records before writes are dropped")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Str("component", "scamshield").Logger()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load policy
	pol, err := loadPolicy()
	if err != nil {
		return err
	}
	logger.Info().
		Str("policy", pol.PolicyName).
		Str("version", pol.Version).
		Int("rules", len(pol.Rules)).
		Int64("max_message_bytes", pol.Limits.MaxMessageBytes).
		Msg("policy loaded")

	// Set up audit logger
	var auditLogger *audit.Logger
	if auditFile != "" {
		auditLogger, err = audit.NewFileLogger(auditFile)
		if err != nil {
			return fmt.Errorf("creating audit logger: %w", err)
		}
		defer auditLogger.Close()
		logger.Info().Str("path", auditFile).Msg("audit log enabled")
	} else {
		auditLogger = audit.NewStderrLogger()
	}
	auditLogger.IncludeMessage = auditMessages

	m := metrics.New()
	pipeOpts := []pipeline.Option{
		pipeline.WithMetrics(m),
		pipeline.WithLogger(logger),
		pipeline.WithEventPreview(auditMessages),
	}
	apiOpts := []api.Option{api.WithMetrics(m)}

	// Optional scan history
	if databaseURL == "" {
		databaseURL = os.Getenv(databaseURLEnv)
	}
	if databaseURL != "" {
		pg, err := store.Open(ctx, store.Config{DatabaseURL: databaseURL, MaxConns: dbMaxConns})
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		defer pg.Close()

		if err := pg.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}

		writer := store.NewAsyncWriter(pg,
			store.WithLogger(logger),
			store.WithMetrics(m),
			store.WithBufferSize(storeBuffer),
		)
		// Runs before pg.Close so pending records are flushed.
		defer writer.Close()

		pipeOpts = append(pipeOpts, pipeline.WithSink(writer))
		apiOpts = append(apiOpts, api.WithStore(pg), api.WithHealthCheck(pg.HealthCheck))
		logger.Info().Msg("scan history enabled")
	}

	// Create pipeline
	pipe := pipeline.New(pol, auditLogger, pipeOpts...)

	if !noDashboard {
		hub := dashboard.NewHub(pol)
		pipe.AddObserver(hub.OnEvent)
		dashboard.Run(ctx, hub)
		apiOpts = append(apiOpts, api.WithHub(hub))
	}

	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           api.New(pipe, logger, apiOpts...).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info().
		Str("listen", listenAddr).
		Msg("starting scam shield")

	fmt.Fprintf(os.Stderr, "\n  Scam Shield v%s\n", Version)
	fmt.Fprintf(os.Stderr, "  Policy:  %s (%s)\n", pol.PolicyName, pol.Version)
	fmt.Fprintf(os.Stderr, "  Listen:  %s\n", listenAddr)
	fmt.Fprintf(os.Stderr, "  History: %v\n", databaseURL != "")
	if !noDashboard {
		dashAddr := listenAddr
		if strings.HasPrefix(dashAddr, ":") {
			dashAddr = "localhost" + dashAddr
		}
		fmt.Fprintf(os.Stderr, "  Dashboard: http://%s%s\n", dashAddr, dashboard.Prefix)
	}
	fmt.Fprintln(os.Stderr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	return nil
}
