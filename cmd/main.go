package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mail-triage/internal/classifier"
	"mail-triage/internal/config"
	"mail-triage/internal/deadline"
	"mail-triage/internal/emailprocessor"
	imapclient "mail-triage/internal/imap"
	"mail-triage/internal/logging"
	"mail-triage/internal/models"
	"mail-triage/internal/seed"
	"mail-triage/internal/session"
	"mail-triage/internal/store"
	firestorestore "mail-triage/internal/store/firestore"
	"mail-triage/internal/store/memory"
	"mail-triage/internal/store/sqlite"
	"mail-triage/internal/tui"
	"mail-triage/internal/view"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	envPath := flag.String("env", ".env", "optional dotenv file loaded before the configuration")
	flag.Parse()

	if err := config.LoadDotEnv(*envPath); err != nil {
		logging.Log.Fatalf("Error reading %s: %v", *envPath, err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Log.Fatalf("Error reading configuration file: %v", err)
	}

	if err := logging.Configure(cfg.Log.Level, cfg.Log.Format); err != nil {
		logging.Log.Fatalf("Error configuring logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openStore(ctx, cfg.Store)
	if err != nil {
		logging.Log.Fatalf("Error opening %s store: %v", cfg.Store.Driver, err)
	}
	defer func(s store.Store) {
		_ = s.Close()
	}(s)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if cfg.Metrics.Addr != "" {
		srv := serveMetrics(cfg.Metrics.Addr, registry)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	pipeline, err := deadline.NewPipeline(s, deadline.Options{
		Strategy:   deadline.Strategy(cfg.Pipeline.Dedup),
		CacheSize:  cfg.Pipeline.CacheSize,
		CacheTTL:   cfg.Pipeline.CacheTTL,
		Registerer: registry,
	})
	if err != nil {
		logging.Log.Fatalf("Error creating deadline pipeline: %v", err)
	}

	runner := session.NewRunner(s, seed.NewLoader(s, seed.DefaultTemplates()), pipeline)
	if cfg.Imap.Enabled {
		processor := emailprocessor.NewProcessor(imapclient.NewStandardClient(), s, cfg.Imap.FetchRate)
		runner.WithImporter(processor, cfg.Imap)
	}

	logging.Log.Infof("Starting session on %s store", cfg.Store.Driver)

	state, err := runner.Run(ctx, cfg.Owner)
	if errors.Is(err, session.ErrNotAuthenticated) {
		fmt.Fprintln(os.Stderr, "Not logged in: set owner in the configuration or MAILTRIAGE_OWNER")
		_ = s.Close()
		os.Exit(2)
	}
	if err != nil {
		logging.Log.Fatalf("Session failed: %v", err)
	}

	if !cfg.UI.Interactive {
		fmt.Print(view.Text(view.Render(state)))
		return
	}

	program := tea.NewProgram(tui.NewAppModel(state, classifier.Categories()), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logging.Log.Errorf("Terminal UI error: %v", err)
	}
}

// openStore picks the persistence backend named by the configuration
func openStore(ctx context.Context, cfg models.StoreConfig) (store.Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return memory.NewStore(), nil
	case config.DriverSQLite:
		return sqlite.NewStore(cfg.Path)
	case config.DriverFirestore:
		return firestorestore.NewStore(ctx, cfg.ProjectID)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// serveMetrics exposes the registry on addr in the background
func serveMetrics(addr string, registry *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logging.Log.Infof("Serving metrics on %s/metrics", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Log.Errorf("Metrics server error: %v", err)
		}
	}()
	return srv
}
