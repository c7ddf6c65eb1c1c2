package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/teamwork"
	"github.com/hupe1980/teamwork/config"
	"github.com/hupe1980/teamwork/engine"
	"github.com/hupe1980/teamwork/logging"
	"github.com/hupe1980/teamwork/metrics"
	"github.com/hupe1980/teamwork/snapshot"
	"github.com/hupe1980/teamwork/snapshot/redis"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a workflow until the team produces an answer",
	Long: `Runs the workflow defined in --config. Tool calls are executed locally;
the built-in tools are "fetch" (HTTP GET) and "ask_user" (reads stdin).

With --redis-addr every tree version is stored under --run-id, so an
interrupted run can be resumed by passing the same run ID again.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runWorkflow(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("provider", "", "Override the provider kind: openai or anthropic")
	runCmd.Flags().String("model", "", "Override the provider model")
	runCmd.Flags().Int("max-iterations", -1, "Override the step budget of the run (0 = unlimited)")
	runCmd.Flags().String("locale", "", "Override the language of prompts and status texts, e.g. de or pl")
	runCmd.Flags().String("run-id", "", "Run ID used for snapshots (generated when empty)")
	runCmd.Flags().String("redis-addr", "", "Redis address for durable snapshots (in-memory when empty)")
	runCmd.Flags().String("redis-password", "", "Redis password")
	runCmd.Flags().Int("redis-db", 0, "Redis database")
	runCmd.Flags().Duration("snapshot-ttl", 24*time.Hour, "Expiration of stored snapshots")
	runCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
}

func runWorkflow(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	runID := settings.GetString("run-id")
	if runID == "" {
		runID = uuid.NewString()
	}

	logger, flush, err := newLogger(settings.GetString("log-level"), settings.GetString("log-format"), runID)
	if err != nil {
		return err
	}
	defer flush()

	f, err := config.Load(settings.GetString("config"))
	if err != nil {
		return err
	}

	if kind := settings.GetString("provider"); kind != "" {
		f.Provider.Kind = kind
	}

	if m := settings.GetString("model"); m != "" {
		f.Provider.Model = m
	}

	if n := settings.GetInt("max-iterations"); n >= 0 {
		f.MaxIterations = &n
	}

	if locale := settings.GetString("locale"); locale != "" {
		f.Locale = locale
	}

	provider, err := newProvider(f.Provider, logger)
	if err != nil {
		return err
	}

	wf, err := f.Build(provider, builtinTools(os.Stdin, os.Stderr))
	if err != nil {
		return err
	}

	store, closeStore, err := newStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	observers := []engine.Observer{engine.NewLoggingObserver(logger, func(o *engine.LoggingObserverOptions) {
		o.Locale = f.Locale
	})}

	if addr := settings.GetString("metrics-addr"); addr != "" {
		reg := prometheus.NewRegistry()
		observers = append(observers, metrics.New(reg))

		shutdown := serveMetrics(addr, reg, logger)
		defer shutdown()
	}

	team := teamwork.New(func(o *teamwork.Options) {
		o.Logger = logger
		o.Observers = observers
		o.Store = store
	})

	logger.Info("cli.run.start", "run_id", runID, "provider", f.Provider.Kind, "members", len(f.Team))

	root, err := team.Run(ctx, wf, func(o *teamwork.RunOptions) { o.RunID = runID })
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "interrupted; resume with --run-id %s\n", runID)
		}
		return err
	}

	result, _ := root.Result()
	fmt.Println(result)

	return nil
}

// newStore returns the snapshot store selected by the flags.
func newStore(ctx context.Context) (snapshot.Store, func(), error) {
	addr := settings.GetString("redis-addr")
	if addr == "" {
		return snapshot.NewInMemoryStore(), func() {}, nil
	}

	store := redis.New(addr, settings.GetString("redis-password"), settings.GetInt("redis-db"),
		redis.WithTTL(settings.GetDuration("snapshot-ttl")))

	if err := store.Ping(ctx); err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return store, func() { _ = store.Close() }, nil
}

// serveMetrics exposes reg on addr/metrics until the returned func is called.
func serveMetrics(addr string, reg *prometheus.Registry, logger logging.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("cli.metrics.error", "addr", addr, "error", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
