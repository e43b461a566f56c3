// Command ggo-tp runs the GGO ledger transaction processor: it loads
// configuration, registers the six transaction handlers, connects to the
// validator endpoint, and serves the status/metrics endpoints until
// interrupted.
//
// Bootstrap order (env → config → logging → registration → connect →
// serve) is grounded on the teacher's cmd/cli/coin.go coinInitMiddleware
// and cmd/synnergy/main.go cobra-root shape.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/project-origin/ggo-ledger/core"
	"github.com/project-origin/ggo-ledger/pkg/config"
)

func main() {
	root := &cobra.Command{
		Use:   "ggo-tp",
		Short: "GGO ledger transaction processor",
	}
	root.AddCommand(serveCmd())
	root.AddCommand(keygenCmd())
	root.AddCommand(addressCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var env string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "register handlers, connect to the validator, and serve",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(env)
		},
	}
	cmd.Flags().StringVar(&env, "env", "", "environment overlay config name")
	return cmd
}

func runServe(env string) error {
	_ = godotenv.Load()

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	if cfg.Logging.File != "" {
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logrus.SetOutput(f)
	}

	policy := core.Policy{Publishers: cfg.Policy.Publishers, Issuers: cfg.Policy.Issuers}

	proc := core.NewProcessor()
	handlers := []core.TransactionHandler{
		&core.PublishMeasurementHandler{Policy: policy},
		&core.IssueGGOHandler{Policy: policy},
		&core.SplitGGOHandler{},
		&core.TransferGGOHandler{},
		&core.RetireGGOHandler{},
		&core.SettlementHandler{},
	}
	for _, h := range handlers {
		if err := proc.Register(h); err != nil {
			return fmt.Errorf("register handler: %w", err)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := proc.Connect(ctx, cfg.Validator.Endpoint); err != nil {
		return fmt.Errorf("connect to validator %q: %w", cfg.Validator.Endpoint, err)
	}
	logrus.WithField("endpoint", cfg.Validator.Endpoint).Info("ggo-tp: connected to validator")

	store, err := core.NewKVStore(core.StoreConfig{
		WALPath:          cfg.Store.WALPath,
		SnapshotPath:     cfg.Store.SnapshotPath,
		SnapshotInterval: cfg.Store.SnapshotInterval,
		CacheSize:        cfg.Store.CacheSize,
	})
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	var srv *http.Server
	if cfg.Status.Enabled {
		srv = &http.Server{Addr: cfg.Status.Addr, Handler: core.NewStatusServer(proc)}
		go func() {
			logrus.WithField("addr", cfg.Status.Addr).Info("ggo-tp: status server listening")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logrus.Errorf("status server: %v", err)
			}
		}()
	}

	runErr := proc.Run(ctx)

	if srv != nil {
		_ = srv.Shutdown(context.Background())
	}
	return runErr
}
