// Package cli implements the smartmemo CLI commands.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/jmhodges/clock"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/indicatorn/smartmemo/internal/config"
	"github.com/indicatorn/smartmemo/internal/logging"
	"github.com/indicatorn/smartmemo/internal/memo"
	"github.com/indicatorn/smartmemo/internal/notify"
	"github.com/indicatorn/smartmemo/internal/schedule"
	"github.com/indicatorn/smartmemo/internal/store"
)

var (
	dbPath     string
	driverFlag string
	configPath string
	formatFlag string
	logLevel   string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "smartmemo",
	Short: "Memos with reminders, repeats and snooze chains",
	Long:  "A small CLI for memos with reminders. Notes are grouped into genres, soft-deleted into a trash and restored from it. `smartmemo run` delivers due reminders.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $SMARTMEMO_STORE_PATH or ~/.smartmemo/smartmemo.db)")
	RootCmd.PersistentFlags().StringVar(&driverFlag, "driver", "", "Store driver: sqlite, postgres or memory")
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (yaml, toml or json)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")
}

// app is everything a command needs, wired from the configuration.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	store  store.Store
	center notify.Center
	engine *schedule.Engine
	mgr    *memo.Manager
	clk    clock.Clock
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	overrides := map[string]any{}
	flags := cmd.Flags()
	if flags.Changed("db") {
		overrides["store.path"] = dbPath
	}
	if flags.Changed("driver") {
		overrides["store.driver"] = driverFlag
	}
	if flags.Changed("log-level") {
		overrides["log.level"] = logLevel
	}
	return config.Load(configPath, overrides)
}

// openCenter shares the store's database when it has one. A memory store
// always gets a memory center.
func openCenter(ctx context.Context, cfg *config.Config, s store.Store) (notify.Center, error) {
	if cfg.Notify.Center == "sql" {
		if ss, ok := s.(*store.SQLStore); ok {
			return notify.NewSQLCenter(ctx, ss.DB(), ss.Driver())
		}
	}
	return notify.NewMemoryCenter(), nil
}

func openApp(cmd *cobra.Command) *app {
	cfg, err := loadConfig(cmd)
	if err != nil {
		exitErr("load config", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		exitErr("init logger", err)
	}

	ctx := cmd.Context()
	s, err := store.Open(ctx, store.Options{
		Driver: cfg.Store.Driver,
		Path:   cfg.Store.Path,
		DSN:    cfg.Store.DSN,
	})
	if err != nil {
		exitErr("open store", err)
	}

	center, err := openCenter(ctx, cfg, s)
	if err != nil {
		s.Close()
		exitErr("open notification center", err)
	}

	clk := clock.New()
	engine := schedule.NewEngine(center, clk, logger)
	mgr := memo.New(s, engine, clk, logger)
	if err := mgr.Load(ctx); err != nil {
		s.Close()
		exitErr("load memos", err)
	}

	return &app{
		cfg:    cfg,
		logger: logger,
		store:  s,
		center: center,
		engine: engine,
		mgr:    mgr,
		clk:    clk,
	}
}

// close releases the store and fails the command if any write was lost.
func (a *app) close() {
	_ = a.logger.Sync()
	if err := a.store.Close(); err != nil {
		exitErr("close store", err)
	}
	if err := a.mgr.PersistErr(); err != nil {
		exitErr("persist", err)
	}
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
