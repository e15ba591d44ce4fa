package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/indicatorn/smartmemo/internal/memo"
	"github.com/indicatorn/smartmemo/internal/notify"
)

func init() {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Deliver due reminders until interrupted",
		Long:  "Poll the notification center, deliver due reminders to the log and to Telegram or Slack when configured, and keep snooze chains going.",
		Run:   runRun,
	}

	cmd.Flags().Duration("tick", 0, "Polling interval (default: dispatch.tick from config)")

	RootCmd.AddCommand(cmd)
}

func buildSinks(a *app) []notify.Sink {
	sinks := []notify.Sink{notify.NewLogSink(a.logger)}

	if tg := a.cfg.Telegram; tg.Token != "" {
		s, err := notify.NewTelegramSink(tg.Token, tg.ChatID)
		if err != nil {
			a.logger.Error("telegram sink disabled", zap.Error(err))
		} else {
			sinks = append(sinks, s)
		}
	}

	if url := a.cfg.Slack.WebhookURL; url != "" {
		s, err := notify.NewSlackSink(url)
		if err != nil {
			a.logger.Error("slack sink disabled", zap.Error(err))
		} else {
			sinks = append(sinks, s)
		}
	}
	return sinks
}

// logEvents reports manager events until ctx is done.
func logEvents(ctx context.Context, mgr *memo.Manager, logger *zap.Logger) error {
	events, unsubscribe := mgr.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-events:
			if !ok {
				return nil
			}
			if e.Type == memo.EventPersistFailed {
				logger.Error("memo state not saved", zap.Error(e.Err))
				continue
			}
			logger.Debug("memo event",
				zap.String("type", string(e.Type)),
				zap.String("memo_id", e.MemoID))
		}
	}
}

func runRun(cmd *cobra.Command, args []string) {
	a := openApp(cmd)
	defer a.close()

	tick := a.cfg.Dispatch.Tick
	if t, _ := cmd.Flags().GetDuration("tick"); t > 0 {
		tick = t
	}
	if a.cfg.Notify.Center != "sql" || a.cfg.Store.Driver == "memory" {
		a.logger.Warn("in-memory notification center only sees triggers scheduled by this process")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Other smartmemo processes write the same store, so state is reloaded
	// before each chain decision.
	onSnooze := func(ctx context.Context, memoID string, firedAt time.Time, count int) {
		if err := a.mgr.Load(ctx); err != nil {
			a.logger.Error("failed to reload memos", zap.Error(err))
			return
		}
		if !a.mgr.OnSnoozeChainContinue(ctx, memoID, firedAt, count) {
			a.logger.Debug("snooze chain ended", zap.String("memo_id", memoID), zap.Int("count", count))
		}
	}

	d := notify.NewDispatcher(a.center, a.clk, a.logger,
		notify.WithTick(tick),
		notify.WithSinks(buildSinks(a)...),
		notify.WithSnoozeHandler(onSnooze),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return d.Run(ctx)
	})
	g.Go(func() error {
		return logEvents(ctx, a.mgr, a.logger)
	})

	if err := g.Wait(); err != nil {
		a.logger.Error("run failed", zap.Error(err))
	}
}
