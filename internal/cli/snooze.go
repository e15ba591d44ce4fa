package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/indicatorn/smartmemo/internal/model"
	"github.com/indicatorn/smartmemo/internal/notify"
)

func init() {
	snooze := &cobra.Command{
		Use:   "snooze <id> <rule>",
		Short: "Snooze a delivered reminder (1min, 5min, 10min, 30min, 1hour)",
		Args:  cobra.ExactArgs(2),
		Run:   runSnooze,
	}

	stop := &cobra.Command{
		Use:   "stop-snooze <id>",
		Short: "Cancel every pending snooze link of a memo",
		Args:  cobra.ExactArgs(1),
		Run:   runStopSnooze,
	}

	pending := &cobra.Command{
		Use:   "pending [id]",
		Short: "List pending triggers",
		Args:  cobra.MaximumNArgs(1),
		Run:   runPending,
	}

	RootCmd.AddCommand(snooze, stop, pending)
}

func runSnooze(cmd *cobra.Command, args []string) {
	rule, err := model.ParseSnoozeRule(args[1])
	if err != nil {
		exitErr("snooze", err)
	}

	a := openApp(cmd)
	ok := a.mgr.OnSnoozeActionChosen(cmd.Context(), args[0], rule)
	a.close()

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":%t,"id":%q,"rule":%q}`+"\n", ok, args[0], rule)
}

func runStopSnooze(cmd *cobra.Command, args []string) {
	a := openApp(cmd)
	a.mgr.OnStopSnoozeChosen(cmd.Context(), args[0])
	a.close()

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"id":%q}`+"\n", args[0])
}

func runPending(cmd *cobra.Command, args []string) {
	a := openApp(cmd)
	var (
		reqs []notify.Request
		err  error
	)
	if len(args) == 1 {
		reqs, err = a.engine.Pending(cmd.Context(), args[0])
	} else {
		reqs, err = a.center.Pending(cmd.Context())
	}
	a.close()
	if err != nil {
		exitErr("pending", err)
	}

	if reqs == nil {
		reqs = []notify.Request{}
	}
	printJSON(cmd.OutOrStdout(), reqs)
}
