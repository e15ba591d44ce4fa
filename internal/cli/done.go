package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle a memo's completed flag",
		Args:  cobra.ExactArgs(1),
		Run:   runDone,
	}

	RootCmd.AddCommand(cmd)
}

func runDone(cmd *cobra.Command, args []string) {
	a := openApp(cmd)
	m, ok := a.mgr.ToggleCompletion(cmd.Context(), args[0])
	a.close()
	if !ok {
		exitErr("done", errNotFound(args[0]))
	}

	printMemo(cmd.OutOrStdout(), m)
}
