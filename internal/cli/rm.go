package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rm <id>...",
		Short: "Move memos to the trash",
		Args:  cobra.MinimumNArgs(1),
		Run:   runRm,
	}

	cmd.Flags().Bool("hard", false, "Permanent delete (irreversible)")

	RootCmd.AddCommand(cmd)
}

func runRm(cmd *cobra.Command, args []string) {
	hard, _ := cmd.Flags().GetBool("hard")
	ctx := cmd.Context()

	a := openApp(cmd)
	var deleted, purged int
	if len(args) == 1 {
		if a.mgr.Delete(ctx, args[0]) {
			deleted = 1
		}
		if hard && a.mgr.Purge(ctx, args[0]) {
			purged = 1
		}
	} else {
		deleted = a.mgr.BulkDelete(ctx, args)
		if hard {
			purged = a.mgr.BulkPurge(ctx, args)
		}
	}
	a.close()

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"deleted":%d,"purged":%d}`+"\n", deleted, purged)
}
