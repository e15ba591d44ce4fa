package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	restore := &cobra.Command{
		Use:   "restore [id...]",
		Short: "Restore memos from the trash",
		Long:  "Restore memos from the trash. --all restores every trashed memo visible under the selected genre.",
		Run:   runRestore,
	}
	restore.Flags().Bool("all", false, "Restore everything under the selected genre")

	purge := &cobra.Command{
		Use:   "purge [id...]",
		Short: "Permanently delete memos from the trash",
		Long:  "Permanently delete trashed memos. --all purges every trashed memo visible under the selected genre.",
		Run:   runPurge,
	}
	purge.Flags().Bool("all", false, "Purge everything under the selected genre")

	RootCmd.AddCommand(restore, purge)
}

func runRestore(cmd *cobra.Command, args []string) {
	all, _ := cmd.Flags().GetBool("all")
	if !all && len(args) == 0 {
		exitErr("restore", fmt.Errorf("give memo ids or --all"))
	}

	a := openApp(cmd)
	var n int
	switch {
	case all:
		n = a.mgr.RestoreAll(cmd.Context())
	case len(args) == 1:
		if a.mgr.Restore(cmd.Context(), args[0]) {
			n = 1
		}
	default:
		n = a.mgr.BulkRestore(cmd.Context(), args)
	}
	a.close()

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"restored":%d}`+"\n", n)
}

func runPurge(cmd *cobra.Command, args []string) {
	all, _ := cmd.Flags().GetBool("all")
	if !all && len(args) == 0 {
		exitErr("purge", fmt.Errorf("give memo ids or --all"))
	}

	a := openApp(cmd)
	var n int
	switch {
	case all:
		n = a.mgr.PurgeAll(cmd.Context())
	case len(args) == 1:
		if a.mgr.Purge(cmd.Context(), args[0]) {
			n = 1
		}
	default:
		n = a.mgr.BulkPurge(cmd.Context(), args)
	}
	a.close()

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"purged":%d}`+"\n", n)
}
