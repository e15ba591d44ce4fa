package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/indicatorn/smartmemo/internal/memo"
)

func init() {
	cmd := &cobra.Command{
		Use:   "edit <id> [title]",
		Short: "Edit a memo",
		Long:  "Edit an active memo. Only the given fields change; the reminder is rebuilt.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runEdit,
	}
	addMemoFlags(cmd)
	cmd.Flags().Bool("clear-at", false, "Remove the reminder")

	RootCmd.AddCommand(cmd)
}

func runEdit(cmd *cobra.Command, args []string) {
	id := args[0]
	flags := cmd.Flags()

	a := openApp(cmd)
	cur, ok := a.mgr.Get(id)
	if !ok || cur.Deleted {
		a.close()
		exitErr("edit", errNotFound(id))
	}

	in := memoInput{
		Title:  cur.Title,
		Repeat: string(cur.RepeatRule),
		Snooze: string(cur.SnoozeRule),
		Genre:  cur.Genre,
	}
	if len(args) > 1 {
		in.Title = strings.TrimSpace(strings.Join(args[1:], " "))
	}
	if flags.Changed("at") {
		in.At, _ = flags.GetString("at")
	}
	if flags.Changed("repeat") {
		in.Repeat, _ = flags.GetString("repeat")
	}
	if flags.Changed("snooze") {
		in.Snooze, _ = flags.GetString("snooze")
	}
	if flags.Changed("genre") {
		in.Genre, _ = flags.GetString("genre")
	}

	p, err := in.parse()
	if err != nil {
		a.close()
		exitErr("edit", fmt.Errorf("invalid input: %w", err))
	}

	at := cur.NotificationAt
	if flags.Changed("at") {
		at = p.at
	}
	if clearAt, _ := flags.GetBool("clear-at"); clearAt {
		at = nil
	}

	m, _ := a.mgr.Update(cmd.Context(), id, memo.UpdateParams{
		Title:          in.Title,
		NotificationAt: at,
		RepeatRule:     p.repeat,
		SnoozeRule:     p.snooze,
		Genre:          in.Genre,
	})
	a.close()

	printMemo(cmd.OutOrStdout(), m)
}
