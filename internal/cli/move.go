package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "move <from> <to>",
		Short: "Reorder active memos by zero-based position",
		Args:  cobra.ExactArgs(2),
		Run:   runMove,
	}

	RootCmd.AddCommand(cmd)
}

func runMove(cmd *cobra.Command, args []string) {
	from, err := strconv.Atoi(args[0])
	if err != nil {
		exitErr("move", fmt.Errorf("invalid position %q", args[0]))
	}
	to, err := strconv.Atoi(args[1])
	if err != nil {
		exitErr("move", fmt.Errorf("invalid position %q", args[1]))
	}

	a := openApp(cmd)
	ok := a.mgr.Move(cmd.Context(), from, to)
	a.close()
	if !ok {
		exitErr("move", fmt.Errorf("position out of range"))
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"from":%d,"to":%d}`+"\n", from, to)
}
