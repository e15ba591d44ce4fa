package cli

import (
	"github.com/spf13/cobra"

	"github.com/indicatorn/smartmemo/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show memo and storage statistics",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

type statsView struct {
	Active   int            `json:"active"`
	Deleted  int            `json:"deleted"`
	Genres   int            `json:"genres"`
	Selected string         `json:"selected_genre"`
	PerGenre map[string]int `json:"per_genre"`
	Pending  int            `json:"pending_triggers"`
	Storage  *store.Stats   `json:"storage"`
}

func runStats(cmd *cobra.Command, args []string) {
	a := openApp(cmd)
	st, err := a.store.Stats(cmd.Context())
	if err != nil {
		a.close()
		exitErr("stats", err)
	}
	pending, err := a.center.Pending(cmd.Context())
	if err != nil {
		a.close()
		exitErr("pending", err)
	}

	view := statsView{
		Active:   len(a.mgr.AllActive()),
		Deleted:  len(a.mgr.AllDeleted()),
		Genres:   len(a.mgr.Genres()),
		Selected: a.mgr.SelectedGenre(),
		PerGenre: a.mgr.GenreCounts(),
		Pending:  len(pending),
		Storage:  st,
	}
	a.close()

	printJSON(cmd.OutOrStdout(), view)
}
