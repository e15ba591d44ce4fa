package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/indicatorn/smartmemo/internal/memo"
	"github.com/indicatorn/smartmemo/internal/model"
)

func init() {
	genre := &cobra.Command{
		Use:   "genre",
		Short: "Manage genres",
	}

	genre.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List genres with their active memo counts",
			Run:   runGenreList,
		},
		&cobra.Command{
			Use:   "add <name>",
			Short: "Create a genre",
			Args:  cobra.MinimumNArgs(1),
			Run:   runGenreAdd,
		},
		&cobra.Command{
			Use:   "rename <name> <new-name>",
			Short: "Rename a user genre and retag its memos",
			Args:  cobra.ExactArgs(2),
			Run:   runGenreRename,
		},
		&cobra.Command{
			Use:   "rm <name>",
			Short: "Delete a user genre and trash its memos",
			Args:  cobra.ExactArgs(1),
			Run:   runGenreRm,
		},
		&cobra.Command{
			Use:   "select [name]",
			Short: "Select the genre filter; no name shows all memos",
			Args:  cobra.MaximumNArgs(1),
			Run:   runGenreSelect,
		},
		&cobra.Command{
			Use:   "mv <name> <id>...",
			Short: "Move memos to a genre",
			Args:  cobra.MinimumNArgs(2),
			Run:   runGenreMv,
		},
	)

	RootCmd.AddCommand(genre)
}

type genreView struct {
	model.Genre
	Count    int  `json:"count"`
	Selected bool `json:"selected,omitempty"`
}

func runGenreList(cmd *cobra.Command, args []string) {
	a := openApp(cmd)
	genres := a.mgr.Genres()
	counts := a.mgr.GenreCounts()
	selected := a.mgr.SelectedGenre()
	a.close()

	views := make([]genreView, 0, len(genres))
	for _, g := range genres {
		views = append(views, genreView{Genre: g, Count: counts[g.Name], Selected: g.Name == selected})
	}

	w := cmd.OutOrStdout()
	if formatFlag != "text" {
		printJSON(w, views)
		return
	}
	for _, v := range views {
		mark := " "
		if v.Selected {
			mark = "*"
		}
		fmt.Fprintf(w, "%s %-20s %d\n", mark, v.Name, v.Count)
	}
}

func runGenreAdd(cmd *cobra.Command, args []string) {
	a := openApp(cmd)
	g, err := a.mgr.AddGenre(cmd.Context(), strings.Join(args, " "))
	a.close()
	if err != nil {
		exitErr("genre add", err)
	}

	printJSON(cmd.OutOrStdout(), g)
}

// genreID looks a genre up by name.
func genreID(mgr *memo.Manager, name string) (string, error) {
	for _, g := range mgr.Genres() {
		if g.Name == name {
			return g.ID, nil
		}
	}
	return "", fmt.Errorf("genre %q not found", name)
}

func runGenreRename(cmd *cobra.Command, args []string) {
	a := openApp(cmd)
	id, err := genreID(a.mgr, args[0])
	if err == nil {
		err = a.mgr.RenameGenre(cmd.Context(), id, args[1])
	}
	a.close()
	if err != nil {
		exitErr("genre rename", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"from":%q,"to":%q}`+"\n", args[0], strings.TrimSpace(args[1]))
}

func runGenreRm(cmd *cobra.Command, args []string) {
	a := openApp(cmd)
	before := len(a.mgr.AllDeleted())
	id, err := genreID(a.mgr, args[0])
	if err == nil {
		err = a.mgr.DeleteGenre(cmd.Context(), id)
	}
	trashed := len(a.mgr.AllDeleted()) - before
	a.close()
	if err != nil {
		exitErr("genre rm", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"genre":%q,"trashed":%d}`+"\n", args[0], trashed)
}

func runGenreSelect(cmd *cobra.Command, args []string) {
	name := ""
	if len(args) == 1 {
		name = args[0]
	}

	a := openApp(cmd)
	ok := a.mgr.SelectGenre(cmd.Context(), name)
	selected := a.mgr.SelectedGenre()
	a.close()
	if !ok {
		exitErr("genre select", fmt.Errorf("genre %q not found", name))
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"selected":%q}`+"\n", selected)
}

func runGenreMv(cmd *cobra.Command, args []string) {
	a := openApp(cmd)
	n := a.mgr.MoveToGenre(cmd.Context(), args[1:], args[0])
	a.close()

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"moved":%d}`+"\n", n)
}
