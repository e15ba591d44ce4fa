package cli

import (
	"github.com/spf13/cobra"

	"github.com/indicatorn/smartmemo/internal/model"
)

func init() {
	list := &cobra.Command{
		Use:   "list",
		Short: "List memos under the selected genre",
		Run:   runList,
	}
	list.Flags().Bool("deleted", false, "List the trash instead")
	list.Flags().StringP("genre", "g", "", "Genre to show instead of the selected one")
	list.Flags().Bool("all-genres", false, "Ignore the genre filter")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one memo",
		Args:  cobra.ExactArgs(1),
		Run:   runGet,
	}

	search := &cobra.Command{
		Use:   "search <query>",
		Short: "Find memos whose title contains the query",
		Args:  cobra.MinimumNArgs(1),
		Run:   runSearch,
	}
	search.Flags().Bool("deleted", false, "Search the trash instead")

	RootCmd.AddCommand(list, get, search)
}

func runList(cmd *cobra.Command, args []string) {
	deleted, _ := cmd.Flags().GetBool("deleted")
	genre, _ := cmd.Flags().GetString("genre")
	allGenres, _ := cmd.Flags().GetBool("all-genres")
	if allGenres {
		genre = model.AllNotesGenre
	}

	a := openApp(cmd)
	var memos []model.Memo
	switch {
	case genre != "":
		memos = a.mgr.InGenre(genre, deleted)
	case deleted:
		memos = a.mgr.Deleted()
	default:
		memos = a.mgr.Active()
	}
	a.close()

	printMemos(cmd.OutOrStdout(), memos)
}

func runGet(cmd *cobra.Command, args []string) {
	a := openApp(cmd)
	m, ok := a.mgr.Get(args[0])
	a.close()
	if !ok {
		exitErr("get", errNotFound(args[0]))
	}

	printMemo(cmd.OutOrStdout(), m)
}

func runSearch(cmd *cobra.Command, args []string) {
	deleted, _ := cmd.Flags().GetBool("deleted")
	query, _ := readContent(args)

	a := openApp(cmd)
	memos := a.mgr.Search(query, deleted)
	a.close()

	printMemos(cmd.OutOrStdout(), memos)
}
