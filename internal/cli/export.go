package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/indicatorn/smartmemo/internal/store"
)

func init() {
	export := &cobra.Command{
		Use:   "export",
		Short: "Export memos and genres as JSON",
		Run:   runExport,
	}

	imp := &cobra.Command{
		Use:   "import [file]",
		Short: "Import memos and genres from JSON",
		Long:  "Import a dump (file or stdin) in the format produced by export. Existing memo ids and genre names are skipped.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runImport,
	}

	RootCmd.AddCommand(export, imp)
}

func runExport(cmd *cobra.Command, args []string) {
	a := openApp(cmd)
	dump, err := store.ExportAll(cmd.Context(), a.store)
	a.close()
	if err != nil {
		exitErr("export", err)
	}

	printJSON(cmd.OutOrStdout(), dump)
}

func runImport(cmd *cobra.Command, args []string) {
	var (
		data []byte
		err  error
	)
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		exitErr("read input", err)
	}

	var dump store.Dump
	if err := json.Unmarshal(data, &dump); err != nil {
		exitErr("parse json", err)
	}

	a := openApp(cmd)
	res := a.mgr.Import(cmd.Context(), dump)
	a.close()

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"memos":%d,"deleted":%d,"genres":%d}`+"\n", res.Memos, res.Deleted, res.Genres)
}
