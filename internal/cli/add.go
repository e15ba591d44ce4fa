package cli

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/indicatorn/smartmemo/internal/memo"
	"github.com/indicatorn/smartmemo/internal/model"
)

var validate = validator.New()

// memoInput is the flag set shared by add and edit.
type memoInput struct {
	Title  string `validate:"required,max=1000"`
	At     string
	Repeat string `validate:"omitempty,oneof=none every_30min every_hour daily weekly monthly"`
	Snooze string `validate:"omitempty,oneof=none 1min 5min 10min 30min 1hour"`
	Genre  string `validate:"max=100"`
}

type parsedInput struct {
	at     *time.Time
	repeat model.RepeatRule
	snooze model.SnoozeRule
}

func (in memoInput) parse() (parsedInput, error) {
	if err := validate.Struct(in); err != nil {
		return parsedInput{}, err
	}
	at, err := parseAt(in.At)
	if err != nil {
		return parsedInput{}, err
	}
	repeat, err := model.ParseRepeatRule(in.Repeat)
	if err != nil {
		return parsedInput{}, err
	}
	snooze, err := model.ParseSnoozeRule(in.Snooze)
	if err != nil {
		return parsedInput{}, err
	}
	return parsedInput{at: at, repeat: repeat, snooze: snooze}, nil
}

func addMemoFlags(cmd *cobra.Command) {
	cmd.Flags().String("at", "", `Reminder time, RFC 3339 or "YYYY-MM-DD HH:MM" local`)
	cmd.Flags().StringP("repeat", "r", "", "Repeat: none, every_30min, every_hour, daily, weekly, monthly")
	cmd.Flags().StringP("snooze", "s", "", "Snooze: none, 1min, 5min, 10min, 30min, 1hour")
	cmd.Flags().StringP("genre", "g", "", "Genre (created when missing)")
}

func init() {
	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Create a memo",
		Long:  "Create a memo. The title can be a positional arg or piped via stdin.",
		Run:   runAdd,
	}
	addMemoFlags(cmd)

	RootCmd.AddCommand(cmd)
}

func runAdd(cmd *cobra.Command, args []string) {
	title, err := readContent(args)
	if err != nil {
		exitErr("read stdin", err)
	}

	in := memoInput{Title: title}
	in.At, _ = cmd.Flags().GetString("at")
	in.Repeat, _ = cmd.Flags().GetString("repeat")
	in.Snooze, _ = cmd.Flags().GetString("snooze")
	in.Genre, _ = cmd.Flags().GetString("genre")

	p, err := in.parse()
	if err != nil {
		exitErr("add", fmt.Errorf("invalid input: %w", err))
	}

	a := openApp(cmd)
	m := a.mgr.Create(cmd.Context(), memo.CreateParams{
		Title:          in.Title,
		NotificationAt: p.at,
		RepeatRule:     p.repeat,
		SnoozeRule:     p.snooze,
		Genre:          in.Genre,
	})
	a.close()

	printMemo(cmd.OutOrStdout(), m)
}
