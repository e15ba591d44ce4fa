package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/indicatorn/smartmemo/internal/model"
)

const timeLayout = "2006-01-02 15:04"

func errNotFound(id string) error {
	return fmt.Errorf("memo %q not found", id)
}

func printJSON(w io.Writer, v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(b))
}

func printMemos(w io.Writer, memos []model.Memo) {
	if formatFlag != "text" {
		if memos == nil {
			memos = []model.Memo{}
		}
		printJSON(w, memos)
		return
	}
	for _, m := range memos {
		printMemoLine(w, m)
	}
}

func printMemo(w io.Writer, m model.Memo) {
	if formatFlag == "text" {
		printMemoLine(w, m)
		return
	}
	printJSON(w, m)
}

func printMemoLine(w io.Writer, m model.Memo) {
	mark := " "
	if m.Completed {
		mark = "x"
	}
	line := fmt.Sprintf("[%s] %s  %s  (%s)", mark, m.ID, m.Title, m.Genre)
	if m.NotificationAt != nil {
		line += "  @ " + m.NotificationAt.Local().Format(timeLayout)
		if !m.RepeatRule.IsNone() {
			line += " repeat=" + string(m.RepeatRule)
		}
		if !m.SnoozeRule.IsNone() {
			line += " snooze=" + string(m.SnoozeRule)
		}
	}
	fmt.Fprintln(w, line)
}

// parseAt accepts RFC 3339 or "YYYY-MM-DD HH:MM" in local time.
func parseAt(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(timeLayout, s, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid time %q (use RFC 3339 or %q)", s, timeLayout)
	}
	return &t, nil
}

// readContent takes the positional args, or stdin when it is piped.
func readContent(args []string) (string, error) {
	if len(args) > 0 {
		return strings.TrimSpace(strings.Join(args, " ")), nil
	}
	stat, _ := os.Stdin.Stat()
	if stat == nil || (stat.Mode()&os.ModeCharDevice) != 0 {
		return "", nil
	}
	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
