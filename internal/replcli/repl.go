// internal/replcli/repl.go
//
// An interactive prompt over an in-process parser.Engine, grounded on
// Hareesh108-haruDB/cmd/cli/main.go's use of github.com/peterh/liner for
// readline history — minus that file's TCP dialog, since GatorDB is a
// single-process embedded store with no network protocol (spec.md §9).
// Result tables are rendered with github.com/charmbracelet/lipgloss's
// table subpackage, following the style of
// untoldecay-BeadsLog/internal/ui/table.go.
package replcli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/peterh/liner"

	"github.com/liamrosenfeld/gatordb/internal/parser"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

const historyFileName = ".gatordb_history"

// Run starts the interactive loop, reading statements from stdin until
// "exit" or "quit" (case-insensitive) or EOF.
func Run(e *parser.Engine, out io.Writer) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyPath := filepath.Join(os.TempDir(), historyFileName)
	if f, err := os.Open(historyPath); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	fmt.Fprintln(out, "Welcome to GatorDB!")
	fmt.Fprintln(out, "Type a statement, or 'exit'/'quit' to leave.")

	for {
		input, err := line.Prompt("$ ")
		if err != nil {
			break
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			break
		}

		res, err := e.Execute(input)
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render(err.Error()))
			continue
		}
		render(out, res)
	}

	if f, err := os.Create(historyPath); err == nil {
		line.WriteHistory(f)
		f.Close()
	}
	return nil
}

func render(out io.Writer, res parser.Result) {
	if res.Columns == nil {
		fmt.Fprintln(out, res.Message)
		return
	}
	if len(res.Rows) == 0 {
		fmt.Fprintln(out, "(no rows)")
		return
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(toHeaderRow(res.Columns)...)

	for _, row := range res.Rows {
		cells := make([]string, len(res.Columns))
		for i, col := range res.Columns {
			cells[i] = fmt.Sprintf("%v", row[col])
		}
		t.Row(cells...)
	}
	fmt.Fprintln(out, t.Render())
}

func toHeaderRow(cols []string) []string {
	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = headerStyle.Render(c)
	}
	return headers
}
