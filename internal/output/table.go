package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/ossvet/ghc/internal/audit"
	"github.com/ossvet/ghc/internal/model"
	"golang.org/x/term"
)

// Column widths for the contribution tables.
const (
	colHandle = 40
	colCount  = 10
)

// TableFormatter renders the per-author and per-repository contribution
// tables.
type TableFormatter struct{}

var headerColor = color.New(color.Bold)

// Format writes the author table followed by the per-repository view.
func (f *TableFormatter) Format(report *audit.Report, w io.Writer) error {
	if len(report.Outputs) == 0 {
		fmt.Fprintln(w, "No contributions found.")
		return nil
	}

	printHeader(w, "handle")

	total := 0
	for _, output := range sortOutputs(report.Outputs) {
		counts := model.CountsOf(output.Contributions)
		printRow(w, output.Handle(), counts)
		total += counts.Total()
	}
	fmt.Fprintf(w, "Total Contributions: %d\n", total)

	fmt.Fprintln(w, "--")

	printHeader(w, "repo")

	repoTotal := 0
	for _, row := range sortRepos(report.PerRepo) {
		counts := model.CountsOf(row.contributions)
		printRow(w, row.repo.String(), counts)
		repoTotal += counts.Total()
	}
	fmt.Fprintf(w, "Total Contributions: %d\n", repoTotal)

	return nil
}

func printHeader(w io.Writer, label string) {
	line := fmt.Sprintf("%s %s %s %s %s\n",
		padRight(label, colHandle),
		padRight("issues", colCount),
		padRight("reviews", colCount),
		padRight("commits", colCount),
		"all")
	if isTerminal(w) {
		headerColor.Fprint(w, line)
		return
	}
	fmt.Fprint(w, line)
}

// isTerminal reports whether w is an interactive terminal. Bold headers are
// suppressed when output is piped or redirected.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func printRow(w io.Writer, handle string, counts model.Counts) {
	fmt.Fprintf(w, "%s %s %s %s %d\n",
		padRight(truncate(handle, colHandle), colHandle),
		padRight(fmt.Sprintf("%d", counts.Issues), colCount),
		padRight(fmt.Sprintf("%d", counts.Reviews), colCount),
		padRight(fmt.Sprintf("%d", counts.Commits), colCount),
		counts.Total())
}

// padRight pads a string with spaces to the target display width, accounting
// for wide runes.
func padRight(s string, width int) string {
	visible := runewidth.StringWidth(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

// truncate shortens a string to maxWidth display columns with an ellipsis.
func truncate(s string, maxWidth int) string {
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	return runewidth.Truncate(s, maxWidth, "...")
}
