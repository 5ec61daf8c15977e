// pattern: Functional Core
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/term"

	"skillview/internal/catalog"
	"skillview/internal/present"
	"skillview/internal/usage"
)

const (
	branchMid  = "├─ "
	branchLast = "└─ "
	ellipsis   = "…"
)

var (
	nameStyle    = lipgloss.NewStyle().Bold(true)
	summaryStyle = lipgloss.NewStyle().Faint(true)
)

// terminalWidth returns the column count when w is a terminal, else 0
// (no truncation).
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(f.Fd()) {
		return 0
	}
	width, _, err := term.GetSize(f.Fd())
	if err != nil {
		return 0
	}
	return width
}

func fit(line string, width int) string {
	if width <= 0 {
		return line
	}
	return ansi.Truncate(line, width, ellipsis)
}

// RenderTree writes one line per entry, children indented under their group.
// Lines are cut to width columns when width > 0.
func RenderTree(w io.Writer, entries []catalog.Entry, p *present.Presenter, stats usage.Stats, width int) {
	if len(entries) == 0 {
		fmt.Fprintln(w, p.T(present.KeyNoSkills))
		return
	}

	for _, e := range entries {
		fmt.Fprintln(w, fit(entryLine("", e, p, stats), width))
		for i, c := range e.Children {
			prefix := "   " + branchMid
			if i == len(e.Children)-1 {
				prefix = "   " + branchLast
			}
			fmt.Fprintln(w, fit(entryLine(prefix, c, p, stats), width))
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, p.T(present.KeyTotalSkills, catalog.Count(entries)))
}

func entryLine(prefix string, e catalog.Entry, p *present.Presenter, stats usage.Stats) string {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(p.Icon(e))
	b.WriteString(" ")
	b.WriteString(nameStyle.Render(p.Name(e)))
	if rec, ok := stats[e.ID]; ok && rec.Count > 0 {
		b.WriteString(" [")
		b.WriteString(p.T(present.KeyTimes, rec.Count))
		b.WriteString("]")
	}
	b.WriteString("  ")
	b.WriteString(summaryStyle.Render(oneLine(p.Summary(e))))
	return b.String()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// RenderDetail writes everything known about one entry.
func RenderDetail(w io.Writer, e catalog.Entry, p *present.Presenter, rec usage.Record, width int) {
	fmt.Fprintf(w, "%s %s\n", p.Icon(e), nameStyle.Render(p.Name(e)))
	fmt.Fprintf(w, "id: %s\n", e.ID)
	fmt.Fprintf(w, "%s: %s\n", p.T(present.KeyPath), e.Path)
	if rec.Count > 0 {
		fmt.Fprintf(w, "%s: %s (%s %s)\n",
			p.T(present.KeyUsed), p.T(present.KeyTimes, rec.Count),
			p.T(present.KeyLastUsed), rec.LastUsed.Local().Format("2006-01-02 15:04"))
	}
	fmt.Fprintln(w)

	detail := p.Detail(e)
	if width > 0 {
		detail = ansi.Wrap(detail, width, "")
	}
	fmt.Fprintln(w, detail)

	if len(e.Children) > 0 {
		fmt.Fprintf(w, "\n%s:\n", p.T(present.KeyChildSkills))
		for _, c := range e.Children {
			fmt.Fprintln(w, fit(entryLine("  ", c, p, nil), width))
		}
	}
}

// RenderUsage writes usage records, most used first.
func RenderUsage(w io.Writer, stats usage.Stats) {
	ranked := stats.Rank()
	if len(ranked) == 0 {
		fmt.Fprintln(w, "No usage recorded yet.")
		return
	}
	for _, r := range ranked {
		fmt.Fprintf(w, "%-40s %6d  %s\n", r.ID, r.Count, r.LastUsed.Local().Format("2006-01-02 15:04"))
	}
}

// WriteJSON encodes v to w, indented when w is a terminal.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	if terminalWidth(w) > 0 {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
