package formatting

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	pkgstrings "wakeplay/pkg/strings"
)

// TableFormatter provides rich table output formatting
type TableFormatter struct {
	options Options
}

// FormatProfiles renders one row per target.
func (f *TableFormatter) FormatProfiles(w io.Writer, profiles []ProfileView) error {
	if len(profiles) == 0 {
		return f.formatEmptyMessage(w, "📋", "No targets found")
	}
	t := f.createTable(w)
	t.AppendHeader(f.header("ID", "NAME", "SOURCE", "ALIASES", "LINKS", "SEARCH", "RECIPE", "QUIRKS", "COLD START"))
	for _, p := range profiles {
		t.AppendRow(table.Row{
			f.highlight(p.ID),
			p.Name,
			p.Source,
			strings.Join(p.Aliases, "\n"),
			fmt.Sprintf("%d+%d", p.Configured, p.Hardcoded),
			yesNo(p.Search),
			yesNo(p.Recipe),
			strings.Join(p.Quirks, ", "),
			p.ColdStart,
		})
	}
	t.Render()
	return nil
}

// FormatMemory renders remembered launch methods.
func (f *TableFormatter) FormatMemory(w io.Writer, records []MemoryView) error {
	if len(records) == 0 {
		return f.formatEmptyMessage(w, "🧠", "No remembered launch methods")
	}
	t := f.createTable(w)
	t.AppendHeader(f.header("KEY", "STRATEGY"))
	for _, r := range records {
		strategy := r.Strategy
		if !r.Valid {
			strategy = f.color(text.FgRed, strategy+" (unreadable)")
		}
		t.AppendRow(table.Row{pkgstrings.Truncate(r.Key, pkgstrings.DefaultCellMaxLen), strategy})
	}
	t.Render()
	return nil
}

// FormatOutcome prints a one-line verdict followed by the trace, if any.
func (f *TableFormatter) FormatOutcome(w io.Writer, o OutcomeView) error {
	switch o.Result {
	case "success":
		fmt.Fprintf(w, "%s %s launched via %s (%s)\n", f.color(text.FgGreen, "✓"), o.Target, o.Strategy, o.Method)
	case "notInstalled":
		fmt.Fprintf(w, "%s %s is not installed\n", f.color(text.FgYellow, "!"), o.Target)
	default:
		fmt.Fprintf(w, "%s %s: %s\n", f.color(text.FgRed, "✗"), o.Target, o.Reason)
	}

	if len(o.Trace) > 0 && !f.options.Quiet {
		t := f.createTable(w)
		t.AppendHeader(f.header("#", "STATE"))
		for i, step := range o.Trace {
			t.AppendRow(table.Row{i + 1, step})
		}
		t.Render()
	}
	return nil
}

// FormatLaunches renders tracked launches.
func (f *TableFormatter) FormatLaunches(w io.Writer, launches []LaunchView) error {
	if len(launches) == 0 {
		return f.formatEmptyMessage(w, "📋", "No launches")
	}
	t := f.createTable(w)
	t.AppendHeader(f.header("ID", "TARGET", "STATE", "RESULT", "DURATION"))
	for _, l := range launches {
		t.AppendRow(table.Row{l.ID, l.Target, l.State, l.Result, l.Duration})
	}
	t.Render()
	return nil
}

// FormatChecks renders diagnostics with a coloured status column.
func (f *TableFormatter) FormatChecks(w io.Writer, checks []CheckView) error {
	t := f.createTable(w)
	t.AppendHeader(f.header("CHECK", "STATUS", "DETAIL"))
	for _, c := range checks {
		status := string(c.Status)
		switch c.Status {
		case CheckOK:
			status = f.color(text.FgGreen, status)
		case CheckWarn:
			status = f.color(text.FgYellow, status)
		case CheckFail:
			status = f.color(text.FgRed, status)
		}
		t.AppendRow(table.Row{c.Name, status, pkgstrings.Truncate(c.Detail, pkgstrings.DefaultCellMaxLen)})
	}
	t.Render()
	return nil
}

func (f *TableFormatter) Options() Options {
	return f.options
}

// Helper methods

// createTable creates a new table with standard styling
func (f *TableFormatter) createTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	if f.options.Quiet {
		t.SetStyle(table.StyleLight)
		t.Style().Options.DrawBorder = false
		t.Style().Options.SeparateColumns = false
	} else {
		t.SetStyle(table.StyleRounded)
	}
	return t
}

func (f *TableFormatter) header(names ...string) table.Row {
	row := make(table.Row, len(names))
	for i, n := range names {
		row[i] = f.color(text.FgHiCyan, n)
	}
	return row
}

func (f *TableFormatter) highlight(s string) string {
	return f.color(text.Bold, s)
}

func (f *TableFormatter) color(c text.Color, s string) string {
	if !f.options.Color {
		return s
	}
	return c.Sprint(s)
}

// formatEmptyMessage formats empty result messages
func (f *TableFormatter) formatEmptyMessage(w io.Writer, icon, message string) error {
	if f.options.Quiet {
		icon = ""
	} else {
		icon += " "
	}
	_, err := fmt.Fprintf(w, "%s%s\n", f.color(text.FgYellow, icon), f.color(text.FgYellow, message))
	return err
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "-"
}
