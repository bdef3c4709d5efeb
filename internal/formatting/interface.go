// Package formatting renders wakeplay's command output as tables, JSON or
// YAML.
//
// Commands convert domain values into the view types of this package
// (ProfileView, MemoryView, OutcomeView, LaunchView, CheckView) and hand
// them to the Formatter selected by --output.
package formatting

import (
	"fmt"
	"io"
	"strings"
)

// OutputFormat selects a Formatter.
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
)

// ParseFormat accepts table, json or yaml (case-insensitive).
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want table, json or yaml)", s)
	}
}

// Options controls how a formatter decorates its output.
type Options struct {
	Format OutputFormat
	Quiet  bool // no banners, hints or traces
	Color  bool
}

// Formatter renders command results.
type Formatter interface {
	FormatProfiles(w io.Writer, profiles []ProfileView) error
	FormatMemory(w io.Writer, records []MemoryView) error
	FormatOutcome(w io.Writer, outcome OutcomeView) error
	FormatLaunches(w io.Writer, launches []LaunchView) error
	FormatChecks(w io.Writer, checks []CheckView) error
	Options() Options
}

// New returns the formatter for options.Format; unknown formats get a table.
func New(options Options) Formatter {
	switch options.Format {
	case FormatJSON:
		return &JSONFormatter{options: options}
	case FormatYAML:
		return &YAMLFormatter{options: options}
	default:
		return &TableFormatter{options: options}
	}
}
