package formatting

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONFormatter provides structured JSON output formatting
type JSONFormatter struct {
	options Options
}

func (f *JSONFormatter) FormatProfiles(w io.Writer, profiles []ProfileView) error {
	return f.write(w, nonNil(profiles))
}

func (f *JSONFormatter) FormatMemory(w io.Writer, records []MemoryView) error {
	return f.write(w, nonNil(records))
}

func (f *JSONFormatter) FormatOutcome(w io.Writer, outcome OutcomeView) error {
	return f.write(w, outcome)
}

func (f *JSONFormatter) FormatLaunches(w io.Writer, launches []LaunchView) error {
	return f.write(w, nonNil(launches))
}

func (f *JSONFormatter) FormatChecks(w io.Writer, checks []CheckView) error {
	return f.write(w, nonNil(checks))
}

func (f *JSONFormatter) Options() Options {
	return f.options
}

// write marshals data, compact in quiet mode and indented otherwise.
func (f *JSONFormatter) write(w io.Writer, data interface{}) error {
	var out []byte
	var err error
	if f.options.Quiet {
		out, err = json.Marshal(data)
	} else {
		out, err = json.MarshalIndent(data, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to encode JSON output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// nonNil makes empty lists encode as [] instead of null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
