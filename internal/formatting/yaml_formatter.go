package formatting

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLFormatter provides YAML output formatting
type YAMLFormatter struct {
	options Options
}

func (f *YAMLFormatter) FormatProfiles(w io.Writer, profiles []ProfileView) error {
	return f.write(w, nonNil(profiles))
}

func (f *YAMLFormatter) FormatMemory(w io.Writer, records []MemoryView) error {
	return f.write(w, nonNil(records))
}

func (f *YAMLFormatter) FormatOutcome(w io.Writer, outcome OutcomeView) error {
	return f.write(w, outcome)
}

func (f *YAMLFormatter) FormatLaunches(w io.Writer, launches []LaunchView) error {
	return f.write(w, nonNil(launches))
}

func (f *YAMLFormatter) FormatChecks(w io.Writer, checks []CheckView) error {
	return f.write(w, nonNil(checks))
}

func (f *YAMLFormatter) Options() Options {
	return f.options
}

func (f *YAMLFormatter) write(w io.Writer, data interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("failed to encode YAML output: %w", err)
	}
	return enc.Close()
}
