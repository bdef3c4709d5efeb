package config

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// ErrorKind classifies why a target file was skipped.
type ErrorKind string

const (
	ErrorIO         ErrorKind = "io"
	ErrorParse      ErrorKind = "parse"
	ErrorValidation ErrorKind = "validation"
	ErrorDuplicate  ErrorKind = "duplicate"
)

// ConfigurationError describes one target file that could not be used.
// Loading continues without it.
type ConfigurationError struct {
	Path    string    `json:"path" yaml:"path"`
	Target  string    `json:"target" yaml:"target"`
	Kind    ErrorKind `json:"kind" yaml:"kind"`
	Message string    `json:"message" yaml:"message"`
	Hint    string    `json:"hint,omitempty" yaml:"hint,omitempty"`
}

func (ce ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", filepath.Base(ce.Path), ce.Kind, ce.Message)
}

// ConfigurationErrorCollection holds the files skipped by one load.
type ConfigurationErrorCollection struct {
	Errors []ConfigurationError `json:"errors"`
}

func NewConfigurationErrorCollection() *ConfigurationErrorCollection {
	return &ConfigurationErrorCollection{Errors: make([]ConfigurationError, 0)}
}

func (cec ConfigurationErrorCollection) Error() string {
	switch len(cec.Errors) {
	case 0:
		return "no configuration errors"
	case 1:
		return cec.Errors[0].Error()
	}
	return fmt.Sprintf("%d target files skipped: %s (and %d more)",
		len(cec.Errors), cec.Errors[0].Error(), len(cec.Errors)-1)
}

func (cec *ConfigurationErrorCollection) Add(err ConfigurationError) {
	cec.Errors = append(cec.Errors, err)
}

// Addf records a skipped file with a formatted message.
func (cec *ConfigurationErrorCollection) Addf(path, targetID string, kind ErrorKind, format string, args ...interface{}) {
	cec.Add(ConfigurationError{Path: path, Target: targetID, Kind: kind, Message: fmt.Sprintf(format, args...)})
}

func (cec *ConfigurationErrorCollection) HasErrors() bool {
	return len(cec.Errors) > 0
}

func (cec *ConfigurationErrorCollection) Count() int {
	return len(cec.Errors)
}

// Skipped returns the sorted IDs of the targets whose files were skipped.
func (cec *ConfigurationErrorCollection) Skipped() []string {
	seen := make(map[string]bool, len(cec.Errors))
	var ids []string
	for _, ce := range cec.Errors {
		if ce.Target == "" || seen[ce.Target] {
			continue
		}
		seen[ce.Target] = true
		ids = append(ids, ce.Target)
	}
	sort.Strings(ids)
	return ids
}

// Report renders every skipped file on its own line, followed by its hint.
func (cec *ConfigurationErrorCollection) Report() string {
	if len(cec.Errors) == 0 {
		return "all target files loaded"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d target files skipped:", len(cec.Errors))
	for _, ce := range cec.Errors {
		fmt.Fprintf(&b, "\n  %s (%s) %s: %s", ce.Path, ce.Target, ce.Kind, ce.Message)
		if ce.Hint != "" {
			fmt.Fprintf(&b, "\n    hint: %s", ce.Hint)
		}
	}
	return b.String()
}
