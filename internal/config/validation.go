package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"wakeplay/internal/target"
	tmpl "wakeplay/internal/template"
)

var (
	targetIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]{0,63}$`)
	packagePattern  = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*(\.[A-Za-z][A-Za-z0-9_]*)+$`)
)

// ValidationError points at one bad field.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors collects every bad field of one document.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}
	messages := make([]string, 0, len(ve))
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

func (ve *ValidationErrors) Add(field, message string, value ...interface{}) {
	var val interface{}
	if len(value) > 0 {
		val = value[0]
	}
	*ve = append(*ve, ValidationError{Field: field, Value: val, Message: message})
}

func (ve ValidationErrors) orNil() error {
	if ve.HasErrors() {
		return ve
	}
	return nil
}

func (ve *ValidationErrors) nonNegative(field string, d *time.Duration) {
	if d != nil && *d < 0 {
		ve.Add(field, "cannot be negative", *d)
	}
}

// ValidateConfig checks config.yaml values.
func ValidateConfig(c WakeplayConfig) error {
	var errs ValidationErrors

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		errs.Add("log.level", "must be one of: debug, info, warn, error", c.Log.Level)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		errs.Add("log.format", "must be one of: text, json", c.Log.Format)
	}
	if c.Remote.URL != "" {
		u, err := url.Parse(c.Remote.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs.Add("remote.url", "must be an http or https URL", c.Remote.URL)
		}
	}
	errs.nonNegative("remote.minInterval", &c.Remote.MinInterval)
	errs.nonNegative("remote.timeout", &c.Remote.Timeout)
	errs.nonNegative("automation.pollInterval", &c.Automation.PollInterval)

	return errs.orNil()
}

// ValidateTargetConfig checks a target file, including that every template
// parses.
func ValidateTargetConfig(tc TargetConfig) error {
	var errs ValidationErrors

	if !targetIDPattern.MatchString(tc.ID) {
		errs.Add("id", "must be 1-64 lowercase letters, digits, '.', '-' or '_'", tc.ID)
	}
	for i, alias := range tc.Aliases {
		if !packagePattern.MatchString(alias) {
			errs.Add(fmt.Sprintf("aliases[%d]", i), "is not a package name", alias)
		}
	}
	for i, name := range append(append([]string(nil), tc.IDPreference...), tc.QueryPreference...) {
		if strings.TrimSpace(name) == "" {
			errs.Add("idPreference/queryPreference", fmt.Sprintf("entry %d is blank", i))
		}
	}

	engine := tmpl.New()
	for i, t := range tc.Templates {
		field := fmt.Sprintf("templates[%d]", i)
		if strings.TrimSpace(t.URI) == "" {
			errs.Add(field+".uri", "is required")
			continue
		}
		if err := engine.Validate(t.URI); err != nil {
			errs.Add(field+".uri", err.Error(), t.URI)
		}
		for k, v := range t.Extras {
			if err := engine.Validate(v); err != nil {
				errs.Add(field+".extras."+k, err.Error(), v)
			}
		}
		for _, ct := range t.ContentTypes {
			if _, err := target.ParseContentType(string(ct)); err != nil {
				errs.Add(field+".contentTypes", err.Error(), ct)
			}
		}
	}

	if s := tc.Search; s != nil {
		if s.URI == "" && s.Action == "" {
			errs.Add("search", "needs a uri or an action")
		} else if err := engine.Validate(s.URI); err != nil {
			errs.Add("search.uri", err.Error(), s.URI)
		}
	}
	for i, step := range tc.Recipe {
		if err := step.Validate(); err != nil {
			errs.Add(fmt.Sprintf("recipe[%d]", i), err.Error())
		}
	}
	errs.nonNegative("coldStart", tc.ColdStart)
	errs.nonNegative("settle", tc.Settle)

	return errs.orNil()
}
