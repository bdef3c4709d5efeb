package target

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Timing defaults used when a profile does not specify its own budget.
const (
	DefaultColdStart = 12 * time.Second
	DefaultSettle    = 3 * time.Second
)

// DefaultIDPreference is the identifier order used to fill deep-link
// templates when a profile does not declare its own.
var DefaultIDPreference = []string{IDEpisode, ID, IDTitle, IDContent, IDChannel}

// DefaultQueryPreference is the order in which free-text identifiers are
// considered for search.
var DefaultQueryPreference = []string{IDShowName, IDTitleText, IDChannelName, IDQuery}

// Template is one structured entry point for a target: a URI template plus
// optional intent action, component override and extras.
type Template struct {
	URI          string            `yaml:"uri" json:"uri"`
	Action       string            `yaml:"action,omitempty" json:"action,omitempty"`
	Component    string            `yaml:"component,omitempty" json:"component,omitempty"`
	Extras       map[string]string `yaml:"extras,omitempty" json:"extras,omitempty"`
	ContentTypes []ContentType     `yaml:"contentTypes,omitempty" json:"contentTypes,omitempty"`
}

// AppliesTo reports whether the template may be used for ct.
// Templates without a content type restriction apply to everything.
func (t Template) AppliesTo(ct ContentType) bool {
	if len(t.ContentTypes) == 0 {
		return true
	}
	for _, c := range t.ContentTypes {
		if c == ct {
			return true
		}
	}
	return false
}

// SearchSpec describes how to open a target's own search for a free-text
// query. Either URI (a template receiving .query) or Action must be set.
type SearchSpec struct {
	URI        string            `yaml:"uri,omitempty" json:"uri,omitempty"`
	Action     string            `yaml:"action,omitempty" json:"action,omitempty"`
	Component  string            `yaml:"component,omitempty" json:"component,omitempty"`
	QueryExtra string            `yaml:"queryExtra,omitempty" json:"queryExtra,omitempty"`
	Extras     map[string]string `yaml:"extras,omitempty" json:"extras,omitempty"`
}

// ClickSpec selects an element of the accessibility tree.
type ClickSpec struct {
	Text        string        `yaml:"text,omitempty" json:"text,omitempty"`
	Description string        `yaml:"description,omitempty" json:"description,omitempty"`
	Package     string        `yaml:"package,omitempty" json:"package,omitempty"`
	Timeout     time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`
}

// StepSpec is one declarative automation step. Exactly one of Click, Type
// or Key is set; At is the cumulative delay from recipe start.
type StepSpec struct {
	At       time.Duration `yaml:"at" json:"at"`
	Click    *ClickSpec    `yaml:"click,omitempty" json:"click,omitempty"`
	Type     string        `yaml:"type,omitempty" json:"type,omitempty"`
	Key      string        `yaml:"key,omitempty" json:"key,omitempty"`
	Terminal bool          `yaml:"terminal,omitempty" json:"terminal,omitempty"`
}

// Validate checks that exactly one action is configured.
func (s StepSpec) Validate() error {
	n := 0
	if s.Click != nil {
		n++
	}
	if s.Type != "" {
		n++
	}
	if s.Key != "" {
		n++
	}
	if n != 1 {
		return fmt.Errorf("step at %s must set exactly one of click, type or key", s.At)
	}
	if s.At < 0 {
		return fmt.Errorf("step delay cannot be negative: %s", s.At)
	}
	return nil
}

// Profile is the declarative record of everything wakeplay knows about one
// target application.
type Profile struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name,omitempty" json:"name,omitempty"`

	// Aliases are the platform identities (package names) the app has
	// shipped under, in preference order.
	Aliases []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`

	IDPreference    []string `yaml:"idPreference,omitempty" json:"idPreference,omitempty"`
	QueryPreference []string `yaml:"queryPreference,omitempty" json:"queryPreference,omitempty"`

	// Templates form the hardcoded tier.
	Templates []Template  `yaml:"templates,omitempty" json:"templates,omitempty"`
	Search    *SearchSpec `yaml:"search,omitempty" json:"search,omitempty"`
	Recipe    []StepSpec  `yaml:"recipe,omitempty" json:"recipe,omitempty"`

	ForceStop     bool          `yaml:"forceStop,omitempty" json:"forceStop,omitempty"`
	ProfilePicker bool          `yaml:"profilePicker,omitempty" json:"profilePicker,omitempty"`
	ColdStart     time.Duration `yaml:"coldStart,omitempty" json:"coldStart,omitempty"`
	Settle        time.Duration `yaml:"settle,omitempty" json:"settle,omitempty"`
}

// Identities returns the aliases, or the profile ID when none are declared.
func (p Profile) Identities() []string {
	if len(p.Aliases) == 0 {
		return []string{p.ID}
	}
	return p.Aliases
}

// ColdStartBudget returns the configured cold-start wait or the default.
func (p Profile) ColdStartBudget() time.Duration {
	if p.ColdStart > 0 {
		return p.ColdStart
	}
	return DefaultColdStart
}

// SettlePeriod returns the configured settle wait or the default.
func (p Profile) SettlePeriod() time.Duration {
	if p.Settle > 0 {
		return p.Settle
	}
	return DefaultSettle
}

// IdentifierOrder returns the identifier preference used for deep links.
func (p Profile) IdentifierOrder() []string {
	if len(p.IDPreference) > 0 {
		return p.IDPreference
	}
	return DefaultIDPreference
}

// QueryOrder returns the identifier preference used for search queries.
func (p Profile) QueryOrder() []string {
	if len(p.QueryPreference) > 0 {
		return p.QueryPreference
	}
	return DefaultQueryPreference
}

// Validate checks a profile loaded from configuration.
func (p Profile) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("profile id cannot be empty")
	}
	for i, t := range p.Templates {
		if strings.TrimSpace(t.URI) == "" {
			return fmt.Errorf("profile %s: template %d has an empty uri", p.ID, i)
		}
	}
	if p.Search != nil && p.Search.URI == "" && p.Search.Action == "" {
		return fmt.Errorf("profile %s: search needs a uri or an action", p.ID)
	}
	for _, s := range p.Recipe {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("profile %s: %w", p.ID, err)
		}
	}
	return nil
}

// InstalledChecker reports whether a platform identity is installed.
type InstalledChecker interface {
	IsInstalled(ctx context.Context, identity string) bool
}

// Resolved is a profile bound to the identity that is actually installed.
type Resolved struct {
	Profile  Profile
	Identity string
}

// Resolve returns the profile bound to its first installed alias.
func Resolve(ctx context.Context, p Profile, installed InstalledChecker) (Resolved, bool) {
	for _, identity := range p.Identities() {
		if installed.IsInstalled(ctx, identity) {
			return Resolved{Profile: p, Identity: identity}, true
		}
	}
	return Resolved{}, false
}

// Matches reports whether identity is the resolved identity or one of the
// profile's aliases.
func (r Resolved) Matches(identity string) bool {
	if identity == "" {
		return false
	}
	if identity == r.Identity {
		return true
	}
	for _, a := range r.Profile.Aliases {
		if a == identity {
			return true
		}
	}
	return false
}
