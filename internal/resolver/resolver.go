package resolver

import (
	"strings"

	"wakeplay/internal/host"
	"wakeplay/internal/target"
	"wakeplay/internal/template"
	"wakeplay/pkg/logging"
)

// Tier is the precedence class of a candidate.
type Tier int

const (
	TierVerified Tier = iota
	TierConfigured
	TierHardcoded
)

func (t Tier) String() string {
	switch t {
	case TierVerified:
		return "verified"
	case TierConfigured:
		return "configured"
	case TierHardcoded:
		return "hardcoded"
	default:
		return "unknown"
	}
}

// Tiers holds the templates of every tier for one target.
type Tiers struct {
	Verified   []target.Template
	Configured []target.Template
	Hardcoded  []target.Template
}

// Candidate is one rendered structured entry point.
type Candidate struct {
	Tier Tier
	// Template is the unrendered source, recorded in the verified tier on
	// success.
	Template  target.Template
	URI       string
	Action    string
	Component string
	Extras    map[string]string
	// Identifier names the request identifier that was substituted.
	Identifier string
}

// LaunchAction returns the host action that opens the candidate in identity.
func (c Candidate) LaunchAction(identity string) host.Action {
	return host.Action{
		Identity:  identity,
		Action:    c.Action,
		URI:       c.URI,
		Component: c.Component,
		Extras:    c.Extras,
		ClearTask: true,
	}
}

// Resolver renders candidates.
type Resolver struct {
	engine *template.Engine
}

// New creates a Resolver with its own template engine.
func New() *Resolver {
	return &Resolver{engine: template.New()}
}

// NewWithEngine creates a Resolver sharing engine.
func NewWithEngine(engine *template.Engine) *Resolver {
	return &Resolver{engine: engine}
}

// Resolve returns the ordered, de-duplicated candidate list. It is empty when
// the request carries no usable identifier.
func (r *Resolver) Resolve(profile target.Profile, req target.Request, tiers Tiers) []Candidate {
	name, value, ok := req.Identifiers.First(profile.IdentifierOrder())
	if !ok {
		logging.Debug("Resolver", "No usable identifier for %s among %v", profile.ID, profile.IdentifierOrder())
		return nil
	}
	vars := template.RequestVars(req, map[string]string{target.ID: value})

	var candidates []Candidate
	seen := map[string]bool{}
	add := func(tier Tier, templates []target.Template) {
		for i, t := range templates {
			if !t.AppliesTo(req.ContentType) || strings.TrimSpace(t.URI) == "" {
				continue
			}
			uri, err := r.engine.Render(t.URI, vars)
			if err != nil {
				logging.Debug("Resolver", "Skipping %s template %d for %s: %v", tier, i, profile.ID, err)
				continue
			}
			uri = strings.TrimSpace(uri)
			if uri == "" || seen[uri] {
				continue
			}
			extras, err := r.engine.RenderMap(t.Extras, vars)
			if err != nil {
				logging.Debug("Resolver", "Skipping %s template %d for %s: %v", tier, i, profile.ID, err)
				continue
			}
			seen[uri] = true
			candidates = append(candidates, Candidate{
				Tier:       tier,
				Template:   t,
				URI:        uri,
				Action:     t.Action,
				Component:  t.Component,
				Extras:     extras,
				Identifier: name,
			})
		}
	}

	add(TierVerified, tiers.Verified)
	add(TierConfigured, tiers.Configured)
	add(TierHardcoded, tiers.Hardcoded)

	logging.Debug("Resolver", "Resolved %d candidates for %s using %s", len(candidates), profile.ID, name)
	return candidates
}
