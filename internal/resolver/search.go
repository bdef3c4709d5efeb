package resolver

import (
	"strings"

	"wakeplay/internal/host"
	"wakeplay/internal/target"
	"wakeplay/internal/template"
	"wakeplay/pkg/logging"
)

const (
	searchAction      = "android.intent.action.SEARCH"
	defaultQueryExtra = "query"
)

// SearchPlan is a content-name based launch.
type SearchPlan struct {
	Query  string
	Action host.Action
}

// Query returns the best free-text identifier of the request.
func Query(profile target.Profile, req target.Request) (string, bool) {
	_, q, ok := req.Identifiers.First(profile.QueryOrder())
	return q, ok
}

// Search builds the search launch for the resolved identity. It reports false
// when the request has no free-text identifier or the search URI cannot be
// rendered.
func (r *Resolver) Search(resolved target.Resolved, req target.Request) (SearchPlan, bool) {
	profile := resolved.Profile
	query, ok := Query(profile, req)
	if !ok {
		logging.Debug("Resolver", "No free-text identifier for %s search", profile.ID)
		return SearchPlan{}, false
	}

	spec := target.SearchSpec{Action: searchAction}
	if profile.Search != nil {
		spec = *profile.Search
	}

	vars := template.RequestVars(req, map[string]string{target.IDQuery: query})
	action := host.Action{
		Identity:  resolved.Identity,
		Action:    spec.Action,
		Component: spec.Component,
		ClearTask: true,
	}

	if spec.URI != "" {
		uri, err := r.engine.Render(spec.URI, vars)
		if err != nil || strings.TrimSpace(uri) == "" {
			logging.Debug("Resolver", "Cannot render search URI for %s: %v", profile.ID, err)
			return SearchPlan{}, false
		}
		action.URI = uri
	}

	extras, err := r.engine.RenderMap(spec.Extras, vars)
	if err != nil {
		logging.Debug("Resolver", "Cannot render search extras for %s: %v", profile.ID, err)
		return SearchPlan{}, false
	}
	if spec.URI == "" {
		if extras == nil {
			extras = map[string]string{}
		}
		key := spec.QueryExtra
		if key == "" {
			key = defaultQueryExtra
		}
		extras[key] = query
		if action.Action == "" {
			action.Action = searchAction
		}
	}
	action.Extras = extras

	return SearchPlan{Query: query, Action: action}, true
}
