package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wakeplay/internal/target"
)

func TestSearch(t *testing.T) {
	tests := []struct {
		name       string
		search     *target.SearchSpec
		ids        target.Identifiers
		wantOK     bool
		wantQuery  string
		wantURI    string
		wantAction string
		wantExtras map[string]string
	}{
		{
			name:       "default search intent",
			ids:        target.Identifiers{target.IDShowName: "The Office"},
			wantOK:     true,
			wantQuery:  "The Office",
			wantAction: "android.intent.action.SEARCH",
			wantExtras: map[string]string{"query": "The Office"},
		},
		{
			name:      "uri search",
			search:    &target.SearchSpec{URI: "https://x/search?q={{ .query | urlquery }}"},
			ids:       target.Identifiers{target.IDTitleText: "Blue Planet"},
			wantOK:    true,
			wantQuery: "Blue Planet",
			wantURI:   "https://x/search?q=Blue+Planet",
		},
		{
			name:       "custom query extra",
			search:     &target.SearchSpec{Action: "com.x.SEARCH", QueryExtra: "q", Extras: map[string]string{"src": "alarm"}},
			ids:        target.Identifiers{target.IDChannelName: "News"},
			wantOK:     true,
			wantQuery:  "News",
			wantAction: "com.x.SEARCH",
			wantExtras: map[string]string{"q": "News", "src": "alarm"},
		},
		{
			name:   "no free text identifier",
			ids:    target.Identifiers{target.IDEpisode: "123"},
			wantOK: false,
		},
		{
			name:   "unrenderable uri",
			search: &target.SearchSpec{URI: "https://x/{{ .season }}/{{ .query }}"},
			ids:    target.Identifiers{target.IDShowName: "Show"},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved := target.Resolved{
				Profile:  target.Profile{ID: "x", Search: tt.search},
				Identity: "com.x",
			}
			req := target.Request{Target: "x", ContentType: target.Episode, Identifiers: tt.ids}

			plan, ok := New().Search(resolved, req)
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.wantQuery, plan.Query)
			assert.Equal(t, "com.x", plan.Action.Identity)
			assert.Equal(t, tt.wantURI, plan.Action.URI)
			assert.Equal(t, tt.wantAction, plan.Action.Action)
			assert.Equal(t, tt.wantExtras, plan.Action.Extras)
			assert.True(t, plan.Action.ClearTask)
		})
	}
}

func TestQuery_Preference(t *testing.T) {
	profile := target.Profile{ID: "x"}
	q, ok := Query(profile, target.Request{Identifiers: target.Identifiers{
		target.IDQuery:     "q",
		target.IDTitleText: "title",
		target.IDShowName:  "show",
	}})
	require.True(t, ok)
	assert.Equal(t, "show", q)

	profile.QueryPreference = []string{target.IDQuery}
	q, _ = Query(profile, target.Request{Identifiers: target.Identifiers{target.IDQuery: "q", target.IDShowName: "show"}})
	assert.Equal(t, "q", q)
}
