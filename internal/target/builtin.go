package target

import (
	"sort"
	"time"
)

const (
	actionView   = "android.intent.action.VIEW"
	actionSearch = "android.intent.action.SEARCH"
)

var builtin = []Profile{
	{
		ID:           "netflix",
		Name:         "Netflix",
		Aliases:      []string{"com.netflix.ninja", "com.netflix.mediaclient"},
		IDPreference: []string{IDEpisode, IDTitle, ID},
		Templates: []Template{
			{
				URI:       "netflix://title/{{ .id }}",
				Action:    actionView,
				Component: "com.netflix.ninja/.MainActivity",
				Extras:    map[string]string{"source": "30"},
			},
			{URI: "https://www.netflix.com/watch/{{ .id }}", Action: actionView},
			{URI: "https://www.netflix.com/title/{{ .id }}", Action: actionView},
		},
		Search:        &SearchSpec{URI: "https://www.netflix.com/search?q={{ .query | urlquery }}"},
		ForceStop:     true,
		ProfilePicker: true,
		ColdStart:     15 * time.Second,
	},
	{
		ID:           "youtube",
		Name:         "YouTube",
		Aliases:      []string{"com.google.android.youtube.tv", "com.google.android.youtube"},
		IDPreference: []string{IDVideo, ID},
		Templates: []Template{
			{URI: "https://www.youtube.com/watch?v={{ .id }}", Action: actionView},
			{URI: "vnd.youtube:{{ .id }}", Action: actionView},
		},
		Search:    &SearchSpec{Action: actionSearch, QueryExtra: "query"},
		ColdStart: 12 * time.Second,
	},
	{
		ID:      "primevideo",
		Name:    "Prime Video",
		Aliases: []string{"com.amazon.amazonvideo.livingroom", "com.amazon.avod.thirdpartyclient"},
		Templates: []Template{
			{URI: "https://app.primevideo.com/detail?gti={{ .id }}", Action: actionView},
			{URI: "https://www.primevideo.com/detail/{{ .id }}", Action: actionView},
		},
		Search:        &SearchSpec{Action: actionSearch, QueryExtra: "query"},
		ProfilePicker: true,
		ColdStart:     20 * time.Second,
	},
	{
		ID:      "disneyplus",
		Name:    "Disney+",
		Aliases: []string{"com.disney.disneyplus"},
		Templates: []Template{
			{URI: "https://www.disneyplus.com/video/{{ .id }}", Action: actionView},
			{URI: "disneyplus://video/{{ .id }}", Action: actionView},
		},
		ProfilePicker: true,
		ColdStart:     25 * time.Second,
	},
	{
		ID:      "hulu",
		Name:    "Hulu",
		Aliases: []string{"com.hulu.livingroomplus", "com.hulu.plus"},
		Templates: []Template{
			{URI: "https://www.hulu.com/watch/{{ .id }}", Action: actionView},
		},
		Search:        &SearchSpec{URI: "https://www.hulu.com/search?q={{ .query | urlquery }}"},
		ForceStop:     true,
		ProfilePicker: true,
		ColdStart:     30 * time.Second,
		Settle:        5 * time.Second,
	},
	{
		ID:      "max",
		Name:    "Max",
		Aliases: []string{"com.wbd.stream", "com.hbo.hbonow"},
		Templates: []Template{
			{URI: "https://play.max.com/video/watch/{{ .id }}", Action: actionView},
		},
		ProfilePicker: true,
		ColdStart:     25 * time.Second,
	},
	{
		ID:      "plex",
		Name:    "Plex",
		Aliases: []string{"com.plexapp.android"},
		Templates: []Template{
			{URI: "plex://play/?metadataKey=%2Flibrary%2Fmetadata%2F{{ .id }}", Action: actionView},
		},
		Search:    &SearchSpec{Action: actionSearch, QueryExtra: "query"},
		ColdStart: 12 * time.Second,
	},
	{
		ID:           "plutotv",
		Name:         "Pluto TV",
		Aliases:      []string{"tv.pluto.android"},
		IDPreference: []string{IDChannel, ID, IDContent},
		Templates: []Template{
			{
				URI:          "https://pluto.tv/live-tv/{{ .id }}",
				Action:       actionView,
				ContentTypes: []ContentType{Live},
			},
			{
				URI:          "https://pluto.tv/live-tv/{{ .channelName | lower | replace \" \" \"-\" }}",
				Action:       actionView,
				ContentTypes: []ContentType{Live},
			},
			{
				URI:          "https://pluto.tv/on-demand/movies/{{ .id }}",
				Action:       actionView,
				ContentTypes: []ContentType{Movie},
			},
			{
				URI:          "https://pluto.tv/on-demand/series/{{ .id }}",
				Action:       actionView,
				ContentTypes: []ContentType{Episode},
			},
		},
		ColdStart: 18 * time.Second,
	},
}

// Builtin returns copies of the built-in profiles sorted by ID.
func Builtin() []Profile {
	out := make([]Profile, len(builtin))
	for i, p := range builtin {
		out[i] = p.Clone()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LookupBuiltin returns the built-in profile with the given ID.
func LookupBuiltin(id string) (Profile, bool) {
	for _, p := range builtin {
		if p.ID == id {
			return p.Clone(), true
		}
	}
	return Profile{}, false
}

// Clone returns a deep copy of p.
func (p Profile) Clone() Profile {
	c := p
	c.Aliases = append([]string(nil), p.Aliases...)
	c.IDPreference = append([]string(nil), p.IDPreference...)
	c.QueryPreference = append([]string(nil), p.QueryPreference...)
	c.Templates = cloneTemplates(p.Templates)
	if p.Search != nil {
		s := *p.Search
		s.Extras = cloneMap(p.Search.Extras)
		c.Search = &s
	}
	if p.Recipe != nil {
		c.Recipe = make([]StepSpec, len(p.Recipe))
		for i, s := range p.Recipe {
			c.Recipe[i] = s
			if s.Click != nil {
				click := *s.Click
				c.Recipe[i].Click = &click
			}
		}
	}
	return c
}

func cloneTemplates(in []Template) []Template {
	if in == nil {
		return nil
	}
	out := make([]Template, len(in))
	for i, t := range in {
		out[i] = t
		out[i].Extras = cloneMap(t.Extras)
		out[i].ContentTypes = append([]ContentType(nil), t.ContentTypes...)
	}
	return out
}

func cloneMap(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
