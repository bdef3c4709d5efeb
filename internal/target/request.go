package target

import (
	"fmt"
	"sort"
	"strings"
)

// ContentType is the kind of content being requested.
type ContentType string

const (
	Episode ContentType = "episode"
	Movie   ContentType = "movie"
	Live    ContentType = "live"
)

// ParseContentType converts user input into a ContentType.
func ParseContentType(s string) (ContentType, error) {
	switch ContentType(strings.ToLower(strings.TrimSpace(s))) {
	case Episode:
		return Episode, nil
	case Movie:
		return Movie, nil
	case Live:
		return Live, nil
	default:
		return "", fmt.Errorf("unknown content type %q (want episode, movie or live)", s)
	}
}

// Well-known identifier names. Callers may pass any others; none is
// guaranteed to be present.
const (
	IDEpisode     = "episodeId"
	IDTitle       = "titleId"
	IDContent     = "contentId"
	IDVideo       = "videoId"
	ID            = "id"
	IDChannel     = "channelId"
	IDChannelName = "channelName"
	IDShowName    = "showName"
	IDTitleText   = "title"
	IDQuery       = "query"
	IDSeason      = "season"
	IDEpisodeNum  = "episode"
)

// Identifiers is the loosely typed identifier bag of a request.
type Identifiers map[string]string

// Get returns the trimmed value for name if it is present and non-blank.
func (ids Identifiers) Get(name string) (string, bool) {
	v, ok := ids[name]
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

// First returns the first non-blank identifier in the given preference order.
func (ids Identifiers) First(names []string) (name, value string, ok bool) {
	for _, n := range names {
		if v, found := ids.Get(n); found {
			return n, v, true
		}
	}
	return "", "", false
}

// Names returns the identifier names in sorted order.
func (ids Identifiers) Names() []string {
	names := make([]string, 0, len(ids))
	for n := range ids {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Request is a caller's "play this content on this app" request.
// It is treated as read-only by every component.
type Request struct {
	Target      string      `json:"target"`
	ContentType ContentType `json:"contentType"`
	Identifiers Identifiers `json:"identifiers,omitempty"`
}

// Validate checks the fields every launch needs.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Target) == "" {
		return fmt.Errorf("target cannot be empty")
	}
	if _, err := ParseContentType(string(r.ContentType)); err != nil {
		return err
	}
	return nil
}

// ParseIdentifiers turns "name=value" pairs into Identifiers.
func ParseIdentifiers(pairs []string) (Identifiers, error) {
	ids := Identifiers{}
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid identifier %q (want name=value)", p)
		}
		ids[name] = value
	}
	return ids, nil
}
