package memory

import (
	"fmt"
	"strconv"
	"strings"

	"wakeplay/internal/target"
)

// Kind is the strategy family.
type Kind string

const (
	KindDeepLink   Kind = "deepLink"
	KindSearch     Kind = "search"
	KindAutomation Kind = "automation"
	KindAppOnly    Kind = "appOnly"
)

// Strategy references the launch strategy that succeeded. Index and URI are
// only meaningful for deep links: Index is the position in the candidate list
// of the launch that succeeded, URI the link it opened. The verified tier
// reorders candidates between launches, so readers match on URI first.
type Strategy struct {
	Kind  Kind
	Index int
	URI   string
}

var (
	Search     = Strategy{Kind: KindSearch}
	Automation = Strategy{Kind: KindAutomation}
	AppOnly    = Strategy{Kind: KindAppOnly}
)

// DeepLink returns the strategy for candidate i.
func DeepLink(i int) Strategy {
	return Strategy{Kind: KindDeepLink, Index: i}
}

// DeepLinkTo returns the strategy for candidate i, which opened uri.
func DeepLinkTo(i int, uri string) Strategy {
	return Strategy{Kind: KindDeepLink, Index: i, URI: uri}
}

func (s Strategy) String() string {
	if s.Kind == KindDeepLink {
		return fmt.Sprintf("deepLink[%d]", s.Index)
	}
	return string(s.Kind)
}

// Encode returns the stored form: String plus "@<uri>" for a deep link that
// knows the link it opened.
func (s Strategy) Encode() string {
	if s.Kind == KindDeepLink && s.URI != "" {
		return s.String() + "@" + s.URI
	}
	return s.String()
}

// ParseStrategy parses the Encode form. A bare deepLink[i] carries no URI.
func ParseStrategy(s string) (Strategy, error) {
	switch Kind(s) {
	case KindSearch:
		return Search, nil
	case KindAutomation:
		return Automation, nil
	case KindAppOnly:
		return AppOnly, nil
	}

	rest, ok := strings.CutPrefix(s, string(KindDeepLink)+"[")
	end := strings.IndexByte(rest, ']')
	if !ok || end < 0 {
		return Strategy{}, fmt.Errorf("unknown strategy %q", s)
	}
	i, err := strconv.Atoi(rest[:end])
	if err != nil || i < 0 {
		return Strategy{}, fmt.Errorf("invalid deep link index in %q", s)
	}
	tail := rest[end+1:]
	if tail == "" {
		return DeepLink(i), nil
	}
	uri, ok := strings.CutPrefix(tail, "@")
	if !ok || uri == "" {
		return Strategy{}, fmt.Errorf("invalid deep link reference in %q", s)
	}
	return DeepLinkTo(i, uri), nil
}

// KeyPriority is the fixed identifier order used to build method keys, most
// specific first.
var KeyPriority = []string{
	target.IDEpisode,
	target.IDTitle,
	target.IDContent,
	target.IDVideo,
	target.ID,
	target.IDChannel,
	target.IDChannelName,
	target.IDShowName,
}

// DefaultKeyMarker is used when no identifier in the key order is present.
const DefaultKeyMarker = "default"

// KeyOrder returns KeyPriority followed by the identifier and query
// preferences of p that it lacks, each in the profile's order.
func KeyOrder(p target.Profile) []string {
	order := append([]string(nil), KeyPriority...)
	seen := make(map[string]bool, len(order))
	for _, name := range order {
		seen[name] = true
	}
	for _, names := range [][]string{p.IdentifierOrder(), p.QueryOrder()} {
		for _, name := range names {
			if !seen[name] {
				seen[name] = true
				order = append(order, name)
			}
		}
	}
	return order
}

// Key derives the method key from the first identifier present in order, or
// in KeyPriority when order is empty. The same function serves reads and
// writes.
func Key(targetID string, ids target.Identifiers, order ...string) string {
	if len(order) == 0 {
		order = KeyPriority
	}
	if name, value, ok := ids.First(order); ok {
		return targetID + "|" + name + "=" + value
	}
	return targetID + "|" + DefaultKeyMarker
}
