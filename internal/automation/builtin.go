package automation

import (
	"time"

	"wakeplay/internal/host"
)

// Timings of the built-in recipes.
const (
	BypassSecondPress = 700 * time.Millisecond

	SearchClickTimeout = 5 * time.Second
	ResultClickTimeout = 8 * time.Second
	PlayClickTimeout   = 8 * time.Second
)

// ProfileBypass double-presses select to dismiss a "who's watching" picker.
func ProfileBypass() Recipe {
	return Recipe{
		Name: "profile-bypass",
		Steps: []Step{
			{At: 0, Action: PressKey(host.KeyDpadCenter)},
			{At: BypassSecondPress, Action: PressKey(host.KeyDpadCenter)},
		},
	}
}

// SearchAndPlay opens the target's search, types the query, picks the best
// matching result and presses play. The play click is the terminal signal.
// The query is rendered from the .query variable at run time.
func SearchAndPlay(identity string) Recipe {
	return Recipe{
		Name: "search-and-play",
		Steps: []Step{
			{At: 0, Action: Click(host.Selector{Description: "Search", Package: identity}, SearchClickTimeout)},
			{At: 2 * time.Second, Action: TypeText("{{ .query }}")},
			{At: 4 * time.Second, Action: Click(host.Selector{Text: "{{ .query }}", Package: identity}, ResultClickTimeout)},
			{At: 8 * time.Second, Action: Click(host.Selector{Text: "Play", Package: identity}, PlayClickTimeout), Terminal: true},
		},
	}
}
