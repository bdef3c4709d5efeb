package host

import (
	"fmt"
	"strconv"
	"strings"
)

// KeyCode is an Android key event code.
type KeyCode int

const (
	KeyHome       KeyCode = 3
	KeyBack       KeyCode = 4
	KeyDpadUp     KeyCode = 19
	KeyDpadDown   KeyCode = 20
	KeyDpadLeft   KeyCode = 21
	KeyDpadRight  KeyCode = 22
	KeyDpadCenter KeyCode = 23
	KeyEnter      KeyCode = 66
	KeySearch     KeyCode = 84
	KeyMediaPlay  KeyCode = 126
	KeyMediaPause KeyCode = 127
)

var keyNames = map[string]KeyCode{
	"HOME":        KeyHome,
	"BACK":        KeyBack,
	"DPAD_UP":     KeyDpadUp,
	"DPAD_DOWN":   KeyDpadDown,
	"DPAD_LEFT":   KeyDpadLeft,
	"DPAD_RIGHT":  KeyDpadRight,
	"DPAD_CENTER": KeyDpadCenter,
	"SELECT":      KeyDpadCenter,
	"ENTER":       KeyEnter,
	"SEARCH":      KeySearch,
	"MEDIA_PLAY":  KeyMediaPlay,
	"MEDIA_PAUSE": KeyMediaPause,
}

// ParseKey accepts a key name ("ENTER", "KEYCODE_ENTER", "select") or a
// numeric code.
func ParseKey(s string) (KeyCode, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	name = strings.TrimPrefix(name, "KEYCODE_")
	if code, ok := keyNames[name]; ok {
		return code, nil
	}
	if n, err := strconv.Atoi(name); err == nil && n > 0 {
		return KeyCode(n), nil
	}
	return 0, fmt.Errorf("unknown key %q", s)
}

func (k KeyCode) String() string {
	for name, code := range keyNames {
		if code == k && name != "SELECT" {
			return name
		}
	}
	return strconv.Itoa(int(k))
}
