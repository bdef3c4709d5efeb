package formatting

import (
	"encoding/json"
	"fmt"
	"time"
)

// PrettyJSON indents v for tool results and logs. Values that cannot be
// marshalled fall back to their %v form.
func PrettyJSON(v interface{}) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// formatDuration renders d rounded for humans; zero renders as "-".
func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(100 * time.Millisecond).String()
}
