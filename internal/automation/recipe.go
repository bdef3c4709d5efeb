package automation

import (
	"fmt"
	"sort"
	"time"

	"wakeplay/internal/host"
	"wakeplay/internal/target"
)

// ActionKind identifies what a step does.
type ActionKind int

const (
	ActionClick ActionKind = iota
	ActionType
	ActionKey
)

func (k ActionKind) String() string {
	switch k {
	case ActionClick:
		return "click"
	case ActionType:
		return "type"
	case ActionKey:
		return "key"
	default:
		return "unknown"
	}
}

// Action is one generic UI action. Selector text and typed text may contain
// templates that are rendered when the recipe is run.
type Action struct {
	Kind     ActionKind
	Selector host.Selector
	Text     string
	Key      host.KeyCode
	// Timeout bounds how long a click keeps looking for its element.
	Timeout time.Duration
}

// Click finds and clicks the element matching sel, retrying until timeout.
func Click(sel host.Selector, timeout time.Duration) Action {
	return Action{Kind: ActionClick, Selector: sel, Timeout: timeout}
}

// TypeText types text into the focused field.
func TypeText(text string) Action {
	return Action{Kind: ActionType, Text: text}
}

// PressKey sends a key event.
func PressKey(code host.KeyCode) Action {
	return Action{Kind: ActionKey, Key: code}
}

func (a Action) String() string {
	switch a.Kind {
	case ActionClick:
		return fmt.Sprintf("click(%s)", a.Selector)
	case ActionType:
		return fmt.Sprintf("type(%q)", a.Text)
	case ActionKey:
		return fmt.Sprintf("key(%s)", a.Key)
	default:
		return "unknown"
	}
}

// Step schedules an action at a cumulative delay from recipe start.
type Step struct {
	At       time.Duration
	Action   Action
	Terminal bool
}

// Recipe is an ordered, stateless script of steps.
type Recipe struct {
	Name  string
	Steps []Step
}

// Duration returns the delay of the last step.
func (r Recipe) Duration() time.Duration {
	var d time.Duration
	for _, s := range r.Steps {
		if s.At > d {
			d = s.At
		}
	}
	return d
}

// TerminalIndex returns the index of the step whose success signals that the
// recipe reached its goal: the last step marked terminal, else the last step.
func (r Recipe) TerminalIndex() int {
	for i := len(r.Steps) - 1; i >= 0; i-- {
		if r.Steps[i].Terminal {
			return i
		}
	}
	return len(r.Steps) - 1
}

// sorted returns the steps ordered by delay, keeping declaration order for
// equal delays, together with their original indexes.
func (r Recipe) sorted() []int {
	order := make([]int, len(r.Steps))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return r.Steps[order[a]].At < r.Steps[order[b]].At
	})
	return order
}

// FromSpec builds a recipe from declarative profile steps.
func FromSpec(name string, specs []target.StepSpec) (Recipe, error) {
	r := Recipe{Name: name}
	for i, spec := range specs {
		if err := spec.Validate(); err != nil {
			return Recipe{}, fmt.Errorf("step %d: %w", i, err)
		}
		var action Action
		switch {
		case spec.Click != nil:
			action = Click(host.Selector{
				Text:        spec.Click.Text,
				Description: spec.Click.Description,
				Package:     spec.Click.Package,
			}, spec.Click.Timeout)
		case spec.Type != "":
			action = TypeText(spec.Type)
		default:
			code, err := host.ParseKey(spec.Key)
			if err != nil {
				return Recipe{}, fmt.Errorf("step %d: %w", i, err)
			}
			action = PressKey(code)
		}
		r.Steps = append(r.Steps, Step{At: spec.At, Action: action, Terminal: spec.Terminal})
	}
	return r, nil
}
