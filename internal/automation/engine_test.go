package automation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wakeplay/internal/host"
	"wakeplay/internal/testing/fake"
)

func keyRecipe(delays ...time.Duration) Recipe {
	r := Recipe{Name: "keys"}
	for i, d := range delays {
		r.Steps = append(r.Steps, Step{At: d, Action: PressKey(host.KeyCode(100 + i))})
	}
	return r
}

func waitDone(t *testing.T, x *Execution) Result {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	res, err := x.Wait(ctx)
	require.NoError(t, err)
	return res
}

func TestEngine_StepsFireAtTheirDelays(t *testing.T) {
	h := fake.New()
	clk := fake.NewClock(time.Time{})
	engine := NewEngine(h, clk, 0)

	x := engine.Run(context.Background(), keyRecipe(0, time.Second, 3*time.Second), nil)
	assert.Equal(t, 0, h.Count("SendKey"), "nothing runs before the clock moves")

	clk.Advance(0)
	require.Eventually(t, func() bool { return h.Count("SendKey") == 1 }, time.Second, time.Millisecond)

	clk.Advance(999 * time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 1, h.Count("SendKey"))

	clk.Advance(time.Millisecond)
	require.Eventually(t, func() bool { return h.Count("SendKey") == 2 }, time.Second, time.Millisecond)

	clk.Advance(2 * time.Second)
	res := waitDone(t, x)
	assert.Equal(t, 3, res.Ran())
	assert.False(t, res.Cancelled)
	assert.True(t, res.TerminalSucceeded())
	assert.Equal(t, []string{"SendKey", "SendKey", "SendKey"}, h.Methods())
	assert.Equal(t, "100", h.Calls()[0].Detail)
}

func TestEngine_EqualDelaysKeepDeclarationOrder(t *testing.T) {
	h := fake.New()
	clk := fake.NewClock(time.Time{})
	engine := NewEngine(h, clk, 0)

	recipe := Recipe{Name: "same", Steps: []Step{
		{At: time.Second, Action: TypeText("b")},
		{At: 0, Action: TypeText("a")},
		{At: time.Second, Action: TypeText("c")},
		{At: time.Second, Action: TypeText("d")},
	}}
	x := engine.Run(context.Background(), recipe, nil)
	clk.Advance(time.Second)
	waitDone(t, x)

	var typed []string
	for _, c := range h.Calls() {
		typed = append(typed, c.Detail)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, typed)
}

func TestEngine_FailedStepDoesNotAbortLaterSteps(t *testing.T) {
	h := fake.New()
	clk := fake.NewClock(time.Time{})
	engine := NewEngine(h, clk, 0)

	recipe := Recipe{Name: "optimistic", Steps: []Step{
		{At: 0, Action: Click(host.Selector{Text: "Missing"}, 0)},
		{At: time.Second, Action: TypeText("{{ .undefined }}")},
		{At: 2 * time.Second, Action: PressKey(host.KeyEnter), Terminal: true},
	}}
	x := engine.Run(context.Background(), recipe, map[string]string{})
	clk.Advance(2 * time.Second)
	res := waitDone(t, x)

	require.Len(t, res.Steps, 3)
	assert.True(t, res.Steps[0].Ran)
	assert.False(t, res.Steps[0].Succeeded)
	assert.True(t, res.Steps[1].Ran)
	assert.Error(t, res.Steps[1].Err)
	assert.True(t, res.Steps[2].Succeeded)
	assert.True(t, res.TerminalSucceeded())
	assert.Equal(t, 0, h.Count("TypeText"), "unrenderable text is never typed")
}

func TestEngine_CancelDropsUnfiredSteps(t *testing.T) {
	h := fake.New()
	clk := fake.NewClock(time.Time{})
	engine := NewEngine(h, clk, 0)

	x := engine.Run(context.Background(), keyRecipe(0, time.Second, 2*time.Second, 3*time.Second), nil)
	clk.Advance(time.Second)
	require.Eventually(t, func() bool { return h.Count("SendKey") == 2 }, time.Second, time.Millisecond)

	x.Cancel()
	x.Cancel()
	assert.Equal(t, 0, clk.Pending(), "unfired timers are stopped")

	clk.Advance(10 * time.Second)
	res := waitDone(t, x)

	assert.Equal(t, 2, h.Count("SendKey"), "no step scheduled after the cancellation runs")
	assert.Equal(t, 2, res.Ran())
	assert.True(t, res.Cancelled)
	assert.False(t, res.TerminalSucceeded())
}

func TestEngine_ContextCancellationCancelsExecution(t *testing.T) {
	h := fake.New()
	clk := fake.NewClock(time.Time{})
	engine := NewEngine(h, clk, 0)

	ctx, cancel := context.WithCancel(context.Background())
	x := engine.Run(ctx, keyRecipe(0, time.Second), nil)
	cancel()

	res := waitDone(t, x)
	assert.True(t, res.Cancelled)
	assert.Equal(t, 0, res.Ran())
	assert.Equal(t, 0, clk.Pending())
}

func TestEngine_EmptyRecipe(t *testing.T) {
	engine := NewEngine(fake.New(), fake.NewClock(time.Time{}), 0)
	res := waitDone(t, engine.Run(context.Background(), Recipe{Name: "empty"}, nil))
	assert.Equal(t, 0, res.Ran())
	assert.False(t, res.TerminalSucceeded())
}

func TestEngine_ClickRetriesUntilTimeout(t *testing.T) {
	h := fake.New()
	clk := fake.NewClock(time.Time{})
	clk.SetAutoAdvance(true)
	engine := NewEngine(h, clk, 500*time.Millisecond)

	recipe := Recipe{Name: "click", Steps: []Step{
		{At: 0, Action: Click(host.Selector{Text: "Play"}, 2*time.Second)},
	}}
	x := engine.Run(context.Background(), recipe, nil)
	clk.Advance(0)
	res := waitDone(t, x)

	assert.False(t, res.TerminalSucceeded())
	assert.Equal(t, 5, h.Count("FindAndClick"))
}

func TestEngine_ClickSucceedsWhenElementAppears(t *testing.T) {
	h := fake.New()
	attempts := 0
	h.OnClick = func(_ *fake.Host, sel host.Selector) (bool, error) {
		attempts++
		if attempts < 3 {
			return false, errors.New("dump failed")
		}
		return sel.Text == "Play", nil
	}
	clk := fake.NewClock(time.Time{})
	clk.SetAutoAdvance(true)
	engine := NewEngine(h, clk, 100*time.Millisecond)

	recipe := Recipe{Name: "click", Steps: []Step{
		{At: 0, Action: Click(host.Selector{Text: "Play"}, time.Second), Terminal: true},
	}}
	x := engine.Run(context.Background(), recipe, nil)
	clk.Advance(0)
	res := waitDone(t, x)

	assert.True(t, res.TerminalSucceeded())
	assert.NoError(t, res.Steps[0].Err)
	assert.Equal(t, 3, attempts)
}

func TestSearchAndPlay(t *testing.T) {
	h := fake.New()
	h.OnClick = fake.ClickText("Search", "The Office", "Play")
	clk := fake.NewClock(time.Time{})
	clk.SetAutoAdvance(true)
	engine := NewEngine(h, clk, 0)

	recipe := SearchAndPlay("com.netflix.ninja")
	x := engine.Run(context.Background(), recipe, map[string]string{"query": "The Office"})
	clk.Advance(recipe.Duration())
	res := waitDone(t, x)

	assert.True(t, res.TerminalSucceeded())
	assert.Equal(t, 4, res.Ran())
	assert.Equal(t, []string{
		`FindAndClick desc="Search" pkg=com.netflix.ninja`,
		`TypeText The Office`,
		`FindAndClick text="The Office" pkg=com.netflix.ninja`,
		`FindAndClick text="Play" pkg=com.netflix.ninja`,
	}, callStrings(h))
}

func TestProfileBypass(t *testing.T) {
	recipe := ProfileBypass()
	require.Len(t, recipe.Steps, 2)
	assert.Equal(t, BypassSecondPress, recipe.Duration())
	for _, s := range recipe.Steps {
		assert.Equal(t, ActionKey, s.Action.Kind)
		assert.Equal(t, host.KeyDpadCenter, s.Action.Key)
	}
}

func callStrings(h *fake.Host) []string {
	var out []string
	for _, c := range h.Calls() {
		out = append(out, c.String())
	}
	return out
}
