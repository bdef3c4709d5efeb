// Package orchestrator drives a single launch of a target through an
// escalating list of strategies until the target owns the foreground.
//
// # Strategy ladder
//
// Each launch walks a fixed state machine:
//
//	START -> CHECK_MEMORY -> {TRY_DEEP_LINK(i) -> VERIFY(i)}*
//	      -> TRY_SEARCH -> VERIFY_SEARCH -> TRY_AUTOMATION -> TRY_APP_ONLY -> DONE
//
//   - **Deep links**: candidates from the resolver, verified tier first.
//   - **Search**: the target's search intent seeded with a free-text identifier.
//   - **Automation**: a UI recipe run by the automation engine.
//   - **App only**: open the target at its default screen.
//
// The strategy that produced a confirmed foreground is remembered per
// target and content key, and tried first on the next launch.
//
// # Outcomes
//
// Launch returns one of Success, NotInstalled or Failed. Failed carries a
// reason that can be compared with errors.Is against ErrStrategyExhausted,
// ErrAutomationUnavailable, ErrUnknownTarget or context.Canceled.
//
// # Background launches
//
// Start runs a launch on its own goroutine and returns a Handle identified
// by a UUID. Cancel(id) cancels the launch context, which also cancels any
// automation recipe started by that launch. Finished handles are kept for a
// bounded history so status queries can still see them.
//
// # Observing
//
// Every state transition is reported to the configured Observer. The CLI
// uses this for --trace and tests use Recorder to assert the path taken.
package orchestrator
