// Package automation runs scripted UI recipes (click by label, type text,
// press key) against the host automation service. It is the fallback used
// when structured entry points fail.
//
// A recipe is a list of steps, each with a cumulative delay from the start
// of the run. Engine.Run schedules every step on the injected clock and
// returns an Execution; steps fire independently of each other's outcome and
// run one at a time in schedule order. Execution.Cancel (or cancelling the
// run context) drops all steps that have not fired yet as a group.
package automation
