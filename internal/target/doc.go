// Package target defines what wakeplay launches: the content request handed
// in by the caller and the declarative per-target profile that captures every
// app-specific quirk (aliases, cold-start budget, force-stop requirement,
// profile picker, identifier preference, URI templates, search entry point
// and automation recipe).
//
// Adding a target is a data change. Built-in profiles live in builtin.go and
// can be overridden or extended by targets/*.yaml files in the config
// directory (see internal/config).
package target
