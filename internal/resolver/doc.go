// Package resolver turns a target profile and a content request into the
// ordered list of structured launch candidates to try.
//
// Candidates come from three tiers, in precedence order: templates that
// have led to a confirmed launch before (verified), templates from the
// configuration snapshot (configured) and the profile's built-in templates
// (hardcoded). Each template is rendered with the first usable identifier
// from the profile's preference list exposed as .id, alongside every
// identifier of the request under its own name. Resolution is pure: the
// same profile, request and tiers always give the same list.
package resolver
