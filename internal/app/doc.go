// Package app bootstraps wakeplay: it resolves the configuration
// directory, loads config.yaml, configures logging, and builds the
// services every command shares.
//
// # Components
//
//   - Bootstrap (bootstrap.go): NewApplication and lazy device setup
//   - Configuration (config.go): runtime flags passed in by cmd
//   - Services (services.go): configuration sources, the method store and
//     the orchestrator factory
//   - Modes (modes.go): the long-running MCP server mode
//
// # Configuration directory
//
// The directory defaults to ~/.config/wakeplay and can be overridden with
// --config-path. It contains:
//
//	config.yaml     device, memory, remote, log and automation settings
//	targets/*.yaml  configured-tier target profiles
//	memory/         badger database of learned launch methods
//
// # Method store
//
// Learned methods are kept in badger. Badger allows a single process per
// directory; when the store is locked by another wakeplay process the
// application falls back to an in-memory store for its lifetime and logs
// a warning.
package app
