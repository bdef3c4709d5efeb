// Package config provides configuration management for wakeplay.
//
// Configuration is loaded from a single directory. The default is
// ~/.config/wakeplay; commands accept --config-path to point elsewhere.
//
// # Configuration Directory
//
//   - config.yaml: device, memory store, remote source, logging and
//     automation settings (WakeplayConfig)
//   - targets/<id>.yaml: one TargetConfig per target, supplying the
//     configured tier of URI templates and overriding quirks of the
//     built-in profile with the same id
//
// # Target Files
//
// A target file overrides only what it names:
//
//	id: netflix
//	coldStart: 20s
//	forceStop: false
//	templates:
//	  - uri: "https://www.netflix.com/watch/{{ .id }}"
//	    extras:
//	      source: "30"
//	recipe:
//	  - at: 0s
//	    key: SELECT
//	  - at: 2s
//	    click: {text: "Play"}
//	    terminal: true
//
// Targets that have no built-in profile are created from their file alone.
//
// # Sources
//
// A Source produces a versioned Snapshot that the resolver reads at call
// time. FileSource reads the targets directory and is kept fresh by Watcher
// (fsnotify with debouncing). RemoteSource fetches a YAML snapshot over HTTP,
// rate limited and deduplicated, falling back to its last good copy.
// ChainSource layers sources per target, later sources winning, so local
// target files override a remote snapshot. Callers treat a failure of every
// source as "no configured tier" and continue with the built-in profiles.
//
// # Entity Storage
//
// Storage is the YAML file store underneath FileSource. It offers
// Save/Load/Delete/List of <configDir>/<entityType>/<name>.yaml and is also
// used by the CLI to export and reset target files.
package config
