// Package logging provides the subsystem-tagged logger shared by every
// wakeplay package.
//
// It is a thin layer over log/slog. Bootstrap calls InitForCLI once with the
// desired level and writer; every other package logs through the package
// level helpers and tags each entry with the subsystem that produced it:
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("Orchestrator", "Launching %s (%s)", target, contentType)
//	logging.Debug("Resolver", "Built %d candidates", n)
//	logging.Warn("ConfigSource", "Falling back to built-in profiles: %v", err)
//	logging.Error("ADB", err, "force-stop %s failed", pkg)
//
// Output is text by default. InitWithFormat selects JSON for machine
// consumption (e.g. when wakeplay runs under systemd and logs are shipped).
//
// Until InitForCLI is called, log calls are discarded so that library users
// and tests are not forced to configure logging.
package logging
