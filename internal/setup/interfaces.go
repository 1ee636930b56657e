package setup

// PackageManager abstracts the router's package manager (opkg) for
// testability. Each operation maps to one opkg invocation; a non-zero exit
// is surfaced as an error carrying the command's output.
type PackageManager interface {
	// Update refreshes the package index.
	Update() error

	// Install installs the named package.
	Install(pkg string) error

	// Upgrade upgrades the named package to the latest indexed version.
	Upgrade(pkg string) error

	// Remove removes the named package.
	Remove(pkg string) error

	// Installed reports whether the named package is currently installed.
	// The match is exact: "tailscale" never matches "tailscaled".
	Installed(pkg string) (bool, error)
}

// ConfigStore abstracts the UCI configuration store. Edits accumulate until
// Commit persists them atomically. Delete and DelList are quiet: removing an
// entry that does not exist returns nil, so teardown is re-runnable.
type ConfigStore interface {
	// Get returns the value at a dotted key (section.object.attribute).
	Get(key string) (string, error)

	// Set assigns a value to a dotted key.
	Set(key, value string) error

	// AddList appends a value to a multi-value option.
	AddList(key, value string) error

	// DelList removes one value from a multi-value option. Absent values
	// are not an error.
	DelList(key, value string) error

	// Delete removes a key or whole section. Absent keys are not an error.
	Delete(key string) error

	// Commit atomically persists all pending edits.
	Commit() error
}

// ServiceController drives a procd init script.
type ServiceController interface {
	// Stop stops the named service.
	Stop(service string) error

	// Restart restarts the named service.
	Restart(service string) error
}

// DaemonClient wraps the Tailscale daemon's own CLI surface.
type DaemonClient interface {
	// Available reports whether the daemon binary is resolvable.
	Available() bool

	// Cleanup asks the daemon to tear down its routes and firewall state.
	Cleanup() error

	// Up brings the mesh link up with the given flags. The flags are passed
	// as discrete argv elements, never interpolated into a shell string.
	Up(args []string) error
}
