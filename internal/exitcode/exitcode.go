// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success covers every handled outcome, including usage messages,
	// invalid IDs, unknown commands and missing tasks.
	Success = 0

	// StorageError indicates the task store could not be opened or saved.
	StorageError = 1

	// ConfigError indicates invalid configuration, flags or environment.
	ConfigError = 2
)
