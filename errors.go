package herald

import "errors"

// Sentinel errors returned by Herald operations.
var (
	// ErrWatcherNotFound is returned when a watcher cannot be found.
	ErrWatcherNotFound = errors.New("herald: watcher not found")

	// ErrDuplicateWatcher is returned when a login is already registered.
	ErrDuplicateWatcher = errors.New("herald: watcher login already registered")

	// ErrStoreClosed is returned when a store operation is attempted after the store is closed.
	ErrStoreClosed = errors.New("herald: store is closed")

	// ErrMigrationFailed is returned when a database migration fails.
	ErrMigrationFailed = errors.New("herald: migration failed")

	// ErrInvalidConfig is returned when a Config fails validation.
	ErrInvalidConfig = errors.New("herald: invalid config")

	// ErrNilSnapshot is returned when Notify is called without a snapshot.
	ErrNilSnapshot = errors.New("herald: snapshot is required")
)
