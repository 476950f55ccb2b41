package ports

// TableWatcher monitors a unit table file and reports when it changes so
// the registry can be rebuilt. Only one Watch call should be active at a time.
type TableWatcher interface {
	// Watch starts monitoring the file at path. onChange is called with the
	// absolute path after the file was written, created or replaced. The
	// callback may be invoked from any goroutine. Returns an error if the
	// containing directory doesn't exist or cannot be watched.
	Watch(path string, onChange func(filePath string)) error

	// Stop ends monitoring and releases all resources. After Stop returns,
	// no further onChange calls will fire. Safe to call multiple times.
	Stop() error
}
