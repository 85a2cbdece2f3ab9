package shader

import "log/slog"

// LibraryBuilderOption is a functional option applied to a library during construction via NewLibrary.
type LibraryBuilderOption func(l *library)

// WithLibraryLogger sets the logger used for load diagnostics.
//
// Parameters:
//   - logger: the logger to use, nil keeps the silent default
//
// Returns:
//   - LibraryBuilderOption: a function that applies the logger option to a library
func WithLibraryLogger(logger *slog.Logger) LibraryBuilderOption {
	return func(l *library) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithPrefetchWorkers sets the maximum number of goroutines Prefetch reads sources with.
// Values below 1 are ignored.
//
// Parameters:
//   - workers: the worker count (default 4)
//
// Returns:
//   - LibraryBuilderOption: a function that applies the worker option to a library
func WithPrefetchWorkers(workers int) LibraryBuilderOption {
	return func(l *library) {
		if workers > 0 {
			l.workers = workers
		}
	}
}
