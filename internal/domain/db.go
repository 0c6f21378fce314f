package domain

import "context"

// Database defines lifecycle operations for the underlying database.
// The handle is constructed at process start and closed at shutdown;
// nothing in the codebase holds a package-level connection.
type Database interface {
	Migrate(ctx context.Context) error
	Close() error
}
