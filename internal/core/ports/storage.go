package ports

import "context"

// LocalStorage is a string key/value store with the semantics of a browser's
// local storage, scoped to one session namespace.
type LocalStorage interface {
	// GetItem returns the stored value and whether the key exists.
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	// SetItems writes every pair in one atomic step.
	SetItems(ctx context.Context, items map[string]string) error
	// RemoveItems deletes every key in one atomic step. Missing keys are ignored.
	RemoveItems(ctx context.Context, keys ...string) error
}

// StorageProvider hands out LocalStorage scoped to a namespace (a console
// session id, or a fixed name for the CLI).
type StorageProvider interface {
	Scope(namespace string) LocalStorage
}
