package repository

import "context"

// SessionKey is the key under which the logged-in user id is kept.
const SessionKey = "userId"

// KeyValueStore is the small settings area, kept apart from the document
// store. Deleting an absent key is not an error.
type KeyValueStore interface {
	// Get returns the value and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
