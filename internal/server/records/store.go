// Package records defines the persistence contract for pulsecheck: opaque
// JSON documents addressed by (collection, id). Concrete backends live in the
// badgerstore, sqlstore and s3store subpackages.
package records

import "context"

// Collections used by the server.
const (
	Users  = "users"
	Tokens = "tokens"
	Checks = "checks"
)

// Store persists documents keyed by collection and id.
//
// Create fails with common.ErrorAlreadyExists when the record exists.
// Read, Update and Delete fail with common.ErrorNotFound when it does not.
// Any other failure is a storage error and must not wrap ErrorNotFound.
type Store interface {
	Create(ctx context.Context, collection, id string, data []byte) error
	Read(ctx context.Context, collection, id string) ([]byte, error)
	Update(ctx context.Context, collection, id string, data []byte) error
	Delete(ctx context.Context, collection, id string) error
	Close() error
}
