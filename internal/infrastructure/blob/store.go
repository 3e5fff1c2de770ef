// Package blob wraps the object store holding certificate material.
package blob

import "context"

// Store is the named-blob capability the certificate resolver consumes.
// No retries happen at this layer; callers decide whether to fall back.
type Store interface {
	// Download returns the object bytes, or errors.ErrBlobNotFound when the
	// path has no object.
	Download(ctx context.Context, path string) ([]byte, error)
	Upload(ctx context.Context, path string, data []byte) error
	Exists(ctx context.Context, path string) (bool, error)
}
