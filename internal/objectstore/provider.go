// Package objectstore defines the attachment object storage abstraction.
package objectstore

import "io"

// Provider is the interface to the external object store holding uploaded
// attachments under flat keys inside a logical bucket.
type Provider interface {
	// Put writes the object under key and returns the number of bytes stored.
	// Exactly one object is written per successful call.
	Put(key string, r io.Reader) (int64, error)
	// Open returns a reader for the stored object.
	Open(key string) (io.ReadCloser, error)
	// List returns every key currently present in the bucket.
	List() ([]string, error)
	// PublicURL resolves the retrieval URL for a stored key.
	PublicURL(key string) string
}
