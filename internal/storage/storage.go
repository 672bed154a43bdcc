// Package storage keeps uploaded resume documents in an S3-compatible object
// store.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Fetch for an unknown reference.
var ErrNotFound = errors.New("document not found")

// Object describes a stored document.
type Object struct {
	Reference string
	SizeBytes int64
	URL       string
}

// Document is a fetched document with its metadata.
type Document struct {
	Bytes     []byte
	MimeType  string
	Name      string
	SizeBytes int64
}

// DocumentStore uploads, fetches and deletes opaque document blobs.
type DocumentStore interface {
	Store(ctx context.Context, data []byte, name, mimeType string) (Object, error)
	Fetch(ctx context.Context, reference string) (Document, error)
	Delete(ctx context.Context, reference string) error
}
