// Package platform adapts managed cloud services behind small
// capability interfaces so the rest of the service never touches a
// vendor SDK directly.
package platform

import (
	"context"
	"io"
	"time"
)

// KeyValueStore is a document-oriented key-value capability.
type KeyValueStore interface {
	GetDocument(ctx context.Context, collection, id string) (map[string]interface{}, error)
	SetDocument(ctx context.Context, collection, id string, data map[string]interface{}) error
	QueryDocuments(ctx context.Context, collection, field, operator string, value interface{}) ([]map[string]interface{}, error)
	DeleteDocument(ctx context.Context, collection, id string) error
	Close() error
}

// Message is a published event.
type Message struct {
	Data       []byte
	Attributes map[string]string
}

// MessageBus publishes events and delivers subscribed messages.
type MessageBus interface {
	Publish(ctx context.Context, topic string, msg Message) (string, error)
	Subscribe(ctx context.Context, subscription string, handler func(ctx context.Context, msg Message) error) error
	Close() error
}

// BlobMetadata describes a stored object.
type BlobMetadata struct {
	Name        string
	Size        int64
	ContentType string
	Created     time.Time
	Updated     time.Time
	Metadata    map[string]string
}

// BlobStore stores and retrieves binary objects, typically submitted
// audio and video awaiting transcription.
type BlobStore interface {
	Upload(ctx context.Context, bucket, name string, r io.Reader, metadata map[string]string) error
	Download(ctx context.Context, bucket, name string) (io.ReadCloser, error)
	SignedURL(bucket, name string, expiry time.Duration) (string, error)
	Metadata(ctx context.Context, bucket, name string) (*BlobMetadata, error)
	Delete(ctx context.Context, bucket, name string) error
	Close() error
}
