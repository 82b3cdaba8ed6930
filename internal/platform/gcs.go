package platform

import (
	"context"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// GCSStore implements BlobStore on Google Cloud Storage.
type GCSStore struct {
	client *storage.Client
}

// NewGCSStore connects to Cloud Storage using ambient credentials.
func NewGCSStore(ctx context.Context) (*GCSStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "creating storage client")
	}
	zap.L().Info("cloud storage client initialized")
	return &GCSStore{client: client}, nil
}

// Upload writes r to the named object, attaching metadata when given.
func (s *GCSStore) Upload(ctx context.Context, bucket, name string, r io.Reader, metadata map[string]string) error {
	w := s.client.Bucket(bucket).Object(name).NewWriter(ctx)
	if len(metadata) > 0 {
		w.Metadata = metadata
	}
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return eris.Wrapf(err, "uploading %s/%s", bucket, name)
	}
	if err := w.Close(); err != nil {
		return eris.Wrapf(err, "finalizing upload %s/%s", bucket, name)
	}
	zap.L().Debug("object uploaded",
		zap.String("bucket", bucket),
		zap.String("object", name))
	return nil
}

// Download opens the named object for reading. The caller closes the
// returned reader.
func (s *GCSStore) Download(ctx context.Context, bucket, name string) (io.ReadCloser, error) {
	r, err := s.client.Bucket(bucket).Object(name).NewReader(ctx)
	if err != nil {
		return nil, eris.Wrapf(err, "opening %s/%s", bucket, name)
	}
	return r, nil
}

// SignedURL returns a V4 signed GET URL for the named object.
func (s *GCSStore) SignedURL(bucket, name string, expiry time.Duration) (string, error) {
	url, err := s.client.Bucket(bucket).SignedURL(name, &storage.SignedURLOptions{
		Method:  "GET",
		Expires: time.Now().Add(expiry),
		Scheme:  storage.SigningSchemeV4,
	})
	if err != nil {
		return "", eris.Wrapf(err, "signing URL for %s/%s", bucket, name)
	}
	return url, nil
}

// Metadata returns the attributes of the named object.
func (s *GCSStore) Metadata(ctx context.Context, bucket, name string) (*BlobMetadata, error) {
	attrs, err := s.client.Bucket(bucket).Object(name).Attrs(ctx)
	if err != nil {
		return nil, eris.Wrapf(err, "reading attrs of %s/%s", bucket, name)
	}
	return &BlobMetadata{
		Name:        attrs.Name,
		Size:        attrs.Size,
		ContentType: attrs.ContentType,
		Created:     attrs.Created,
		Updated:     attrs.Updated,
		Metadata:    attrs.Metadata,
	}, nil
}

// Delete removes the named object.
func (s *GCSStore) Delete(ctx context.Context, bucket, name string) error {
	if err := s.client.Bucket(bucket).Object(name).Delete(ctx); err != nil {
		return eris.Wrapf(err, "deleting %s/%s", bucket, name)
	}
	return nil
}

// Close releases the underlying client.
func (s *GCSStore) Close() error {
	return s.client.Close()
}
