package platform

import (
	"context"
	"io"
	"os"
	"path"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Transcriber turns a media file on disk into text.
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

// MediaTranscriber resolves gs:// references by downloading the object
// to a temp file before handing it to the wrapped transcriber. Plain
// file paths pass through untouched.
type MediaTranscriber struct {
	blobs       BlobStore
	transcriber Transcriber
}

// NewMediaTranscriber wraps a transcriber with blob resolution.
func NewMediaTranscriber(blobs BlobStore, transcriber Transcriber) *MediaTranscriber {
	return &MediaTranscriber{blobs: blobs, transcriber: transcriber}
}

// Transcribe turns an audio/video reference into text.
func (m *MediaTranscriber) Transcribe(ctx context.Context, ref string) (string, error) {
	if !strings.HasPrefix(ref, "gs://") {
		return m.transcriber.Transcribe(ctx, ref)
	}

	bucket, object, err := splitGSRef(ref)
	if err != nil {
		return "", err
	}

	r, err := m.blobs.Download(ctx, bucket, object)
	if err != nil {
		return "", err
	}
	defer func() { _ = r.Close() }()

	// Keep the original extension so the transcription API can sniff
	// the container format.
	tmp, err := os.CreateTemp("", "athena-media-*"+path.Ext(object))
	if err != nil {
		return "", eris.Wrap(err, "creating temp file")
	}
	tmpPath := tmp.Name()
	defer func() {
		if err := os.Remove(tmpPath); err != nil {
			zap.L().Warn("temp media cleanup failed", zap.String("path", tmpPath), zap.Error(err))
		}
	}()

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return "", eris.Wrapf(err, "downloading %s", ref)
	}
	if err := tmp.Close(); err != nil {
		return "", eris.Wrap(err, "closing temp file")
	}

	return m.transcriber.Transcribe(ctx, tmpPath)
}

func splitGSRef(ref string) (bucket, object string, err error) {
	trimmed := strings.TrimPrefix(ref, "gs://")
	bucket, object, found := strings.Cut(trimmed, "/")
	if !found || bucket == "" || object == "" {
		return "", "", eris.Errorf("invalid gs:// reference %q", ref)
	}
	return bucket, object, nil
}
