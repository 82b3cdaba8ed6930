package platform

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"
)

type fakeBlobStore struct {
	objects map[string][]byte
}

func (s *fakeBlobStore) Upload(_ context.Context, bucket, name string, r io.Reader, _ map[string]string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.objects[bucket+"/"+name] = data
	return nil
}

func (s *fakeBlobStore) Download(_ context.Context, bucket, name string) (io.ReadCloser, error) {
	data, ok := s.objects[bucket+"/"+name]
	if !ok {
		return nil, errors.New("object not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeBlobStore) SignedURL(_, _ string, _ time.Duration) (string, error) {
	return "", errors.New("not implemented")
}

func (s *fakeBlobStore) Metadata(_ context.Context, _, _ string) (*BlobMetadata, error) {
	return nil, errors.New("not implemented")
}

func (s *fakeBlobStore) Delete(_ context.Context, bucket, name string) error {
	delete(s.objects, bucket+"/"+name)
	return nil
}

func (s *fakeBlobStore) Close() error { return nil }

type pathRecordingTranscriber struct {
	paths []string
}

func (t *pathRecordingTranscriber) Transcribe(_ context.Context, path string) (string, error) {
	t.paths = append(t.paths, path)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return "transcript of " + string(data), nil
}

func TestMediaTranscriberGSRef(t *testing.T) {
	blobs := &fakeBlobStore{objects: map[string][]byte{
		"media/clips/interview.mp3": []byte("audio-bytes"),
	}}
	inner := &pathRecordingTranscriber{}
	mt := NewMediaTranscriber(blobs, inner)

	got, err := mt.Transcribe(context.Background(), "gs://media/clips/interview.mp3")
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if got != "transcript of audio-bytes" {
		t.Fatalf("got %q", got)
	}
	if len(inner.paths) != 1 || !strings.HasSuffix(inner.paths[0], ".mp3") {
		t.Fatalf("temp file must keep the extension, got %v", inner.paths)
	}
	if _, err := os.Stat(inner.paths[0]); !os.IsNotExist(err) {
		t.Fatalf("temp file %s should be removed", inner.paths[0])
	}
}

func TestMediaTranscriberLocalPathPassthrough(t *testing.T) {
	inner := &pathRecordingTranscriber{}
	mt := NewMediaTranscriber(&fakeBlobStore{objects: map[string][]byte{}}, inner)

	_, err := mt.Transcribe(context.Background(), "/nonexistent/local.wav")
	if err == nil {
		t.Fatal("expected read error from inner transcriber")
	}
	if len(inner.paths) != 1 || inner.paths[0] != "/nonexistent/local.wav" {
		t.Fatalf("local path must pass through untouched, got %v", inner.paths)
	}
}

func TestMediaTranscriberInvalidRef(t *testing.T) {
	mt := NewMediaTranscriber(&fakeBlobStore{objects: map[string][]byte{}}, &pathRecordingTranscriber{})

	if _, err := mt.Transcribe(context.Background(), "gs://bucket-only"); err == nil {
		t.Fatal("expected error for gs:// ref without object")
	}
	if _, err := mt.Transcribe(context.Background(), "gs://media/missing.mp3"); err == nil {
		t.Fatal("expected error for missing object")
	}
}
