package watermark

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"
)

func TestEngine_GenerateVerifyRoundTrip(t *testing.T) {
	engine := NewEngine("test-secret")

	tests := []struct {
		name     string
		content  string
		metadata map[string]string
	}{
		{"plain text", "The earth is round.", map[string]string{"author": "athena"}},
		{"empty metadata", "Some claim about vaccines.", nil},
		{"unicode content", "Vår jord är rund — 地球是圆的", map[string]string{"lang": "mixed"}},
		{"empty content", "", map[string]string{"k": "v"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := engine.Generate(tt.content, tt.metadata)

			result := engine.Verify(tt.content, token)
			if !result.IsValid {
				t.Fatalf("expected valid result, got error %q", result.Error)
			}
			if !result.ContentMatch {
				t.Error("expected content match")
			}
			if tt.metadata != nil {
				for k, v := range tt.metadata {
					if result.Metadata[k] != v {
						t.Errorf("metadata[%q] = %q, want %q", k, result.Metadata[k], v)
					}
				}
			} else if len(result.Metadata) != 0 {
				t.Errorf("expected empty metadata, got %v", result.Metadata)
			}
		})
	}
}

func TestEngine_VerifyTamperedContent(t *testing.T) {
	engine := NewEngine("test-secret")

	token := engine.Generate("original statement", nil)
	result := engine.Verify("altered statement", token)

	if result.ContentMatch {
		t.Error("expected content mismatch for altered content")
	}
	if result.IsValid {
		t.Error("expected invalid result for altered content")
	}
}

func TestEngine_VerifyDifferentSecret(t *testing.T) {
	token := NewEngine("secret-a").Generate("content", nil)
	result := NewEngine("secret-b").Verify("content", token)

	if result.IsValid {
		t.Error("token from a different secret should not verify")
	}
}

func TestEngine_VerifyMalformedToken(t *testing.T) {
	engine := NewEngine("test-secret")

	tests := []struct {
		name  string
		token string
	}{
		{"not base64", "!!!not-base64!!!"},
		{"base64 but not json", base64.StdEncoding.EncodeToString([]byte("hello"))},
		{"empty token", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := engine.Verify("content", tt.token)
			if result.IsValid {
				t.Error("malformed token should be invalid")
			}
			if tt.name != "empty token" && result.Error == "" {
				t.Error("malformed token should carry a descriptive error")
			}
		})
	}
}

func TestEngine_EmbedExtractRoundTrip(t *testing.T) {
	engine := NewEngine("test-secret")
	content := "Coffee was first cultivated in Ethiopia."
	metadata := map[string]string{"origin": "editorial"}

	marked := engine.Embed(content, metadata)
	if !strings.HasPrefix(marked, content+Marker) {
		t.Fatal("embedded text should start with content followed by marker")
	}

	result := engine.Extract(marked)
	if !result.IsValid {
		t.Fatalf("expected valid extraction, got error %q", result.Error)
	}
	if result.OriginalText != content {
		t.Errorf("original text = %q, want %q", result.OriginalText, content)
	}
	if result.Metadata["origin"] != "editorial" {
		t.Errorf("metadata not recovered: %v", result.Metadata)
	}
}

func TestEngine_ExtractContentWithEmbeddedMarkers(t *testing.T) {
	// Content that itself contains zero-width spaces must survive the
	// round trip; extraction splits on the LAST marker.
	engine := NewEngine("test-secret")
	content := "before" + Marker + "after"

	result := engine.Extract(engine.Embed(content, nil))
	if !result.IsValid {
		t.Fatalf("expected valid extraction, got error %q", result.Error)
	}
	if result.OriginalText != content {
		t.Errorf("original text = %q, want %q", result.OriginalText, content)
	}
}

func TestEngine_ExtractNoMarker(t *testing.T) {
	engine := NewEngine("test-secret")

	result := engine.Extract("plain text without any watermark")
	if result.IsValid {
		t.Error("text without marker should be invalid")
	}
	if result.Error != "no watermark found" {
		t.Errorf("error = %q, want %q", result.Error, "no watermark found")
	}
}

func TestEngine_GenerateTimestamp(t *testing.T) {
	engine := NewEngine("test-secret")
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	engine.now = func() time.Time { return fixed }

	result := engine.Verify("c", engine.Generate("c", nil))
	if result.Timestamp != "2025-06-01T12:00:00Z" {
		t.Errorf("timestamp = %q, want %q", result.Timestamp, "2025-06-01T12:00:00Z")
	}
}

func TestEngine_TokenIsPlainTextSafe(t *testing.T) {
	engine := NewEngine("test-secret")
	token := engine.Generate("content", map[string]string{"a": "b"})

	if _, err := base64.StdEncoding.DecodeString(token); err != nil {
		t.Errorf("token should be valid base64: %v", err)
	}
}
