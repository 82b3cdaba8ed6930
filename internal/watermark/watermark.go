// Package watermark produces and verifies tamper-evident markers for text
// content, and supports embedding them invisibly inside the text itself via
// a zero-width character. The marker survives plain-text copy/paste but is
// trivially stripped; treat it as best-effort provenance, not a security
// boundary.
package watermark

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Marker is the zero-width space that separates content from an embedded token
const Marker = "​"

// DefaultSecret is used when no secret is configured. Deployments should
// override it via config so tokens cannot be forged with the public default.
const DefaultSecret = "athena-secret-key"

// Engine generates and verifies watermark tokens keyed by a shared secret
type Engine struct {
	secret string
	now    func() time.Time
}

// NewEngine creates an engine with the given shared secret. An empty secret
// falls back to DefaultSecret.
func NewEngine(secret string) *Engine {
	if secret == "" {
		secret = DefaultSecret
	}
	return &Engine{secret: secret, now: time.Now}
}

// payload is the canonical serialized form inside a token. encoding/json
// marshals struct fields in declaration order and map keys sorted, so the
// serialization is deterministic for a given payload.
type payload struct {
	ContentHash string            `json:"content_hash"`
	Timestamp   string            `json:"timestamp"`
	Metadata    map[string]string `json:"metadata"`
}

// Result is the outcome of verifying or extracting a watermark. Malformed
// input is a normal outcome, reported via IsValid=false and Error, never a
// Go error.
type Result struct {
	IsValid      bool              `json:"is_valid"`
	ContentMatch bool              `json:"content_match"`
	Timestamp    string            `json:"timestamp,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	OriginalText string            `json:"original_text,omitempty"`
	Error        string            `json:"error,omitempty"`
}

// Generate computes a keyed digest over content and packages it with the
// issuance timestamp and metadata into a base64 token safe to store or
// transmit as plain text.
func (e *Engine) Generate(content string, metadata map[string]string) string {
	if metadata == nil {
		metadata = map[string]string{}
	}
	p := payload{
		ContentHash: e.digest(content),
		Timestamp:   e.now().UTC().Format(time.RFC3339),
		Metadata:    metadata,
	}
	raw, _ := json.Marshal(p) // payload contains only marshalable types
	return base64.StdEncoding.EncodeToString(raw)
}

// Verify checks whether content matches the digest stored in token.
// Verification is a pure function of content and token.
func (e *Engine) Verify(content, token string) Result {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return Result{Error: fmt.Sprintf("invalid watermark format: %v", err)}
	}

	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Result{Error: fmt.Sprintf("invalid watermark format: %v", err)}
	}

	expected := e.digest(content)
	match := subtle.ConstantTimeCompare([]byte(expected), []byte(p.ContentHash)) == 1

	meta := p.Metadata
	if meta == nil {
		meta = map[string]string{}
	}
	return Result{
		IsValid:      match,
		ContentMatch: match,
		Timestamp:    p.Timestamp,
		Metadata:     meta,
	}
}

// Embed appends a zero-width marker and a freshly generated token to content
func (e *Engine) Embed(content string, metadata map[string]string) string {
	return content + Marker + e.Generate(content, metadata)
}

// Extract splits marked text on the last zero-width marker and verifies the
// token against everything before it. Text without a marker yields
// IsValid=false with a "no watermark found" error.
func (e *Engine) Extract(marked string) Result {
	idx := strings.LastIndex(marked, Marker)
	if idx < 0 {
		return Result{Error: "no watermark found"}
	}

	original := marked[:idx]
	token := marked[idx+len(Marker):]

	result := e.Verify(original, token)
	result.OriginalText = original
	return result
}

// digest returns the base64-encoded SHA-256 of content concatenated with the
// shared secret
func (e *Engine) digest(content string) string {
	sum := sha256.Sum256([]byte(content + e.secret))
	return base64.StdEncoding.EncodeToString(sum[:])
}
