package textproc

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/athenahq/athena/internal/model"
)

// Transcriber converts audio content (a file path or storage reference) to
// text. Audio and video normalization both go through it; video extraction
// transcribes the audio track.
type Transcriber interface {
	Transcribe(ctx context.Context, ref string) (string, error)
}

// Extractor normalizes non-text content types to plain text
type Extractor struct {
	transcriber Transcriber // nil when no transcription backend is configured
}

// NewExtractor creates an extractor. transcriber may be nil; audio and video
// extraction then fail with a configuration error.
func NewExtractor(transcriber Transcriber) *Extractor {
	return &Extractor{transcriber: transcriber}
}

// Extract converts content of the declared type to plain text. The caller is
// responsible for rejecting unsupported content types; Extract only handles
// the non-text types it knows.
func (e *Extractor) Extract(ctx context.Context, content string, contentType model.ContentType) (string, error) {
	switch contentType {
	case model.ContentTypeText:
		return content, nil
	case model.ContentTypeWebScript:
		return ExtractHTMLText(content)
	case model.ContentTypeAudio, model.ContentTypeVideo:
		if e.transcriber == nil {
			return "", fmt.Errorf("no transcription backend configured for %s content", contentType)
		}
		text, err := e.transcriber.Transcribe(ctx, content)
		if err != nil {
			return "", fmt.Errorf("transcribe %s: %w", contentType, err)
		}
		return text, nil
	default:
		return "", fmt.Errorf("unknown content type: %s", contentType)
	}
}

// ExtractHTMLText parses HTML and returns its visible text, skipping
// script, style, noscript, and iframe subtrees. Unparseable markup falls
// back to the original input.
func ExtractHTMLText(raw string) (string, error) {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		// html.Parse is extremely tolerant; a hard failure means the input
		// was not markup at all, so return it untouched.
		return raw, nil
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.Join(strings.Fields(buf.String()), " "), nil
}
