package inference

import (
	"context"
	"errors"
	"testing"
)

func TestNullRetriever(t *testing.T) {
	r := NewNullRetriever()
	ctx := context.Background()

	docs, err := r.Retrieve(ctx, "any query", 3)
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d docs, want 2", len(docs))
	}

	one, err := r.Retrieve(ctx, "any query", 1)
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if len(one) != 1 {
		t.Fatalf("got %d docs, want 1", len(one))
	}

	answer, err := r.GenerateAnswer(ctx, "any query", docs)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(answer.Sources) != 2 {
		t.Fatalf("got %d sources, want 2", len(answer.Sources))
	}
	if answer.Confidence != 0.92 {
		t.Fatalf("got confidence %v, want 0.92", answer.Confidence)
	}
}

func TestNullHallucinationDetector(t *testing.T) {
	d := NewNullHallucinationDetector()

	report, err := d.Detect(context.Background(), "some text", nil)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if report.HasHallucination {
		t.Fatal("placeholder must report no hallucination")
	}
	if report.Suggestions == nil {
		t.Fatal("suggestions must be empty, not nil")
	}

	checks, err := d.VerifyFacts(context.Background(), "some text", nil)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if len(checks) != 1 || !checks[0].IsSupported {
		t.Fatalf("unexpected fact checks: %+v", checks)
	}
}

func TestNullAdversarialDefense(t *testing.T) {
	d := NewNullAdversarialDefense()

	style, err := d.DetectStyleAttack(context.Background(), "text")
	if err != nil {
		t.Fatalf("style: %v", err)
	}
	if style.IsAttack {
		t.Fatal("placeholder must report no attack")
	}

	sheepdog, err := d.DetectSheepdogAttack(context.Background(), "text")
	if err != nil {
		t.Fatalf("sheepdog: %v", err)
	}
	if sheepdog.IsAttack {
		t.Fatal("placeholder must report no attack")
	}

	if got := d.SanitizeInput("  padded  "); got != "padded" {
		t.Fatalf("got %q, want %q", got, "padded")
	}
}

func TestNullAnalyzer(t *testing.T) {
	a := NewNullAnalyzer()
	analysis, err := a.Analyze(context.Background(), "claim", nil)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if analysis.IsMisinformation {
		t.Fatal("placeholder must report no misinformation")
	}
	if len(analysis.Sources) != 1 {
		t.Fatalf("got %d sources, want 1", len(analysis.Sources))
	}
}

type fakePredictionClient struct {
	predictions []map[string]interface{}
	err         error
	instances   []map[string]interface{}
}

func (c *fakePredictionClient) Predict(_ context.Context, instances []map[string]interface{}) ([]map[string]interface{}, error) {
	c.instances = instances
	return c.predictions, c.err
}

func TestServingAnalyzer(t *testing.T) {
	client := &fakePredictionClient{predictions: []map[string]interface{}{
		{
			"is_misinformation": true,
			"confidence":        0.91,
			"explanation":       "Contradicts official statistics.",
			"sources": []interface{}{
				map[string]interface{}{"title": "Census data", "url": "https://census.gov/x"},
			},
		},
	}}
	a := NewServingAnalyzer(client)

	analysis, err := a.Analyze(context.Background(), "the population doubled last year", map[string]string{"lang": "en"})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !analysis.IsMisinformation {
		t.Fatal("expected misinformation verdict")
	}
	if analysis.Confidence != 0.91 {
		t.Fatalf("got confidence %v, want 0.91", analysis.Confidence)
	}
	if len(analysis.Sources) != 1 || analysis.Sources[0].URL != "https://census.gov/x" {
		t.Fatalf("unexpected sources: %+v", analysis.Sources)
	}
	if len(client.instances) != 1 || client.instances[0]["lang"] != "en" {
		t.Fatalf("extra fields not forwarded: %+v", client.instances)
	}
}

func TestServingAnalyzerErrors(t *testing.T) {
	a := NewServingAnalyzer(&fakePredictionClient{err: errors.New("endpoint down")})
	if _, err := a.Analyze(context.Background(), "text", nil); err == nil {
		t.Fatal("expected error from failing client")
	}

	a = NewServingAnalyzer(&fakePredictionClient{})
	if _, err := a.Analyze(context.Background(), "text", nil); err == nil {
		t.Fatal("expected error on empty predictions")
	}
}
