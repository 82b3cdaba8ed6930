package inference

import (
	"context"
	"strings"
)

// NullRetriever is a placeholder Retriever returning fixed documents.
type NullRetriever struct{}

// NewNullRetriever creates the placeholder retriever.
func NewNullRetriever() *NullRetriever { return &NullRetriever{} }

// Retrieve returns up to topK fixed documents.
func (r *NullRetriever) Retrieve(_ context.Context, _ string, topK int) ([]Document, error) {
	docs := []Document{
		{Text: "Sample document 1", Source: "trusted_source_1", Score: 0.95},
		{Text: "Sample document 2", Source: "trusted_source_2", Score: 0.89},
	}
	if topK >= 0 && topK < len(docs) {
		docs = docs[:topK]
	}
	return docs, nil
}

// GenerateAnswer returns a fixed answer citing the given documents.
func (r *NullRetriever) GenerateAnswer(_ context.Context, _ string, docs []Document) (Answer, error) {
	sources := make([]string, 0, len(docs))
	for _, d := range docs {
		sources = append(sources, d.Source)
	}
	return Answer{
		Text:       "This is a sample response based on the retrieved context.",
		Sources:    sources,
		Confidence: 0.92,
	}, nil
}

// NullHallucinationDetector is a placeholder that reports no
// hallucinations.
type NullHallucinationDetector struct{}

// NewNullHallucinationDetector creates the placeholder detector.
func NewNullHallucinationDetector() *NullHallucinationDetector {
	return &NullHallucinationDetector{}
}

// Detect always reports consistent text.
func (d *NullHallucinationDetector) Detect(_ context.Context, _ string, _ []string) (HallucinationReport, error) {
	return HallucinationReport{
		HasHallucination: false,
		Confidence:       0.92,
		Explanation:      "The text appears to be consistent with the provided context.",
		Suggestions:      []string{},
	}, nil
}

// VerifyFacts always reports one supported fact.
func (d *NullHallucinationDetector) VerifyFacts(_ context.Context, _ string, _ []Document) ([]FactCheck, error) {
	return []FactCheck{
		{
			Fact:        "Sample fact",
			IsSupported: true,
			Sources:     []string{"trusted_source_1"},
			Confidence:  0.95,
		},
	}, nil
}

// NullAdversarialDefense is a placeholder that detects no attacks and
// only trims whitespace when sanitizing.
type NullAdversarialDefense struct{}

// NewNullAdversarialDefense creates the placeholder defense.
func NewNullAdversarialDefense() *NullAdversarialDefense {
	return &NullAdversarialDefense{}
}

// DetectStyleAttack always reports no style-based attack.
func (d *NullAdversarialDefense) DetectStyleAttack(_ context.Context, _ string) (AttackReport, error) {
	return AttackReport{
		IsAttack:    false,
		Confidence:  0.65,
		Explanation: "No style-based attack detected.",
	}, nil
}

// DetectSheepdogAttack always reports no deliberate-misinformation
// rewriting.
func (d *NullAdversarialDefense) DetectSheepdogAttack(_ context.Context, _ string) (AttackReport, error) {
	return AttackReport{
		IsAttack:    false,
		Confidence:  0.72,
		Explanation: "No SheepDog attack detected.",
	}, nil
}

// SanitizeInput trims surrounding whitespace.
func (d *NullAdversarialDefense) SanitizeInput(text string) string {
	return strings.TrimSpace(text)
}

// NullAnalyzer is a placeholder Analyzer returning a fixed verdict.
type NullAnalyzer struct{}

// NewNullAnalyzer creates the placeholder analyzer.
func NewNullAnalyzer() *NullAnalyzer { return &NullAnalyzer{} }

// Analyze always returns a non-misinformation verdict.
func (a *NullAnalyzer) Analyze(_ context.Context, _ string, _ map[string]string) (Analysis, error) {
	return Analysis{
		IsMisinformation: false,
		Confidence:       0.85,
		Explanation:      "This appears to be a factual statement based on available sources.",
		Sources: []AnalysisSource{
			{Title: "Source 1", URL: "https://example.com/source1"},
		},
	}, nil
}
