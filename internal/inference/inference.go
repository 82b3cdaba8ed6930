// Package inference defines the model-backed analysis capabilities of
// the service. Real models are not deployed yet; the Null
// implementations return fixed placeholder output so the surrounding
// pipeline, API, and storage layers can be built and tested against
// stable contracts.
package inference

import "context"

// Document is one retrieved knowledge-base entry.
type Document struct {
	Text   string  `json:"text"`
	Source string  `json:"source"`
	Score  float64 `json:"score"`
}

// Answer is a generated response grounded in retrieved documents.
type Answer struct {
	Text       string   `json:"answer"`
	Sources    []string `json:"sources"`
	Confidence float64  `json:"confidence"`
}

// Retriever finds documents relevant to a query and generates grounded
// answers from them.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]Document, error)
	GenerateAnswer(ctx context.Context, query string, docs []Document) (Answer, error)
}

// HallucinationReport describes whether text contradicts its context.
type HallucinationReport struct {
	HasHallucination bool     `json:"has_hallucination"`
	Confidence       float64  `json:"confidence"`
	Explanation      string   `json:"explanation"`
	Suggestions      []string `json:"suggestions"`
}

// FactCheck is one fact extracted from text and checked against a
// knowledge base.
type FactCheck struct {
	Fact        string   `json:"fact"`
	IsSupported bool     `json:"is_supported"`
	Sources     []string `json:"sources"`
	Confidence  float64  `json:"confidence"`
}

// HallucinationDetector checks generated text against source context.
type HallucinationDetector interface {
	Detect(ctx context.Context, text string, context []string) (HallucinationReport, error)
	VerifyFacts(ctx context.Context, text string, knowledgeBase []Document) ([]FactCheck, error)
}

// AttackReport describes a detected adversarial manipulation attempt.
type AttackReport struct {
	IsAttack            bool    `json:"is_attack"`
	Confidence          float64 `json:"confidence"`
	AttackType          string  `json:"attack_type,omitempty"`
	Explanation         string  `json:"explanation"`
	SuggestedMitigation string  `json:"suggested_mitigation,omitempty"`
}

// AdversarialDefense screens input text for adversarial rewriting
// intended to slip misinformation past classifiers.
type AdversarialDefense interface {
	DetectStyleAttack(ctx context.Context, text string) (AttackReport, error)
	DetectSheepdogAttack(ctx context.Context, text string) (AttackReport, error)
	SanitizeInput(text string) string
}

// Analysis is the combined misinformation verdict for a piece of text.
type Analysis struct {
	IsMisinformation bool             `json:"is_misinformation"`
	Confidence       float64          `json:"confidence"`
	Explanation      string           `json:"explanation"`
	Sources          []AnalysisSource `json:"sources"`
}

// AnalysisSource backs an analysis verdict.
type AnalysisSource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Analyzer produces a misinformation verdict for text.
type Analyzer interface {
	Analyze(ctx context.Context, text string, extra map[string]string) (Analysis, error)
}
