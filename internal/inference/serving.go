package inference

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// PredictionClient sends instances to a deployed model endpoint and
// returns one prediction per instance.
type PredictionClient interface {
	Predict(ctx context.Context, instances []map[string]interface{}) ([]map[string]interface{}, error)
}

// ServingAnalyzer runs misinformation analysis against a deployed model
// endpoint.
type ServingAnalyzer struct {
	client PredictionClient
}

// NewServingAnalyzer creates an analyzer backed by a model endpoint.
func NewServingAnalyzer(client PredictionClient) *ServingAnalyzer {
	return &ServingAnalyzer{client: client}
}

// Analyze sends the text to the model endpoint and maps the prediction
// into an Analysis.
func (a *ServingAnalyzer) Analyze(ctx context.Context, text string, extra map[string]string) (Analysis, error) {
	instance := map[string]interface{}{"text": text}
	for k, v := range extra {
		instance[k] = v
	}

	predictions, err := a.client.Predict(ctx, []map[string]interface{}{instance})
	if err != nil {
		return Analysis{}, eris.Wrap(err, "model prediction")
	}
	if len(predictions) == 0 {
		return Analysis{}, eris.New("model returned no predictions")
	}

	analysis := decodePrediction(predictions[0])
	zap.L().Debug("model analysis",
		zap.Bool("is_misinformation", analysis.IsMisinformation),
		zap.Float64("confidence", analysis.Confidence))
	return analysis, nil
}

func decodePrediction(prediction map[string]interface{}) Analysis {
	analysis := Analysis{Sources: []AnalysisSource{}}
	if v, ok := prediction["is_misinformation"].(bool); ok {
		analysis.IsMisinformation = v
	}
	if v, ok := prediction["confidence"].(float64); ok {
		analysis.Confidence = v
	}
	if v, ok := prediction["explanation"].(string); ok {
		analysis.Explanation = v
	}
	if raw, ok := prediction["sources"].([]interface{}); ok {
		for _, entry := range raw {
			m, ok := entry.(map[string]interface{})
			if !ok {
				continue
			}
			src := AnalysisSource{}
			if t, ok := m["title"].(string); ok {
				src.Title = t
			}
			if u, ok := m["url"].(string); ok {
				src.URL = u
			}
			analysis.Sources = append(analysis.Sources, src)
		}
	}
	return analysis
}
