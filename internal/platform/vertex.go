package platform

import (
	"context"
	"fmt"

	aiplatform "cloud.google.com/go/aiplatform/apiv1"
	"cloud.google.com/go/aiplatform/apiv1/aiplatformpb"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/protobuf/types/known/structpb"
)

// VertexClient routes predictions to a deployed Vertex AI endpoint. It
// implements inference.PredictionClient.
type VertexClient struct {
	client   *aiplatform.PredictionClient
	endpoint string
}

// NewVertexClient connects to the regional Vertex AI prediction API for
// the given endpoint path
// (projects/{p}/locations/{l}/endpoints/{e}).
func NewVertexClient(ctx context.Context, location, endpoint string) (*VertexClient, error) {
	client, err := aiplatform.NewPredictionClient(ctx,
		option.WithEndpoint(fmt.Sprintf("%s-aiplatform.googleapis.com:443", location)))
	if err != nil {
		return nil, eris.Wrap(err, "creating vertex prediction client")
	}
	zap.L().Info("vertex ai client initialized",
		zap.String("location", location),
		zap.String("endpoint", endpoint))
	return &VertexClient{client: client, endpoint: endpoint}, nil
}

// Predict sends instances to the endpoint and decodes one prediction
// map per instance.
func (c *VertexClient) Predict(ctx context.Context, instances []map[string]interface{}) ([]map[string]interface{}, error) {
	encoded := make([]*structpb.Value, 0, len(instances))
	for _, instance := range instances {
		value, err := structpb.NewValue(instance)
		if err != nil {
			return nil, eris.Wrap(err, "encoding prediction instance")
		}
		encoded = append(encoded, value)
	}

	resp, err := c.client.Predict(ctx, &aiplatformpb.PredictRequest{
		Endpoint:  c.endpoint,
		Instances: encoded,
	})
	if err != nil {
		return nil, eris.Wrap(err, "vertex predict")
	}

	predictions := make([]map[string]interface{}, 0, len(resp.GetPredictions()))
	for _, p := range resp.GetPredictions() {
		m, ok := p.AsInterface().(map[string]interface{})
		if !ok {
			m = map[string]interface{}{"value": p.AsInterface()}
		}
		predictions = append(predictions, m)
	}
	return predictions, nil
}

// Close releases the underlying client.
func (c *VertexClient) Close() error {
	return c.client.Close()
}
