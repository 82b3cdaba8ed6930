package platform

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	openai "github.com/sashabaranov/go-openai"
)

const analysisSystemPrompt = `You are a misinformation analyst. For each input you receive,
respond with a single JSON object with the keys "is_misinformation" (boolean),
"confidence" (number between 0 and 1), "explanation" (string), and
"sources" (array of {"title","url"} objects). Respond with JSON only.`

// OpenAIClient adapts the OpenAI API as a transcription backend and a
// chat-based prediction backend for environments without a deployed
// model endpoint.
type OpenAIClient struct {
	client    *openai.Client
	chatModel string
}

// NewOpenAIClient creates the adapter. An empty chatModel falls back to
// gpt-4o-mini.
func NewOpenAIClient(apiKey, chatModel string) *OpenAIClient {
	if chatModel == "" {
		chatModel = openai.GPT4oMini
	}
	return &OpenAIClient{
		client:    openai.NewClient(apiKey),
		chatModel: chatModel,
	}
}

// Transcribe runs Whisper over the audio or video file at path and
// returns the transcript text.
func (c *OpenAIClient) Transcribe(ctx context.Context, path string) (string, error) {
	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: path,
	})
	if err != nil {
		return "", eris.Wrapf(err, "transcribing %s", path)
	}
	return resp.Text, nil
}

// Predict implements chat-based analysis with the same contract as a
// deployed model endpoint: one prediction map per instance.
func (c *OpenAIClient) Predict(ctx context.Context, instances []map[string]interface{}) ([]map[string]interface{}, error) {
	predictions := make([]map[string]interface{}, 0, len(instances))
	for _, instance := range instances {
		payload, err := json.Marshal(instance)
		if err != nil {
			return nil, eris.Wrap(err, "encoding instance")
		}

		resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: c.chatModel,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: analysisSystemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: string(payload)},
			},
			Temperature: 0,
		})
		if err != nil {
			return nil, eris.Wrap(err, "chat completion")
		}
		if len(resp.Choices) == 0 {
			return nil, eris.New("chat completion returned no choices")
		}

		var prediction map[string]interface{}
		content := stripCodeFence(resp.Choices[0].Message.Content)
		if err := json.Unmarshal([]byte(content), &prediction); err != nil {
			return nil, eris.Wrap(err, "decoding model response")
		}
		predictions = append(predictions, prediction)
	}
	return predictions, nil
}

// stripCodeFence removes a ```json ... ``` wrapper some models add even
// when asked for bare JSON.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
