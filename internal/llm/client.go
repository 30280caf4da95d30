package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/tutorlab/ds-tutor/internal/prompt"
)

// ErrUpstream marks a failure of the hosted model call: network errors,
// credential problems, provider-side errors, and deadline expiry all wrap
// it. Callers classify with errors.Is and decide whether to surface or
// retry; the client itself never retries.
var ErrUpstream = errors.New("upstream completion failure")

// Client wraps the Gemini SDK for chat completions.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient dials the Gemini API with the given credential. The model name
// selects which generative model serves completions.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

func (c *Client) Close() {
	if c.client != nil {
		if err := c.client.Close(); err != nil {
			log.Printf("Error closing GenAI client: %v", err)
		}
	}
}

// Complete sends an assembled prompt and returns the model's text verbatim.
// The sequence must carry the system instruction first and the new user
// message last; everything between is replayed as chat history.
func (c *Client) Complete(ctx context.Context, messages []prompt.Message) (string, error) {
	if len(messages) < 2 {
		return "", fmt.Errorf("%w: prompt needs a system instruction and a user message", ErrUpstream)
	}
	last := messages[len(messages)-1]
	if last.Role != prompt.RoleUser {
		return "", fmt.Errorf("%w: last prompt message has role %q, want %q", ErrUpstream, last.Role, prompt.RoleUser)
	}

	model := c.client.GenerativeModel(c.model)
	if messages[0].Role == prompt.RoleSystem {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(messages[0].Content)},
		}
		messages = messages[1:]
	}

	history := make([]*genai.Content, 0, len(messages)-1)
	for _, m := range messages[:len(messages)-1] {
		history = append(history, &genai.Content{
			Role:  providerRole(m.Role),
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}

	chatSession := model.StartChat()
	chatSession.History = history

	resp, err := chatSession.SendMessage(ctx, genai.Text(last.Content))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: response had no candidates", ErrUpstream)
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		} else {
			log.Printf("Gemini response part was not text: %T", part)
		}
	}
	if responseText.Len() == 0 {
		return "", fmt.Errorf("%w: response contained no text parts", ErrUpstream)
	}

	return responseText.String(), nil
}

// providerRole maps stored roles onto the wire roles Gemini expects.
func providerRole(role string) string {
	if role == prompt.RoleAssistant {
		return "model"
	}
	return "user"
}
