package llm

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/safemind-ai/safemind/internal/core"
	"github.com/safemind-ai/safemind/internal/models"
)

type GeminiLLM struct {
	client    *genai.Client
	modelName string
}

func NewGeminiLLM(ctx context.Context, apiKey, modelName string) (*GeminiLLM, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	return &GeminiLLM{client: cl, modelName: modelName}, nil
}

func (g *GeminiLLM) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// GenerateStream sends the user turn with the prior conversation as
// chat history and forwards each streamed text part to onFragment.
// An error from onFragment aborts the stream and is returned as-is.
func (g *GeminiLLM) GenerateStream(ctx context.Context, systemPrompt string, history []models.Message, userText string, onFragment core.FragmentFunc) error {
	m := g.client.GenerativeModel(g.modelName)
	if systemPrompt != "" {
		m.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(systemPrompt)},
		}
	}

	cs := m.StartChat()
	cs.History = toGenaiHistory(history)

	iter := cs.SendMessageStream(ctx, genai.Text(userText))
	for {
		resp, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("gemini stream: %w", err)
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			continue
		}
		for _, p := range resp.Candidates[0].Content.Parts {
			t, ok := p.(genai.Text)
			if !ok || t == "" {
				continue
			}
			if err := onFragment(string(t)); err != nil {
				return err
			}
		}
	}
}

// toGenaiHistory maps stored turns onto genai chat roles. Gemini calls
// the assistant side "model".
func toGenaiHistory(history []models.Message) []*genai.Content {
	out := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		role := "user"
		if msg.Role == models.RoleAssistant {
			role = "model"
		}
		out = append(out, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}
	return out
}

var _ core.StreamingLLM = (*GeminiLLM)(nil)
