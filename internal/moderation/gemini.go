package moderation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured
const DefaultGeminiModel = "gemini-flash-latest"

// Generator is the subset of the genai models API the moderator needs
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini asks a Gemini model to label text GOOD or BAD
type Gemini struct {
	generator Generator
	model     string
	timeout   time.Duration
	logger    *zap.Logger
}

// NewGeminiClient connects to the Gemini API with apiKey
func NewGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return client, nil
}

// NewGemini creates a Gemini moderator. A zero timeout means 5s.
func NewGemini(generator Generator, model string, timeout time.Duration, logger *zap.Logger) *Gemini {
	if model == "" {
		model = DefaultGeminiModel
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Gemini{generator: generator, model: model, timeout: timeout, logger: logger}
}

func prompt(text string) string {
	return fmt.Sprintf("Role: Content Moderator. Task: Check text for toxicity. Text: %q. Output ONLY: 'GOOD' (safe) or 'BAD' (toxic).", text)
}

func (g *Gemini) Moderate(ctx context.Context, text string) Verdict {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.generator.GenerateContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromText(prompt(text), genai.RoleUser)}, nil)
	if err != nil {
		g.logger.Warn("Gemini moderation failed", zap.Error(err))
		return Unavailable
	}
	answer := strings.ToUpper(responseText(resp))
	switch {
	case strings.Contains(answer, "BAD"):
		return Unsafe
	case strings.Contains(answer, "GOOD"):
		return Safe
	default:
		g.logger.Warn("Unrecognized Gemini moderation answer", zap.String("answer", answer))
		return Unavailable
	}
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	c := resp.Candidates[0]
	if c == nil || c.Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range c.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(sb.String())
}
