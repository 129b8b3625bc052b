package suggest

import (
	"context"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"
)

// Placeholders returned instead of errors. The suggestion boundary
// never fails a caller; it degrades to fixed text.
const (
	PlaceholderEmpty = "No suggestion available."
	PlaceholderError = "Could not fetch suggestion."
)

const model = "gemini-2.5-flash"

// Suggester produces a short free-text travel tip for a place and a
// time of day.
type Suggester interface {
	Tip(ctx context.Context, location, timeOfDay string) string
}

// Disabled is the Suggester used when no model client could be built.
type Disabled struct{}

func (Disabled) Tip(context.Context, string, string) string {
	return PlaceholderEmpty
}

// GeminiSuggester asks Gemini for the tip. Credentials come from the
// environment, resolved by the client itself.
type GeminiSuggester struct {
	client *genai.Client
}

// New builds the Gemini-backed suggester, or the disabled one when the
// client cannot be created.
func New(ctx context.Context) Suggester {
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		log.Printf("suggestions disabled, no Gemini client: %v", err)
		return Disabled{}
	}
	return &GeminiSuggester{client: client}
}

func (s *GeminiSuggester) Tip(ctx context.Context, location, timeOfDay string) string {
	prompt := fmt.Sprintf(
		"你是墨爾本在地旅遊達人。請用繁體中文給一則 40 字以內的實用小提醒，"+
			"對象是%s在 %s 活動的旅客。只回覆提醒本身，不要開場白。",
		timeOfDay, location)

	resp, err := s.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		log.Printf("failed to fetch suggestion: %v", err)
		return PlaceholderError
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return PlaceholderEmpty
	}
	text := strings.TrimSpace(resp.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return PlaceholderEmpty
	}
	return text
}
