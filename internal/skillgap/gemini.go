package skillgap

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Analyzer extracts skills from resume text. Implemented by GeminiAnalyzer;
// callers fall back to DetectSkills when no analyzer is configured.
type Analyzer interface {
	ExtractSkills(ctx context.Context, resumeText string) ([]string, error)
}

// GeminiAnalyzer delegates skill extraction to the Gemini API.
type GeminiAnalyzer struct {
	client *genai.Client
	model  string
}

func NewGeminiAnalyzer(ctx context.Context, apiKey, model string) (*GeminiAnalyzer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is empty")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiAnalyzer{client: client, model: model}, nil
}

const extractPrompt = `You are a resume parser. Extract the professional skills from the resume text below.
Respond with a JSON array of skill name strings and nothing else.

Resume:
%s`

func (a *GeminiAnalyzer) ExtractSkills(ctx context.Context, resumeText string) ([]string, error) {
	resp, err := a.client.Models.GenerateContent(ctx, a.model,
		genai.Text(fmt.Sprintf(extractPrompt, resumeText)), nil)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}

	raw := cleanJSON(resp.Text())
	var skills []string
	if err := json.Unmarshal([]byte(raw), &skills); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}
	return skills, nil
}

// cleanJSON strips the markdown code fences Gemini wraps JSON output in.
func cleanJSON(input string) string {
	clean := strings.TrimSpace(input)

	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimLeft(clean, "\r\n")
	clean = strings.TrimSuffix(clean, "```")

	return strings.TrimSpace(clean)
}
