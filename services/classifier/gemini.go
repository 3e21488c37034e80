package classifier

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com"

type Gemini struct {
	client  *resty.Client
	model   string
	baseURL string
}

func NewGemini(apiKey, model string) *Gemini {
	client := resty.New().
		SetHeader("x-goog-api-key", apiKey).
		SetHeader("Content-Type", "application/json")

	return &Gemini{client: client, model: SanitizeModel(model), baseURL: geminiBaseURL}
}

// WithBaseURL points the backend at another host.
func (g *Gemini) WithBaseURL(baseURL string) *Gemini {
	g.baseURL = strings.TrimRight(baseURL, "/")
	return g
}

func (g *Gemini) Name() string { return "gemini" }

// SanitizeModel strips quotes and a "models/" prefix that often sneak into
// the configured model name.
func SanitizeModel(model string) string {
	model = strings.TrimSpace(model)
	model = strings.Trim(model, `"'`)
	model = strings.TrimPrefix(model, "models/")
	if model == "" {
		return "gemini-2.5-flash"
	}
	return model
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		Temperature     float64 `json:"temperature"`
		MaxOutputTokens int     `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (g *Gemini) Classify(ctx context.Context, name, description string) (string, error) {
	req := geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: fmt.Sprintf(prompt, orNA(name), orNA(description))}},
		}},
	}
	req.GenerationConfig.Temperature = 0
	req.GenerationConfig.MaxOutputTokens = 16

	var body geminiResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&body).
		Post(fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, url.PathEscape(g.model)))
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("gemini API request failed with status %d", resp.StatusCode())
	}

	if len(body.Candidates) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}
	texts := make([]string, 0, len(body.Candidates[0].Content.Parts))
	for _, part := range body.Candidates[0].Content.Parts {
		texts = append(texts, part.Text)
	}
	text := strings.TrimSpace(strings.Join(texts, " "))
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty answer")
	}
	return text, nil
}
