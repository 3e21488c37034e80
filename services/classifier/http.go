package classifier

import (
	"context"
	"fmt"
	"strings"

	"rack-wms/models"

	"github.com/go-resty/resty/v2"
)

// HTTP posts {name, description} to a self-hosted classifier and reads the
// label from one of the fields classification, label, result or category.
type HTTP struct {
	client *resty.Client
	url    string
}

func NewHTTP(endpoint, apiKey string) *HTTP {
	client := resty.New().SetHeader("Content-Type", "application/json")
	if apiKey != "" {
		client.SetAuthToken(apiKey)
	}
	return &HTTP{client: client, url: endpoint}
}

func (h *HTTP) Name() string { return "http" }

func (h *HTTP) Classify(ctx context.Context, name, description string) (string, error) {
	payload := map[string]interface{}{
		"name":        nilIfEmpty(name),
		"description": nilIfEmpty(description),
	}

	var body map[string]interface{}
	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&body).
		Post(h.url)
	if err != nil {
		return "", fmt.Errorf("classifier request: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("AI API request failed with status %d", resp.StatusCode())
	}

	var candidate string
	for _, key := range []string{"classification", "label", "result", "category"} {
		if v, ok := body[key]; ok && v != nil {
			if s := strings.TrimSpace(fmt.Sprint(v)); s != "" {
				candidate = s
				break
			}
		}
	}

	class := models.NormalizeClassification(candidate)
	if class == models.ClassNormal && strings.ToUpper(candidate) != string(models.ClassNormal) {
		return "", fmt.Errorf("AI API returned invalid classification: %q", candidate)
	}
	return string(class), nil
}

func nilIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
