// Package classifier resolves the hazard class of a product from its name
// and description by asking an external text model. The resolver never
// fails: any backend problem degrades to NORMAL.
package classifier

import (
	"context"
	"regexp"
	"strings"
	"time"

	"rack-wms/config"
	"rack-wms/models"

	"go.uber.org/zap"
)

const DefaultTimeout = 8 * time.Second

const prompt = "Return ONLY one word from this list: INFLAMMABLE, TOXIC, FRAGILE, NORMAL.\n" +
	"Product name: %s.\n" +
	"Product description: %s."

// Backend asks one external service for a label and returns its raw answer.
type Backend interface {
	Name() string
	Classify(ctx context.Context, name, description string) (string, error)
}

type Resolver struct {
	backend Backend
	timeout time.Duration
	log     *zap.Logger
}

// New builds a resolver around backend. A nil backend always answers NORMAL.
func New(backend Backend, timeout time.Duration, log *zap.Logger) *Resolver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{backend: backend, timeout: timeout, log: log}
}

// NewFromConfig picks the backend from the environment: Gemini, then
// OpenAI, then a generic HTTP endpoint, then none.
func NewFromConfig(log *zap.Logger) *Resolver {
	var backend Backend
	switch {
	case config.GeminiAPIKey != "":
		backend = NewGemini(config.GeminiAPIKey, config.GeminiModel)
	case config.OpenAIAPIKey != "":
		backend = NewOpenAI(config.OpenAIAPIKey, config.OpenAIModel)
	case config.AIClassifierURL != "":
		backend = NewHTTP(config.AIClassifierURL, config.AIClassifierAPIKey)
	}
	return New(backend, config.ClassifierTimeout, log)
}

func (r *Resolver) Backend() string {
	if r == nil || r.backend == nil {
		return "none"
	}
	return r.backend.Name()
}

// Classify never returns an error. The call is made at most once and is
// bounded by the resolver timeout.
func (r *Resolver) Classify(ctx context.Context, name, description string) models.Classification {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if name == "" && description == "" {
		return models.ClassNormal
	}
	if r == nil || r.backend == nil {
		return models.ClassNormal
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	raw, err := r.backend.Classify(ctx, name, description)
	if err != nil {
		r.log.Warn("classification failed",
			zap.String("backend", r.backend.Name()),
			zap.String("product", name),
			zap.String("description", description),
			zap.Error(err))
		return models.ClassNormal
	}

	class, ok := Extract(raw)
	if !ok {
		r.log.Warn("unsupported classification answer",
			zap.String("backend", r.backend.Name()),
			zap.String("product", name),
			zap.String("answer", raw))
		return models.ClassNormal
	}
	return class
}

var labelPattern = regexp.MustCompile(`\b(INFLAMMABLE|TOXIC|FRAGILE|NORMAL)\b`)

// Extract finds a label in free text. Models sometimes stop after a couple
// of tokens, so short prefixes such as "IN" or "TOX" are accepted too.
func Extract(text string) (models.Classification, bool) {
	text = strings.ToUpper(strings.TrimSpace(text))
	if text == "" {
		return "", false
	}
	if m := labelPattern.FindStringSubmatch(text); m != nil {
		return models.Classification(m[1]), true
	}

	switch {
	case text == "IN" || strings.HasPrefix(text, "INFL"):
		return models.ClassInflammable, true
	case text == "TO" || strings.HasPrefix(text, "TOX"):
		return models.ClassToxic, true
	case text == "FR" || strings.HasPrefix(text, "FRA"):
		return models.ClassFragile, true
	case text == "NO" || strings.HasPrefix(text, "NOR"):
		return models.ClassNormal, true
	}
	return "", false
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
