package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

const defaultOllamaModel = "aya"

// ollamaService talks to a locally hosted Ollama endpoint. Unlike the hosted
// providers it supports true batch prompting: several texts go into one
// prompt demanding a numbered list back.
type ollamaService struct {
	url    string
	client *http.Client
}

func newOllama(creds Credentials) (Service, error) {
	if creds.OllamaURL == "" {
		return nil, errors.Errorf("Ollama URL not configured")
	}
	url := strings.TrimRight(creds.OllamaURL, "/")
	if !strings.HasSuffix(url, "/api/generate") {
		url += "/api/generate"
	}
	return &ollamaService{
		url:    url,
		client: http.DefaultClient,
	}, nil
}

func (s *ollamaService) Name() string {
	return "ollama"
}

func (s *ollamaService) Translate(ctx context.Context, texts []string, opts Options) ([]string, error) {
	model := opts.Model
	if model == "" {
		model = defaultOllamaModel
	}

	if !opts.BatchMode {
		out := make([]string, len(texts))
		for i, text := range texts {
			translated, err := s.translateSingle(ctx, model, text, opts)
			if err != nil {
				return nil, err
			}
			out[i] = translated
		}
		return out, nil
	}

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = 10
	}

	var out []string
	for start := 0; start < len(texts); start += batchSize {
		end := min(start+batchSize, len(texts))
		batch, err := s.translateBatch(ctx, model, texts[start:end], opts)
		if err != nil {
			return nil, err
		}
		out = append(out, batch...)
	}
	return out, nil
}

// translateSingle retries a one-text prompt until a non-empty response
// arrives or retries are exhausted.
func (s *ollamaService) translateSingle(ctx context.Context, model, text string, opts Options) (string, error) {
	logger := zerolog.Ctx(ctx)
	prompt := singlePrompt(opts.SinglePrompt, text, opts)

	var lastErr error
	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		response, err := s.generate(ctx, model, prompt)
		if err == nil {
			return strings.TrimSpace(response), nil
		}
		lastErr = err
		logger.Warn().Int("attempt", attempt+1).Err(err).Msg("translation attempt failed")
		if ctx.Err() != nil {
			break
		}
	}
	return "", errors.Errorf("translating after %d retries: %w", opts.MaxRetries, lastErr)
}

// translateBatch sends one numbered-list prompt for the whole batch and
// retries with escalating emphasis when the response count disagrees.
func (s *ollamaService) translateBatch(ctx context.Context, model string, batch []string, opts Options) ([]string, error) {
	logger := zerolog.Ctx(ctx)
	base := batchPrompt(opts.BatchPrompt, batch, opts)

	var lastErr error
	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		response, err := s.generate(ctx, model, emphasize(base, attempt))
		if err != nil {
			lastErr = err
			logger.Warn().Int("attempt", attempt+1).Err(err).Msg("batch translation attempt failed")
			if ctx.Err() != nil {
				break
			}
			continue
		}

		translations, ok := parseNumberedList(response, len(batch))
		if ok {
			return translations, nil
		}
		lastErr = errors.Errorf("expected %d translations, response held fewer", len(batch))
		logger.Warn().
			Int("attempt", attempt+1).
			Int("expected", len(batch)).
			Msg("batch translation count mismatch")
	}
	return nil, errors.Errorf("batch translation after %d retries: %w", opts.MaxRetries, lastErr)
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

func (s *ollamaService) generate(ctx context.Context, model, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:  model,
		Prompt: prompt,
	})
	if err != nil {
		return "", errors.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return "", errors.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", errors.Errorf("calling Ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("Ollama returned %s", resp.Status)
	}

	var result struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", errors.Errorf("decoding response: %w", err)
	}
	return result.Response, nil
}
