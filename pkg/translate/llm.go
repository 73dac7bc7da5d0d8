package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

const (
	openAIBaseURL   = "https://api.openai.com/v1"
	deepSeekBaseURL = "https://api.deepseek.com/v1"

	defaultOpenAIModel   = "gpt-3.5-turbo"
	defaultDeepSeekModel = "deepseek-chat"

	chatTemperature = 0.3
)

// chatService covers the chat-completions providers (OpenAI and DeepSeek
// share the wire format), translating one text per request with the single
// prompt template.
type chatService struct {
	name         string
	baseURL      string
	apiKey       string
	defaultModel string
	client       *http.Client
}

func newOpenAI(creds Credentials) (Service, error) {
	if creds.OpenAIAPIKey == "" {
		return nil, errors.Errorf("OpenAI API key not configured")
	}
	return &chatService{
		name:         "openai",
		baseURL:      openAIBaseURL,
		apiKey:       creds.OpenAIAPIKey,
		defaultModel: defaultOpenAIModel,
		client:       http.DefaultClient,
	}, nil
}

func newDeepSeek(creds Credentials) (Service, error) {
	if creds.DeepSeekAPIKey == "" {
		return nil, errors.Errorf("DeepSeek API key not configured")
	}
	return &chatService{
		name:         "deepseek",
		baseURL:      deepSeekBaseURL,
		apiKey:       creds.DeepSeekAPIKey,
		defaultModel: defaultDeepSeekModel,
		client:       http.DefaultClient,
	}, nil
}

func (s *chatService) Name() string {
	return s.name
}

func (s *chatService) Translate(ctx context.Context, texts []string, opts Options) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	model := opts.Model
	if model == "" {
		model = s.defaultModel
	}

	out := make([]string, len(texts))
	var merr *multierror.Error
	for i, text := range texts {
		prompt := singlePrompt(opts.SinglePrompt, text, opts)
		translated, err := s.complete(ctx, model, prompt)
		if err != nil {
			logger.Warn().Str("text", text).Err(err).Msg("translation failed")
			merr = multierror.Append(merr, errors.Errorf("translating %q: %w", text, err))
			continue
		}
		out[i] = strings.TrimSpace(translated)
	}
	return out, merr.ErrorOrNil()
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (s *chatService) complete(ctx context.Context, model, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: chatTemperature,
	})
	if err != nil {
		return "", errors.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", errors.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", errors.Errorf("calling %s API: %w", s.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("%s API returned %s", s.name, resp.Status)
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", errors.Errorf("decoding response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", errors.Errorf("empty completion response")
	}
	return result.Choices[0].Message.Content, nil
}
