package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

const googleEndpoint = "https://translation.googleapis.com/language/translate/v2"

// googleService talks to the Google Cloud Translation v2 API, one request
// per text.
type googleService struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

func newGoogle(creds Credentials) (Service, error) {
	if creds.GoogleAPIKey == "" {
		return nil, errors.Errorf("Google Translate API key not configured")
	}
	return &googleService{
		apiKey:   creds.GoogleAPIKey,
		endpoint: googleEndpoint,
		client:   http.DefaultClient,
	}, nil
}

func (s *googleService) Name() string {
	return "google"
}

func (s *googleService) Translate(ctx context.Context, texts []string, opts Options) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	out := make([]string, len(texts))
	var merr *multierror.Error
	for i, text := range texts {
		translated, err := s.translateOne(ctx, text, opts.TargetLang)
		if err != nil {
			logger.Warn().Str("text", text).Err(err).Msg("translation failed")
			merr = multierror.Append(merr, errors.Errorf("translating %q: %w", text, err))
			continue
		}
		out[i] = translated
	}
	return out, merr.ErrorOrNil()
}

func (s *googleService) translateOne(ctx context.Context, text, targetLang string) (string, error) {
	body, err := json.Marshal(map[string]string{
		"q":      text,
		"target": targetLang,
	})
	if err != nil {
		return "", errors.Errorf("encoding request: %w", err)
	}

	endpoint := s.endpoint + "?key=" + url.QueryEscape(s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", errors.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", errors.Errorf("calling translation API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("translation API returned %s", resp.Status)
	}

	var result struct {
		Data struct {
			Translations []struct {
				TranslatedText string `json:"translatedText"`
			} `json:"translations"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", errors.Errorf("decoding response: %w", err)
	}
	if len(result.Data.Translations) == 0 {
		return "", errors.Errorf("empty translation response")
	}
	return result.Data.Translations[0].TranslatedText, nil
}
