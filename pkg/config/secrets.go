package config

import (
	"github.com/kelseyhightower/envconfig"
	"gitlab.com/tozd/go/errors"

	"github.com/fieldworks/attrclean/pkg/translate"
)

// Secrets holds provider credentials and endpoints. They are read from the
// environment only, so API keys never end up in checked-in config files.
type Secrets struct {
	GoogleAPIKey   string `envconfig:"GOOGLE_API_KEY"`
	OpenAIAPIKey   string `envconfig:"OPENAI_API_KEY"`
	DeepSeekAPIKey string `envconfig:"DEEPSEEK_API_KEY"`
	OllamaURL      string `envconfig:"OLLAMA_URL" default:"http://localhost:11434"`
}

// LoadSecrets reads provider secrets from the environment.
func LoadSecrets() (*Secrets, error) {
	var s Secrets
	if err := envconfig.Process("attrclean", &s); err != nil {
		return nil, errors.Errorf("reading secrets from environment: %w", err)
	}
	return &s, nil
}

// Credentials converts the secrets into the translate package's credential
// set.
func (s *Secrets) Credentials() translate.Credentials {
	return translate.Credentials{
		GoogleAPIKey:   s.GoogleAPIKey,
		OpenAIAPIKey:   s.OpenAIAPIKey,
		DeepSeekAPIKey: s.DeepSeekAPIKey,
		OllamaURL:      s.OllamaURL,
	}
}
