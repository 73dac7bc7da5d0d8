// Package translate provides the translation-service capability: named
// providers behind a registry (Google Translate, OpenAI, DeepSeek, Ollama)
// and a column runner that batches, caches, and reports progress.
package translate

import (
	"context"
	"sort"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Service is the capability every provider implements: translate a batch of
// texts, returning one translation per input in order. Implementations may
// leave individual slots empty and report the failures in the error.
type Service interface {
	// Name returns the provider name (e.g. "ollama").
	Name() string
	// Translate translates texts into opts.TargetLang.
	Translate(ctx context.Context, texts []string, opts Options) ([]string, error)
}

// Options carries per-run translation settings shared by all providers.
// Providers ignore the settings they have no use for.
type Options struct {
	SourceLang   string
	TargetLang   string
	Model        string
	SinglePrompt string
	BatchPrompt  string
	Instructions string
	BatchMode    bool
	BatchSize    int
	MaxRetries   int
}

// Credentials holds provider secrets and endpoints. They come from the
// environment, never from config files.
type Credentials struct {
	GoogleAPIKey   string
	OpenAIAPIKey   string
	DeepSeekAPIKey string
	OllamaURL      string
}

type factory func(creds Credentials) (Service, error)

var registry = map[string]factory{}

func register(name string, f factory) {
	registry[name] = f
}

func init() {
	register("google", newGoogle)
	register("openai", newOpenAI)
	register("deepseek", newDeepSeek)
	register("ollama", newOllama)
}

// New returns the named provider configured with creds.
func New(name string, creds Credentials) (Service, error) {
	f, ok := registry[strings.ToLower(name)]
	if !ok {
		options := make([]string, 0, len(registry))
		for k := range registry {
			options = append(options, k)
		}
		sort.Strings(options)
		return nil, errors.Errorf("translation service %s not found, options: %s", name, strings.Join(options, ", "))
	}
	return f(creds)
}
