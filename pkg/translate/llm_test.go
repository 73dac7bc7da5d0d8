package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatTranslate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-3.5-turbo", req.Model)
		assert.InDelta(t, 0.3, req.Temperature, 0.001)
		require.Len(t, req.Messages, 1)
		assert.Contains(t, req.Messages[0].Content, "Translate the following text to de:")

		fmt.Fprint(w, `{"choices":[{"message":{"content":"  Haus  "}}]}`)
	}))
	defer server.Close()

	svc := &chatService{
		name:         "openai",
		baseURL:      server.URL,
		apiKey:       "secret",
		defaultModel: defaultOpenAIModel,
		client:       server.Client(),
	}

	out, err := svc.Translate(context.Background(), []string{"house"}, Options{TargetLang: "de"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Haus"}, out)
}

func TestChatTranslate_ModelOverride(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "deepseek-reasoner", req.Model)
		fmt.Fprint(w, `{"choices":[{"message":{"content":"Baum"}}]}`)
	}))
	defer server.Close()

	svc := &chatService{
		name:         "deepseek",
		baseURL:      server.URL,
		apiKey:       "secret",
		defaultModel: defaultDeepSeekModel,
		client:       server.Client(),
	}

	out, err := svc.Translate(context.Background(), []string{"tree"}, Options{TargetLang: "de", Model: "deepseek-reasoner"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Baum"}, out)
}

func TestChatTranslate_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer server.Close()

	svc := &chatService{
		name:         "openai",
		baseURL:      server.URL,
		apiKey:       "secret",
		defaultModel: defaultOpenAIModel,
		client:       server.Client(),
	}

	out, err := svc.Translate(context.Background(), []string{"house"}, Options{TargetLang: "de"})
	require.Error(t, err)
	require.Len(t, out, 1)
	assert.Empty(t, out[0])
}
