package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOllama(t *testing.T, handler http.HandlerFunc) *ollamaService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := newOllama(Credentials{OllamaURL: server.URL})
	require.NoError(t, err)
	return svc.(*ollamaService)
}

func TestOllamaURLNormalization(t *testing.T) {
	svc, err := newOllama(Credentials{OllamaURL: "http://localhost:11434/"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:11434/api/generate", svc.(*ollamaService).url)

	svc, err = newOllama(Credentials{OllamaURL: "http://localhost:11434/api/generate"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:11434/api/generate", svc.(*ollamaService).url)
}

func TestOllamaTranslate_Single(t *testing.T) {
	svc := newTestOllama(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "aya", req.Model)
		assert.False(t, req.Stream)
		assert.Contains(t, req.Prompt, "Text: house")

		fmt.Fprint(w, `{"response":"Haus\n"}`)
	})

	out, err := svc.Translate(context.Background(), []string{"house"}, Options{TargetLang: "de"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Haus"}, out)
}

func TestOllamaTranslate_Batch(t *testing.T) {
	svc := newTestOllama(t, func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.Prompt, "1. house\n2. tree")

		fmt.Fprint(w, `{"response":"1. Haus\n2. Baum"}`)
	})

	out, err := svc.Translate(context.Background(), []string{"house", "tree"}, Options{
		TargetLang: "de",
		BatchMode:  true,
		BatchSize:  10,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Haus", "Baum"}, out)
}

func TestOllamaTranslate_BatchRetryOnCountMismatch(t *testing.T) {
	var calls int
	svc := newTestOllama(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		if calls == 1 {
			// One translation short forces a retry.
			fmt.Fprint(w, `{"response":"1. Haus"}`)
			return
		}
		assert.True(t, strings.HasPrefix(req.Prompt, "STRICT MODE"))
		assert.Contains(t, req.Prompt, "Rules!:")
		fmt.Fprint(w, `{"response":"1. Haus\n2. Baum"}`)
	})

	out, err := svc.Translate(context.Background(), []string{"house", "tree"}, Options{
		TargetLang: "de",
		BatchMode:  true,
		MaxRetries: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Haus", "Baum"}, out)
	assert.Equal(t, 2, calls)
}

func TestOllamaTranslate_BatchExhaustsRetries(t *testing.T) {
	var calls int
	svc := newTestOllama(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"response":"1. Haus"}`)
	})

	_, err := svc.Translate(context.Background(), []string{"house", "tree"}, Options{
		TargetLang: "de",
		BatchMode:  true,
		MaxRetries: 1,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 2 translations")
	assert.Equal(t, 2, calls)
}

func TestOllamaTranslate_SplitsOversizedBatch(t *testing.T) {
	var calls int
	svc := newTestOllama(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.Prompt, "2 texts")
		fmt.Fprint(w, `{"response":"1. eins\n2. zwei"}`)
	})

	out, err := svc.Translate(context.Background(), []string{"one", "two", "three", "four"}, Options{
		TargetLang: "de",
		BatchMode:  true,
		BatchSize:  2,
	})
	require.NoError(t, err)
	assert.Len(t, out, 4)
	assert.Equal(t, 2, calls)
}

func TestOllamaTranslate_ServerError(t *testing.T) {
	svc := newTestOllama(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	})

	_, err := svc.Translate(context.Background(), []string{"house"}, Options{TargetLang: "de"})
	require.Error(t, err)
}
