package translate

import (
	"fmt"
	"strconv"
	"strings"
)

// Default prompt templates for LLM-backed providers. Placeholders are
// substituted by renderPrompt.
const (
	DefaultSinglePrompt = "Translate the following text to {target_lang}:\n" +
		"Text: {text}\n" +
		"Rules:\n" +
		"1. Maintain the original meaning and style\n" +
		"2. Return ONLY the translation, no explanations\n" +
		"3. Keep any special characters or formatting"

	DefaultBatchPrompt = "Translate the following {batch_size} texts to {target_lang}:\n" +
		"{texts}\n" +
		"Rules:\n" +
		"1. Maintain the original meaning and style\n" +
		"2. Return translations as a numbered list, one per line\n" +
		"3. Keep any special characters or formatting\n" +
		"4. Return EXACTLY {batch_size} translations"
)

// renderPrompt substitutes the known placeholders into a template.
func renderPrompt(template string, vars map[string]string) string {
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

func singlePrompt(template, text string, opts Options) string {
	if template == "" {
		template = DefaultSinglePrompt
	}
	return renderPrompt(template, map[string]string{
		"text":         text,
		"target_lang":  opts.TargetLang,
		"source_lang":  opts.SourceLang,
		"instructions": opts.Instructions,
	})
}

func batchPrompt(template string, texts []string, opts Options) string {
	if template == "" {
		template = DefaultBatchPrompt
	}
	indexed := make([]string, len(texts))
	for i, text := range texts {
		indexed[i] = fmt.Sprintf("%d. %s", i+1, text)
	}
	return renderPrompt(template, map[string]string{
		"batch_size":   strconv.Itoa(len(texts)),
		"target_lang":  opts.TargetLang,
		"source_lang":  opts.SourceLang,
		"instructions": opts.Instructions,
		"texts":        strings.Join(indexed, "\n"),
	})
}

// emphasize hardens a batch prompt after a failed attempt. Each retry adds
// exclamation marks to the rule header and the count rule, and prepends a
// strict-mode banner.
func emphasize(prompt string, retries int) string {
	if retries <= 0 {
		return prompt
	}
	emphasis := strings.Repeat("!", retries)
	prompt = strings.ReplaceAll(prompt, "Rules:", "Rules"+emphasis+":")
	prompt = strings.ReplaceAll(prompt, "translations", "translations"+emphasis)
	return "STRICT MODE: YOU MUST RETURN EXACTLY THE RIGHT NUMBER OF TRANSLATIONS!\n" + prompt
}
