package deepl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	nethttp "net/http"
	"net/url"
	"strings"
)

// TranslateOption adds an optional form parameter to a translation request.
type TranslateOption func(url.Values)

// WithFormality controls the formality of the translated text for languages
// that support it.
func WithFormality(formality Formality) TranslateOption {
	return func(v url.Values) { v.Set("formality", string(formality)) }
}

// WithSplitSentences controls how the input is split into sentences before
// translation.
func WithSplitSentences(split SplitSentences) TranslateOption {
	return func(v url.Values) { v.Set("split_sentences", string(split)) }
}

// WithPreserveFormatting prevents the engine from correcting formatting
// aspects of the input.
func WithPreserveFormatting(preserve bool) TranslateOption {
	return func(v url.Values) {
		if preserve {
			v.Set("preserve_formatting", "1")
		} else {
			v.Set("preserve_formatting", "0")
		}
	}
}

// WithGlossaryID applies a glossary to the translation. The source language
// must be set when using a glossary.
func WithGlossaryID(glossaryID string) TranslateOption {
	return func(v url.Values) { v.Set("glossary_id", glossaryID) }
}

// WithGlossary applies a previously registered glossary to the translation.
func WithGlossary(glossary GlossaryInfo) TranslateOption {
	return WithGlossaryID(glossary.GlossaryID)
}

// WithContext supplies additional context that influences the translation
// without being translated itself.
func WithContext(translationContext string) TranslateOption {
	return func(v url.Values) { v.Set("context", translationContext) }
}

// WithTagHandling enables handling of XML or HTML tags in the input.
func WithTagHandling(tagHandling string) TranslateOption {
	return func(v url.Values) { v.Set("tag_handling", tagHandling) }
}

// TranslateText translates one or more texts into targetLang. sourceLang may
// be empty to let the engine detect the language. The result order matches
// the input order.
func (t *Translator) TranslateText(ctx context.Context, texts []string, sourceLang, targetLang string, opts ...TranslateOption) ([]TextResult, error) {
	if len(texts) == 0 {
		return nil, errors.New("deepl: texts must not be empty")
	}
	for _, text := range texts {
		if text == "" {
			return nil, errors.New("deepl: texts must not contain empty strings")
		}
	}
	if targetLang == "" {
		return nil, errors.New("deepl: target language must not be empty")
	}

	data := url.Values{}
	for _, text := range texts {
		data.Add("text", text)
	}
	data.Set("target_lang", strings.ToUpper(targetLang))
	if sourceLang != "" {
		data.Set("source_lang", strings.ToUpper(sourceLang))
	}
	for _, opt := range opts {
		opt(data)
	}

	res, err := t.apiCall(ctx, nethttp.MethodPost, "v2/translate", nil, data, nil, false)
	if err != nil {
		return nil, err
	}
	if err := t.raiseForStatus(res, false); err != nil {
		return nil, err
	}

	var parsed struct {
		Translations []TextResult `json:"translations"`
	}
	if err := json.Unmarshal([]byte(res.text), &parsed); err != nil {
		return nil, fmt.Errorf("deepl: failed to decode translation response: %w", err)
	}
	if len(parsed.Translations) != len(texts) {
		return nil, fmt.Errorf("deepl: expected %d translations, got %d", len(texts), len(parsed.Translations))
	}
	return parsed.Translations, nil
}
