package deepl

import (
	"context"
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"net/url"
)

// Usage returns the current account usage and limits.
func (t *Translator) Usage(ctx context.Context) (*Usage, error) {
	res, err := t.apiCall(ctx, nethttp.MethodGet, "v2/usage", nil, nil, nil, false)
	if err != nil {
		return nil, err
	}
	if err := t.raiseForStatus(res, false); err != nil {
		return nil, err
	}

	var parsed struct {
		CharacterCount int64 `json:"character_count"`
		CharacterLimit int64 `json:"character_limit"`
		DocumentCount  int64 `json:"document_count"`
		DocumentLimit  int64 `json:"document_limit"`
	}
	if err := json.Unmarshal([]byte(res.text), &parsed); err != nil {
		return nil, fmt.Errorf("deepl: failed to decode usage response: %w", err)
	}

	return &Usage{
		Character: UsageDetail{Count: parsed.CharacterCount, Limit: parsed.CharacterLimit},
		Document:  UsageDetail{Count: parsed.DocumentCount, Limit: parsed.DocumentLimit},
	}, nil
}

// SourceLanguages lists the languages the API accepts as translation input.
func (t *Translator) SourceLanguages(ctx context.Context) ([]Language, error) {
	return t.languages(ctx, "source")
}

// TargetLanguages lists the languages the API can translate into.
func (t *Translator) TargetLanguages(ctx context.Context) ([]Language, error) {
	return t.languages(ctx, "target")
}

func (t *Translator) languages(ctx context.Context, languageType string) ([]Language, error) {
	query := url.Values{"type": {languageType}}
	res, err := t.apiCall(ctx, nethttp.MethodGet, "v2/languages", query, nil, nil, false)
	if err != nil {
		return nil, err
	}
	if err := t.raiseForStatus(res, false); err != nil {
		return nil, err
	}

	var parsed []Language
	if err := json.Unmarshal([]byte(res.text), &parsed); err != nil {
		return nil, fmt.Errorf("deepl: failed to decode languages response: %w", err)
	}
	return parsed, nil
}
