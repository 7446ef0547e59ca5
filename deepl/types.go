package deepl

import "strings"

// TextResult holds one translated text and its metadata.
type TextResult struct {
	Text                   string `json:"text"`
	DetectedSourceLanguage string `json:"detected_source_language"`
	BilledCharacters       int    `json:"billed_characters"`
}

// UsageDetail describes consumption against one usage limit.
type UsageDetail struct {
	Count int64 `json:"count"`
	Limit int64 `json:"limit"`
}

// LimitReached reports whether the limit for this detail is exhausted.
func (d UsageDetail) LimitReached() bool {
	return d.Limit > 0 && d.Count >= d.Limit
}

// Usage holds the account's usage figures for the current billing period.
type Usage struct {
	Character UsageDetail
	Document  UsageDetail
}

// AnyLimitReached reports whether any usage limit is exhausted.
func (u Usage) AnyLimitReached() bool {
	return u.Character.LimitReached() || u.Document.LimitReached()
}

// Language describes a language supported by the API.
type Language struct {
	Code string `json:"language"`
	Name string `json:"name"`
	// SupportsFormality is only reported for target languages.
	SupportsFormality bool `json:"supports_formality"`
}

// Formality controls whether translations lean formal or informal.
type Formality string

const (
	FormalityDefault    Formality = "default"
	FormalityMore       Formality = "more"
	FormalityLess       Formality = "less"
	FormalityPreferMore Formality = "prefer_more"
	FormalityPreferLess Formality = "prefer_less"
)

// SplitSentences controls how input text is split into sentences.
type SplitSentences string

const (
	SplitSentencesOff        SplitSentences = "0"
	SplitSentencesAll        SplitSentences = "1"
	SplitSentencesNoNewlines SplitSentences = "nonewlines"
)

// GlossaryInfo describes a glossary registered with the account. Glossaries
// are managed outside this client; the info is used to select one during
// translation.
type GlossaryInfo struct {
	GlossaryID   string `json:"glossary_id"`
	Name         string `json:"name"`
	Ready        bool   `json:"ready"`
	SourceLang   string `json:"source_lang"`
	TargetLang   string `json:"target_lang"`
	CreationTime string `json:"creation_time"`
	EntryCount   int    `json:"entry_count"`
}

// DocumentHandle identifies an in-progress document translation. Both fields
// come from the document upload response.
type DocumentHandle struct {
	DocumentID  string `json:"document_id"`
	DocumentKey string `json:"document_key"`
}

// Document translation states reported by the API.
const (
	DocumentStatusQueued      = "queued"
	DocumentStatusTranslating = "translating"
	DocumentStatusDone        = "done"
	DocumentStatusError       = "error"
)

// DocumentStatus describes the progress of a document translation.
type DocumentStatus struct {
	DocumentID       string `json:"document_id"`
	Status           string `json:"status"`
	SecondsRemaining int    `json:"seconds_remaining"`
	BilledCharacters int64  `json:"billed_characters"`
	ErrorMessage     string `json:"error_message"`
}

// Done reports whether translation has finished, successfully or not.
func (s DocumentStatus) Done() bool {
	return s.Status == DocumentStatusDone || s.Status == DocumentStatusError
}

// Ok reports whether the document is still progressing or has succeeded.
func (s DocumentStatus) Ok() bool {
	return s.Status != DocumentStatusError
}

// AuthKeyIsFreeAccount reports whether the auth key belongs to a DeepL API
// Free account. Free account keys carry the ":fx" suffix.
func AuthKeyIsFreeAccount(authKey string) bool {
	return strings.HasSuffix(authKey, ":fx")
}
