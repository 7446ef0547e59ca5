package logger

import "strings"

const (
	// DefaultMaskValue replaces credential material in log output
	DefaultMaskValue = "***"

	authKeyScheme = "DeepL-Auth-Key "
)

// FilterConfig defines the configuration for credential filtering
type FilterConfig struct {
	// SensitiveFields contains field names whose values are masked in logs
	SensitiveFields []string
	// MaskValue is the value used to replace credential material (default: "***")
	MaskValue string
}

// DefaultFilterConfig returns a default configuration covering the credential
// field names this library and its callers are likely to log.
func DefaultFilterConfig() *FilterConfig {
	return &FilterConfig{
		SensitiveFields: []string{
			"auth_key", "authkey",
			"api_key", "apikey",
			"authorization", "auth",
			"token", "secret",
			"credential", "credentials",
		},
		MaskValue: DefaultMaskValue,
	}
}

// CredentialFilter masks authentication material before it reaches log output.
// Field names are matched case-insensitively; values carrying a
// "DeepL-Auth-Key" scheme are masked regardless of key name.
type CredentialFilter struct {
	config *FilterConfig
	fields map[string]struct{}
}

// NewCredentialFilter creates a new filter with the given configuration
func NewCredentialFilter(config *FilterConfig) *CredentialFilter {
	if config == nil {
		config = DefaultFilterConfig()
	}
	if config.MaskValue == "" {
		config.MaskValue = DefaultMaskValue
	}
	fields := make(map[string]struct{}, len(config.SensitiveFields))
	for _, f := range config.SensitiveFields {
		fields[strings.ToLower(f)] = struct{}{}
	}
	return &CredentialFilter{config: config, fields: fields}
}

// FilterString masks string values for sensitive keys and auth-scheme values
func (f *CredentialFilter) FilterString(key, value string) string {
	if f.isSensitiveField(key) {
		return f.config.MaskValue
	}
	if strings.HasPrefix(value, authKeyScheme) {
		return authKeyScheme + f.config.MaskValue
	}
	return value
}

// FilterValue masks arbitrary values for sensitive keys. String values get the
// same auth-scheme handling as FilterString; maps are filtered per entry.
func (f *CredentialFilter) FilterValue(key string, value any) any {
	if f.isSensitiveField(key) {
		return f.config.MaskValue
	}
	switch v := value.(type) {
	case string:
		return f.FilterString(key, v)
	case map[string]string:
		out := make(map[string]string, len(v))
		for k, val := range v {
			out[k] = f.FilterString(k, val)
		}
		return out
	case map[string]any:
		return f.FilterFields(v)
	default:
		return value
	}
}

// FilterFields returns a copy of fields with credential values masked
func (f *CredentialFilter) FilterFields(fields map[string]any) map[string]any {
	if fields == nil {
		return nil
	}
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = f.FilterValue(k, v)
	}
	return out
}

func (f *CredentialFilter) isSensitiveField(key string) bool {
	_, ok := f.fields[strings.ToLower(key)]
	return ok
}
