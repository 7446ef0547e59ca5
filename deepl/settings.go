package deepl

import (
	"github.com/Visecy/aiodeepl/config"
	"github.com/Visecy/aiodeepl/logger"
)

// NewFromSettings creates a Translator wired up from loaded settings,
// including a logger built from the log section. Extra options are applied
// after the settings and take precedence.
func NewFromSettings(settings *config.Settings, opts ...Option) (*Translator, error) {
	base := []Option{
		WithLogger(logger.New(settings.Log.Level, settings.Log.Pretty)),
	}
	if settings.Server.URL != "" {
		base = append(base, WithServerURL(settings.Server.URL))
	}
	if settings.HTTP.MaxRetries > 0 {
		base = append(base, WithMaxRetries(settings.HTTP.MaxRetries))
	}
	if settings.HTTP.Proxy != "" {
		base = append(base, WithProxy(settings.HTTP.Proxy))
	}
	if settings.HTTP.UserAgent != "" {
		base = append(base, WithUserAgent(settings.HTTP.UserAgent))
	}
	if settings.HTTP.RateLimit > 0 {
		base = append(base, WithRateLimit(settings.HTTP.RateLimit))
	}
	return New(settings.Auth.Key, append(base, opts...)...)
}
