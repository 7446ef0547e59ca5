package config

// Settings holds everything needed to construct a translator, loaded from
// defaults, an optional YAML file, and DEEPL_* environment variables.
type Settings struct {
	Auth   AuthSettings   `koanf:"auth"`
	Server ServerSettings `koanf:"server"`
	HTTP   HTTPSettings   `koanf:"http"`
	Log    LogSettings    `koanf:"log"`
}

// AuthSettings carries the API credential.
type AuthSettings struct {
	// Key is the DeepL auth key. Keys for free accounts end in ":fx".
	Key string `koanf:"key" validate:"required"`
}

// ServerSettings overrides the API endpoint. When URL is empty the endpoint
// is derived from the auth key's account classification.
type ServerSettings struct {
	URL string `koanf:"url" validate:"omitempty,url"`
}

// HTTPSettings tunes the underlying transport.
type HTTPSettings struct {
	MaxRetries int     `koanf:"maxretries" validate:"min=0"`
	Proxy      string  `koanf:"proxy" validate:"omitempty,url"`
	UserAgent  string  `koanf:"useragent"`
	RateLimit  float64 `koanf:"ratelimit" validate:"min=0"`
}

// LogSettings configures structured logging.
type LogSettings struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
	Pretty bool   `koanf:"pretty"`
}
