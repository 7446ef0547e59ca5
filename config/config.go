// Package config loads translator settings from layered sources: built-in
// defaults first, then an optional YAML file, then DEEPL_* environment
// variables with the highest priority.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigFile is the YAML file Load looks for when no explicit path is
// given.
const DefaultConfigFile = "deepl.yaml"

// envPrefix selects which environment variables participate in loading,
// e.g. DEEPL_AUTH_KEY maps onto auth.key.
const envPrefix = "DEEPL_"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load builds Settings from defaults, the YAML file at configFile, and the
// environment. A missing file is not an error; the file layer is simply
// skipped. Pass an empty path to use DefaultConfigFile.
func Load(configFile string) (*Settings, error) {
	if configFile == "" {
		configFile = DefaultConfigFile
	}

	k := koanf.New(".")
	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if _, err := os.Stat(configFile); err == nil {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", configFile, err)
		}
	}

	if err := k.Load(envProvider(), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	return unmarshal(k)
}

// LoadBytes builds Settings from defaults, the given YAML document, and the
// environment. Useful when the configuration does not live on disk.
func LoadBytes(yamlDoc []byte) (*Settings, error) {
	k := koanf.New(".")
	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := k.Load(rawbytes.Provider(yamlDoc), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to parse configuration document: %w", err)
	}

	if err := k.Load(envProvider(), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	return unmarshal(k)
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"http.maxretries": 5,
		"http.ratelimit":  0.0,

		"log.level":  "info",
		"log.pretty": false,
	}
	return k.Load(confmap.Provider(defaults, "."), nil)
}

func envProvider() koanf.Provider {
	return env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.TrimPrefix(key, envPrefix)
			return strings.ReplaceAll(strings.ToLower(key), "_", "."), value
		},
	})
}

func unmarshal(k *koanf.Koanf) (*Settings, error) {
	var settings Settings
	if err := k.Unmarshal("", &settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validate.Struct(&settings); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &settings, nil
}
