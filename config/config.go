// Package config loads the optional YAML config file and applies LINGUA_*
// environment overrides. Flags still win over both; merging happens in main.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"lingua/session"
)

type HTTPConfig struct {
	Bind string `yaml:"bind"`
	Port int    `yaml:"port"`
}

func (h HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", h.Bind, h.Port)
}

type Config struct {
	Language   string     `yaml:"language"`        // translation target code
	SpeechLang string     `yaml:"speech_language"` // recognition locale
	StopPhrase string     `yaml:"stop_phrase"`     // empty = built-in default
	Device     string     `yaml:"device"`          // capture device name, empty = system default
	LogPath    string     `yaml:"log_path"`
	HTTP       HTTPConfig `yaml:"http"`
}

func Default() Config {
	return Config{
		Language:   session.DefaultLanguage,
		SpeechLang: "en-US",
		HTTP: HTTPConfig{
			Bind: "127.0.0.1",
			Port: 8337,
		},
	}
}

func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return cfg, fmt.Errorf("config file not found: %w", err)
			}
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.Language, "LINGUA_LANGUAGE")
	overrideString(&cfg.SpeechLang, "LINGUA_SPEECH_LANGUAGE")
	overrideString(&cfg.StopPhrase, "LINGUA_STOP_PHRASE")
	overrideString(&cfg.Device, "LINGUA_DEVICE")
	overrideString(&cfg.LogPath, "LINGUA_LOG_PATH")
	overrideString(&cfg.HTTP.Bind, "LINGUA_HTTP_BIND")
	overrideInt(&cfg.HTTP.Port, "LINGUA_HTTP_PORT")
}

func overrideString(target *string, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok && strings.TrimSpace(value) != "" {
		*target = strings.TrimSpace(value)
	}
}

func overrideInt(target *int, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			*target = parsed
		}
	}
}

func validate(cfg Config) error {
	if !session.Supported(cfg.Language) {
		return fmt.Errorf("unsupported target language %q", cfg.Language)
	}
	if cfg.HTTP.Port <= 0 || cfg.HTTP.Port > 65535 {
		return fmt.Errorf("invalid http port %d", cfg.HTTP.Port)
	}
	return nil
}
