package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
	TTS    TTSConfig    `mapstructure:"tts"`
	Gemini GeminiConfig `mapstructure:"gemini"`
	Google GoogleConfig `mapstructure:"google"`
}

type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	SessionSecret  string   `mapstructure:"session_secret"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// TTS provider selection
type TTSConfig struct {
	Provider string `mapstructure:"provider"` // "gemini", "google" or "dummy"
}

type GeminiConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"` // Optional, defaults to the generative language API
	Timeout int    `mapstructure:"timeout"`  // seconds
}

type GoogleConfig struct {
	CredentialsFile string            `mapstructure:"credentials_file"`
	LanguageCode    string            `mapstructure:"language_code"`
	DefaultVoice    string            `mapstructure:"default_voice"`
	Voices          map[string]string `mapstructure:"voices"` // catalog voice id -> cloud voice name
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.BindEnv("gemini.api_key", "GEMINI_API_KEY")
	viper.BindEnv("google.credentials_file", "GOOGLE_APPLICATION_CREDENTIALS")

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.session_secret", "change-this-in-production")
	viper.SetDefault("server.allowed_origins", []string{"http://localhost:3000", "http://localhost:8080"})

	viper.SetDefault("log.level", "info")

	viper.SetDefault("tts.provider", "gemini")

	viper.SetDefault("gemini.model", "gemini-2.5-flash-preview-tts")
	viper.SetDefault("gemini.timeout", 60)

	viper.SetDefault("google.language_code", "en-US")
	viper.SetDefault("google.default_voice", "en-US-Chirp-HD-F")

	// Allow environment variables
	viper.SetEnvPrefix("VOCALIZE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// Config file not found, use defaults
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
