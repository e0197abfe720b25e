package config

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode       string        `mapstructure:"mode"`
	Port       int           `mapstructure:"port"`
	StaticPath string        `mapstructure:"static_path"`
	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	Secret     string        `mapstructure:"secret"`

	// TTSMode selects the audio fan-out strategy: "client" or "server".
	TTSMode string `mapstructure:"tts_mode"`

	GatewayTimeout time.Duration `mapstructure:"gateway_timeout"`

	// Provider credentials, usually injected via environment.
	GoogleAPIKey     string `mapstructure:"google_api_key"`
	ElevenLabsAPIKey string `mapstructure:"elevenlabs_api_key"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("tts_mode", "client")
	v.SetDefault("gateway_timeout", "15s")

	_ = v.BindEnv("google_api_key", "GOOGLE_API_KEY")
	_ = v.BindEnv("elevenlabs_api_key", "ELEVENLABS_API_KEY")
	_ = v.BindEnv("secret", "LINGOROOM_SECRET")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Str("tts_mode", cfg.TTSMode).Msg("effective config")
	return &cfg, nil
}
