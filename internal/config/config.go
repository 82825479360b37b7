package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
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
	LogLevel   string        `mapstructure:"log_level"`

	Session SessionConfig `mapstructure:"session"`
	Chat    ChatConfig    `mapstructure:"chat"`
	Media   MediaConfig   `mapstructure:"media"`
}

type SessionConfig struct {
	ConnectMin time.Duration `mapstructure:"connect_min"`
	ConnectMax time.Duration `mapstructure:"connect_max"`
	Greeting   string        `mapstructure:"greeting"`
}

type ChatConfig struct {
	ReplyProbability float64       `mapstructure:"reply_probability"`
	ReplyMin         time.Duration `mapstructure:"reply_min"`
	ReplyMax         time.Duration `mapstructure:"reply_max"`
	RateLimit        int           `mapstructure:"rate_limit"`
	RateInterval     time.Duration `mapstructure:"rate_interval"`
}

type MediaConfig struct {
	Enabled    bool     `mapstructure:"enabled"`
	VideoCodec string   `mapstructure:"video_codec"`
	AudioCodec string   `mapstructure:"audio_codec"`
	ICEServers []string `mapstructure:"ice_servers"`
}

// Load reads config/config.<CONFIG_ENV>.yaml, "dev" when unset.
func Load() (*Config, error) {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return LoadFile(fmt.Sprintf("config/config.%s.yaml", env))
}

// LoadFile reads fileName over the defaults. A missing file is not an error.
// RANDOMCHAT_* environment variables override both, e.g. RANDOMCHAT_SESSION_GREETING.
func LoadFile(fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(fileName)
	v.SetEnvPrefix("RANDOMCHAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Info().
		Str("module", "config").
		Str("mode", cfg.Mode).
		Int("port", cfg.Port).
		Str("static", cfg.StaticPath).
		Bool("media", cfg.Media.Enabled).
		Msg("config ready")
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("secret", "change-me")
	v.SetDefault("log_level", "info")

	v.SetDefault("session.connect_min", "2s")
	v.SetDefault("session.connect_max", "5s")
	v.SetDefault("session.greeting", "Hi there! 👋")

	v.SetDefault("chat.reply_probability", 0.7)
	v.SetDefault("chat.reply_min", "1s")
	v.SetDefault("chat.reply_max", "3s")
	v.SetDefault("chat.rate_limit", 5)
	v.SetDefault("chat.rate_interval", "1s")

	v.SetDefault("media.enabled", true)
	v.SetDefault("media.video_codec", "vp8")
	v.SetDefault("media.audio_codec", "opus")
	v.SetDefault("media.ice_servers", []string{"stun:stun.l.google.com:19302"})
}

func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.Session.ConnectMin < 0 || c.Session.ConnectMax < c.Session.ConnectMin {
		errs = append(errs, fmt.Errorf("session connect window [%s, %s] invalid", c.Session.ConnectMin, c.Session.ConnectMax))
	}
	if c.Session.Greeting == "" {
		errs = append(errs, errors.New("session greeting empty"))
	}
	if c.Chat.ReplyProbability < 0 || c.Chat.ReplyProbability > 1 {
		errs = append(errs, fmt.Errorf("chat reply_probability %v not in [0, 1]", c.Chat.ReplyProbability))
	}
	if c.Chat.ReplyMin < 0 || c.Chat.ReplyMax < c.Chat.ReplyMin {
		errs = append(errs, fmt.Errorf("chat reply window [%s, %s] invalid", c.Chat.ReplyMin, c.Chat.ReplyMax))
	}
	if c.Chat.RateLimit <= 0 || c.Chat.RateInterval <= 0 {
		errs = append(errs, errors.New("chat rate limit must be positive"))
	}
	return errors.Join(errs...)
}
