// Package config loads the small amount of construction-time configuration
// the cryptflow CLI needs: default key size, default cipher name, and a
// read-buffer size (ReadBufferBytes). The CLI uses the first two for its
// -cipher default; ReadBufferBytes is loaded but not read by the CLI, whose
// io.Copy calls use io.Copy's own buffer.
package config

import (
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// LogConfig controls zerolog's level and output format.
type LogConfig struct {
	Level  string `json:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `json:"format" mapstructure:"format"` // console, json
}

// Config is the main configuration for the cryptflow CLI.
type Config struct {
	DefaultKeyBits  int       `json:"default_key_bits" mapstructure:"default_key_bits"`
	DefaultCipher   string    `json:"default_cipher" mapstructure:"default_cipher"` // cbc or ctr
	ReadBufferBytes int       `json:"read_buffer_bytes" mapstructure:"read_buffer_bytes"`
	Log             LogConfig `json:"log" mapstructure:"log"`
}

var (
	cfg  *Config
	once sync.Once
)

// Load reads configuration from ./cryptflow.json (or the working directory's
// config file of that name), environment variables prefixed CRYPTFLOW_, and
// falls back to defaults when no file is present. It is safe to call
// repeatedly; the first call wins.
func Load() *Config {
	once.Do(func() {
		viper.SetConfigName("cryptflow")
		viper.SetConfigType("json")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.cryptflow")

		viper.SetDefault("default_key_bits", 256)
		viper.SetDefault("default_cipher", "ctr")
		viper.SetDefault("read_buffer_bytes", 64*1024)
		viper.SetDefault("log.level", "info")
		viper.SetDefault("log.format", "console")

		viper.SetEnvPrefix("CRYPTFLOW")
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		if err := viper.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				log.Debug().Msg("no cryptflow config file found, using defaults")
			} else {
				log.Warn().Err(err).Msg("error reading cryptflow config file")
			}
		}

		cfg = &Config{}
		if err := viper.Unmarshal(cfg); err != nil {
			log.Fatal().Err(err).Msg("failed to unmarshal cryptflow config")
		}
	})
	return cfg
}

// Get returns the loaded configuration, loading it with defaults first if
// necessary.
func Get() *Config {
	if cfg == nil {
		return Load()
	}
	return cfg
}

// OpenSSLName builds the canonical "aes-{bits}-{mode}" name for the
// configured defaults, matching the naming spec.md §6 requires of every
// cipher method.
func (c *Config) OpenSSLName() string {
	return "aes-" + strconv.Itoa(c.DefaultKeyBits) + "-" + c.DefaultCipher
}
