// Package config loads vizsync configuration from files and the environment
// and decodes host option payloads.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/hupe1980/vizsync/view"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Data     DataConfig
	View     view.Options
	Playback PlaybackConfig
	Log      LogConfig
}

// DataConfig selects where the data pack is read from.
type DataConfig struct {
	// Store is one of "memory", "local", "s3" or "minio".
	Store string
	// Root is the directory of the local store.
	Root string
	// Pack is the blob name of the data pack. Its suffix selects the
	// compression (".zst", ".lz4" or none).
	Pack      string
	Codec     string
	Bucket    string
	Prefix    string
	Region    string
	Endpoint  string
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// PlaybackConfig holds time playback settings.
type PlaybackConfig struct {
	Interval time.Duration
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is a slog level name ("debug", "info", "warn", "error").
	Level string
	// Format is "text" or "json".
	Format string
}

// EnvPrefix is the prefix of environment overrides, e.g. VIZSYNC_DATA_STORE.
const EnvPrefix = "VIZSYNC"

// Load reads configuration from path (or $VIZSYNC_CONFIG, or
// ~/.config/vizsync/config.*) and the environment. A missing default config
// file is not an error; a missing explicit path is.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("data.store", "local")
	v.SetDefault("data.root", ".")
	v.SetDefault("data.pack", "pack.json")
	v.SetDefault("data.codec", "go-json")
	v.SetDefault("data.bucket", "")
	v.SetDefault("data.prefix", "")
	v.SetDefault("data.region", "")
	v.SetDefault("data.endpoint", "")
	v.SetDefault("data.access_key", "")
	v.SetDefault("data.secret_key", "")
	v.SetDefault("data.use_ssl", true)
	v.SetDefault("view.unit", "")
	v.SetDefault("view.log_axes", false)
	v.SetDefault("view.normalize", false)
	v.SetDefault("view.reorder", true)
	v.SetDefault("view.year_start", "")
	v.SetDefault("view.add_mode", false)
	v.SetDefault("view.width", view.DefaultWidth)
	v.SetDefault("playback.interval", "900ms")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigType("toml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "vizsync"))
		}
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// DecodeViewOptions decodes a host options payload. Unknown keys (fonts,
// palettes, layout sizes) are ignored and loosely typed values such as "1"
// for a boolean are accepted. Keys absent from raw keep their default.
func DecodeViewOptions(raw map[string]any) (view.Options, error) {
	opts := view.DefaultOptions()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &opts,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return view.Options{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return view.Options{}, fmt.Errorf("decode options: %w", err)
	}
	return opts, nil
}
