// Package config loads the liquette CLI configuration from flags, LIQUETTE_*
// environment variables and an optional config file.
package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/raphaelreyna/liquette/pkg/template"
)

const EnvPrefix = "LIQUETTE"

// flag name -> config key
var keys = map[string]string{
	"patterns-dir": "patterns_dir",
	"data-dir":     "data_dir",
	"extension":    "extension",
	"section-dirs": "section_dirs",
	"feature-set":  "feature_set",
	"section-mode": "section_mode",
	"assets-path":  "assets_path",
	"currency":     "currency",
	"cache-size":   "cache_size",
	"log-level":    "log_level",
	"log-json":     "log_json",
}

// AddFlags declares the configuration flags on cmd and binds them to v.
func AddFlags(cmd *cobra.Command, v *viper.Viper) error {
	fs := cmd.PersistentFlags()
	fs.String("config", "", "config file (default ./liquette.yaml when present)")
	fs.String("patterns-dir", ".", "base template directory")
	fs.String("data-dir", "", "base data directory (default patterns-dir)")
	fs.String("extension", template.DefaultExtension, "section template file extension")
	fs.StringSlice("section-dirs", nil, "directories searched for sections, in order")
	fs.String("feature-set", string(template.Full), "tags and filters to provide: full or reduced")
	fs.String("section-mode", "", "section rendering: wrapped or direct (default by feature set)")
	fs.String("assets-path", "", "prefix added by asset_url")
	fs.String("currency", "", "symbol used by money")
	fs.Int("cache-size", template.DefaultCacheSize, "compiled templates kept in memory; negative disables caching")
	fs.String("log-level", "info", "log level")
	fs.Bool("log-json", false, "log JSON instead of console output")

	for flag, key := range keys {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return fmt.Errorf("error binding flag %s: %w", flag, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return nil
}

// Read loads the config file named by the config flag, or liquette.* in the
// working directory when there is one.
func Read(cmd *cobra.Command, v *viper.Viper) error {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("liquette")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config: %w", err)
	}

	return nil
}

// Engine decodes the engine configuration held by v.
func Engine(v *viper.Viper) (*template.Config, error) {
	var c template.Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	return &c, nil
}

// Logger builds the CLI logger: a console writer on w unless JSON was asked for.
func Logger(v *viper.Viper, w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(v.GetString("log_level"))
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("invalid log level: %w", err)
	}

	if w == nil {
		w = os.Stderr
	}
	if !v.GetBool("log_json") {
		w = zerolog.ConsoleWriter{Out: w}
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}

type engineKey struct{}

func WithEngine(ctx context.Context, e *template.Engine) context.Context {
	return context.WithValue(ctx, engineKey{}, e)
}

func EngineFrom(ctx context.Context) (*template.Engine, error) {
	e, ok := ctx.Value(engineKey{}).(*template.Engine)
	if !ok || e == nil {
		return nil, errors.New("no engine configured")
	}
	return e, nil
}
