package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	apperrors "github.com/yurifrl/adinsights/pkg/errors"
	"github.com/yurifrl/adinsights/pkg/models"
	"github.com/yurifrl/adinsights/pkg/pipeline"
)

const envPrefix = "ADINSIGHTS"

type ServerConfig struct {
	Addr string `mapstructure:"addr" validate:"required"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

// Config is the outer configuration of the CLI and the server. The pipeline itself only
// consumes DataDir and TopN.
type Config struct {
	DataDir   string       `mapstructure:"data_dir" validate:"required"`
	TopN      int          `mapstructure:"top_n" validate:"min=5,max=50"`
	Format    string       `mapstructure:"format" validate:"oneof=csv xls"`
	OutputDir string       `mapstructure:"output_dir"`
	Server    ServerConfig `mapstructure:"server"`
	Log       LogConfig    `mapstructure:"log"`
}

// flag name -> config key
var flagKeys = map[string]string{
	"data-dir":  "data_dir",
	"top-n":     "top_n",
	"format":    "format",
	"output":    "output_dir",
	"addr":      "server.addr",
	"log-level": "log.level",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", ".")
	v.SetDefault("top_n", 15)
	v.SetDefault("format", "csv")
	v.SetDefault("output_dir", "out")
	v.SetDefault("server.addr", "0.0.0.0:3000")
	v.SetDefault("log.level", "info")
}

// Build merges, lowest precedence first: defaults, the config file, .env, ADINSIGHTS_*
// environment variables and flags. cfgFile may be empty, in which case config.yaml is looked
// up in the working directory and is optional. flags may be nil.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, apperrors.NewConfigError("failed to load .env", err)
	}

	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, apperrors.NewConfigError("failed to read config file", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, apperrors.NewConfigError(fmt.Sprintf("failed to bind flag %s", name), err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to decode config", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the struct tags of cfg and reports the first offending field.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return apperrors.NewConfigError(fmt.Sprintf("invalid %s: %v fails %s=%s", fe.Namespace(), fe.Value(), fe.Tag(), fe.Param()), err).
				WithContext("field", fe.Namespace())
		}
		return apperrors.NewConfigError("invalid config", err)
	}
	return nil
}

// Options returns the pipeline options for cfg: its top-N and the default manifest with
// file names in the configured source format.
func (c *Config) Options() (pipeline.Options, error) {
	manifest, err := models.DefaultManifest.WithExtension(c.Format)
	if err != nil {
		return pipeline.Options{}, apperrors.NewConfigError("invalid source format", err).
			WithContext("format", c.Format)
	}
	return pipeline.Options{TopN: c.TopN, Manifest: manifest}, nil
}
