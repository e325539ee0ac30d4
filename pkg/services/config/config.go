package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/de-tools/policy-report/pkg/services/downloads"
	"github.com/de-tools/policy-report/pkg/store/client"
	"github.com/spf13/viper"
)

const envPrefix = "POLICY_REPORT"

type Config struct {
	Backend   BackendConfig   `mapstructure:"backend"`
	Log       LogConfig       `mapstructure:"log"`
	Server    ServerConfig    `mapstructure:"server"`
	Downloads DownloadsConfig `mapstructure:"downloads"`
}

type BackendConfig struct {
	URL string `mapstructure:"url"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type DownloadsConfig struct {
	Sink string   `mapstructure:"sink"`
	Dir  string   `mapstructure:"dir"`
	S3   S3Config `mapstructure:"s3"`
}

type S3Config struct {
	Bucket  string `mapstructure:"bucket"`
	Prefix  string `mapstructure:"prefix"`
	Profile string `mapstructure:"profile"`
}

// SinkSettings converts the downloads section for the sink registry.
func (d DownloadsConfig) SinkSettings() downloads.SinkSettings {
	return downloads.SinkSettings{
		Dir:        d.Dir,
		Bucket:     d.S3.Bucket,
		Prefix:     d.S3.Prefix,
		AWSProfile: d.S3.Profile,
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("backend.url", client.DefaultEndpoint)
	v.SetDefault("log.level", "info")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("downloads.sink", downloads.SinkFile)
	v.SetDefault("downloads.dir", downloads.DefaultDir)
	v.SetDefault("downloads.s3.bucket", "")
	v.SetDefault("downloads.s3.prefix", "")
	v.SetDefault("downloads.s3.profile", "")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig reads the YAML config at path. An empty path yields the
// defaults, still subject to POLICY_REPORT_* environment overrides.
func LoadConfig(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Backend.URL == "" {
		errs = append(errs, errors.New("backend.url must not be empty"))
	}
	switch c.Downloads.Sink {
	case downloads.SinkFile:
	case downloads.SinkS3:
		if c.Downloads.S3.Bucket == "" {
			errs = append(errs, errors.New("downloads.s3.bucket is required for the s3 sink"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown downloads.sink %q", c.Downloads.Sink))
	}
	return errors.Join(errs...)
}
