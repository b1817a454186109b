package devops

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

type ServerConfig struct {
	Port            int    `yaml:"port"`
	JWTSecret       string `yaml:"jwtSecret"`
	TokenTTLMinutes int    `yaml:"tokenTtlMinutes"`
}

type DatabaseConfig struct {
	DSN           string `yaml:"dsn"`
	MaxConnection int    `yaml:"maxConnection"`
	LogLevel      string `yaml:"logLevel"`
}

type SlackConfig struct {
	Token          string `yaml:"token"`
	InfoChannelID  string `yaml:"infoChannelId"`
	ErrorChannelID string `yaml:"errorChannelId"`
}

type EmailConfig struct {
	From string   `yaml:"from"`
	To   []string `yaml:"to"`
}

type HolidayConfig struct {
	Bucket string `yaml:"bucket"`
	Key    string `yaml:"key"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Slack    SlackConfig    `yaml:"slack"`
	Email    EmailConfig    `yaml:"email"`
	Holidays HolidayConfig  `yaml:"holidays"`
}

var (
	once    sync.Once
	loaded  *Config
	loadErr error
)

// LoadConfig reads the yaml configuration once per process. The path comes
// from STAFFLOW_CONFIG, falling back to config.yaml in the working directory.
// When STAFFLOW_CONFIG_PARAM is set, the yaml document is fetched from the
// named SSM parameter instead, so deployed instances carry no config file.
func LoadConfig(ctx context.Context) (*Config, error) {
	once.Do(func() {
		loaded, loadErr = readConfig(ctx)
	})
	return loaded, loadErr
}

func readConfig(ctx context.Context) (*Config, error) {
	var raw []byte

	if paramName := os.Getenv("STAFFLOW_CONFIG_PARAM"); paramName != "" {
		value, err := fetchParameter(ctx, paramName)
		if err != nil {
			return nil, err
		}
		raw = []byte(value)
	} else {
		path := os.Getenv("STAFFLOW_CONFIG")
		if path == "" {
			path = "config.yaml"
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		raw = data
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.TokenTTLMinutes == 0 {
		cfg.Server.TokenTTLMinutes = 12 * 60
	}
	if cfg.Database.MaxConnection == 0 {
		cfg.Database.MaxConnection = 10
	}

	return &cfg, nil
}

func fetchParameter(ctx context.Context, name string) (string, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return "", fmt.Errorf("load aws config: %w", err)
	}

	client := ssm.NewFromConfig(awsCfg)

	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("get parameter: %w", err)
	}

	return *out.Parameter.Value, nil
}
