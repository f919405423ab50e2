package server

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Port is the port the control server should listen on.
	Port int `yaml:"port"`
	// Passphrase is the secret control clients must put in the header of every packet.
	Passphrase string `yaml:"passphrase"`
	// Workers is the amount of goroutines processing control packets.
	Workers int `yaml:"workers"`
	// BedrockAddress is the address Bedrock clients connect to.
	BedrockAddress string `yaml:"bedrock_address"`
	// WorldName is shown to Bedrock clients when joining.
	WorldName string `yaml:"world_name"`
	// LogLevel is one of zerolog's level names, such as "debug" or "info".
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns a configuration usable for local testing.
func DefaultConfig() Config {
	return Config{
		Port:           19133,
		Workers:        4,
		BedrockAddress: "0.0.0.0:19132",
		WorldName:      "BlueLight",
		LogLevel:       "info",
	}
}

// LoadConfig reads a YAML configuration from the path. Fields missing from the file keep the values
// of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that the configuration can be used to start a server.
func (cfg Config) Validate() error {
	var errs []error
	if cfg.Port < 0 || cfg.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", cfg.Port))
	}
	if cfg.Passphrase == "" {
		errs = append(errs, errors.New("passphrase must not be empty"))
	}
	if cfg.Workers <= 0 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d", cfg.Workers))
	}
	if cfg.BedrockAddress == "" {
		errs = append(errs, errors.New("bedrock_address must not be empty"))
	}
	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	return errors.Join(errs...)
}
