// Package config provides YAML-based configuration with environment overrides.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override, e.g. PDFPROC_SERVER_PORT.
const EnvPrefix = "PDFPROC"

// AppConfig represents the root configuration structure
type AppConfig struct {
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Storage    StorageConfig    `yaml:"storage" mapstructure:"storage"`
	Processing ProcessingConfig `yaml:"processing" mapstructure:"processing"`
	Logging    LoggingConfig    `yaml:"logging" mapstructure:"logging"`
}

// ServerConfig contains RPC listener settings
type ServerConfig struct {
	Port            int    `yaml:"port" mapstructure:"port"`
	BindAddress     string `yaml:"bind_address" mapstructure:"bind_address"` // empty binds all interfaces
	ReadTimeout     int    `yaml:"read_timeout_seconds" mapstructure:"read_timeout_seconds"`
	WriteTimeout    int    `yaml:"write_timeout_seconds" mapstructure:"write_timeout_seconds"`
	IdleTimeout     int    `yaml:"idle_timeout_seconds" mapstructure:"idle_timeout_seconds"`
	ShutdownTimeout int    `yaml:"shutdown_timeout_seconds" mapstructure:"shutdown_timeout_seconds"`
	BodyLimit       string `yaml:"body_limit" mapstructure:"body_limit"` // echo size string, empty disables
}

// StorageConfig contains document storage settings
type StorageConfig struct {
	UploadsDirectory string `yaml:"upload_dir" mapstructure:"upload_dir"`
	FallbackFilename string `yaml:"fallback_filename" mapstructure:"fallback_filename"`
}

// ProcessingConfig contains request handling settings
type ProcessingConfig struct {
	MaxWorkers           int `yaml:"max_workers" mapstructure:"max_workers"`
	SimulatedDelayMillis int `yaml:"simulated_delay_ms" mapstructure:"simulated_delay_ms"`
}

// LoggingConfig contains log settings
type LoggingConfig struct {
	Level                string `yaml:"level" mapstructure:"level"` // debug, info, warn, error, off
	EnableRequestLogging bool   `yaml:"enable_request_logging" mapstructure:"enable_request_logging"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:            50052,
			BindAddress:     "",
			ReadTimeout:     300,
			WriteTimeout:    300,
			IdleTimeout:     120,
			ShutdownTimeout: 10,
			BodyLimit:       "2G",
		},
		Storage: StorageConfig{
			UploadsDirectory: "uploaded_pdfs",
			FallbackFilename: "default_uploaded.pdf",
		},
		Processing: ProcessingConfig{
			MaxWorkers:           10,
			SimulatedDelayMillis: 500,
		},
		Logging: LoggingConfig{
			Level:                "info",
			EnableRequestLogging: true,
		},
	}
}

// LoadConfig loads configuration from a YAML file, writing the defaults there
// first if it does not exist. Environment variables override file values.
func LoadConfig(configPath string) (*AppConfig, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := DefaultConfig().Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	v := newViper()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return decode(v)
}

// LoadFromEnv builds the configuration from defaults and environment only.
func LoadFromEnv() (*AppConfig, error) {
	return decode(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()

	d := DefaultConfig()
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.bind_address", d.Server.BindAddress)
	v.SetDefault("server.read_timeout_seconds", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout_seconds", d.Server.WriteTimeout)
	v.SetDefault("server.idle_timeout_seconds", d.Server.IdleTimeout)
	v.SetDefault("server.shutdown_timeout_seconds", d.Server.ShutdownTimeout)
	v.SetDefault("server.body_limit", d.Server.BodyLimit)
	v.SetDefault("storage.upload_dir", d.Storage.UploadsDirectory)
	v.SetDefault("storage.fallback_filename", d.Storage.FallbackFilename)
	v.SetDefault("processing.max_workers", d.Processing.MaxWorkers)
	v.SetDefault("processing.simulated_delay_ms", d.Processing.SimulatedDelayMillis)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.enable_request_logging", d.Logging.EnableRequestLogging)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Plain PORT is honoured for container platforms.
	_ = v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "PORT")

	return v
}

func decode(v *viper.Viper) (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves the configuration to a YAML file
func (c *AppConfig) Save(configPath string) error {
	output, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte("# PDF processor configuration\n# This file is auto-generated on first run\n\n")
	content := append(header, output...)

	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate rejects values the server cannot start with
func (c *AppConfig) Validate() error {
	var errs []error
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}
	if c.Storage.UploadsDirectory == "" {
		errs = append(errs, errors.New("storage.upload_dir must not be empty"))
	}
	if c.Processing.MaxWorkers <= 0 {
		errs = append(errs, fmt.Errorf("processing.max_workers must be positive: %d", c.Processing.MaxWorkers))
	}
	if c.Processing.SimulatedDelayMillis < 0 {
		errs = append(errs, fmt.Errorf("processing.simulated_delay_ms must not be negative: %d", c.Processing.SimulatedDelayMillis))
	}
	return errors.Join(errs...)
}

// GetUploadDir returns the storage root
func (c *AppConfig) GetUploadDir() string {
	return c.Storage.UploadsDirectory
}

// GetServerAddr returns the listen address
func (c *AppConfig) GetServerAddr() string {
	return net.JoinHostPort(c.Server.BindAddress, strconv.Itoa(c.Server.Port))
}

// SimulatedDelay returns the processing delay as a duration
func (c *AppConfig) SimulatedDelay() time.Duration {
	return time.Duration(c.Processing.SimulatedDelayMillis) * time.Millisecond
}

// ShutdownGrace returns how long in-flight requests get on shutdown
func (c *AppConfig) ShutdownGrace() time.Duration {
	return time.Duration(c.Server.ShutdownTimeout) * time.Second
}

// EnsureDirectories creates the storage root
func (c *AppConfig) EnsureDirectories() error {
	if err := os.MkdirAll(c.Storage.UploadsDirectory, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", c.Storage.UploadsDirectory, err)
	}
	return nil
}
