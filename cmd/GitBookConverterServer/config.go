package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	gitbookconverter "github.com/jadolg/GitBookConverter"
)

// Storage backends
const (
	StorageLocal = "local"
	StorageMinIO = "minio"
)

// Config represents the application configuration
type Config struct {
	Port         int           `yaml:"port"`
	DownloadsDir string        `yaml:"downloads_dir"`
	MaxUploadMB  int64         `yaml:"max_upload_mb"`
	VerifyMedia  *bool         `yaml:"verify_media"`
	Summary      bool          `yaml:"summary"`
	Storage      StorageConfig `yaml:"storage"`
	Auth         AuthConfig    `yaml:"auth"`
}

// StorageConfig selects where converted archives are kept
type StorageConfig struct {
	Type  string      `yaml:"type"`
	MinIO MinIOConfig `yaml:"minio"`
}

// MinIOConfig holds object storage settings for MinIO or any S3-compatible service
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// AuthConfig protects the conversion and download endpoints
type AuthConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`
	APIKeys  []string `yaml:"api_keys"`
}

// LoadConfig loads configuration from a YAML file. Environment variables
// override values from the file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return finishConfig(&config)
}

// NewConfig builds a configuration from environment variables and defaults only
func NewConfig() (*Config, error) {
	return finishConfig(&Config{})
}

func finishConfig(config *Config) (*Config, error) {
	if err := config.ApplyEnv(); err != nil {
		return nil, err
	}
	config.ApplyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// ApplyEnv overrides configuration values with the ones set in the environment
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("GITBOOK_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid GITBOOK_PORT: %w", err)
		}
		c.Port = port
	}
	if v := os.Getenv("GITBOOK_MAX_UPLOAD_MB"); v != "" {
		size, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid GITBOOK_MAX_UPLOAD_MB: %w", err)
		}
		c.MaxUploadMB = size
	}
	if v := os.Getenv("GITBOOK_API_KEYS"); v != "" {
		c.Auth.Enabled = true
		c.Auth.APIKeys = splitList(v)
	}

	c.DownloadsDir = getEnv("GITBOOK_DOWNLOADS_DIR", c.DownloadsDir)
	c.Storage.Type = getEnv("GITBOOK_STORAGE", c.Storage.Type)
	c.Storage.MinIO.Endpoint = getEnv("MINIO_ENDPOINT", c.Storage.MinIO.Endpoint)
	c.Storage.MinIO.AccessKey = getEnv("MINIO_ACCESS_KEY", c.Storage.MinIO.AccessKey)
	c.Storage.MinIO.SecretKey = getEnv("MINIO_SECRET_KEY", c.Storage.MinIO.SecretKey)
	c.Storage.MinIO.Bucket = getEnv("MINIO_BUCKET", c.Storage.MinIO.Bucket)
	c.Storage.MinIO.UseSSL = getEnvBool("MINIO_USE_SSL", c.Storage.MinIO.UseSSL)
	return nil
}

// ApplyDefaults sets default values for unspecified configuration options
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.MaxUploadMB == 0 {
		c.MaxUploadMB = 64
	}
	if c.Storage.Type == "" {
		c.Storage.Type = StorageLocal
	}
	if c.VerifyMedia == nil {
		verify := true
		c.VerifyMedia = &verify
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d (must be between 1 and 65535)", c.Port)
	}
	if c.MaxUploadMB < 1 {
		return fmt.Errorf("invalid max_upload_mb: %d (must be positive)", c.MaxUploadMB)
	}

	switch c.Storage.Type {
	case StorageLocal:
	case StorageMinIO:
		m := c.Storage.MinIO
		if m.Endpoint == "" || m.Bucket == "" {
			return fmt.Errorf("minio storage requires endpoint and bucket")
		}
		if m.AccessKey == "" || m.SecretKey == "" {
			return fmt.Errorf("minio storage requires access_key and secret_key")
		}
	default:
		return fmt.Errorf("unsupported storage type '%s', valid options: local, minio", c.Storage.Type)
	}

	if c.Auth.Enabled && c.Auth.Username == "" && len(c.Auth.APIKeys) == 0 {
		return fmt.Errorf("auth is enabled but no username or api_keys are configured")
	}
	return nil
}

// MaxUploadBytes returns the upload limit in bytes
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

// ConversionOptions returns the options passed to Notion conversions
func (c *Config) ConversionOptions() gitbookconverter.Options {
	opts := gitbookconverter.DefaultOptions()
	if c.VerifyMedia != nil {
		opts.VerifyMedia = *c.VerifyMedia
	}
	opts.Summary = c.Summary
	return opts
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
