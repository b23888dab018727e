// Package config is the top-level configuration struct for the engine. All
// fields have safe defaults so callers can start with Default() and override
// only what they need.
package config

import (
	"errors"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// StorageBackend selects the storage adapter.
type StorageBackend string

const (
	StorageLocal StorageBackend = "local"
	StorageS3    StorageBackend = "s3"
)

// Quality is the resize-quality dial consumed by the strategy selector and
// resize backends (spec §4.3/§4.4).
type Quality string

const (
	QualityFast     Quality = "fast"
	QualityBalanced Quality = "balanced"
	QualityHigh     Quality = "high"
)

// Config is the top-level configuration struct.
type Config struct {
	// Worker pool controls (engine.Processor).
	WorkerCount int `yaml:"worker_count"` // default: runtime.NumCPU()
	QueueSize   int `yaml:"queue_size"`   // max queued jobs before backpressure; default: 256
	JobTimeout  time.Duration `yaml:"job_timeout"`

	// Retry.
	MaxRetries int           `yaml:"max_retries"`
	RetryDelay time.Duration `yaml:"retry_delay"`

	// Encode defaults, checked by Validate. The encoders that imagefit.New
	// registers use their own built-in defaults and do not read these fields.
	DefaultQualityJPEG int    `yaml:"default_quality_jpeg"` // 1-100; default 85
	DefaultQualityWebP int    `yaml:"default_quality_webp"` // 1-100; default 80
	DefaultFormat      string `yaml:"default_format"`

	// Streaming / memory limits (source materialization).
	MaxImageBytes int64 `yaml:"max_image_bytes"` // 0 = no limit
	ChunkSize     int   `yaml:"chunk_size"`      // streaming chunk size in bytes; default 32 KiB

	// Strategy selector tunables (spec §4.3).
	MaxSafeDimension  int   `yaml:"max_safe_dimension"`  // default 16384
	MemoryBudgetBytes int64 `yaml:"memory_budget_bytes"` // default 256 MiB
	Quality           Quality `yaml:"quality"`            // default balanced

	// Resize backend tunables (spec §4.4).
	TileConcurrency int `yaml:"tile_concurrency"` // default 2
	TileOverlap     int `yaml:"tile_overlap"`     // default 32

	// Storage.
	Storage StorageBackend `yaml:"storage"`
	Local   LocalConfig    `yaml:"local"`
	S3      S3Config       `yaml:"s3"`

	// Adaptive compression.
	AdaptiveCompression AdaptiveConfig `yaml:"adaptive_compression"`

	// Logging / metrics.
	LogLevel string `yaml:"log_level"` // "debug", "info", "warn", "error"
}

// LocalConfig configures the local filesystem storage adapter.
type LocalConfig struct {
	RootDir     string `yaml:"root_dir"`
	Permissions uint32 `yaml:"permissions"` // default 0644
}

// S3Config configures the S3-compatible storage adapter (wired to
// github.com/minio/minio-go/v7 in storage/s3.go).
type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"` // optional custom endpoint (MinIO, etc.)
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	UseSSL          bool   `yaml:"use_ssl"`
}

// AdaptiveConfig controls the adaptive compression algorithm.
type AdaptiveConfig struct {
	Enabled         bool  `yaml:"enabled"`
	TargetSizeBytes int64 `yaml:"target_size_bytes"`
	MinQuality      int   `yaml:"min_quality"` // floor; default 30
	MaxQuality      int   `yaml:"max_quality"` // ceiling; default 95
	StepSize        int   `yaml:"step_size"`   // quality decrement per iteration; default 5
}

// Default returns a Config populated with sensible production defaults.
func Default() Config {
	return Config{
		WorkerCount:        0, // resolved at runtime to NumCPU
		QueueSize:          256,
		JobTimeout:         30 * time.Second,
		MaxRetries:         3,
		RetryDelay:         200 * time.Millisecond,
		DefaultQualityJPEG: 85,
		DefaultQualityWebP: 80,
		ChunkSize:          32 * 1024,
		MaxSafeDimension:   16384,
		MemoryBudgetBytes:  256 * 1024 * 1024,
		Quality:            QualityBalanced,
		TileConcurrency:    2,
		TileOverlap:        32,
		Storage:            StorageLocal,
		AdaptiveCompression: AdaptiveConfig{
			MinQuality: 30,
			MaxQuality: 95,
			StepSize:   5,
		},
		LogLevel: "info",
	}
}

// Load reads a YAML config file, applying it on top of Default().
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate returns an error if the configuration is inconsistent.
func Validate(c Config) error {
	if c.DefaultQualityJPEG < 1 || c.DefaultQualityJPEG > 100 {
		return errors.New("config: DefaultQualityJPEG must be between 1 and 100")
	}
	if c.DefaultQualityWebP < 1 || c.DefaultQualityWebP > 100 {
		return errors.New("config: DefaultQualityWebP must be between 1 and 100")
	}
	if c.ChunkSize <= 0 {
		return errors.New("config: ChunkSize must be positive")
	}
	if c.MaxSafeDimension <= 0 {
		return errors.New("config: MaxSafeDimension must be positive")
	}
	if c.TileConcurrency <= 0 {
		return errors.New("config: TileConcurrency must be positive")
	}
	if c.AdaptiveCompression.Enabled {
		if c.AdaptiveCompression.MinQuality >= c.AdaptiveCompression.MaxQuality {
			return errors.New("config: AdaptiveCompression.MinQuality must be less than MaxQuality")
		}
	}
	return nil
}
