package config

import (
	_ "embed"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Config struct {
	Recognizer RecognizerConfig
	Capture    CaptureConfig
	Store      StoreConfig
	Web        WebConfig
	Database   DatabaseConfig
}

type RecognizerConfig struct {
	URL            string
	RequestTimeout time.Duration
}

type CaptureConfig struct {
	MinInterval  time.Duration // floor between two recognition submissions
	SamplePeriod time.Duration // cadence of the periodic trigger
	MaxFrameSize int           // longest edge of an uploaded frame in pixels
	SnapshotDir  string        // directory the frame source reads snapshots from
}

type StoreConfig struct {
	DayCap        int    // maximum entries kept per calendar day
	RetentionDays int    // partitions older than this are purged
	DataDir       string // file backend location for the key-value store
}

type WebConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	URL          string // PostgreSQL connection URL; empty selects the file backend
	MaxOpenConns int
	MaxIdleConns int
}

// defaults mirrors the structure of the embedded defaults.yaml.
type defaults struct {
	Capture struct {
		MinIntervalMs  int `yaml:"min_interval_ms"`
		SamplePeriodMs int `yaml:"sample_period_ms"`
		MaxFrameSize   int `yaml:"max_frame_size"`
	} `yaml:"capture"`
	Store struct {
		DayCap        int `yaml:"day_cap"`
		RetentionDays int `yaml:"retention_days"`
	} `yaml:"store"`
	Recognizer struct {
		RequestTimeoutMs int `yaml:"request_timeout_ms"`
	} `yaml:"recognizer"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envString returns the environment value or the default when unset.
func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

func Load() *Config {
	var d defaults
	if err := yaml.Unmarshal(defaultsYAML, &d); err != nil {
		// Embedded file, so this should never happen in practice.
		panic("failed to unmarshal embedded defaults.yaml: " + err.Error())
	}

	return &Config{
		Recognizer: RecognizerConfig{
			URL:            os.Getenv("RECOGNIZER_URL"),
			RequestTimeout: time.Duration(envInt("ROLLCALL_REQUEST_TIMEOUT_MS", d.Recognizer.RequestTimeoutMs)) * time.Millisecond,
		},
		Capture: CaptureConfig{
			MinInterval:  time.Duration(envInt("ROLLCALL_MIN_INTERVAL_MS", d.Capture.MinIntervalMs)) * time.Millisecond,
			SamplePeriod: time.Duration(envInt("ROLLCALL_SAMPLE_PERIOD_MS", d.Capture.SamplePeriodMs)) * time.Millisecond,
			MaxFrameSize: envInt("ROLLCALL_MAX_FRAME_SIZE", d.Capture.MaxFrameSize),
			SnapshotDir:  envString("ROLLCALL_SNAPSHOT_DIR", "snapshots"),
		},
		Store: StoreConfig{
			DayCap:        envInt("ROLLCALL_DAY_CAP", d.Store.DayCap),
			RetentionDays: envInt("ROLLCALL_RETENTION_DAYS", d.Store.RetentionDays),
			DataDir:       envString("ROLLCALL_DATA_DIR", ".rollcall"),
		},
		Web: WebConfig{
			Host: envString("WEB_HOST", "0.0.0.0"),
			Port: envInt("WEB_PORT", 8080),
		},
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
	}
}
