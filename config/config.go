// Package config loads the YAML file that configures a replay.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/cms-cvs-history/trajfilter"
	"github.com/cms-cvs-history/trajfilter/codec"
	"gopkg.in/yaml.v3"
)

// Store kinds.
const (
	StoreLocal  = "local"
	StoreMemory = "memory"
	StoreS3     = "s3"
	StoreMinIO  = "minio"
)

// Ledger kinds.
const (
	LedgerNone     = "none"
	LedgerMemory   = "memory"
	LedgerDynamoDB = "dynamodb"
)

// File is the top-level configuration.
type File struct {
	Filter trajfilter.Config `yaml:"filter"`
	Replay ReplayConfig      `yaml:"replay"`
	Store  StoreConfig       `yaml:"store"`
	Ledger LedgerConfig      `yaml:"ledger"`
	Log    LogConfig         `yaml:"log"`
}

// ReplayConfig bounds the replay runner.
type ReplayConfig struct {
	Workers         int    `yaml:"workers"`
	ReadBytesPerSec int64  `yaml:"read_bytes_per_sec"`
	Codec           string `yaml:"codec"`
}

// StoreConfig selects where traces and reports live.
type StoreConfig struct {
	Kind      string `yaml:"kind"`
	Root      string `yaml:"root"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Secure    bool   `yaml:"secure"`
}

// LedgerConfig selects where run entries are recorded.
type LedgerConfig struct {
	Kind   string `yaml:"kind"`
	Table  string `yaml:"table"`
	Region string `yaml:"region"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used for keys the file leaves out.
// The threshold has no default.
func Default() File {
	return File{
		Filter: trajfilter.Config{NSigma: trajfilter.DefaultNSigma},
		Replay: ReplayConfig{Workers: 4, Codec: "go-json"},
		Store:  StoreConfig{Kind: StoreLocal, Root: "."},
		Ledger: LedgerConfig{Kind: LedgerNone},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads and validates the file at path, then applies environment overrides.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	f, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	applyEnvOverrides(f)
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes and validates YAML data. Keys absent from data keep their defaults.
func Parse(data []byte) (*File, error) {
	f, err := parse(data)
	if err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

func parse(data []byte) (*File, error) {
	f := Default()
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// applyEnvOverrides keeps credentials out of the file.
func applyEnvOverrides(f *File) {
	if v := os.Getenv("TRAJFILTER_STORE_ACCESS_KEY"); v != "" {
		f.Store.AccessKey = v
	}
	if v := os.Getenv("TRAJFILTER_STORE_SECRET_KEY"); v != "" {
		f.Store.SecretKey = v
	}
	if v := os.Getenv("TRAJFILTER_LEDGER_TABLE"); v != "" {
		f.Ledger.Table = v
	}
}

func invalid(field string, value any, reason string) error {
	return &trajfilter.ErrInvalidConfig{Field: field, Value: value, Reason: reason}
}

// Validate checks every section.
func (f *File) Validate() error {
	if err := f.Filter.Validate(); err != nil {
		return fmt.Errorf("filter: %w", err)
	}

	if f.Replay.Workers < 0 {
		return invalid("replay.workers", f.Replay.Workers, "must not be negative")
	}
	if f.Replay.ReadBytesPerSec < 0 {
		return invalid("replay.read_bytes_per_sec", f.Replay.ReadBytesPerSec, "must not be negative")
	}
	if _, ok := codec.ByName(f.Replay.Codec); !ok {
		return invalid("replay.codec", f.Replay.Codec, "must be json or go-json")
	}

	switch f.Store.Kind {
	case StoreLocal:
		if f.Store.Root == "" {
			return invalid("store.root", f.Store.Root, "required for local store")
		}
	case StoreMemory:
	case StoreS3:
		if f.Store.Bucket == "" {
			return invalid("store.bucket", f.Store.Bucket, "required for s3 store")
		}
	case StoreMinIO:
		if f.Store.Bucket == "" {
			return invalid("store.bucket", f.Store.Bucket, "required for minio store")
		}
		if f.Store.Endpoint == "" {
			return invalid("store.endpoint", f.Store.Endpoint, "required for minio store")
		}
	default:
		return invalid("store.kind", f.Store.Kind, "must be local, memory, s3 or minio")
	}

	switch f.Ledger.Kind {
	case LedgerNone, LedgerMemory:
	case LedgerDynamoDB:
		if f.Ledger.Table == "" {
			return invalid("ledger.table", f.Ledger.Table, "required for dynamodb ledger")
		}
	default:
		return invalid("ledger.kind", f.Ledger.Kind, "must be none, memory or dynamodb")
	}

	if _, err := f.Log.SlogLevel(); err != nil {
		return invalid("log.level", f.Log.Level, err.Error())
	}
	switch strings.ToLower(f.Log.Format) {
	case "text", "json":
	default:
		return invalid("log.format", f.Log.Format, "must be text or json")
	}
	return nil
}

// SlogLevel parses Level ("debug", "info", "warn", "error", or offsets like "info+2").
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, err
	}
	return level, nil
}

// Logger builds a logger writing to w.
func (l LogConfig) Logger(w io.Writer) *trajfilter.Logger {
	level, err := l.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(l.Format, "json") {
		return trajfilter.NewLogger(slog.NewJSONHandler(w, opts))
	}
	return trajfilter.NewLogger(slog.NewTextHandler(w, opts))
}
