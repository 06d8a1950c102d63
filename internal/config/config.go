// Package config loads the surveyor command configuration from YAML.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"reflect"
	"runtime"
	"time"

	"github.com/aretw0/surveyor/pkg/domain"
	"github.com/aretw0/surveyor/pkg/treeprog"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Config is the full command configuration.
type Config struct {
	Surveyor SurveyorConfig  `yaml:"surveyor" mapstructure:"surveyor"`
	Program  treeprog.Config `yaml:"program" mapstructure:"program"`
	Store    StoreConfig     `yaml:"store" mapstructure:"store"`
	Log      LogConfig       `yaml:"log" mapstructure:"log"`
	HTTP     HTTPConfig      `yaml:"http" mapstructure:"http"`
}

// SurveyorConfig holds the scheduler limits.
type SurveyorConfig struct {
	MaxActive     int  `yaml:"max_active" mapstructure:"max_active"`
	PickleOnSpill bool `yaml:"pickle_on_spill" mapstructure:"pickle_on_spill"`
	SaveDeadends  bool `yaml:"save_deadends" mapstructure:"save_deadends"`
	SingleStep    bool `yaml:"single_step" mapstructure:"single_step"`

	// MaxConcurrency of zero picks one worker per CPU, or one for a sequential program.
	MaxConcurrency int `yaml:"max_concurrency" mapstructure:"max_concurrency"`

	// Steps bounds a run; negative means until done.
	Steps int `yaml:"steps" mapstructure:"steps"`

	// StepRate caps steps per second so a live run can be followed. Zero is unlimited.
	StepRate float64 `yaml:"step_rate" mapstructure:"step_rate"`
}

// StoreConfig selects where persisted paths go.
type StoreConfig struct {
	Backend string      `yaml:"backend" mapstructure:"backend"`
	Path    string      `yaml:"path" mapstructure:"path"`
	Redis   RedisConfig `yaml:"redis" mapstructure:"redis"`

	// EncryptionKey, if set, is a base64 AES-256 key used to encrypt persisted paths.
	EncryptionKey string `yaml:"encryption_key" mapstructure:"encryption_key"`
}

// Key decodes EncryptionKey. It returns nil when encryption is off.
func (c StoreConfig) Key() ([]byte, error) {
	if c.EncryptionKey == "" {
		return nil, nil
	}
	key, err := base64.StdEncoding.DecodeString(c.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("store.encryption_key is not valid base64: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("store.encryption_key must decode to 32 bytes, got %d", len(key))
	}
	return key, nil
}

type RedisConfig struct {
	Addr     string        `yaml:"addr" mapstructure:"addr"`
	Password string        `yaml:"password" mapstructure:"password"`
	DB       int           `yaml:"db" mapstructure:"db"`
	Prefix   string        `yaml:"prefix" mapstructure:"prefix"`
	TTL      time.Duration `yaml:"ttl" mapstructure:"ttl"`

	// LockTTL, if positive, makes a run hold an exclusive lock on the prefix for at most this long.
	LockTTL time.Duration `yaml:"lock_ttl" mapstructure:"lock_ttl"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Surveyor: SurveyorConfig{
			MaxActive:    runtime.NumCPU(),
			SaveDeadends: true,
			Steps:        -1,
		},
		Program: treeprog.DefaultConfig(),
		Store: StoreConfig{
			Backend: BackendMemory,
			Path:    ".surveyor/snapshots",
			Redis:   RedisConfig{Addr: "localhost:6379"},
		},
		Log:  LogConfig{Level: "info", Format: "text"},
		HTTP: HTTPConfig{Addr: ":8080"},
	}
}

// Validate checks the configuration for values the command cannot work with.
func (c Config) Validate() error {
	var errs []error
	if c.Surveyor.MaxActive < 1 {
		errs = append(errs, fmt.Errorf("surveyor.max_active must be positive, got %d", c.Surveyor.MaxActive))
	}
	if c.Surveyor.StepRate < 0 {
		errs = append(errs, fmt.Errorf("surveyor.step_rate cannot be negative, got %g", c.Surveyor.StepRate))
	}
	if c.Surveyor.MaxConcurrency < 0 {
		errs = append(errs, fmt.Errorf("surveyor.max_concurrency cannot be negative, got %d", c.Surveyor.MaxConcurrency))
	}
	if err := c.Program.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("program: %w", err))
	}
	switch c.Store.Backend {
	case BackendMemory:
	case BackendFile:
		if c.Store.Path == "" {
			errs = append(errs, errors.New("store.path is required for the file backend"))
		}
	case BackendRedis:
		if c.Store.Redis.Addr == "" {
			errs = append(errs, errors.New("store.redis.addr is required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store backend %q", c.Store.Backend))
	}
	if _, err := c.Store.Key(); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidConfig, err)
	}
	return nil
}

// Load reads path over the defaults. Keys missing from the file keep their default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg := Default()
	if err := Decode(raw, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode applies a generic map (from YAML, JSON or flags) onto out.
// Strings are converted to numbers, booleans and durations where needed; unknown keys are rejected.
func Decode(raw map[string]any, out *Config) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			intToDurationHook,
		),
	})
	if err != nil {
		return fmt.Errorf("failed to build config decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidConfig, err)
	}
	return nil
}

// intToDurationHook reads bare integers as milliseconds.
func intToDurationHook(from, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(time.Duration(0)) {
		return data, nil
	}
	switch from.Kind() {
	case reflect.Int, reflect.Int64, reflect.Int32:
		return time.Duration(reflect.ValueOf(data).Int()) * time.Millisecond, nil
	}
	return data, nil
}
