package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"

	"imageborder/internal/pipeline"
)

// Config is the process configuration. Nothing is persisted between runs:
// every run starts from the defaults below plus environment overrides.
type Config struct {
	InputDir    string
	OutputDir   string
	Workers     int    `default:"0" validate:"gte=0"`
	QueueSize   int    `default:"256" validate:"gt=0"`
	PreviewSize int    `default:"500" validate:"gt=0"`
	LogLevel    string `default:"info" validate:"oneof=debug info warn error"`
	LogFile     string
	Development bool

	Export pipeline.ExportOptions
}

var validate = validator.New()

// Load builds a Config from defaults and BORDER_* environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("set defaults: %w", err)
	}

	cfg.InputDir = getEnv("BORDER_INPUT_DIR", cfg.InputDir)
	cfg.OutputDir = getEnv("BORDER_OUTPUT_DIR", cfg.OutputDir)
	cfg.LogLevel = strings.ToLower(getEnv("BORDER_LOG_LEVEL", cfg.LogLevel))
	cfg.LogFile = getEnv("BORDER_LOG_FILE", cfg.LogFile)

	env := &envReader{}
	cfg.Workers = env.getInt("BORDER_WORKERS", cfg.Workers)
	cfg.QueueSize = env.getInt("BORDER_QUEUE_SIZE", cfg.QueueSize)
	cfg.PreviewSize = env.getInt("BORDER_PREVIEW_SIZE", cfg.PreviewSize)
	cfg.Development = env.getBool("BORDER_DEV", cfg.Development)

	x := &cfg.Export
	x.Percentage = env.getFloat32("BORDER_PERCENTAGE", x.Percentage)
	x.Symmetrical = env.getBool("BORDER_SYMMETRICAL", x.Symmetrical)
	x.Resize = env.getBool("BORDER_RESIZE", x.Resize)
	x.ResizeLongest = env.getInt("BORDER_RESIZE_LONGEST", x.ResizeLongest)
	x.JPEGQuality = env.getInt("BORDER_JPEG_QUALITY", x.JPEGQuality)
	x.AVIFQuality = env.getInt("BORDER_AVIF_QUALITY", x.AVIFQuality)
	x.AVIFSpeed = env.getInt("BORDER_AVIF_SPEED", x.AVIFSpeed)
	x.AutoOrient = env.getBool("BORDER_AUTO_ORIENT", x.AutoOrient)
	if v := os.Getenv("BORDER_FORMAT"); v != "" {
		f, err := pipeline.ParseFormat(v)
		env.fail(err)
		x.Format = f
	}
	if v := os.Getenv("BORDER_RESIZE_FILTER"); v != "" {
		f, err := pipeline.ParseFilter(v)
		env.fail(err)
		x.Filter = f
	}
	if env.err != nil {
		return nil, env.err
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every range-constrained field of cfg.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// DefaultExportOptions returns the option snapshot a fresh session starts with.
func DefaultExportOptions() pipeline.ExportOptions {
	var opts pipeline.ExportOptions
	// Set only fails for non-pointer input.
	_ = defaults.Set(&opts)
	return opts
}

// Clamp pulls every numeric option into its accepted range and replaces
// unknown enum values with defaults. The geometry calculator does not
// validate its inputs, so interactive callers clamp first.
func Clamp(opts pipeline.ExportOptions) pipeline.ExportOptions {
	def := DefaultExportOptions()

	opts.Percentage = min(max(opts.Percentage, 0), 50)
	if opts.ResizeLongest <= 0 {
		opts.ResizeLongest = def.ResizeLongest
	}
	opts.JPEGQuality = min(max(opts.JPEGQuality, 1), 100)
	opts.AVIFQuality = min(max(opts.AVIFQuality, 1), 100)
	opts.AVIFSpeed = min(max(opts.AVIFSpeed, 1), 10)
	if f, err := pipeline.ParseFormat(string(opts.Format)); err == nil {
		opts.Format = f
	} else {
		opts.Format = def.Format
	}
	if f, err := pipeline.ParseFilter(string(opts.Filter)); err == nil {
		opts.Filter = f
	} else {
		opts.Filter = def.Filter
	}
	return opts
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// envReader parses typed environment values and keeps the first error.
type envReader struct {
	err error
}

func (r *envReader) fail(err error) {
	if r.err == nil && err != nil {
		r.err = err
	}
}

func (r *envReader) getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		r.fail(fmt.Errorf("parse %s: %w", key, err))
		return defaultValue
	}
	return n
}

func (r *envReader) getFloat32(key string, defaultValue float32) float32 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 32)
	if err != nil {
		r.fail(fmt.Errorf("parse %s: %w", key, err))
		return defaultValue
	}
	return float32(f)
}

func (r *envReader) getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		r.fail(fmt.Errorf("parse %s: %w", key, err))
		return defaultValue
	}
	return b
}
