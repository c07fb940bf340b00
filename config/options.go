package config

import "time"

const (
	// DefaultExtremeTick is how often buffered records are flushed when no tick is configured.
	DefaultExtremeTick = 10 * time.Second
	// DefaultExtremeBufferSize is the buffered writer's batch size in bytes.
	DefaultExtremeBufferSize = 4096
)

// Options configures the engine logger.
type Options struct {
	Level       string             `yaml:"level" validate:"omitempty,oneof=trace debug info warn error dpanic panic fatal"`
	Format      string             `yaml:"format" validate:"omitempty,oneof=json console"`
	Name        string             `yaml:"name"`
	Development bool               `yaml:"development"`
	Disabled    bool               `yaml:"disabled"`
	InstanceID  bool               `yaml:"instance_id"`
	Base        map[string]any     `yaml:"base"` // nil adds pid and hostname, an empty map adds nothing
	Output      OutputOptions      `yaml:"output"`
	Sampling    *SamplingOptions   `yaml:"sampling"`
	ExtremeMode ExtremeModeOptions `yaml:"extreme_mode"`
}

// OutputOptions selects where records are written. Path is "stdout", "stderr"
// or a file; the remaining fields only apply to files.
type OutputOptions struct {
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `yaml:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `yaml:"max_age_days" validate:"gte=0"`
	Compress   bool   `yaml:"compress"`
}

// SamplingOptions caps repeated records per second: the first Initial are
// kept, then every Thereafter-th.
type SamplingOptions struct {
	Initial    int `yaml:"initial" validate:"gt=0"`
	Thereafter int `yaml:"thereafter" validate:"gte=0"`
}

// ExtremeModeOptions turns on buffered writes with a periodic flush.
type ExtremeModeOptions struct {
	Enabled    bool          `yaml:"enabled"`
	Tick       time.Duration `yaml:"tick" validate:"gte=0"`
	BufferSize int           `yaml:"buffer_size" validate:"gte=0"`
}

// DefaultOptions returns Options with every default applied.
func DefaultOptions() *Options {
	opts := &Options{}
	opts.ApplyDefaults()
	return opts
}

// ApplyDefaults fills unset fields.
func (o *Options) ApplyDefaults() {
	if o.Level == "" {
		o.Level = "info"
	}
	if o.Format == "" {
		o.Format = "json"
	}
	if o.Output.Path == "" {
		o.Output.Path = "stdout"
	}
	if o.ExtremeMode.Tick == 0 {
		o.ExtremeMode.Tick = DefaultExtremeTick
	}
	if o.ExtremeMode.BufferSize == 0 {
		o.ExtremeMode.BufferSize = DefaultExtremeBufferSize
	}
}

// applyEnv overrides fields from LOG_* environment variables.
func (o *Options) applyEnv() {
	o.Level = getEnv("LOG_LEVEL", o.Level)
	o.Format = getEnv("LOG_FORMAT", o.Format)
	o.Name = getEnv("LOG_NAME", o.Name)
	o.Development = getEnvAsBool("LOG_DEVELOPMENT", o.Development)
	o.Disabled = getEnvAsBool("LOG_DISABLED", o.Disabled)
	o.InstanceID = getEnvAsBool("LOG_INSTANCE_ID", o.InstanceID)

	o.Output.Path = getEnv("LOG_OUTPUT", o.Output.Path)
	o.Output.MaxSizeMB = getEnvAsInt("LOG_FILE_MAX_SIZE_MB", o.Output.MaxSizeMB)
	o.Output.MaxBackups = getEnvAsInt("LOG_FILE_MAX_BACKUPS", o.Output.MaxBackups)
	o.Output.MaxAgeDays = getEnvAsInt("LOG_FILE_MAX_AGE_DAYS", o.Output.MaxAgeDays)
	o.Output.Compress = getEnvAsBool("LOG_FILE_COMPRESS", o.Output.Compress)

	o.ExtremeMode.Enabled = getEnvAsBool("LOG_EXTREME_ENABLED", o.ExtremeMode.Enabled)
	o.ExtremeMode.Tick = getEnvAsDuration("LOG_EXTREME_TICK", o.ExtremeMode.Tick)
	o.ExtremeMode.BufferSize = getEnvAsInt("LOG_EXTREME_BUFFER_SIZE", o.ExtremeMode.BufferSize)
}
