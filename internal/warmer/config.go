package warmer

import "time"

// Default configuration values.
const (
	DefaultFlagField        = "warmer"
	DefaultConcurrencyField = "concurrency"
	DefaultTestField        = "test"
	DefaultDelay            = 75 * time.Millisecond
)

// Config controls how events are classified and how pings are handled.
// The env tags allow it to be loaded directly from the Lambda environment.
type Config struct {
	// FlagField is the event field whose truthiness marks a ping.
	FlagField string `env:"WARMER_FLAG_FIELD" envDefault:"warmer"`

	// ConcurrencyField is the event field carrying the fan-out width.
	ConcurrencyField string `env:"WARMER_CONCURRENCY_FIELD" envDefault:"concurrency"`

	// TestField is the event field whose truthiness suppresses fan-out.
	TestField string `env:"WARMER_TEST_FIELD" envDefault:"test"`

	// Log enables the per-ping log record.
	Log bool `env:"WARMER_LOG" envDefault:"true"`

	// CorrelationID is used when the event carries none. When empty the
	// process instance ID is used.
	CorrelationID string `env:"WARMER_CORRELATION_ID"`

	// Delay is how long a fanned-out copy waits before returning.
	Delay time.Duration `env:"WARMER_DELAY" envDefault:"75ms"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		FlagField:        DefaultFlagField,
		ConcurrencyField: DefaultConcurrencyField,
		TestField:        DefaultTestField,
		Log:              true,
		Delay:            DefaultDelay,
	}
}

// withDefaults fills empty field names and a negative delay.
// Log and CorrelationID have meaningful zero values and are left alone.
func (c Config) withDefaults() Config {
	if c.FlagField == "" {
		c.FlagField = DefaultFlagField
	}
	if c.ConcurrencyField == "" {
		c.ConcurrencyField = DefaultConcurrencyField
	}
	if c.TestField == "" {
		c.TestField = DefaultTestField
	}
	if c.Delay < 0 {
		c.Delay = DefaultDelay
	}
	return c
}

// Option overrides part of the controller's configuration for a single call.
type Option func(*Config)

// WithFlagField returns an option that sets the ping flag field name.
func WithFlagField(name string) Option {
	return func(c *Config) {
		c.FlagField = name
	}
}

// WithConcurrencyField returns an option that sets the concurrency field name.
func WithConcurrencyField(name string) Option {
	return func(c *Config) {
		c.ConcurrencyField = name
	}
}

// WithTestField returns an option that sets the test-mode field name.
func WithTestField(name string) Option {
	return func(c *Config) {
		c.TestField = name
	}
}

// WithLog returns an option that enables or disables the ping log record.
func WithLog(enabled bool) Option {
	return func(c *Config) {
		c.Log = enabled
	}
}

// WithCorrelationID returns an option that sets the fallback correlation ID.
func WithCorrelationID(id string) Option {
	return func(c *Config) {
		c.CorrelationID = id
	}
}

// WithDelay returns an option that sets the delay used by fanned-out copies.
func WithDelay(d time.Duration) Option {
	return func(c *Config) {
		c.Delay = d
	}
}
