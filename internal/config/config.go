// Package config handles run configuration and YAML file parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults matching the common login-form case.
const (
	DefaultUsernameField = "username"
	DefaultPasswordField = "password"
	DefaultTimeout       = 10 * time.Second
	DefaultDelay         = 500 * time.Millisecond
	DefaultWorkers       = 5
)

// DefaultUserAgent is sent when no User-Agent header is configured.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Config is the immutable per-run configuration. It is built once before a
// run starts and threaded through by value; nothing mutates it afterwards.
type Config struct {
	URL           string `yaml:"url"`
	UsernameField string `yaml:"usernameField"`
	PasswordField string `yaml:"passwordField"`

	// Indicator substrings matched against the response body. When set they
	// take precedence over status codes during classification.
	SuccessIndicator string `yaml:"successIndicator"`
	FailureIndicator string `yaml:"failureIndicator"`

	Headers map[string]string `yaml:"headers"`
	Timeout time.Duration     `yaml:"timeout"`

	// Delay is the pause between attempts in sequential mode.
	Delay time.Duration `yaml:"delay"`

	// Parallel selects concurrent mode; Workers bounds in-flight attempts.
	Parallel bool `yaml:"parallel"`
	Workers  int  `yaml:"workers"`

	// Rate caps attempt starts per second in concurrent mode (0 = uncapped).
	Rate int `yaml:"rate"`
}

// Default returns a Config with all defaults applied and no target set.
func Default() Config {
	return Config{
		UsernameField: DefaultUsernameField,
		PasswordField: DefaultPasswordField,
		Timeout:       DefaultTimeout,
		Delay:         DefaultDelay,
		Workers:       DefaultWorkers,
	}
}

// LoadConfig reads and parses a YAML configuration file, applying defaults
// for fields the file leaves unset.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration before a run is started.
func (c Config) Validate() error {
	var errs []error
	if c.URL == "" {
		errs = append(errs, errors.New("target URL is required"))
	}
	if c.UsernameField == "" || c.PasswordField == "" {
		errs = append(errs, errors.New("username and password field names must not be empty"))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %v", c.Timeout))
	}
	if c.Delay < 0 {
		errs = append(errs, fmt.Errorf("delay must not be negative, got %v", c.Delay))
	}
	if c.Parallel && c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be >= 1, got %d", c.Workers))
	}
	if c.Rate < 0 {
		errs = append(errs, fmt.Errorf("rate must not be negative, got %d", c.Rate))
	}
	return errors.Join(errs...)
}

// RequestHeaders returns the headers each attempt sends: the configured set
// plus defaults for User-Agent and Content-Type where not overridden.
func (c Config) RequestHeaders() map[string]string {
	headers := make(map[string]string, len(c.Headers)+2)
	headers["User-Agent"] = DefaultUserAgent
	headers["Content-Type"] = "application/x-www-form-urlencoded"
	for k, v := range c.Headers {
		headers[k] = v
	}
	return headers
}
