package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. LEDPANEL_LED_PIN.
const EnvPrefix = "LEDPANEL_"

// ErrInvalidPath is returned by ValidateConfigPath.
var ErrInvalidPath = errors.New("invalid config path")

// LEDConfig describes how the LED is wired.
type LEDConfig struct {
	Pin       int  `yaml:"pin" env:"PIN"`               // GPIO pin (BCM). 0 = default (17).
	ActiveLow bool `yaml:"active_low" env:"ACTIVE_LOW"` // LED lights when the pin is LOW
}

// WebConfig holds the HTTP server parameters.
type WebConfig struct {
	Port             int     `yaml:"port" env:"PORT"`                               // listen port (default: 8080)
	ToggleRatePerSec float64 `yaml:"toggle_rate_per_sec" env:"TOGGLE_RATE_PER_SEC"` // /H and /L requests per second
	ToggleBurst      int     `yaml:"toggle_burst" env:"TOGGLE_BURST"`               // burst size for /H and /L
}

// DefaultsConfig contains generic parameters.
type DefaultsConfig struct {
	DebugLevel int  `yaml:"debug_level" env:"DEBUG_LEVEL"` // debug level 0-4 (0=off, 1=info, 2=live, 3=verbose, 4=trace)
	MockGPIO   bool `yaml:"mock_gpio" env:"MOCK_GPIO"`     // use mock GPIO (true=dev/test, false=real Raspberry Pi)
}

// Config aggregates all application configuration.
type Config struct {
	LED      LEDConfig      `yaml:"led" envPrefix:"LED_"`
	Web      WebConfig      `yaml:"web" envPrefix:"WEB_"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

// Load reads a YAML file, applies LEDPANEL_* environment overrides
// (including those from an optional .env file) and returns the configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}

	if err := ApplyEnv(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyEnv overrides cfg fields from the environment.
// Variables already set in the process win over the .env file.
func ApplyEnv(cfg *Config) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c *Config) validate() error {
	if c.LED.Pin == 0 {
		c.LED.Pin = 17 // reasonable default
	}
	if c.LED.Pin < 0 || c.LED.Pin > 27 {
		return fmt.Errorf("led.pin must be between 1 and 27, got %d", c.LED.Pin)
	}

	if c.Web.Port == 0 {
		c.Web.Port = 8080
	}
	if c.Web.Port < 0 || c.Web.Port > 65535 {
		return fmt.Errorf("web.port must be between 1 and 65535, got %d", c.Web.Port)
	}
	if c.Web.ToggleRatePerSec < 0 {
		return fmt.Errorf("web.toggle_rate_per_sec must be >= 0, got %.2f", c.Web.ToggleRatePerSec)
	}
	if c.Web.ToggleRatePerSec == 0 {
		c.Web.ToggleRatePerSec = 5
	}
	if c.Web.ToggleBurst < 0 {
		return fmt.Errorf("web.toggle_burst must be >= 0, got %d", c.Web.ToggleBurst)
	}
	if c.Web.ToggleBurst == 0 {
		c.Web.ToggleBurst = 10
	}

	if c.Defaults.DebugLevel < 0 || c.Defaults.DebugLevel > 4 {
		return fmt.Errorf("defaults.debug_level must be between 0 and 4, got %d", c.Defaults.DebugLevel)
	}
	return nil
}

// ValidateConfigPath rejects config paths that are empty, not .yaml,
// or not located directly inside a directory named "configs".
func ValidateConfigPath(path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	if filepath.Ext(path) != ".yaml" {
		return fmt.Errorf("%w: %s must have .yaml extension", ErrInvalidPath, path)
	}
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}
	if filepath.Base(filepath.Dir(abs)) != "configs" {
		return fmt.Errorf("%w: %s must be inside a configs/ directory", ErrInvalidPath, path)
	}
	return nil
}

// Addr returns the listen address for the web server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Web.Port)
}
