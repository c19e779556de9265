package bridge

import "time"

// AuthConfig controls optional bearer-token checks on the upgrade
// request. Disabled by default; the upstream gateway usually fronts
// this service.
type AuthConfig struct {
	Enabled bool   `yaml:"enabled"`
	Secret  string `yaml:"secret"`
}

// Config controls the bridge server.
type Config struct {
	Path         string        `yaml:"path"`
	OpenTimeout  time.Duration `yaml:"open_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	ReadLimit    int64         `yaml:"read_limit"`
	MaxFPS       int           `yaml:"max_fps"`
	Auth         AuthConfig    `yaml:"auth"`
}

// DefaultConfig returns the default bridge configuration.
func DefaultConfig() *Config {
	return &Config{
		Path:         "/haircast/v1/stream",
		OpenTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		ReadLimit:    4 << 20,
	}
}

func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Path == "" {
		c.Path = d.Path
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = d.OpenTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.ReadLimit <= 0 {
		c.ReadLimit = d.ReadLimit
	}
}
