// Package config loads the hostforge configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/opshall/hostforge/internal/messages"
)

// DefaultPath is the canonical config location on a managed host.
const DefaultPath = "/etc/hostforge/config.toml"

// ErrConfigValidation is a sentinel that wraps config validation failures
// (as opposed to TOML syntax or filesystem errors). Callers use
// errors.Is(err, ErrConfigValidation) to distinguish the two.
var ErrConfigValidation = errors.New("config validation failed")

// SSH holds SSH-facing settings.
type SSH struct {
	Port int `toml:"port"`
}

// Admin holds defaults for the identity bootstrap.
type Admin struct {
	Username string `toml:"username"`
}

// Fail2ban holds the intrusion-prevention override knobs written to the
// local override file.
type Fail2ban struct {
	BanSeconds  int `toml:"ban_seconds"`
	FindSeconds int `toml:"find_seconds"`
	MaxRetry    int `toml:"max_retry"`
}

// VNC holds remote-desktop session settings.
type VNC struct {
	Display  int    `toml:"display"`
	Geometry string `toml:"geometry"`
	Depth    int    `toml:"depth"`
}

// Config is the full hostforge configuration.
type Config struct {
	SSH      SSH      `toml:"ssh"`
	Admin    Admin    `toml:"admin"`
	Fail2ban Fail2ban `toml:"fail2ban"`
	VNC      VNC      `toml:"vnc"`
}

// Default returns the built-in configuration used when no config file exists.
func Default() *Config {
	return &Config{
		SSH:      SSH{Port: 22},
		Admin:    Admin{Username: "ops"},
		Fail2ban: Fail2ban{BanSeconds: 3600, FindSeconds: 600, MaxRetry: 5},
		VNC:      VNC{Display: 1, Geometry: "1920x1080", Depth: 24},
	}
}

// Load reads the config file at path. A missing file yields the defaults;
// a present file is parsed and validated, with absent fields filled from
// the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf(messages.ConfigReadFailedFmt, path, err)
	}
	return Parse(data, path)
}

// Parse parses and validates config TOML data from a source identifier.
// data is the TOML content; source is used in error messages.
func Parse(data []byte, source string) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf(messages.ConfigInvalidTOMLFmt, source, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf(messages.ConfigInvalidValueFmt, source, errors.Join(ErrConfigValidation, err))
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.SSH.Port < 1 || c.SSH.Port > 65535 {
		return fmt.Errorf(messages.ConfigSSHPortRangeFmt, c.SSH.Port)
	}
	if strings.TrimSpace(c.Admin.Username) == "" {
		return errors.New(messages.ConfigAdminUsernameEmpty)
	}
	if c.Fail2ban.BanSeconds <= 0 || c.Fail2ban.FindSeconds <= 0 || c.Fail2ban.MaxRetry <= 0 {
		return errors.New(messages.ConfigFail2banPositive)
	}
	if c.VNC.Display < 1 || c.VNC.Display > 99 {
		return fmt.Errorf(messages.ConfigVNCDisplayRangeFmt, c.VNC.Display)
	}
	if !geometryRe.MatchString(c.VNC.Geometry) {
		return fmt.Errorf(messages.ConfigVNCGeometryFmt, c.VNC.Geometry)
	}
	return nil
}
