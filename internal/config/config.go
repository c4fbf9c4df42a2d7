// Package config loads the optional TOML configuration file shared by the
// rpal CLI and the rpalserve HTTP service, following the teacher's
// tolerant-of-absence loading pattern in internal/tqw: a missing file is
// not an error, and built-in defaults apply.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds CLI and server defaults. Every field has a sensible
// zero-file default, set by Default.
type Config struct {
	CLI    CLIConfig    `toml:"cli"`
	Server ServerConfig `toml:"server"`
}

// CLIConfig holds defaults for the rpal command-line tool.
type CLIConfig struct {
	EchoSource bool `toml:"echo_source"` // default for -l
	DumpWidth  int  `toml:"dump_width"`  // column width CLI error messages are wrapped to
}

// ServerConfig holds defaults for the rpalserve HTTP service.
type ServerConfig struct {
	ListenAddr    string `toml:"listen_addr"`
	JWTSecret     string `toml:"jwt_secret"`
	APIKeyHash    string `toml:"api_key_hash"` // bcrypt hash of the shared API key
	AuditDBPath   string `toml:"audit_db_path"`
	TokenTTLHours int    `toml:"token_ttl_hours"`
}

// Default returns the configuration used when no config file is supplied.
func Default() Config {
	return Config{
		CLI: CLIConfig{
			EchoSource: false,
			DumpWidth:  80,
		},
		Server: ServerConfig{
			ListenAddr:    ":8080",
			AuditDBPath:   "rpal_audit.db",
			TokenTTLHours: 24,
		},
	}
}

// Load reads and parses the TOML file at path, applying Default() for any
// field the file omits. A missing path is not an error: Default() alone is
// returned, matching the teacher's optional-resource-file convention.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
