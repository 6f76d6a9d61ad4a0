// Package config loads server configuration from a TOML file and
// command-line flags, with CLI values overriding file values overriding
// built-in defaults.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

const (
	defaultBindAddr  = "127.0.0.1"
	defaultBindPort  = 16900
	defaultAdminPort = 16901
	defaultSnapshot  = "memds-export.dat"
	defaultWorkers   = 4
)

// Network holds the TOML [network] section.
type Network struct {
	BindAddr  string `toml:"bind_addr"`
	BindPort  int    `toml:"bind_port"`
	AdminPort int    `toml:"admin_port"`
	Workers   int    `toml:"workers"`
}

// FS holds the TOML [fs] section.
type FS struct {
	Import string `toml:"import"`
}

// File is the on-disk TOML shape.
type File struct {
	Network Network `toml:"network"`
	FS      FS      `toml:"fs"`
}

// Config is the fully-resolved server configuration.
type Config struct {
	BindAddr  string
	BindPort  int
	AdminPort int
	Workers   int
	Import    string
	Snapshot  string
}

// CLI is the kong-parsed flag set (see cmd/memds-server).
type CLI struct {
	BindAddr  string `help:"Address to bind the TCP listener to." name:"bind-addr"`
	BindPort  int    `help:"Port to bind the TCP listener to." name:"bind-port"`
	AdminPort int    `help:"Port to bind the admin HTTP surface to." name:"admin-port"`
	Workers   int    `help:"Number of RPC worker goroutines serving connections." name:"workers"`
	Config    string `help:"Path to a TOML configuration file." name:"config" type:"path"`
	Import    string `help:"Snapshot file to import at startup." name:"import" type:"path"`
}

// Load resolves a Config from defaults, an optional TOML file, and CLI
// overrides, in that precedence order (CLI > file > default).
func Load(cli CLI) (*Config, error) {
	cfg := &Config{
		BindAddr:  defaultBindAddr,
		BindPort:  defaultBindPort,
		AdminPort: defaultAdminPort,
		Workers:   defaultWorkers,
		Snapshot:  defaultSnapshot,
	}

	if cli.Config != "" {
		f, err := loadFile(cli.Config)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		if f.Network.BindAddr != "" {
			cfg.BindAddr = f.Network.BindAddr
		}
		if f.Network.BindPort != 0 {
			cfg.BindPort = f.Network.BindPort
		}
		if f.Network.AdminPort != 0 {
			cfg.AdminPort = f.Network.AdminPort
		}
		if f.Network.Workers != 0 {
			cfg.Workers = f.Network.Workers
		}
		if f.FS.Import != "" {
			cfg.Import = f.FS.Import
		}
	}

	if cli.BindAddr != "" {
		cfg.BindAddr = cli.BindAddr
	}
	if cli.BindPort != 0 {
		cfg.BindPort = cli.BindPort
	}
	if cli.AdminPort != 0 {
		cfg.AdminPort = cli.AdminPort
	}
	if cli.Workers != 0 {
		cfg.Workers = cli.Workers
	}
	if cli.Import != "" {
		cfg.Import = cli.Import
	}

	return cfg, nil
}

func loadFile(path string) (*File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var f File
	if err := toml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &f, nil
}
