// Package config loads process configuration for the trade mediator: a
// TOML file layered under flag overrides, grounded on the teacher's
// flag-based cmd/goboy/main.go entrypoint generalized to a file-backed
// config the way rdtc8822-debug-L1JGO-Whale layers BurntSushi/toml
// structs under flag overrides.
package config

import (
	"flag"
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config is the full process configuration. PoolMode, SanityChecks and
// LogVerbose are loaded and bound to flags, but cmd/poketrade does not
// read them: trades always go through the peer relay path, validation
// always runs with sanity substitutions on, and the logger's level does
// not depend on LogVerbose.
type Config struct {
	DataRoot     string `toml:"data_root"`
	Generation   string `toml:"generation"` // "gen1", "gen2", "gen3"
	RelayAddress string `toml:"relay_address"`
	RoomName     string `toml:"room_name"`
	SerialPort   string `toml:"serial_port"`
	PoolMode     bool   `toml:"pool_mode"`
	SanityChecks bool   `toml:"sanity_checks"`
	LogVerbose   bool   `toml:"log_verbose"`
}

// Default returns a Config with the process's baseline defaults, applied
// before the file and flags are layered on top.
func Default() Config {
	return Config{
		DataRoot:     "./data",
		Generation:   "gen2",
		RelayAddress: "wss://relay.example.invalid/ws",
		RoomName:     "",
		SerialPort:   "",
		PoolMode:     false,
		SanityChecks: true,
		LogVerbose:   false,
	}
}

// Load reads path as a TOML file over Default()'s baseline. An empty path
// means "no config file" and returns the baseline defaults; any other
// path that can't be opened or decoded is a real error, since an
// explicitly-named config file that silently fails to load would mask a
// typo'd path or a malformed file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("config: decoding %s: %w", path, err)
	}
	return cfg, nil
}

// RegisterFlags binds flag overrides for every field in cfg onto fs,
// layered after the TOML file is loaded (flags win).
func RegisterFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.DataRoot, "data-root", cfg.DataRoot, "path to the bundled static data tables")
	fs.StringVar(&cfg.Generation, "generation", cfg.Generation, "cartridge generation: gen1, gen2, gen3")
	fs.StringVar(&cfg.RelayAddress, "relay", cfg.RelayAddress, "relay server websocket address")
	fs.StringVar(&cfg.RoomName, "room", cfg.RoomName, "room name to join")
	fs.StringVar(&cfg.SerialPort, "port", cfg.SerialPort, "USB/serial device for the link adapter")
	fs.BoolVar(&cfg.PoolMode, "pool", cfg.PoolMode, "trade against the server-side pool instead of a peer")
	fs.BoolVar(&cfg.SanityChecks, "sanity", cfg.SanityChecks, "enable data validator sanity substitutions")
	fs.BoolVar(&cfg.LogVerbose, "verbose", cfg.LogVerbose, "log sanity substitutions and other verbose detail")
}
