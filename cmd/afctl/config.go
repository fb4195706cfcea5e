package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/edgekit/aflib/profile"
	"github.com/edgekit/aflib/transport/ipc"
)

const defaultConfigPath = "/etc/af/afctl.toml"

type config struct {
	SocketPath  string
	ProfilePath string
	RulesPath   string
	DebugLevel  int
}

type fileConfig struct {
	Socket  string `toml:"socket"`
	Profile string `toml:"profile"`
	Rules   string `toml:"rules"`
	Debug   int    `toml:"debug"`
}

func defaultConfig() config {
	return config{
		SocketPath:  ipc.DefaultSocketPath,
		ProfilePath: profile.DefaultPath,
	}
}

// loadConfig reads afctl.toml, with file values overriding built-in
// defaults. An empty path selects defaultConfigPath, which is allowed to be
// absent; an explicitly given path is not.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return cfg, nil
		}
		return config{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("socket") {
		if v := strings.TrimSpace(raw.Socket); v != "" {
			cfg.SocketPath = v
		}
	}

	if meta.IsDefined("profile") {
		cfg.ProfilePath = strings.TrimSpace(raw.Profile)
	}

	if meta.IsDefined("rules") {
		cfg.RulesPath = strings.TrimSpace(raw.Rules)
	}

	if meta.IsDefined("debug") {
		if raw.Debug < 0 {
			return config{}, fmt.Errorf("load config: debug level %d is negative", raw.Debug)
		}
		cfg.DebugLevel = raw.Debug
	}

	return cfg, nil
}
