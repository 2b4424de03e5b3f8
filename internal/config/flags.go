package config

import (
	"github.com/spf13/pflag"
)

// registers the shared console flags on a cobra persistent flag set
func (f *Flags) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&f.APIURL, "api-url", "", "backend API base URL (overrides "+KeyAPIURL+")")
	fs.StringVar(&f.RealtimeMode, "realtime", "", "realtime channel: stub or ws")
	fs.StringVar(&f.SessionStore, "session-store", "", "token storage: memory, file or redis")
	fs.StringVar(&f.ConfigPath, "config", "", "config file path (default ~/.fleetdesk/config.yml)")
	fs.StringVar(&f.EnvFile, "env-file", ".env", "dotenv file with build-time defaults")
}

// loads file config, environment and flags in that order of increasing precedence
func LoadWithFlags(f Flags) (*Config, error) {
	path := f.ConfigPath
	if path == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	file, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	cfg, err := Load(DefaultResolver(f.EnvFile), file)
	if err != nil {
		return nil, err
	}

	if err := cfg.ApplyFlags(f); err != nil {
		return nil, err
	}

	return cfg, nil
}
