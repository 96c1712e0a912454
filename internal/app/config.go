package app

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/tldr-it-stepankutaj/hardenkit/internal/generators/gpo"
)

// Config contains global runtime configuration.
type Config struct {
	Workspace string
	LogLevel  string
	LogFormat string
	GPODomain string
	Server    ServerConfig
}

// ServerConfig configures `hardenkit serve`.
type ServerConfig struct {
	Addr        string
	CORSOrigins []string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("workspace", "./work")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("gpo_domain", gpo.DefaultDomain)
	v.SetDefault("server.addr", "127.0.0.1:8089")
	v.SetDefault("server.cors_origins", []string{})
}

// LoadConfig builds Config from flags, env and the optional config file
// bound to v.
func LoadConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		Workspace: strings.TrimSpace(v.GetString("workspace")),
		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
		GPODomain: strings.TrimSpace(v.GetString("gpo_domain")),
		Server: ServerConfig{
			Addr:        strings.TrimSpace(v.GetString("server.addr")),
			CORSOrigins: v.GetStringSlice("server.cors_origins"),
		},
	}
	if cfg.GPODomain == "" {
		cfg.GPODomain = gpo.DefaultDomain
	}
	return cfg, cfg.Validate()
}

// MustLoadConfigFromViper builds Config from the global Viper instance.
func MustLoadConfigFromViper() Config {
	cfg, err := LoadConfig(viper.GetViper())
	if err != nil {
		panic(err)
	}
	return cfg
}

// Validate returns error if configuration is invalid.
func (c Config) Validate() error {
	if c.Workspace == "" {
		return fmt.Errorf("workspace cannot be empty")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr cannot be empty")
	}
	switch c.LogFormat {
	case "", "console", "json":
	default:
		return fmt.Errorf("unknown log format %q (console|json)", c.LogFormat)
	}
	return nil
}
