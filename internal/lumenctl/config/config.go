// Package config provides configuration management for the Lumen player CLI
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// DefaultServer is the player's status API address when nothing else is
// configured. The daemon binds to loopback by default.
const DefaultServer = "http://127.0.0.1:8089"

// Config holds the CLI configuration
type Config struct {
	// Server is the player status API URL
	Server string `mapstructure:"server"`
}

// defaultConfigPath returns the default config file path
func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".lumenctl/config.yaml"
	}
	return filepath.Join(home, ".lumenctl/config.yaml")
}

// Load reads the CLI configuration. Precedence from highest to lowest:
// the LUMENCTL_SERVER environment variable, the config file, the default
// loopback address. A missing config file is not an error.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetDefault("server", DefaultServer)

	configPath := cfgFile
	if configPath == "" {
		configPath = os.Getenv("LUMENCTL_CONFIG")
	}
	if configPath == "" {
		configPath = defaultConfigPath()
	}
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		// An explicitly named file must exist and parse; a missing default
		// file just means defaults apply
		if cfgFile != "" {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
		if _, missing := err.(viper.ConfigFileNotFoundError); !missing && !os.IsNotExist(err) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if server := os.Getenv("LUMENCTL_SERVER"); server != "" {
		config.Server = server
	}
	if config.Server == "" {
		config.Server = DefaultServer
	}

	return &config, nil
}
