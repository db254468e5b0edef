// Package config provides configuration management for the Lumen player daemon
package config

import (
	"time"
)

// Config holds all configuration for the player daemon.
type Config struct {
	Player   PlayerConfig   `yaml:"player"`
	Manifest ManifestConfig `yaml:"manifest"`
	Status   StatusConfig   `yaml:"status"`
	Canvases []CanvasConfig `yaml:"canvases"`
}

// PlayerConfig holds scheduling and presentation settings.
type PlayerConfig struct {
	// DefaultTimeZone interprets manifest temporal fields that carry no
	// zone of their own; empty means the host zone
	DefaultTimeZone string        `yaml:"defaultTimeZone"`
	RotationFloor   time.Duration `yaml:"rotationFloor"`
	DefaultSlot     time.Duration `yaml:"defaultSlot"`
	MaxSlot         time.Duration `yaml:"maxSlot"`
	ReadyTimeout    time.Duration `yaml:"readyTimeout"`
	EmptyRecheck    time.Duration `yaml:"emptyRecheck"`
}

// ManifestConfig holds manifest source settings.
type ManifestConfig struct {
	Path     string        `yaml:"path"`
	Watch    bool          `yaml:"watch"`
	Debounce time.Duration `yaml:"debounce"`
}

// StatusConfig holds local status API settings.
type StatusConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
	IdleTimeout  time.Duration `yaml:"idleTimeout"`
}

// CanvasConfig describes one display canvas and its geometry.
type CanvasConfig struct {
	ID     string `yaml:"id"`
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// Default returns the configuration used when no file is given: a single
// full-HD canvas, a manifest beside the working directory, and the status
// API bound to loopback.
func Default() *Config {
	cfg := &Config{
		Player: PlayerConfig{
			RotationFloor: 500 * time.Millisecond,
			DefaultSlot:   15 * time.Second,
			MaxSlot:       time.Hour,
			ReadyTimeout:  5 * time.Second,
			EmptyRecheck:  time.Second,
		},
		Manifest: ManifestConfig{
			Path:     "manifest.json",
			Watch:    true,
			Debounce: 250 * time.Millisecond,
		},
		Status: StatusConfig{
			Host:         "127.0.0.1",
			Port:         8089,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Canvases: []CanvasConfig{
			{ID: "default", Width: 1920, Height: 1080},
		},
	}
	return cfg
}

// applyDefaults fills unset fields with the Default values.
func (c *Config) applyDefaults() {
	def := Default()
	if c.Player.RotationFloor <= 0 {
		c.Player.RotationFloor = def.Player.RotationFloor
	}
	if c.Player.DefaultSlot <= 0 {
		c.Player.DefaultSlot = def.Player.DefaultSlot
	}
	if c.Player.MaxSlot <= 0 {
		c.Player.MaxSlot = def.Player.MaxSlot
	}
	if c.Player.ReadyTimeout <= 0 {
		c.Player.ReadyTimeout = def.Player.ReadyTimeout
	}
	if c.Player.EmptyRecheck <= 0 {
		c.Player.EmptyRecheck = def.Player.EmptyRecheck
	}
	if c.Manifest.Path == "" {
		c.Manifest.Path = def.Manifest.Path
	}
	if c.Manifest.Debounce <= 0 {
		c.Manifest.Debounce = def.Manifest.Debounce
	}
	if c.Status.Host == "" {
		c.Status.Host = def.Status.Host
	}
	if c.Status.Port == 0 {
		c.Status.Port = def.Status.Port
	}
	if c.Status.ReadTimeout <= 0 {
		c.Status.ReadTimeout = def.Status.ReadTimeout
	}
	if c.Status.WriteTimeout <= 0 {
		c.Status.WriteTimeout = def.Status.WriteTimeout
	}
	if c.Status.IdleTimeout <= 0 {
		c.Status.IdleTimeout = def.Status.IdleTimeout
	}
	if len(c.Canvases) == 0 {
		c.Canvases = def.Canvases
	}
}

// overlayEnv overlays environment variables on top of file-based config
func (c *Config) overlayEnv() {
	// Player config
	if zone := getEnv("LUMEN_DEFAULT_TIMEZONE", ""); zone != "" {
		c.Player.DefaultTimeZone = zone
	}
	if floor := getEnvAsDuration("LUMEN_ROTATION_FLOOR", 0); floor != 0 {
		c.Player.RotationFloor = floor
	}
	if slot := getEnvAsDuration("LUMEN_DEFAULT_SLOT", 0); slot != 0 {
		c.Player.DefaultSlot = slot
	}
	if max := getEnvAsDuration("LUMEN_MAX_SLOT", 0); max != 0 {
		c.Player.MaxSlot = max
	}
	if timeout := getEnvAsDuration("LUMEN_READY_TIMEOUT", 0); timeout != 0 {
		c.Player.ReadyTimeout = timeout
	}
	if recheck := getEnvAsDuration("LUMEN_EMPTY_RECHECK", 0); recheck != 0 {
		c.Player.EmptyRecheck = recheck
	}

	// Manifest config
	if path := getEnv("LUMEN_MANIFEST_PATH", ""); path != "" {
		c.Manifest.Path = path
	}
	if watch, ok := getEnvAsBool("LUMEN_MANIFEST_WATCH"); ok {
		c.Manifest.Watch = watch
	}
	if debounce := getEnvAsDuration("LUMEN_MANIFEST_DEBOUNCE", 0); debounce != 0 {
		c.Manifest.Debounce = debounce
	}

	// Status config
	if host := getEnv("LUMEN_STATUS_HOST", ""); host != "" {
		c.Status.Host = host
	}
	if port := getEnvAsInt("LUMEN_STATUS_PORT", 0); port != 0 {
		c.Status.Port = port
	}
	if readTimeout := getEnvAsDuration("LUMEN_STATUS_READ_TIMEOUT", 0); readTimeout != 0 {
		c.Status.ReadTimeout = readTimeout
	}
	if writeTimeout := getEnvAsDuration("LUMEN_STATUS_WRITE_TIMEOUT", 0); writeTimeout != 0 {
		c.Status.WriteTimeout = writeTimeout
	}
	if idleTimeout := getEnvAsDuration("LUMEN_STATUS_IDLE_TIMEOUT", 0); idleTimeout != 0 {
		c.Status.IdleTimeout = idleTimeout
	}
}
