package config

import (
	"fmt"
	"time"
)

func (c *Config) validate() error {
	if c.Status.Port < 1 || c.Status.Port > 65535 {
		return fmt.Errorf("invalid status port: %d", c.Status.Port)
	}
	if c.Player.RotationFloor < 1*time.Millisecond {
		return fmt.Errorf("rotation floor must be at least 1ms")
	}
	if c.Player.EmptyRecheck > time.Second {
		return fmt.Errorf("empty recheck must not exceed 1s")
	}
	if c.Player.DefaultSlot < c.Player.RotationFloor {
		return fmt.Errorf("default slot %s is below the rotation floor %s",
			c.Player.DefaultSlot, c.Player.RotationFloor)
	}
	if c.Player.MaxSlot < c.Player.DefaultSlot {
		return fmt.Errorf("max slot %s is below the default slot %s",
			c.Player.MaxSlot, c.Player.DefaultSlot)
	}
	if c.Player.DefaultTimeZone != "" {
		if _, err := time.LoadLocation(c.Player.DefaultTimeZone); err != nil {
			return fmt.Errorf("invalid default time zone %q: %w", c.Player.DefaultTimeZone, err)
		}
	}
	if c.Manifest.Path == "" {
		return fmt.Errorf("manifest path is required")
	}
	seen := make(map[string]bool, len(c.Canvases))
	for _, canvas := range c.Canvases {
		if canvas.ID == "" {
			return fmt.Errorf("canvas id is required")
		}
		if seen[canvas.ID] {
			return fmt.Errorf("duplicate canvas id: %s", canvas.ID)
		}
		seen[canvas.ID] = true
		if canvas.Width < 1 || canvas.Height < 1 {
			return fmt.Errorf("canvas %s: width and height must be positive", canvas.ID)
		}
	}
	return nil
}
