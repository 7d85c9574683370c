package config

import (
	"fmt"
	"strings"

	"backupphotos/internal/layout"
	"backupphotos/internal/services"
)

// Validate ensures the configuration is usable. Every failure carries the
// services.ErrConfiguration marker.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Manifest.DBName) == "" {
		return configError("manifest.db_name must be set", nil)
	}
	if err := c.validateMedia(); err != nil {
		return err
	}
	if _, err := layout.Parse(c.Layout.Format); err != nil {
		return configError("layout.format", err)
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.BackupDir) == "" {
		return configError("paths.backup_dir must be set", nil)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return configError("paths.output_dir must be set", nil)
	}
	return nil
}

func (c *Config) validateMedia() error {
	if c.Media.SavePhotos && len(c.Media.PhotoExtensions) == 0 {
		return configError("media.photo_extensions must list at least one extension when media.save_photos is true", nil)
	}
	if c.Media.SaveVideos && len(c.Media.VideoExtensions) == 0 {
		return configError("media.video_extensions must list at least one extension when media.save_videos is true", nil)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return configError(fmt.Sprintf("logging.format: unsupported value %q (use console or json)", c.Logging.Format), nil)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return configError(fmt.Sprintf("logging.level: unsupported value %q", c.Logging.Level), nil)
	}
}

func configError(message string, err error) error {
	return services.Wrap(services.ErrConfiguration, "config", "", message, err)
}
