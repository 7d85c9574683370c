package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.Manifest.DBName = strings.TrimSpace(c.Manifest.DBName)
	c.Media.PhotoExtensions = normalizeExtensions(c.Media.PhotoExtensions)
	c.Media.VideoExtensions = normalizeExtensions(c.Media.VideoExtensions)
	c.normalizeLayout()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.BackupDir, err = expandPath(strings.TrimSpace(c.Paths.BackupDir)); err != nil {
		return fmt.Errorf("paths.backup_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CSVDir) == "" {
		c.Paths.CSVDir = defaultCSVDir
	}
	if c.Paths.CSVDir, err = expandPath(strings.TrimSpace(c.Paths.CSVDir)); err != nil {
		return fmt.Errorf("paths.csv_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

// normalizeExtensions trims values, lower-cases them, adds the leading dot and
// drops duplicates while keeping the configured order.
func normalizeExtensions(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		ext := strings.ToLower(strings.TrimSpace(value))
		if ext == "" || ext == "." {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if _, ok := seen[ext]; ok {
			continue
		}
		seen[ext] = struct{}{}
		out = append(out, ext)
	}
	return out
}

func (c *Config) normalizeLayout() {
	c.Layout.Format = strings.ToLower(strings.TrimSpace(c.Layout.Format))
	if strings.TrimSpace(c.Layout.ImportMarker) == "" {
		c.Layout.ImportMarker = defaultImportMarker
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
