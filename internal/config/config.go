package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the input and output locations of a run.
type Paths struct {
	BackupDir string `toml:"backup_dir"`
	OutputDir string `toml:"output_dir"`
	CSVDir    string `toml:"csv_dir"`
	LogDir    string `toml:"log_dir"`
}

// Manifest names the backup's manifest database.
type Manifest struct {
	DBName string `toml:"db_name"`
}

// Media controls which file types are extracted at all.
type Media struct {
	SavePhotos      bool     `toml:"save_photos"`
	SaveVideos      bool     `toml:"save_videos"`
	PhotoExtensions []string `toml:"photo_extensions"`
	VideoExtensions []string `toml:"video_extensions"`
}

// Category enables one output category and lists its relative path prefixes.
type Category struct {
	Enabled bool     `toml:"enabled"`
	Filters []string `toml:"filters"`
}

// Layout selects the output directory strategy.
type Layout struct {
	Format       string `toml:"format"`
	ImportMarker string `toml:"import_marker"`
}

// LivePhotos controls how paired stills and videos are written.
type LivePhotos struct {
	SavePVT bool `toml:"save_pvt"`
	SaveJPG bool `toml:"save_jpg"`
	SaveMOV bool `toml:"save_mov"`
}

// Prompts controls interactive confirmation between stages.
type Prompts struct {
	Confirm bool `toml:"confirm"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for a run.
//
// Configuration sections:
//   - Paths: backup input, photo output, CSV and log directories
//   - Manifest: manifest database file name
//   - Media: photo/video switches and extension lists
//   - CameraRoll, SMS: category switches and path prefix filters
//   - Layout: output directory strategy
//   - LivePhotos: wrapper and standalone policy for live photo pairs
//   - Prompts: interactive confirmation
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Manifest   Manifest   `toml:"manifest"`
	Media      Media      `toml:"media"`
	CameraRoll Category   `toml:"camera_roll"`
	SMS        Category   `toml:"sms"`
	Layout     Layout     `toml:"layout"`
	LivePhotos LivePhotos `toml:"live_photos"`
	Prompts    Prompts    `toml:"prompts"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, configError("parse config", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the output, CSV, and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.CSVDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Extensions returns the extension allow-list: the union of photo and video
// extensions for the media types that are enabled, in configured order.
func (c *Config) Extensions() []string {
	var out []string
	if c.Media.SavePhotos {
		out = append(out, c.Media.PhotoExtensions...)
	}
	if c.Media.SaveVideos {
		out = append(out, c.Media.VideoExtensions...)
	}
	return out
}
