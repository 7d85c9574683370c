package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"backupphotos/internal/config"
	"backupphotos/internal/services"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	chdir(t, t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != filepath.Join(tempHome, ".config", "backupphotos", "config.toml") {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if !filepath.IsAbs(cfg.Paths.BackupDir) || filepath.Base(cfg.Paths.BackupDir) != "Backup" {
		t.Fatalf("unexpected backup dir: %q", cfg.Paths.BackupDir)
	}
	if !filepath.IsAbs(cfg.Paths.OutputDir) || filepath.Base(cfg.Paths.OutputDir) != "Photos" {
		t.Fatalf("unexpected output dir: %q", cfg.Paths.OutputDir)
	}
	if cfg.Paths.LogDir != "" {
		t.Fatalf("expected empty log dir, got %q", cfg.Paths.LogDir)
	}
	if cfg.Manifest.DBName != "Manifest.db" {
		t.Fatalf("unexpected manifest name: %q", cfg.Manifest.DBName)
	}
	if cfg.Layout.Format != "smart" || cfg.Layout.ImportMarker != "IMPRT" {
		t.Fatalf("unexpected layout: %+v", cfg.Layout)
	}
	if !cfg.LivePhotos.SavePVT || !cfg.LivePhotos.SaveJPG || !cfg.LivePhotos.SaveMOV {
		t.Fatalf("expected live photo defaults to keep everything: %+v", cfg.LivePhotos)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "backupphotos.toml")

	type payload struct {
		Paths struct {
			OutputDir string `toml:"output_dir"`
		} `toml:"paths"`
		Media struct {
			SavePhotos      bool     `toml:"save_photos"`
			SaveVideos      bool     `toml:"save_videos"`
			PhotoExtensions []string `toml:"photo_extensions"`
		} `toml:"media"`
		SMS struct {
			Enabled bool `toml:"enabled"`
		} `toml:"sms"`
		Layout struct {
			Format string `toml:"format"`
		} `toml:"layout"`
	}
	custom := payload{}
	custom.Paths.OutputDir = filepath.Join(tempDir, "out")
	custom.Media.SavePhotos = true
	custom.Media.SaveVideos = false
	custom.Media.PhotoExtensions = []string{"JPG", " .Heic ", "jpg"}
	custom.SMS.Enabled = false
	custom.Layout.Format = "TYPE_EXT_SIM"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if cfg.Paths.OutputDir != filepath.Join(tempDir, "out") {
		t.Fatalf("unexpected output dir: %q", cfg.Paths.OutputDir)
	}
	if got := strings.Join(cfg.Media.PhotoExtensions, ","); got != ".jpg,.heic" {
		t.Fatalf("unexpected normalized extensions: %q", got)
	}
	if got := strings.Join(cfg.Extensions(), ","); got != ".jpg,.heic" {
		t.Fatalf("expected videos excluded from allow-list, got %q", got)
	}
	if cfg.SMS.Enabled {
		t.Fatal("expected sms disabled")
	}
	if !cfg.CameraRoll.Enabled {
		t.Fatal("expected camera roll default to survive partial config")
	}
	if cfg.Layout.Format != "type_ext_sim" {
		t.Fatalf("expected lower-cased layout, got %q", cfg.Layout.Format)
	}
}

func TestLoadRejectsUnknownLayout(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "backupphotos.toml")
	if err := os.WriteFile(configPath, []byte("[layout]\nformat = \"by_date\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, _, err := config.Load(configPath)
	if err == nil {
		t.Fatal("expected error for unknown layout")
	}
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration marker, got %v", err)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "backupphotos.toml")
	if err := os.WriteFile(configPath, []byte("[media]\nsave_photoz = true\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error for unknown key, got %v", err)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Layout.Format != "smart" {
		t.Fatalf("unexpected sample layout: %q", cfg.Layout.Format)
	}

	loaded, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config does not validate: %v", err)
	}
	if len(loaded.CameraRoll.Filters) == 0 {
		t.Fatal("expected camera roll filters in sample")
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	cfg.Manifest.DBName = " "
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty manifest name")
	}

	cfg = config.Default()
	cfg.Media.PhotoExtensions = nil
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when photos enabled without extensions")
	}

	cfg = config.Default()
	cfg.Media.SavePhotos = false
	cfg.Media.PhotoExtensions = nil
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected disabled photos to tolerate empty extensions: %v", err)
	}

	cfg = config.Default()
	cfg.Logging.Format = "yaml"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown log format")
	}

	cfg = config.Default()
	cfg.Paths.OutputDir = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty output dir")
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.OutputDir = filepath.Join(base, "Photos")
	cfg.Paths.CSVDir = filepath.Join(base, "CSV")
	cfg.Paths.LogDir = ""
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.OutputDir, cfg.Paths.CSVDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q: %v", dir, err)
		}
	}
}

// chdir mirrors testing.T.Chdir (added in Go 1.24) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
