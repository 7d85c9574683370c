package testsupport

import (
	"path/filepath"
	"testing"

	"backupphotos/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.BackupDir = filepath.Join(base, "backup")
	cfgVal.Paths.OutputDir = filepath.Join(base, "Photos")
	cfgVal.Paths.CSVDir = filepath.Join(base, "CSV")
	cfgVal.Paths.LogDir = ""

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithLayout sets the output layout key.
func WithLayout(format string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Layout.Format = format
	}
}

// WithLivePhotos overrides the live photo wrapper and standalone policy.
func WithLivePhotos(savePVT, saveJPG, saveMOV bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.LivePhotos = config.LivePhotos{SavePVT: savePVT, SaveJPG: saveJPG, SaveMOV: saveMOV}
	}
}

// WithCameraRoll replaces the camera roll switch and filters.
func WithCameraRoll(enabled bool, filters ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.CameraRoll = config.Category{Enabled: enabled, Filters: filters}
	}
}

// WithSMS replaces the message attachment switch and filters.
func WithSMS(enabled bool, filters ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.SMS = config.Category{Enabled: enabled, Filters: filters}
	}
}

// WithLogDir enables file logging under the temp base directory.
func WithLogDir() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.LogDir = filepath.Join(b.baseDir, "logs")
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.BackupDir)
}
