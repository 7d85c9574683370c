package config

const (
	defaultConfigPath   = "~/.config/backupphotos/config.toml"
	projectConfigName   = "backupphotos.toml"
	defaultBackupDir    = "Backup"
	defaultOutputDir    = "Photos"
	defaultCSVDir       = "CSV"
	defaultManifestName = "Manifest.db"
	defaultLayout       = "smart"
	defaultImportMarker = "IMPRT"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			BackupDir: defaultBackupDir,
			OutputDir: defaultOutputDir,
			CSVDir:    defaultCSVDir,
		},
		Manifest: Manifest{
			DBName: defaultManifestName,
		},
		Media: Media{
			SavePhotos:      true,
			SaveVideos:      true,
			PhotoExtensions: []string{".jpg", ".jpeg", ".heic", ".png", ".gif"},
			VideoExtensions: []string{".mov", ".mp4"},
		},
		CameraRoll: Category{
			Enabled: true,
			Filters: []string{"Media/DCIM/", "Media/PhotoData/Mutations/DCIM/"},
		},
		SMS: Category{
			Enabled: true,
			Filters: []string{"Library/SMS/Attachments/"},
		},
		Layout: Layout{
			Format:       defaultLayout,
			ImportMarker: defaultImportMarker,
		},
		LivePhotos: LivePhotos{
			SavePVT: true,
			SaveJPG: true,
			SaveMOV: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
