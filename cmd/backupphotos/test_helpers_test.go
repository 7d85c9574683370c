package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"backupphotos/internal/config"
	"backupphotos/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	homeDir := filepath.Join(testsupport.BaseDir(cfg), "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	configPath := filepath.Join(homeDir, ".config", "backupphotos", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath}
}

// seed writes a small manifest and stores every listed file in the backup.
func (e *cliTestEnv) seed(t *testing.T) {
	t.Helper()
	rows := []testsupport.ManifestRow{
		testsupport.Row("aa01", "Media/DCIM/100APPLE/IMG_0001.JPG"),
		testsupport.Row("aa02", "Media/DCIM/100APPLE/IMG_0001.MOV"),
		testsupport.Row("bc03", "Library/SMS/Attachments/0a/10/IMG_0003.HEIC"),
		testsupport.Row("cd04", "Library/Notes/notes.txt"),
	}
	testsupport.WriteManifestDB(t, filepath.Join(e.cfg.Paths.BackupDir, e.cfg.Manifest.DBName), rows...)
	for _, row := range rows {
		testsupport.WriteBackupFile(t, e.cfg.Paths.BackupDir, row.ID, 16)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	return runCLIWithInput(t, args, configPath, "")
}

func runCLIWithInput(t *testing.T, args []string, configPath, input string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(input))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
backup_dir = %q
output_dir = %q
csv_dir = %q
log_dir = %q

[layout]
format = %q

[live_photos]
save_pvt = %t
save_jpg = %t
save_mov = %t

[prompts]
confirm = %t

[logging]
level = "error"
`,
		cfg.Paths.BackupDir,
		cfg.Paths.OutputDir,
		cfg.Paths.CSVDir,
		cfg.Paths.LogDir,
		cfg.Layout.Format,
		cfg.LivePhotos.SavePVT,
		cfg.LivePhotos.SaveJPG,
		cfg.LivePhotos.SaveMOV,
		cfg.Prompts.Confirm,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
