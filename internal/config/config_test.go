package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	// Run from an empty directory so no metashell.yaml is found
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Cols != DefaultCols {
		t.Errorf("Expected default cols %d, got %d", DefaultCols, cfg.Cols)
	}
	if cfg.Rows != DefaultRows {
		t.Errorf("Expected default rows %d, got %d", DefaultRows, cfg.Rows)
	}
	if cfg.Shell == "" {
		t.Error("Expected a default shell to be set")
	}
	if cfg.ScrollbackBytes != DefaultScrollbackBytes {
		t.Errorf("Expected default scrollback %d, got %d", DefaultScrollbackBytes, cfg.ScrollbackBytes)
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "metashell.yaml")

	content := "shell: zsh\ncols: 80\nrows: 24\nlog_file: /tmp/metashell.log\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Shell != "zsh" {
		t.Errorf("Expected shell zsh, got %q", cfg.Shell)
	}
	if cfg.Cols != 80 || cfg.Rows != 24 {
		t.Errorf("Expected 80x24, got %dx%d", cfg.Cols, cfg.Rows)
	}
	if cfg.LogFile != "/tmp/metashell.log" {
		t.Errorf("Unexpected log file %q", cfg.LogFile)
	}

	// Unset fields still get defaults
	if cfg.ScrollbackBytes != DefaultScrollbackBytes {
		t.Errorf("Expected default scrollback, got %d", cfg.ScrollbackBytes)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "metashell.yaml")

	if err := os.WriteFile(path, []byte("cols: [not an int\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("Expected error for malformed YAML")
	}
}

func TestLoad_MissingExplicitPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Expected error for missing explicit config path")
	}
}

func TestDefaultShell(t *testing.T) {
	if runtime.GOOS == "windows" {
		if got := DefaultShell(); got != "cmd.exe" {
			t.Errorf("Expected cmd.exe, got %q", got)
		}
		return
	}

	t.Setenv("SHELL", "/usr/local/bin/fish")
	if got := DefaultShell(); got != "/usr/local/bin/fish" {
		t.Errorf("Expected SHELL value, got %q", got)
	}

	t.Setenv("SHELL", "")
	if got := DefaultShell(); got != "bash" {
		t.Errorf("Expected bash fallback, got %q", got)
	}
}
