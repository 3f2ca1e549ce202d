package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kcc.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.General.LogLevel != "warn" || cfg.General.LogFormat != "text" {
		t.Errorf("general defaults = %+v", cfg.General)
	}
	if cfg.Dump.Format != "text" {
		t.Errorf("dump.format = %q, want text", cfg.Dump.Format)
	}
	if cfg.Watch.Debounce.Duration != 200*time.Millisecond {
		t.Errorf("watch.debounce = %v, want 200ms", cfg.Watch.Debounce.Duration)
	}
	if cfg.Compiler.Jobs <= 0 {
		t.Errorf("compiler.jobs = %d, want > 0", cfg.Compiler.Jobs)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[general]
log_level = "debug"
log_format = "json"

[compiler]
flags = 3
output_dir = "build"
jobs = 2

[dump]
format = "yaml"

[watch]
debounce = "1s"

[diagnostics]
color = "never"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.General.LogLevel != "debug" || cfg.General.LogFormat != "json" {
		t.Errorf("general = %+v", cfg.General)
	}
	if cfg.Compiler.Flags != 3 || cfg.Compiler.OutputDir != "build" || cfg.Compiler.Jobs != 2 {
		t.Errorf("compiler = %+v", cfg.Compiler)
	}
	if cfg.Dump.Format != "yaml" {
		t.Errorf("dump.format = %q", cfg.Dump.Format)
	}
	if cfg.Watch.Debounce.Duration != time.Second {
		t.Errorf("watch.debounce = %v", cfg.Watch.Debounce.Duration)
	}
	if cfg.Diagnostics.Color != "never" {
		t.Errorf("diagnostics.color = %q", cfg.Diagnostics.Color)
	}
	if got, want := cfg.OutputPath(filepath.Join("src", "main")), filepath.Join("build", "main"); got != want {
		t.Errorf("OutputPath = %q, want %q", got, want)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"BadLevel", "[general]\nlog_level = \"loud\"\n", "log_level"},
		{"BadFormat", "[dump]\nformat = \"xml\"\n", "dump.format"},
		{"BadColor", "[diagnostics]\ncolor = \"sometimes\"\n", "diagnostics.color"},
		{"BadDuration", "[watch]\ndebounce = \"soon\"\n", "failed to parse config"},
		{"VersionTooOld", "[compiler]\nrequire_version = \">= 99.0.0\"\n", "does not satisfy"},
		{"BadConstraint", "[compiler]\nrequire_version = \"nope\"\n", "require_version"},
		{"Syntax", "[general\n", "failed to parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("err = %v, want config file not found", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	path := writeConfig(t, "[dump]\nformat = \"yaml\"\n")
	t.Setenv(EnvVar, path)
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	if cfg.Dump.Format != "yaml" {
		t.Errorf("dump.format = %q, want yaml", cfg.Dump.Format)
	}
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("info")
	if err != nil || l != slog.LevelInfo {
		t.Errorf("ParseLevel(info) = %v, %v", l, err)
	}
	if _, err := ParseLevel("chatty"); err == nil {
		t.Error("ParseLevel(chatty) should fail")
	}
}
