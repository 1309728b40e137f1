package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	packetstream "packetstream-go"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()
	if cfg.Input != "-" {
		t.Fatalf("unexpected input: %q", cfg.Input)
	}
	if cfg.MaxBodyLen != packetstream.DefaultMaxBodyLen {
		t.Fatalf("unexpected max body len: %d", cfg.MaxBodyLen)
	}
	if cfg.Level != zerolog.InfoLevel {
		t.Fatalf("unexpected level: %v", cfg.Level)
	}
	if cfg.BodyPreview != 0 {
		t.Fatalf("unexpected body preview: %d", cfg.BodyPreview)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	cfg, err := loadConfig("ex.config.toml")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Input != "capture.bin" {
		t.Fatalf("unexpected input: %q", cfg.Input)
	}
	if cfg.MaxBodyLen != 1<<20 {
		t.Fatalf("unexpected max body len: %d", cfg.MaxBodyLen)
	}
	if cfg.Level != zerolog.DebugLevel {
		t.Fatalf("unexpected level: %v", cfg.Level)
	}
	if cfg.BodyPreview != 16 {
		t.Fatalf("unexpected body preview: %d", cfg.BodyPreview)
	}
}

func TestLoadConfigPartial(t *testing.T) {
	path := writeConfig(t, "log_level = \"warn\"\n")

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Level != zerolog.WarnLevel {
		t.Fatalf("unexpected level: %v", cfg.Level)
	}
	// Unset keys keep their defaults.
	if cfg.Input != "-" {
		t.Fatalf("unexpected input: %q", cfg.Input)
	}
	if cfg.MaxBodyLen != packetstream.DefaultMaxBodyLen {
		t.Fatalf("unexpected max body len: %d", cfg.MaxBodyLen)
	}
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"bad level":         "log_level = \"loud\"\n",
		"negative body cap": "max_body_len = -1\n",
		"oversized cap":     "max_body_len = 4294967296\n",
		"negative preview":  "body_preview = -5\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := loadConfig(writeConfig(t, content)); err == nil {
				t.Fatalf("expected error for %s", name)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
