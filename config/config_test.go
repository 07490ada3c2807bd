package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	c := Default()
	if c.Segmenter.Gap != 0.6 {
		t.Errorf("gap = %v", c.Segmenter.Gap)
	}
	if c.Pipeline.LogLvl != "info" {
		t.Errorf("log level = %q", c.Pipeline.LogLvl)
	}
}

func TestLoadReadsYAML(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "config", "test")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	yaml := `
pipeline:
  log_level: debug
services:
  asr:
    url: http://asr:9000
segmenter:
  gap: 1.5
paths:
  ledger: /data/mapping.xlsx
`
	if err := os.WriteFile(filepath.Join(sub, "config.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)
	t.Setenv("CONFIG_ENV", "test")

	c, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if c.Services.ASR.URL != "http://asr:9000" {
		t.Errorf("asr url = %q", c.Services.ASR.URL)
	}
	if c.Segmenter.Gap != 1.5 {
		t.Errorf("gap = %v", c.Segmenter.Gap)
	}
	if c.Paths.Ledger != "/data/mapping.xlsx" {
		t.Errorf("ledger = %q", c.Paths.Ledger)
	}
}

func TestLoadFallsBackToDefaults(t *testing.T) {
	wd, _ := os.Getwd()
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	c, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if c.Segmenter.Gap != 0.6 {
		t.Errorf("gap = %v, want default", c.Segmenter.Gap)
	}
}

func TestEnvOverrides(t *testing.T) {
	wd, _ := os.Getwd()
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)
	t.Setenv("SPEAKERMAP_LEDGER", "/tmp/ledger.xlsx")
	t.Setenv("SPEAKERMAP_ASR_URL", "http://override:1234")

	c, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if c.Paths.Ledger != "/tmp/ledger.xlsx" {
		t.Errorf("ledger = %q", c.Paths.Ledger)
	}
	if c.Services.ASR.URL != "http://override:1234" {
		t.Errorf("asr url = %q", c.Services.ASR.URL)
	}
}
