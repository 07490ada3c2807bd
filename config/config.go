package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type Service struct {
	URL string `yaml:"url"`
}
type Services struct {
	ASR         Service `yaml:"asr"`
	Align       Service `yaml:"align"`
	Diarization Service `yaml:"diarization"`
	Assign      Service `yaml:"assign"`
}
type Segmenter struct {
	Gap float64 `yaml:"gap"`
}
type Root struct {
	Pipeline struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
		LogLvl  string `yaml:"log_level"`
	} `yaml:"pipeline"`
	Services  Services  `yaml:"services"`
	Segmenter Segmenter `yaml:"segmenter"`
	Paths     struct {
		Outputs string `yaml:"outputs"`
		Workdir string `yaml:"workdir"`
		Ledger  string `yaml:"ledger"`
	} `yaml:"paths"`
}

func Default() *Root {
	var c Root
	c.Pipeline.Name = "speakermap"
	c.Pipeline.LogLvl = "info"
	c.Segmenter.Gap = 0.6
	c.Paths.Outputs = "outputs"
	c.Paths.Workdir = ".speakermap"
	return &c
}

// Load reads config/<env>/config.yaml (env from CONFIG_ENV, default "dev"),
// falling back to defaults when no candidate file exists, then applies
// SPEAKERMAP_* environment overrides.
func Load() (*Root, error) {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	guess := []string{
		filepath.Join("config", env, "config.yaml"),
		filepath.Join("config", "config.yaml"),
	}
	cfg := Default()
	for _, p := range guess {
		f, err := os.Open(p)
		if err != nil {
			continue
		}
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, err
		}
		break
	}
	applyEnv(cfg)
	return cfg, nil
}

// applyEnv lets operational knobs be set without editing the file, e.g.
// SPEAKERMAP_LEDGER=/data/mapping.xlsx.
func applyEnv(cfg *Root) {
	v := viper.New()
	v.SetEnvPrefix("speakermap")
	v.AutomaticEnv()
	if s := v.GetString("asr_url"); s != "" {
		cfg.Services.ASR.URL = s
	}
	if s := v.GetString("align_url"); s != "" {
		cfg.Services.Align.URL = s
	}
	if s := v.GetString("diar_url"); s != "" {
		cfg.Services.Diarization.URL = s
	}
	if s := v.GetString("assign_url"); s != "" {
		cfg.Services.Assign.URL = s
	}
	if s := v.GetString("outputs"); s != "" {
		cfg.Paths.Outputs = s
	}
	if s := v.GetString("workdir"); s != "" {
		cfg.Paths.Workdir = s
	}
	if s := v.GetString("ledger"); s != "" {
		cfg.Paths.Ledger = s
	}
	if s := v.GetString("log_level"); s != "" {
		cfg.Pipeline.LogLvl = s
	}
}
