package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"dupescan/internal/config"
)

func TestLoadDefaultsAndExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantLogDir := filepath.Join(tempHome, ".local", "share", "dupescan", "logs")
	if cfg.Paths.LogDir != wantLogDir {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogDir)
	}
	if cfg.Paths.APIBind != "127.0.0.1:7319" {
		t.Fatalf("unexpected api bind: %q", cfg.Paths.APIBind)
	}
	if cfg.Analysis.DefaultThreshold != 1.0 {
		t.Fatalf("unexpected default threshold: %v", cfg.Analysis.DefaultThreshold)
	}
	if len(cfg.Analysis.ImageExtensions) == 0 || cfg.Analysis.ImageExtensions[0] != ".jpg" {
		t.Fatalf("unexpected image extensions: %v", cfg.Analysis.ImageExtensions)
	}
	if cfg.Cache.MaxEntries != 0 {
		t.Fatalf("unexpected cache cap: %d", cfg.Cache.MaxEntries)
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("unexpected log format: %q", cfg.Logging.Format)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	info, err := os.Stat(cfg.Paths.LogDir)
	if err != nil {
		t.Fatalf("expected log directory to exist: %v", err)
	}
	if !info.IsDir() {
		t.Fatalf("expected %q to be directory", cfg.Paths.LogDir)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "dupescan.toml")

	type payload struct {
		Paths struct {
			LogDir  string `toml:"log_dir"`
			APIBind string `toml:"api_bind"`
		} `toml:"paths"`
		Analysis struct {
			DefaultThreshold float64  `toml:"default_threshold"`
			ImageExtensions  []string `toml:"image_extensions"`
		} `toml:"analysis"`
		Cache struct {
			MaxEntries int `toml:"max_entries"`
		} `toml:"cache"`
	}
	custom := payload{}
	custom.Paths.LogDir = filepath.Join(tempDir, "logs")
	custom.Paths.APIBind = "127.0.0.1:9001"
	custom.Analysis.DefaultThreshold = 0.85
	custom.Analysis.ImageExtensions = []string{"JPG", ".Png"}
	custom.Cache.MaxEntries = 64

	encoded, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	if err := os.WriteFile(configPath, encoded, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != configPath {
		t.Fatalf("resolved path = %q, want %q", resolved, configPath)
	}
	if cfg.Paths.APIBind != "127.0.0.1:9001" {
		t.Fatalf("api bind = %q", cfg.Paths.APIBind)
	}
	if cfg.Analysis.DefaultThreshold != 0.85 {
		t.Fatalf("threshold = %v", cfg.Analysis.DefaultThreshold)
	}
	// Extensions are lowercased and dot-prefixed during normalization.
	want := []string{".jpg", ".png"}
	if len(cfg.Analysis.ImageExtensions) != len(want) {
		t.Fatalf("image extensions = %v", cfg.Analysis.ImageExtensions)
	}
	for i, ext := range want {
		if cfg.Analysis.ImageExtensions[i] != ext {
			t.Fatalf("image extensions = %v, want %v", cfg.Analysis.ImageExtensions, want)
		}
	}
	// Video extensions fall back to defaults when the file omits them.
	if len(cfg.Analysis.VideoExtensions) == 0 {
		t.Fatal("expected default video extensions")
	}
	if cfg.Cache.MaxEntries != 64 {
		t.Fatalf("cache cap = %d", cfg.Cache.MaxEntries)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tempDir := t.TempDir()

	cases := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "threshold out of range",
			content: "[analysis]\ndefault_threshold = 1.5\n",
			wantErr: "default_threshold",
		},
		{
			name:    "negative cache cap",
			content: "[cache]\nmax_entries = -1\n",
			wantErr: "max_entries",
		},
		{
			name:    "unknown log format",
			content: "[logging]\nformat = \"xml\"\n",
			wantErr: "logging.format",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(tempDir, strings.ReplaceAll(tc.name, " ", "_")+".toml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestExpandPathHome(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	expanded, err := config.ExpandPath("~/media")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if expanded != filepath.Join(tempHome, "media") {
		t.Fatalf("expanded = %q", expanded)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(target); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}

	cfg, _, exists, err := config.Load(target)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config invalid: %v", err)
	}
}
