package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"SERVER_ADDR", "PORT", "SNAPSHOT_BACKEND", "SESSION_TTL", "FETCH_CONCURRENCY", "STALE_THRESHOLD_DAYS"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.ServerAddr != ":3000" {
		t.Errorf("expected :3000, got %q", cfg.ServerAddr)
	}
	if cfg.SnapshotBackend != "file" {
		t.Errorf("expected file backend, got %q", cfg.SnapshotBackend)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("expected 30m session ttl, got %v", cfg.SessionTTL)
	}
	if cfg.FetchConcurrency != 4 {
		t.Errorf("expected concurrency 4, got %d", cfg.FetchConcurrency)
	}
	if cfg.StaleThresholdDays != 30 {
		t.Errorf("expected threshold 30, got %d", cfg.StaleThresholdDays)
	}
	if !cfg.IsDev() {
		t.Error("expected development by default")
	}
}

func TestLoadFromEnv(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		check func(t *testing.T, cfg *Config)
	}{
		{
			name: "PORT used when SERVER_ADDR unset",
			env:  map[string]string{"SERVER_ADDR": "", "PORT": "8080"},
			check: func(t *testing.T, cfg *Config) {
				if cfg.ServerAddr != ":8080" {
					t.Errorf("expected :8080, got %q", cfg.ServerAddr)
				}
			},
		},
		{
			name: "SERVER_ADDR wins over PORT",
			env:  map[string]string{"SERVER_ADDR": "127.0.0.1:9000", "PORT": "8080"},
			check: func(t *testing.T, cfg *Config) {
				if cfg.ServerAddr != "127.0.0.1:9000" {
					t.Errorf("expected 127.0.0.1:9000, got %q", cfg.ServerAddr)
				}
			},
		},
		{
			name: "durations and ints parsed",
			env:  map[string]string{"FETCH_TIMEOUT": "5s", "FETCH_INTERVAL": "6h", "FETCH_CONCURRENCY": "8"},
			check: func(t *testing.T, cfg *Config) {
				if cfg.FetchTimeout != 5*time.Second || cfg.FetchInterval != 6*time.Hour || cfg.FetchConcurrency != 8 {
					t.Errorf("unexpected fetch settings: %v %v %d", cfg.FetchTimeout, cfg.FetchInterval, cfg.FetchConcurrency)
				}
			},
		},
		{
			name: "invalid values fall back",
			env:  map[string]string{"FETCH_TIMEOUT": "soon", "STALE_THRESHOLD_DAYS": "thirty"},
			check: func(t *testing.T, cfg *Config) {
				if cfg.FetchTimeout != 15*time.Second {
					t.Errorf("expected fallback 15s, got %v", cfg.FetchTimeout)
				}
				if cfg.StaleThresholdDays != 30 {
					t.Errorf("expected fallback 30, got %d", cfg.StaleThresholdDays)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			tt.check(t, Load())
		})
	}
}

func TestLoadYAMLConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
pricing:
  concurrency: 2
  skip:
    - Heroku
  overrides:
    GitHub Copilot: https://github.com/features/copilot/plans
staleness:
  threshold_days: 45
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	y, err := LoadYAMLConfigFile(path)
	if err != nil {
		t.Fatalf("LoadYAMLConfigFile failed: %v", err)
	}
	if got := y.SkipVendors(); len(got) != 1 || got[0] != "Heroku" {
		t.Errorf("unexpected skip list %v", got)
	}
	if u := y.PricingOverrides()["GitHub Copilot"]; u != "https://github.com/features/copilot/plans" {
		t.Errorf("unexpected override %q", u)
	}

	t.Setenv("STALE_THRESHOLD_DAYS", "")
	t.Setenv("FETCH_CONCURRENCY", "6")
	cfg := Load()
	cfg.ApplyYAML(y)
	if cfg.StaleThresholdDays != 45 {
		t.Errorf("expected YAML threshold 45, got %d", cfg.StaleThresholdDays)
	}
	if cfg.FetchConcurrency != 6 {
		t.Errorf("expected env concurrency to win, got %d", cfg.FetchConcurrency)
	}
}

func TestLoadYAMLConfigMissing(t *testing.T) {
	y, err := LoadYAMLConfigFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil || y != nil {
		t.Errorf("expected nil config and nil error, got %v %v", y, err)
	}
	if y.SkipVendors() != nil || y.PricingOverrides() != nil {
		t.Error("nil config accessors should return nil")
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" ops@example.com, ,pricing@example.com ")
	if len(got) != 2 || got[0] != "ops@example.com" || got[1] != "pricing@example.com" {
		t.Errorf("unexpected list %v", got)
	}
	if splitList("") != nil {
		t.Error("expected nil for empty value")
	}
}
