package config

import (
	"os"
	"path/filepath"
	"testing"
)

const minimalYAML = `
environment: test
scanner:
  symbols: [AAPL, MSFT]
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Log.Level != "info" {
		t.Fatalf("expected default log level info, got %s", cfg.Log.Level)
	}
	if cfg.Scanner.Provider != "polygon" {
		t.Fatalf("expected default provider polygon, got %s", cfg.Scanner.Provider)
	}
	if cfg.Scanner.RiskPctPerTrade != 0.005 {
		t.Fatalf("expected default risk pct 0.005, got %v", cfg.Scanner.RiskPctPerTrade)
	}
	if cfg.Polygon.BaseURL != "https://api.polygon.io" {
		t.Fatalf("expected default polygon base url, got %s", cfg.Polygon.BaseURL)
	}
}

func TestLoadValidation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"missing environment", "scanner:\n  symbols: [AAPL]\n"},
		{"empty symbols", "environment: test\n"},
		{"live without api key", minimalYAML + "polygon:\n  use_live: true\n"},
		{"risk pct out of range", minimalYAML + "  risk_pct_per_trade: 0.5\n"},
		{"bad provider", minimalYAML + "  provider: csv\n"},
		{"kafka enabled without brokers", minimalYAML + "kafka:\n  enabled: true\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tc.yaml)); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("POLYGON_API_KEY", "k123")
	t.Setenv("SYMBOLS", "NVDA,AMD")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadWithEnv(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("load with env: %v", err)
	}
	if cfg.Polygon.APIKey != "k123" {
		t.Fatalf("api key not overridden")
	}
	if len(cfg.Scanner.Symbols) != 2 || cfg.Scanner.Symbols[0] != "NVDA" {
		t.Fatalf("symbols not overridden: %v", cfg.Scanner.Symbols)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("log level not overridden")
	}
}
