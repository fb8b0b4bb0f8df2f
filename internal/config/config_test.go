package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv(EnvDataDir, "")
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvStorage, "")
	return dir
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.General.Storage != "sqlite" {
		t.Errorf("Storage = %q, want sqlite", cfg.General.Storage)
	}
	if cfg.Alerts.DueSoonDays != 3 || cfg.Alerts.LowBalanceThreshold != 500 {
		t.Errorf("Alerts = %+v, want 500/3", cfg.Alerts)
	}
	if got, want := cfg.DataDir(), filepath.Join(dir, "data", "balancebuddy"); got != want {
		t.Errorf("DataDir() = %q, want %q", got, want)
	}
	if Exists() {
		t.Error("Exists() = true before Save")
	}
}

func TestSaveThenLoad(t *testing.T) {
	isolate(t)

	cfg := DefaultConfig()
	cfg.General.Storage = "json"
	cfg.Alerts.DueSoonDays = 5
	cfg.Categories.Extra = []string{"Pets"}
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !Exists() {
		t.Fatal("Exists() = false after Save")
	}

	info, err := os.Stat(ConfigPath())
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("config perm = %o, want 600", perm)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.General.Storage != "json" || got.Alerts.DueSoonDays != 5 {
		t.Errorf("Load() = %+v", got)
	}
	if len(got.Categories.Extra) != 1 || got.Categories.Extra[0] != "Pets" {
		t.Errorf("Categories.Extra = %v, want [Pets]", got.Categories.Extra)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv(EnvDataDir, "/tmp/bb-data")
	t.Setenv(EnvStorage, "JSON")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataDir() != "/tmp/bb-data" {
		t.Errorf("DataDir() = %q", cfg.DataDir())
	}
	if cfg.General.Storage != "json" || cfg.General.LogLevel != "debug" {
		t.Errorf("General = %+v", cfg.General)
	}
}

func TestLoad_DotEnvInConfigDir(t *testing.T) {
	dir := isolate(t)
	os.Unsetenv(EnvStorage)
	cfgDir := filepath.Join(dir, "balancebuddy")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfgDir, ".env"), []byte(EnvStorage+"=json\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv(EnvStorage) })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.General.Storage != "json" {
		t.Errorf("Storage = %q, want json from .env", cfg.General.Storage)
	}
}

func TestLoad_RejectsBadStorage(t *testing.T) {
	isolate(t)
	cfgDir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "balancebuddy")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	body := "[general]\nstorage = \"postgres\"\n"
	if err := os.WriteFile(filepath.Join(cfgDir, "config.toml"), []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "storage") {
		t.Fatalf("Load error = %v, want storage error", err)
	}
}

func TestPipelineOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Alerts.LowBalanceThreshold = 250.5
	opts := cfg.PipelineOptions()
	if !opts.LowBalanceThreshold.Equal(decimal.RequireFromString("250.5")) {
		t.Errorf("LowBalanceThreshold = %s, want 250.5", opts.LowBalanceThreshold)
	}
	if opts.DueSoonDays != 3 {
		t.Errorf("DueSoonDays = %d, want 3", opts.DueSoonDays)
	}
}

func TestCategoryChoices(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Categories.Extra = []string{"Pets", "food", "  ", "Pets"}
	got := cfg.CategoryChoices()
	if got[0] != "Food" {
		t.Errorf("first category = %q, want Food", got[0])
	}
	if got[len(got)-1] != "Pets" {
		t.Errorf("last category = %q, want Pets", got[len(got)-1])
	}
	if len(got) != 9 {
		t.Errorf("len = %d, want 9 (%v)", len(got), got)
	}
}
