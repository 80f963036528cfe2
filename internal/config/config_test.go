package config

import (
	"os"
	"path/filepath"
	"testing"
)

// withTempConfig points XDG_CONFIG_HOME at a temp dir and resets the cache.
func withTempConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	ResetCache()
	t.Cleanup(ResetCache)
	return dir
}

func TestLoadMissingFile(t *testing.T) {
	withTempConfig(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	if cfg.ADSAPIKey != "" || cfg.PreferredSource != "" {
		t.Errorf("missing file should yield empty config, got %+v", cfg)
	}
}

func TestLoadAndDefaults(t *testing.T) {
	dir := withTempConfig(t)

	path := filepath.Join(dir, ConfigDir, ConfigFile)
	os.MkdirAll(filepath.Dir(path), 0755)
	os.WriteFile(path, []byte("ads_api_key: abc123\npreferred_source: inspire\nmax_authors: 5\n"), 0600)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}

	if cfg.ADSAPIKey != "abc123" {
		t.Errorf("ADSAPIKey = %q", cfg.ADSAPIKey)
	}
	if cfg.Source() != "inspire" {
		t.Errorf("Source() = %q", cfg.Source())
	}
	if cfg.MaxAuthors != 5 {
		t.Errorf("MaxAuthors = %d", cfg.MaxAuthors)
	}
	// Unset fields fall back to defaults through accessors.
	if cfg.Workers() != DefaultConcurrency {
		t.Errorf("Workers() = %d, want %d", cfg.Workers(), DefaultConcurrency)
	}
}

func TestSourceDefault(t *testing.T) {
	cfg := &Config{}
	if cfg.Source() != DefaultSource {
		t.Errorf("Source() = %q, want %q", cfg.Source(), DefaultSource)
	}
}

func TestEnvOverridesKeys(t *testing.T) {
	withTempConfig(t)
	t.Setenv("ADS_API_KEY", "from-env")
	t.Setenv("S2_API_KEY", "")

	cfg := &Config{ADSAPIKey: "from-file", S2APIKey: "s2-from-file"}
	if got := cfg.ADSKey(); got != "from-env" {
		t.Errorf("ADSKey() = %q, want env value", got)
	}
	if got := cfg.S2Key(); got != "s2-from-file" {
		t.Errorf("S2Key() = %q, want file value", got)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	withTempConfig(t)

	in := &Config{ADSAPIKey: "k", PreferredSource: "s2", Concurrency: 8}
	if err := in.Save(); err != nil {
		t.Fatalf("Save(): %v", err)
	}

	ResetCache()
	out, err := Load()
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	if out.ADSAPIKey != "k" || out.PreferredSource != "s2" || out.Workers() != 8 {
		t.Errorf("round trip = %+v", out)
	}
}

func TestExpandTilde(t *testing.T) {
	home, _ := os.UserHomeDir()

	if got := ExpandTilde("~/library.db"); got != filepath.Join(home, "library.db") {
		t.Errorf("ExpandTilde(~/library.db) = %q", got)
	}
	if got := ExpandTilde("/abs/path"); got != "/abs/path" {
		t.Errorf("ExpandTilde(/abs/path) = %q", got)
	}
	if got := ExpandTilde(""); got != "" {
		t.Errorf("ExpandTilde(\"\") = %q", got)
	}
}
