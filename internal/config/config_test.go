package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OCRSELECT_TRANSLATE_KEY", "")
	t.Setenv("OCRSELECT_TRANSLATE_BASE_DELAY", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.RetryBaseDelay != 2*time.Second {
		t.Fatalf("unexpected base delay: %v", cfg.RetryBaseDelay)
	}
	if cfg.TranslateModel != "gpt-4o" {
		t.Fatalf("unexpected model: %q", cfg.TranslateModel)
	}
	if cfg.TranslationEnabled() {
		t.Fatalf("translation should be disabled without a key")
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	body := "OCRSELECT_TEST_ONLY_LANG=German\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("OCRSELECT_TEST_ONLY_LANG", "")
	os.Unsetenv("OCRSELECT_TEST_ONLY_LANG")
	if _, err := Load(path); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv("OCRSELECT_TEST_ONLY_LANG"); got != "German" {
		t.Fatalf("expected .env value to be loaded, got %q", got)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("OCRSELECT_TRANSLATE_BASE_DELAY", "soon")
	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestValidateRejectsNonHTTPURL(t *testing.T) {
	cfg := &Config{TranslateURL: "ftp://x", TranslateTimeout: time.Second}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected URL validation error")
	}
}
