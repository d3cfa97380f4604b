package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestLoadFile_DoesNotOverrideSetValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "listen: \":9999\"\napi_url: https://settings.example.com\napi_token: from-file\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	c := &Config{Listen: ":7777"}
	if err := c.loadFile(path); err != nil {
		t.Fatalf("loadFile error: %v", err)
	}
	if c.Listen != ":7777" {
		t.Errorf("Listen = %q, flag value must win over file", c.Listen)
	}
	if c.APIURL != "https://settings.example.com" || c.APIToken != "from-file" {
		t.Errorf("file values not applied: %+v", c)
	}
}

func TestLoad_EnvOverlay(t *testing.T) {
	t.Setenv("GRAPHSETTINGS_API_URL", "https://env.example.com")
	t.Setenv("GRAPHSETTINGS_API_TOKEN", "env-token")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	c := &Config{}
	if err := c.load(); err != nil {
		t.Fatalf("load error: %v", err)
	}
	if c.APIURL != "https://env.example.com" {
		t.Errorf("APIURL = %q", c.APIURL)
	}
	if c.APIToken != "env-token" {
		t.Errorf("APIToken = %q", c.APIToken)
	}
	if c.Listen != ":8080" {
		t.Errorf("Listen default = %q", c.Listen)
	}
}

func TestPersistedTokenFallback(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if err := PersistToken("persisted-token"); err != nil {
		t.Fatalf("PersistToken error: %v", err)
	}
	if got := readPersistedToken(); got != "persisted-token" {
		t.Errorf("readPersistedToken = %q", got)
	}

	c := &Config{}
	if err := c.load(); err != nil {
		t.Fatalf("load error: %v", err)
	}
	if c.APIToken != "persisted-token" {
		t.Errorf("APIToken = %q, want token-file fallback", c.APIToken)
	}
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "console",
		"exp": exp.Unix(),
	})
	s, err := token.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestTokenWarning(t *testing.T) {
	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

	if got := TokenWarning("opaque-token", now); got != "" {
		t.Errorf("opaque tokens should not warn, got %q", got)
	}
	if got := TokenWarning(signedToken(t, now.Add(48*time.Hour)), now); got != "" {
		t.Errorf("long-lived token should not warn, got %q", got)
	}
	if got := TokenWarning(signedToken(t, now.Add(30*time.Minute)), now); got == "" {
		t.Error("token expiring within the hour should warn")
	}
	if got := TokenWarning(signedToken(t, now.Add(-time.Minute)), now); got == "" {
		t.Error("expired token should warn")
	}
}
