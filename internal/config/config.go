package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"
)

// envPrefix namespaces the environment variables the console reads:
// GRAPHSETTINGS_LISTEN, GRAPHSETTINGS_API_URL, GRAPHSETTINGS_API_TOKEN,
// GRAPHSETTINGS_LOG_FILE.
const envPrefix = "GRAPHSETTINGS_"

// tokenFileName is the fixed name the console persists a bearer token
// under, inside the OS user config dir.
const tokenFileName = "api_token"

// Config holds all configuration (CLI flags + env + config file).
type Config struct {
	Listen   string `yaml:"listen"`
	APIURL   string `yaml:"api_url"`
	APIToken string `yaml:"api_token"`
	LogFile  string `yaml:"log_file"`
	Insecure bool   `yaml:"insecure"`

	// internal: path to config file (from CLI flag)
	configFile string
}

// Parse reads CLI flags, then overlays environment variables and config
// file values. Precedence: flags > env > config file > persisted token
// file > defaults.
func Parse() *Config {
	c := &Config{}
	flag.StringVar(&c.configFile, "config", "", "Path to config file (YAML)")
	flag.StringVar(&c.Listen, "listen", "", "HTTP listen address")
	flag.StringVar(&c.APIURL, "api-url", "", "Settings backend base URL")
	flag.StringVar(&c.LogFile, "log-file", "", "Log file path (rotated); empty logs to stderr")
	flag.BoolVar(&c.Insecure, "insecure", false, "Skip TLS verification toward the backend")
	flag.Parse()

	if err := c.load(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	return c
}

// load fills unset fields from env, config file, the persisted token
// file, and finally compiled defaults.
func (c *Config) load() error {
	k := koanf.New(".")
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return fmt.Errorf("loading env vars: %w", err)
	}
	applyUnset(&c.Listen, k.String("listen"))
	applyUnset(&c.APIURL, k.String("api_url"))
	applyUnset(&c.APIToken, k.String("api_token"))
	applyUnset(&c.LogFile, k.String("log_file"))

	if c.configFile != "" {
		if err := c.loadFile(c.configFile); err != nil {
			return err
		}
	}

	if c.APIToken == "" {
		c.APIToken = readPersistedToken()
	}

	if c.Listen == "" {
		c.Listen = ":8080"
	}
	if c.APIURL == "" {
		c.APIURL = "http://localhost:9090"
	}
	return nil
}

// loadFile reads a YAML config file. File values are only applied if the
// corresponding flag or env var was not set.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	applyUnset(&c.Listen, file.Listen)
	applyUnset(&c.APIURL, file.APIURL)
	applyUnset(&c.APIToken, file.APIToken)
	applyUnset(&c.LogFile, file.LogFile)
	if !c.Insecure {
		c.Insecure = file.Insecure
	}
	return nil
}

func applyUnset(dst *string, value string) {
	if *dst == "" && value != "" {
		*dst = value
	}
}

// readPersistedToken reads the token saved under the user config dir, the
// same fixed key PersistToken writes.
func readPersistedToken() string {
	path, err := tokenPath()
	if err != nil {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// PersistToken saves a bearer token so later runs pick it up without env
// or config file changes.
func PersistToken(token string) error {
	path, err := tokenPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	return nil
}

func tokenPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config dir: %w", err)
	}
	return filepath.Join(dir, "graphsettings", tokenFileName), nil
}

// TokenWarning inspects a bearer token that looks like a JWT and returns
// a human-readable warning when it is expired or expires within an hour.
// Non-JWT tokens and tokens without an exp claim produce no warning; the
// signature is deliberately not verified, this is advisory only.
func TokenWarning(token string, now time.Time) string {
	if strings.Count(token, ".") != 2 {
		return ""
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return ""
	}
	switch {
	case exp.Time.Before(now):
		return fmt.Sprintf("API token expired at %s", exp.Time.Format(time.RFC3339))
	case exp.Time.Before(now.Add(time.Hour)):
		return fmt.Sprintf("API token expires soon, at %s", exp.Time.Format(time.RFC3339))
	default:
		return ""
	}
}
