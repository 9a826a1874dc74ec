package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIBaseURL = "http://localhost:5000"
	DefaultWebBaseURL = "http://localhost:3000"
	DefaultTimeout    = 30 * time.Second
)

type ConfigLoad func() (AppConfig, error)

func AppConfigLoader() ConfigLoad {
	return LoadAppConfig
}

type APIConfig struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64 // requests per second, 0 disables
}

type LogConfig struct {
	File  string
	Level string
}

// AppConfig carries everything the CLI, TUI and MCP server need.
type AppConfig struct {
	API           APIConfig
	WebBaseURL    string
	DatabasePath  string
	GiftTemplates []string
	Log           LogConfig
}

// Default returns the configuration used when no file or env override is present.
func Default() AppConfig {
	return AppConfig{
		API: APIConfig{
			BaseURL: DefaultAPIBaseURL,
			Timeout: DefaultTimeout,
		},
		WebBaseURL:   DefaultWebBaseURL,
		DatabasePath: FallbackDBPath(),
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadAppConfig reads ~/.config/keepsake/config.yaml, then applies .env and
// environment overrides. A missing or broken file yields defaults.
func LoadAppConfig() (AppConfig, error) {
	ac := Default()

	if cfgPath, err := DefaultConfigPath(); err == nil {
		if b, err := os.ReadFile(cfgPath); err == nil {
			ac = parseConfig(b, ac)
		}
	}

	// .env is optional
	_ = godotenv.Load()
	applyEnv(&ac)

	ac.DatabasePath = ExpandPath(ac.DatabasePath)
	ac.Log.File = ExpandPath(ac.Log.File)
	return ac, nil
}

func parseConfig(b []byte, ac AppConfig) AppConfig {
	var raw map[string]any
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return ac
	}

	if api, ok := raw["api"].(map[string]any); ok {
		if s, ok := api["base_url"].(string); ok && strings.TrimSpace(s) != "" {
			ac.API.BaseURL = strings.TrimRight(strings.TrimSpace(s), "/")
		}
		if d, ok := durationValue(api["timeout"]); ok {
			ac.API.Timeout = d
		}
		if v, ok := floatValue(api["rate_limit"]); ok && v >= 0 {
			ac.API.RateLimit = v
		}
	}

	if web, ok := raw["web"].(map[string]any); ok {
		if s, ok := web["base_url"].(string); ok && strings.TrimSpace(s) != "" {
			ac.WebBaseURL = strings.TrimRight(strings.TrimSpace(s), "/")
		}
	}

	if db, ok := raw["database"].(map[string]any); ok {
		if p, ok := db["path"].(string); ok && strings.TrimSpace(p) != "" {
			ac.DatabasePath = p
		}
	}

	if gift, ok := raw["gift"].(map[string]any); ok {
		if templates, ok := gift["templates"].([]any); ok {
			for _, it := range templates {
				if s, ok := it.(string); ok && strings.TrimSpace(s) != "" {
					ac.GiftTemplates = append(ac.GiftTemplates, strings.TrimSpace(s))
				}
			}
		}
	}

	if lg, ok := raw["log"].(map[string]any); ok {
		if f, ok := lg["file"].(string); ok {
			ac.Log.File = strings.TrimSpace(f)
		}
		if l, ok := lg["level"].(string); ok && strings.TrimSpace(l) != "" {
			ac.Log.Level = strings.TrimSpace(l)
		}
	}

	return ac
}

func applyEnv(ac *AppConfig) {
	if v := strings.TrimSpace(os.Getenv("KEEPSAKE_API_URL")); v != "" {
		ac.API.BaseURL = strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(os.Getenv("KEEPSAKE_WEB_URL")); v != "" {
		ac.WebBaseURL = strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(os.Getenv("KEEPSAKE_DB")); v != "" {
		ac.DatabasePath = v
	}
	if v := strings.TrimSpace(os.Getenv("KEEPSAKE_LOG_LEVEL")); v != "" {
		ac.Log.Level = v
	}
}

// durationValue accepts "10s"-style strings or a bare number of seconds.
func durationValue(v any) (time.Duration, bool) {
	switch t := v.(type) {
	case string:
		if d, err := time.ParseDuration(strings.TrimSpace(t)); err == nil && d > 0 {
			return d, true
		}
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil && n > 0 {
			return time.Duration(n) * time.Second, true
		}
	case int:
		if t > 0 {
			return time.Duration(t) * time.Second, true
		}
	case float64:
		if t > 0 {
			return time.Duration(t * float64(time.Second)), true
		}
	}
	return 0, false
}

func floatValue(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case float64:
		return t, true
	}
	return 0, false
}

func FallbackDBPath() string {
	if runtime.GOOS == "darwin" {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Keepsake", "keepsake.db")
	}

	return "keepsake.db"
}

func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "keepsake", "config.yaml"), nil
}

// ExpandPath expands leading ~ and environment variables in a filesystem path.
func ExpandPath(p string) string {
	if p == "" {
		return p
	}
	// Expand environment variables like $HOME
	p = os.ExpandEnv(p)
	// Expand leading ~
	if strings.HasPrefix(p, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			if p == "~" {
				p = home
			} else if strings.HasPrefix(p, "~/") {
				p = filepath.Join(home, p[2:])
			}
		}
	}
	return p
}
