package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// WriteConfig renders ac as a commented YAML file at path. An existing file is
// backed up first.
func WriteConfig(path string, ac AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		if err := BackupFile(path); err != nil {
			return fmt.Errorf("failed to back up existing config: %w", err)
		}
	}

	// Manually render YAML so the file carries comments
	var sb strings.Builder
	sb.WriteString("# Keepsake configuration\n")

	sb.WriteString("api:\n")
	sb.WriteString("  # where the capsule, gift and music endpoints live\n")
	sb.WriteString(fmt.Sprintf("  base_url: %q\n", ac.API.BaseURL))
	sb.WriteString(fmt.Sprintf("  timeout: %q\n", ac.API.Timeout.String()))
	sb.WriteString("  # requests per second, 0 disables the limit\n")
	sb.WriteString(fmt.Sprintf("  rate_limit: %s\n", formatFloat(ac.API.RateLimit)))

	sb.WriteString("web:\n")
	sb.WriteString("  # base of the shareable view links\n")
	sb.WriteString(fmt.Sprintf("  base_url: %q\n", ac.WebBaseURL))

	if strings.TrimSpace(ac.DatabasePath) != "" {
		sb.WriteString("database:\n")
		sb.WriteString(fmt.Sprintf("  path: %q\n", ac.DatabasePath))
	}

	if len(ac.GiftTemplates) > 0 {
		sb.WriteString("gift:\n")
		sb.WriteString("  templates:\n")
		for _, t := range ac.GiftTemplates {
			sb.WriteString(fmt.Sprintf("    - %q\n", strings.TrimSpace(t)))
		}
	}

	sb.WriteString("log:\n")
	if strings.TrimSpace(ac.Log.File) != "" {
		sb.WriteString(fmt.Sprintf("  file: %q\n", ac.Log.File))
	}
	sb.WriteString(fmt.Sprintf("  level: %q\n", ac.Log.Level))

	return os.WriteFile(path, []byte(sb.String()), 0o644)
}

func formatFloat(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}

// BackupFile creates a backup of the specified file with a timestamp
func BackupFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	ts := time.Now().Format("20060102-150405")
	bak := path + ".bak-" + ts
	return os.WriteFile(bak, b, 0o644)
}
