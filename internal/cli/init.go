package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ppiankov/bskypulse/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create config directory with an example config",
	RunE:  initAction,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func initAction(_ *cobra.Command, _ []string) error {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	configPath := filepath.Join(configDir, config.DefaultConfigFile)
	wrote, err := writeIfNotExists(configPath, []byte(exampleConfig))
	if err != nil {
		return err
	}

	if !wrote {
		fmt.Printf("Config directory %s already initialized.\n", configDir)
		return nil
	}
	fmt.Printf("Initialized %s. Set your handle in %s and export %s with an app password.\n",
		configDir, configPath, config.DefaultPasswordEnv)
	return nil
}

// writeIfNotExists writes data to path if the file does not exist.
// Returns true if the file was created.
func writeIfNotExists(path string, data []byte) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		fmt.Printf("  exists: %s\n", path)
		return false, nil
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Printf("  created: %s\n", path)
	return true, nil
}

const exampleConfig = `# bskypulse configuration

account:
  handle: "your-handle.bsky.social"
  # The app password is read from this environment variable, never from this file.
  app_password_env: BSKY_APP_PASSWORD

api:
  base_url: https://bsky.social
  timeout: 30s
  requests_per_second: 5

fetch:
  include_replies: false
  include_reposts: false
  limit: 100
  # from: "2025-01-01"
  # to: "2025-03-31"

# Dates, times and the best hour are reported in this timezone.
# Run "bskypulse timezones" for a list.
timezone: "UTC"

export:
  dir: exports

analysis:
  top_topics: 3
  top_posts: 10

# Applied to exported CSVs and reports.
privacy:
  redact_mentions: false
  # redact:
  #   - "(?i)secret project"

log:
  level: info
`
