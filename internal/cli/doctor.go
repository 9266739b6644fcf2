package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/bskypulse/internal/config"
	"github.com/ppiankov/bskypulse/internal/store"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check config, credentials and environment",
	RunE:  doctorAction,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func doctorAction(cmd *cobra.Command, _ []string) error {
	ok := true

	// Config dir
	if info, err := os.Stat(configDir); err != nil || !info.IsDir() {
		printCheck(false, "config directory %s (run bskypulse init)", configDir)
		ok = false
	} else {
		printCheck(true, "config directory %s", configDir)
	}

	// Config file
	cfg, err := loadConfig(cmd)
	if err != nil {
		printCheck(false, "config.yaml: %v", err)
		ok = false
	} else if !config.Exists(configDir) {
		printInfo("no config.yaml, using defaults and environment")
	} else {
		printCheck(true, "config.yaml")
	}

	if cfg != nil {
		if err := cfg.Validate(); err != nil {
			var ve *config.ValidationError
			if errors.As(err, &ve) {
				printCheck(false, "%s: %s", ve.Field, ve.Reason)
			} else {
				printCheck(false, "config: %v", err)
			}
			ok = false
		} else {
			printCheck(true, "account @%s, limit %d, timezone %s",
				strings.TrimPrefix(cfg.Account.Handle, "@"), cfg.Fetch.Limit, cfg.Timezone)
		}

		// Date range
		if _, err := cfg.Resolve(); err != nil && cfg.Validate() == nil {
			printCheck(false, "date range: %v", err)
			ok = false
		}

		// Credentials
		if cfg.Account.AppPassword == "" {
			printCheck(false, "app password: $%s is not set", cfg.Account.AppPasswordEnv)
			ok = false
		} else {
			printCheck(true, "app password from $%s", cfg.Account.AppPasswordEnv)
		}

		// Export dir
		if err := checkWritableDir(cfg.Export.Dir); err != nil {
			printCheck(false, "export directory %s: %v", cfg.Export.Dir, err)
			ok = false
		} else {
			printCheck(true, "export directory %s", cfg.Export.Dir)
		}
	}

	// Analytics engine
	if st, err := store.Open(); err != nil {
		printCheck(false, "sqlite analytics engine: %v", err)
		ok = false
	} else {
		_ = st.Close()
		printCheck(true, "sqlite analytics engine")
	}

	if !ok {
		return fmt.Errorf("some checks failed")
	}
	fmt.Println("\nAll checks passed.")
	return nil
}

// checkWritableDir reports whether dir exists and accepts new files, or
// whether it could be created.
func checkWritableDir(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory")
	}
	f, err := os.CreateTemp(dir, ".bskypulse-doctor-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

func printCheck(pass bool, format string, args ...any) {
	mark := "FAIL"
	if pass {
		mark = " OK "
	}
	fmt.Printf("[%s] %s\n", mark, fmt.Sprintf(format, args...))
}

func printInfo(format string, args ...any) {
	fmt.Printf("[INFO] %s\n", fmt.Sprintf(format, args...))
}
