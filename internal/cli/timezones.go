package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/bskypulse/internal/config"
)

var timezonesCmd = &cobra.Command{
	Use:   "timezones [prefix]",
	Short: "List common timezone names",
	Args:  cobra.MaximumNArgs(1),
	RunE:  timezonesAction,
}

func init() {
	rootCmd.AddCommand(timezonesCmd)
}

func timezonesAction(_ *cobra.Command, args []string) error {
	prefix := ""
	if len(args) > 0 {
		prefix = args[0]
	}
	zones := config.CommonTimezones(prefix)
	if len(zones) == 0 {
		return fmt.Errorf("no timezones match %q", prefix)
	}
	for _, tz := range zones {
		fmt.Println(tz)
	}
	return nil
}
