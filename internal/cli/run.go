package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/bskypulse/internal/analyze"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch posts once, export them and print the report",
	RunE:  runAction,
}

func init() {
	addFetchFlags(runCmd)
	addReportFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

func runAction(cmd *cobra.Command, _ []string) error {
	formatter, err := newFormatter(reportFormat)
	if err != nil {
		return err
	}

	rt, log, err := prepare(cmd)
	if err != nil {
		return err
	}
	out, err := fetchPosts(cmd.Context(), rt, log)
	if err != nil {
		return err
	}
	status := statusWriter(reportFormat)
	printFetchSummary(status, rt, out)

	records, err := outcomeRecords(rt, out)
	if err != nil {
		return err
	}
	if _, err := writeExport(status, rt, records, time.Now()); err != nil {
		return err
	}
	fmt.Fprintln(status)

	return renderReport(cmd.Context(), os.Stdout, formatter, records, analyze.Options{
		Handle:    rt.Handle,
		Timezone:  rt.Location.String(),
		TopTopics: rt.TopTopics,
		TopPosts:  rt.TopPosts,
	})
}
