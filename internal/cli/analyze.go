package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/bskypulse/internal/analyze"
	"github.com/ppiankov/bskypulse/internal/export"
	"github.com/ppiankov/bskypulse/internal/normalize"
	"github.com/ppiankov/bskypulse/internal/privacy"
	"github.com/ppiankov/bskypulse/internal/report"
)

var (
	analyzeCSV   string
	reportFormat string
	noColor      bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Report the best time to post and top topics",
	Long:  "analyze fetches posts (or reads a CSV written by export) and prints the best hour to post, top topics, top posts, likes per day and a posting heatmap.",
	RunE:  analyzeAction,
}

func init() {
	addFetchFlags(analyzeCmd)
	addReportFlags(analyzeCmd)
	analyzeCmd.Flags().StringVar(&analyzeCSV, "csv", "", "analyze a previously exported CSV instead of fetching")
	rootCmd.AddCommand(analyzeCmd)
}

func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&reportFormat, "format", "terminal", "output format: terminal, json, markdown")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable ANSI colors")
}

func analyzeAction(cmd *cobra.Command, _ []string) error {
	formatter, err := newFormatter(reportFormat)
	if err != nil {
		return err
	}

	if analyzeCSV != "" {
		return analyzeFile(cmd, analyzeCSV, formatter)
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
	fmt.Fprintln(status)

	records, err := outcomeRecords(rt, out)
	if err != nil {
		return err
	}
	return renderReport(cmd.Context(), os.Stdout, formatter, records, analyze.Options{
		Handle:    rt.Handle,
		Timezone:  rt.Location.String(),
		TopTopics: rt.TopTopics,
		TopPosts:  rt.TopPosts,
	})
}

// analyzeFile reports on an exported CSV. Credentials are not needed and the
// handle is only a label, so a missing account is not an error.
func analyzeFile(cmd *cobra.Command, path string, formatter report.Formatter) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	check := *cfg
	if check.Account.Handle == "" {
		check.Account.Handle = "csv"
	}
	if err := check.Validate(); err != nil {
		return err
	}

	records, err := export.ReadFile(path)
	if err != nil {
		return err
	}
	redactor, err := privacy.New(cfg.Privacy.Redact, cfg.Privacy.RedactMentions)
	if err != nil {
		return err
	}
	records = redactor.Records(records)

	return renderReport(cmd.Context(), os.Stdout, formatter, records, analyze.Options{
		Handle:    cfg.Account.Handle,
		Timezone:  cfg.Timezone,
		TopTopics: cfg.Analysis.TopTopics,
		TopPosts:  cfg.Analysis.TopPosts,
	})
}

func renderReport(ctx context.Context, w io.Writer, formatter report.Formatter, records []normalize.Record, opts analyze.Options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	r, err := analyze.Build(ctx, records, opts)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	return formatter.Format(w, r)
}

func newFormatter(format string) (report.Formatter, error) {
	switch format {
	case "json":
		return report.NewJSON(), nil
	case "markdown", "md":
		return report.NewMarkdown(), nil
	case "terminal", "":
		return report.NewTerminal(!noColor && stdoutIsTerminal()), nil
	default:
		return nil, fmt.Errorf("unknown format %q (want terminal, json, or markdown)", format)
	}
}
