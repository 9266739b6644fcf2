package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ppiankov/bskypulse/internal/bsky"
	"github.com/ppiankov/bskypulse/internal/config"
	"github.com/ppiankov/bskypulse/internal/fetch"
	"github.com/ppiankov/bskypulse/internal/logging"
	"github.com/ppiankov/bskypulse/internal/normalize"
	"github.com/ppiankov/bskypulse/internal/pipeline"
	"github.com/ppiankov/bskypulse/internal/privacy"
)

// fetchOptions are the flags shared by every command that talks to Bluesky.
type fetchOptions struct {
	handle   string
	limit    int
	from     string
	to       string
	timezone string
	replies  bool
	reposts  bool
	out      string
}

var fetchOpts fetchOptions

func addFetchFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&fetchOpts.handle, "handle", "", "account handle (e.g. alice.bsky.social)")
	f.IntVar(&fetchOpts.limit, "limit", config.DefaultLimit, "maximum number of posts (1-500)")
	f.StringVar(&fetchOpts.from, "from", "", "earliest local date to include (YYYY-MM-DD)")
	f.StringVar(&fetchOpts.to, "to", "", "latest local date to include (YYYY-MM-DD)")
	f.StringVar(&fetchOpts.timezone, "timezone", "", "IANA timezone for dates and times (e.g. Europe/London)")
	f.BoolVar(&fetchOpts.replies, "replies", false, "include replies")
	f.BoolVar(&fetchOpts.reposts, "reposts", false, "include reposts")
	f.StringVar(&fetchOpts.out, "out", "", "directory for CSV exports")
}

// loadConfig reads the config dir and applies flags the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("handle") {
		cfg.Account.Handle = fetchOpts.handle
	}
	if flags.Changed("limit") {
		cfg.Fetch.Limit = fetchOpts.limit
	}
	if flags.Changed("from") {
		cfg.Fetch.From = fetchOpts.from
	}
	if flags.Changed("to") {
		cfg.Fetch.To = fetchOpts.to
	}
	if flags.Changed("timezone") {
		cfg.Timezone = fetchOpts.timezone
	}
	if flags.Changed("replies") {
		cfg.Fetch.IncludeReplies = fetchOpts.replies
	}
	if flags.Changed("reposts") {
		cfg.Fetch.IncludeReposts = fetchOpts.reposts
	}
	if flags.Changed("out") {
		cfg.Export.Dir = fetchOpts.out
	}
	if strings.TrimSpace(logLevel) != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, nil
}

// prepare loads, overrides and validates config and builds the logger.
func prepare(cmd *cobra.Command) (*config.Runtime, zerolog.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	rt, err := cfg.Resolve()
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	log, err := logging.New(cfg.Log.Level, os.Stderr)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return rt, log, nil
}

// fetchPosts logs in and collects normalized records for rt.
func fetchPosts(ctx context.Context, rt *config.Runtime, log zerolog.Logger) (pipeline.Outcome, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	client, err := bsky.NewClient(rt.BaseURL, rt.Timeout, rt.RPS)
	if err != nil {
		return pipeline.Outcome{}, err
	}

	svc := pipeline.New(client, fetch.New(client, log), log)
	return svc.Run(ctx, pipeline.Request{
		Handle:      rt.Handle,
		AppPassword: rt.AppPassword,
		Filter: fetch.Filter{
			IncludeReplies: rt.IncludeReplies,
			ExcludeReposts: rt.ExcludeReposts,
			Limit:          rt.Limit,
			From:           rt.From,
			To:             rt.To,
		},
		Location: rt.Location,
	})
}

func printFetchSummary(w io.Writer, rt *config.Runtime, out pipeline.Outcome) {
	fmt.Fprintf(w, "Fetched %d posts for @%s (%d pages, %s)\n",
		len(out.Results), rt.Handle, out.Pages, out.State)
	if out.Skipped > 0 {
		fmt.Fprintf(w, "  %d posts skipped for an unreadable timestamp\n", out.Skipped)
	}
	if out.Degraded > 0 {
		fmt.Fprintf(w, "  %d posts have no usable timestamp; date and time left empty\n", out.Degraded)
	}
	if out.Partial() {
		fmt.Fprintf(w, "  fetch stopped early: %v\n", out.FetchErr)
	}
}

// outcomeRecords returns the fetched records with privacy redaction applied.
func outcomeRecords(rt *config.Runtime, out pipeline.Outcome) ([]normalize.Record, error) {
	redactor, err := privacy.New(rt.Redact, rt.RedactMentions)
	if err != nil {
		return nil, err
	}
	return redactor.Records(out.Records()), nil
}

// statusWriter keeps progress lines out of machine-readable reports.
func statusWriter(format string) io.Writer {
	if format == "terminal" || format == "" {
		return os.Stdout
	}
	return os.Stderr
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
