package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/bskypulse/internal/config"
	"github.com/ppiankov/bskypulse/internal/export"
	"github.com/ppiankov/bskypulse/internal/normalize"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Fetch posts and write them to a CSV file",
	RunE:  exportAction,
}

func init() {
	addFetchFlags(exportCmd)
	rootCmd.AddCommand(exportCmd)
}

func exportAction(cmd *cobra.Command, _ []string) error {
	rt, log, err := prepare(cmd)
	if err != nil {
		return err
	}

	out, err := fetchPosts(cmd.Context(), rt, log)
	if err != nil {
		return err
	}
	printFetchSummary(os.Stdout, rt, out)

	records, err := outcomeRecords(rt, out)
	if err != nil {
		return err
	}
	_, err = writeExport(os.Stdout, rt, records, time.Now())
	return err
}

// writeExport writes records to a fresh file in the export dir and returns
// its path, or "" when there was nothing to write.
func writeExport(w io.Writer, rt *config.Runtime, records []normalize.Record, now time.Time) (string, error) {
	name := export.FileName(rt.Handle, rt.Location, now)
	path, err := export.WriteFile(rt.ExportDir, name, records)
	if err != nil {
		return "", fmt.Errorf("export csv: %w", err)
	}
	if path == "" {
		fmt.Fprintln(w, "No posts found; nothing exported.")
		return "", nil
	}
	fmt.Fprintf(w, "Exported %d posts to %s\n", len(records), path)
	return path, nil
}
