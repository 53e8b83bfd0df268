package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/config"
	"github.com/sells-group/prospect-cli/internal/pipeline"
)

var (
	enrichInput        string
	enrichOutput       string
	enrichSkipContacts bool
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Enrich business names with LinkedIn page, website and contacts",
	Long: `Reads the business_name column of a CSV, resolves each name to its
LinkedIn company page and official website, crawls the website for emails and
phone numbers, and writes one row per name.

Example:
  prospect-cli enrich --input names.csv --output output.csv`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("enrich"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return runEnrich(ctx, cfg, enrichInput, enrichOutput, enrichSkipContacts, cmd.OutOrStdout())
	},
}

func runEnrich(ctx context.Context, c *config.Config, input, output string, skipContacts bool, stdout io.Writer) error {
	in, err := os.Open(input)
	if err != nil {
		return eris.Wrap(err, "enrich: open input")
	}
	defer in.Close() //nolint:errcheck

	names, err := pipeline.ReadNames(in)
	if err != nil {
		return eris.Wrapf(err, "enrich: read %s", input)
	}
	zap.L().Info("enrich: loaded names", zap.Int("count", len(names)), zap.String("input", input))

	var contacts pipeline.ContactFetcher
	if !skipContacts {
		contacts = newContactCrawler(c)
	}
	rows := pipeline.NewRunner(newEnricher(c), contacts).Run(ctx, names)

	out, err := os.Create(output)
	if err != nil {
		return eris.Wrap(err, "enrich: create output")
	}
	if err := pipeline.WriteRows(out, rows); err != nil {
		_ = out.Close()
		return eris.Wrapf(err, "enrich: write %s", output)
	}
	if err := out.Close(); err != nil {
		return eris.Wrap(err, "enrich: close output")
	}
	zap.L().Info("enrich: saved results", zap.String("output", output), zap.Int("rows", len(rows)))

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(rows); err != nil {
		return eris.Wrap(err, "enrich: print results")
	}

	if ctx.Err() != nil {
		return eris.Errorf("enrich: interrupted after %d of %d names", len(rows), len(names))
	}
	return nil
}

func init() {
	enrichCmd.Flags().StringVar(&enrichInput, "input", "sample_names.csv", "input CSV with a business_name column")
	enrichCmd.Flags().StringVar(&enrichOutput, "output", "output.csv", "output CSV path")
	enrichCmd.Flags().BoolVar(&enrichSkipContacts, "skip-contacts", false, "do not crawl websites for contact details")
	rootCmd.AddCommand(enrichCmd)
}
