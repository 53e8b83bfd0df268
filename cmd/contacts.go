package main

import (
	"encoding/json"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var contactsURL string

var contactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "Crawl one website for emails and phone numbers",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("contacts"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		set := newContactCrawler(cfg).Fetch(ctx, contactsURL)

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(set), "contacts: print results")
	},
}

func init() {
	contactsCmd.Flags().StringVar(&contactsURL, "url", "", "website to crawl (required)")
	_ = contactsCmd.MarkFlagRequired("url")
	rootCmd.AddCommand(contactsCmd)
}
