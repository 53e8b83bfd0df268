package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mitchellh/go-wordwrap"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/config"
	"github.com/sells-group/prospect-cli/internal/draft"
	"github.com/sells-group/prospect-cli/pkg/linkedin"
)

// wrapWidth is the column width of the printed draft.
const wrapWidth = 100

type postOptions struct {
	Subject    string
	Name       string
	Link       string
	Auto       bool
	MemberURN  string
	NoHashtags bool
}

var postOpts postOptions

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Draft a LinkedIn post with a generative model and publish it",
	Long: `Drafts a LinkedIn post about a subject, prints it for review and, after
confirmation, publishes it as the authenticated member.

Example:
  prospect-cli post --subject "Q3 hiring update" --name "Acme Inc" --link https://acme.com`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("post"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		d, err := newDrafter(ctx, cfg)
		if err != nil {
			return eris.Wrap(err, "post: build drafter")
		}
		return runPost(ctx, cfg, d, newPoster(cfg, postOpts.MemberURN), postOpts, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

// poster publishes a text post as the resolved member.
type poster interface {
	ResolveMember(ctx context.Context) (*linkedin.Member, error)
	CreateTextPost(ctx context.Context, text, visibility string) (map[string]any, error)
}

func runPost(ctx context.Context, c *config.Config, d *draft.Drafter, p poster, opts postOptions, stdin io.Reader, stdout io.Writer) error {
	post, err := d.Draft(ctx, draft.PromptInput{
		Subject:      opts.Subject,
		CompanyName:  opts.Name,
		Link:         opts.Link,
		Tone:         c.Draft.Tone,
		MaxChars:     c.Draft.MaxChars,
		WithHashtags: !opts.NoHashtags,
	})
	if err != nil {
		return eris.Wrap(err, "post: draft")
	}

	fmt.Fprintln(stdout, "\n--- Draft Post ---")
	fmt.Fprintln(stdout, wrapDraft(post.Text))
	fmt.Fprintln(stdout, "------------------")

	if !opts.Auto && !confirm(stdin, stdout, "Post this? (y/n): ") {
		fmt.Fprintln(stdout, "Cancelled.")
		return nil
	}

	author, err := p.ResolveMember(ctx)
	if err != nil {
		return eris.Wrap(err, "post: resolve author")
	}
	fmt.Fprintln(stdout, "Author URN:", author.URN)

	resp, err := p.CreateTextPost(ctx, post.Text, c.LinkedIn.Visibility)
	if err != nil {
		return eris.Wrap(err, "post: publish")
	}
	zap.L().Info("post: published", zap.String("author", author.URN), zap.String("model", post.Model))

	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return eris.Wrap(err, "post: encode response")
	}
	fmt.Fprintf(stdout, "Posted successfully.\nResponse: %s\n", out)
	return nil
}

func wrapDraft(text string) string {
	return wordwrap.WrapString(text, wrapWidth)
}

// confirm prints prompt and reports whether the next input line is "y".
func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return strings.ToLower(strings.TrimSpace(line)) == "y"
}

func init() {
	postCmd.Flags().StringVar(&postOpts.Subject, "subject", "", "what the post is about (required)")
	postCmd.Flags().StringVar(&postOpts.Name, "name", "", "company or person to feature")
	postCmd.Flags().StringVar(&postOpts.Link, "link", "", "link to include in the post")
	postCmd.Flags().BoolVar(&postOpts.Auto, "auto", false, "publish without asking for confirmation")
	postCmd.Flags().StringVar(&postOpts.MemberURN, "member-urn", "", "author URN override (urn:li:person:...)")
	postCmd.Flags().BoolVar(&postOpts.NoHashtags, "no-hashtags", false, "ask the model to omit hashtags")
	_ = postCmd.MarkFlagRequired("subject")
	rootCmd.AddCommand(postCmd)
}
