package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"polypost/internal/config"
	"polypost/internal/input"
	"polypost/internal/markdown"
	"polypost/internal/post"
	"polypost/internal/preview"
	"polypost/internal/recovery"
	"polypost/internal/site"

	"github.com/spf13/cobra"
)

var postNoPreview bool

// errInterrupted reports a SIGINT while waiting for post input.
var errInterrupted = errors.New("interrupted")

// postCmd runs the whole pipeline: gather Markdown input, render and
// assemble the bilingual fragment, insert it into the site index, and
// serve the site for a look at the result.
var postCmd = &cobra.Command{
	Use:   "post [markdown-file]",
	Short: "Render a bilingual post and insert it into the site index",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		if len(args) > 0 {
			path = args[0]
		}
		return runPostCommand(cmd, GetConfig(), path, postNoPreview)
	},
}

func runPostCommand(cmd *cobra.Command, cfg config.Config, path string, noPreview bool) error {
	rec := recovery.NewStore(cfg.Recovery.Path)

	raw, src, err := gatherInput(cmd, path, rec)
	if errors.Is(err, errInterrupted) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Interrupt. No post.")
		os.Exit(1)
	}
	if err != nil {
		return err
	}

	if strings.TrimSpace(raw) == "" {
		// A consumed recovery file with nothing usable in it would
		// wedge every later run on the same no-op.
		if src == input.SourceRecovery {
			if err := rec.Clear(); err != nil {
				return err
			}
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "No Markdown code given. No post.")
		return nil
	}

	frag, warnings, err := runPost(cfg, rec, raw, time.Now())
	for _, w := range warnings {
		slog.Warn(w.Message, "code", w.Code)
	}
	if err != nil {
		return err
	}
	slog.Info("post: inserted", "id", frag.ID, "index", cfg.Site.Index)

	if noPreview {
		return nil
	}

	srv, err := preview.Listen(cfg.Preview.Addr, cfg.Site.Dir)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintf(out, "=== Post added. Check it out at %s ===\n", srv.URL())
	fmt.Fprintln(out, "(Ctrl+C to end service)")
	return runUntilInterrupt(srv)
}

func init() {
	rootCmd.AddCommand(postCmd)

	postCmd.Flags().BoolVar(&postNoPreview, "no-preview", false, "skip serving the site after inserting the post")
}

// gatherInput reads the post source, watching for SIGINT during the
// read.
func gatherInput(cmd *cobra.Command, path string, rec *recovery.Store) (string, input.Source, error) {
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT)
	defer signal.Stop(sigc)

	type readResult struct {
		raw string
		src input.Source
		err error
	}
	resc := make(chan readResult, 1)
	go func() {
		r := &input.Reader{
			Recovery: rec,
			Stdin:    cmd.InOrStdin(),
			Prompt:   cmd.OutOrStdout(),
		}
		raw, src, err := r.Read(path)
		resc <- readResult{raw: raw, src: src, err: err}
	}()

	select {
	case res := <-resc:
		return res.raw, res.src, res.err
	case <-sigc:
		return "", 0, errInterrupted
	}
}

// runPost executes the insert pipeline on gathered input: back the raw
// text up, build the fragment, insert it into the index, and drop the
// backup once the index write has succeeded.
func runPost(cfg config.Config, rec *recovery.Store, raw string, now time.Time) (*post.Fragment, []post.Warning, error) {
	if err := rec.Write(raw); err != nil {
		return nil, nil, err
	}

	var diags post.Diagnostics
	p, err := post.Parse(raw, now, &diags)
	if err != nil {
		return nil, diags.Warnings(), withRecoveryNotice(err, rec.Path)
	}

	frag, err := newAssembler(cfg).Assemble(p)
	if err != nil {
		return nil, diags.Warnings(), withRecoveryNotice(err, rec.Path)
	}

	ins := &site.Inserter{Path: cfg.Site.Index, Container: cfg.Site.Container}
	if err := ins.Insert(frag.HTML); err != nil {
		return nil, diags.Warnings(), withRecoveryNotice(err, rec.Path)
	}

	if err := rec.Clear(); err != nil {
		return frag, diags.Warnings(), err
	}
	return frag, diags.Warnings(), nil
}

func newAssembler(cfg config.Config) *post.Assembler {
	return &post.Assembler{
		Renderer:      markdown.NewRenderer(cfg.Highlight.Style),
		PrimaryLang:   cfg.Languages.Primary,
		SecondaryLang: cfg.Languages.Secondary,
		SelfLink:      cfg.Post.SelfLink,
		SelfLinkText:  cfg.Post.SelfLinkText,
	}
}

// withRecoveryNotice reminds the operator that the raw input survived
// the failed run and how to pick it back up.
func withRecoveryNotice(err error, path string) error {
	return fmt.Errorf("%w\n=== Markdown code is backed up in %s. Run again without argument to resume. ===", err, path)
}
