package cmd

import (
	"fmt"
	"os"
	"time"

	"polypost/internal/config"
	"polypost/internal/post"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var inspectHTML bool

type inspectSummary struct {
	Date         string `yaml:"date"`
	ID           string `yaml:"id"`
	SectionBytes struct {
		Primary   int `yaml:"primary"`
		Secondary int `yaml:"secondary"`
		Suffix    int `yaml:"suffix"`
	} `yaml:"section_bytes"`
	Warnings []string `yaml:"warnings,omitempty"`
}

// inspectCmd parses and assembles a post without touching the index,
// for checking what a Markdown file would turn into.
var inspectCmd = &cobra.Command{
	Use:   "inspect <markdown-file>",
	Short: "Show what a Markdown post would be assembled into",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect(cmd, GetConfig(), args[0], inspectHTML)
	},
}

func runInspect(cmd *cobra.Command, cfg config.Config, path string, asHTML bool) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var diags post.Diagnostics
	p, err := post.Parse(string(raw), time.Now(), &diags)
	if err != nil {
		return err
	}
	frag, err := newAssembler(cfg).Assemble(p)
	if err != nil {
		return err
	}

	if asHTML {
		fmt.Fprintln(cmd.OutOrStdout(), frag.HTML)
		return nil
	}

	summary := inspectSummary{
		Date: p.Date.Format("2006-01-02"),
		ID:   frag.ID,
	}
	summary.SectionBytes.Primary = len(p.Primary)
	summary.SectionBytes.Secondary = len(p.Secondary)
	summary.SectionBytes.Suffix = len(p.Suffix)
	for _, w := range diags.Warnings() {
		summary.Warnings = append(summary.Warnings, w.Message)
	}

	out, err := yaml.Marshal(summary)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().BoolVar(&inspectHTML, "html", false, "print the assembled HTML fragment instead of a summary")
}
