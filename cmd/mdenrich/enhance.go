package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dgallion1/mdenrich/internal/enhance"
	"github.com/dgallion1/mdenrich/internal/report"
	"github.com/dgallion1/mdenrich/internal/taxonomy"
)

type enhanceOptions struct {
	analyze  bool
	suggest  bool
	enhance  bool
	locale   string
	taxonomy string
}

func newEnhanceCmd(a *app) *cobra.Command {
	opts := &enhanceOptions{}

	cmd := &cobra.Command{
		Use:   "enhance (--analyze|--suggest|--enhance) <file>",
		Short: "Analyze a tutorial or insert its missing sections",
		Long: `Analyze the structure of a Markdown tutorial.

  --analyze  print a short summary
  --suggest  print the full enhancement report
  --enhance  insert missing objectives, prerequisites and FAQ, writing the file back

Examples:
  mdenrich enhance --suggest docs/guide.md
  mdenrich enhance --enhance --locale zh docs/guide.md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.enhance(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.analyze, "analyze", false, "Print a document summary")
	cmd.Flags().BoolVar(&opts.suggest, "suggest", false, "Print the enhancement report")
	cmd.Flags().BoolVar(&opts.enhance, "enhance", false, "Insert missing sections in place")
	cmd.Flags().StringVar(&opts.locale, "locale", "", "Taxonomy locale (default from MDENRICH_LOCALE)")
	cmd.Flags().StringVar(&opts.taxonomy, "taxonomy", "", "Path to a custom taxonomy YAML file")

	cmd.MarkFlagsMutuallyExclusive("analyze", "suggest", "enhance")
	cmd.MarkFlagsOneRequired("analyze", "suggest", "enhance")
	return cmd
}

func (a *app) enhance(cmd *cobra.Command, file string, opts *enhanceOptions) error {
	locale := a.cfg.Locale
	if opts.locale != "" {
		locale = opts.locale
	}
	path := a.cfg.TaxonomyPath
	if opts.taxonomy != "" {
		path = opts.taxonomy
	}
	tax, err := taxonomy.Resolve(path, locale)
	if err != nil {
		return err
	}

	info, err := os.Stat(file)
	if err != nil {
		return fmt.Errorf("read %s: %w", file, err)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read %s: %w", file, err)
	}

	e := enhance.New(tax)
	name := filepath.Base(file)
	out := cmd.OutOrStdout()

	switch {
	case opts.analyze:
		fmt.Fprint(out, report.Summary(name, e.Analyze(string(data)), tax))
	case opts.suggest:
		fmt.Fprint(out, report.Suggest(name, e.Analyze(string(data)), tax))
	case opts.enhance:
		text, _, inserted := e.Enhance(string(data))
		if len(inserted) == 0 {
			fmt.Fprintln(out, taxonomy.Format(tax.Messages.Unchanged, "file", name))
			return nil
		}
		if err := os.WriteFile(file, []byte(text), info.Mode().Perm()); err != nil {
			return fmt.Errorf("write %s: %w", file, err)
		}
		a.log.WithFields(logrus.Fields{"file": file, "sections": inserted}).Debug("sections inserted")
		fmt.Fprintln(out, taxonomy.Format(tax.Messages.Enhanced, "file", name))
	}
	return nil
}
