package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/mdenrich/internal/format"
	"github.com/dgallion1/mdenrich/internal/images"
)

type organizeOptions struct {
	noBeautify  bool
	concurrency int
	timeout     time.Duration
}

func newOrganizeCmd(a *app) *cobra.Command {
	opts := &organizeOptions{}

	cmd := &cobra.Command{
		Use:   "organize <file> [base-url]",
		Short: "Download remote images next to the document and beautify it",
		Long: `Download every image the document references into an img/ directory
beside it, rewrite the references to ./img/<name>, and normalize spacing.

Relative image paths are resolved against base-url when given and left
alone otherwise. Images that fail to download keep their original link.

Examples:
  mdenrich organize docs/guide.md
  mdenrich organize docs/guide.md https://example.com/docs/`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			baseURL := ""
			if len(args) > 1 {
				baseURL = args[1]
			}
			return a.organize(cmd, args[0], baseURL, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.noBeautify, "no-beautify", false, "Only localize images; leave spacing untouched")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "Maximum parallel downloads (default from FETCH_CONCURRENCY)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Per-image download timeout (default from FETCH_TIMEOUT)")
	return cmd
}

func (a *app) organize(cmd *cobra.Command, file, baseURL string, opts *organizeOptions) error {
	info, err := os.Stat(file)
	if err != nil {
		return fmt.Errorf("read %s: %w", file, err)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read %s: %w", file, err)
	}

	fc := a.cfg.FetcherConfig()
	if opts.timeout > 0 {
		fc.Timeout = opts.timeout
	}
	concurrency := a.cfg.FetchConcurrency
	if opts.concurrency > 0 {
		concurrency = opts.concurrency
	}

	imgDir := filepath.Join(filepath.Dir(file), images.DefaultLinkDir)
	if err := os.MkdirAll(imgDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", imgDir, err)
	}

	log := a.log.WithField("file", file)
	cache := images.NewCache(imgDir, images.NewHTTPFetcher(fc), log)
	localizer := images.NewLocalizer(cache, images.DefaultLinkDir, concurrency, log)

	text, stats := localizer.Rewrite(cmd.Context(), string(data), baseURL)
	if !opts.noBeautify {
		text = format.Beautify(text)
	}

	if err := os.WriteFile(file, []byte(text), info.Mode().Perm()); err != nil {
		return fmt.Errorf("write %s: %w", file, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Organized %s: %d image(s) found, %d localized, %d cached, %d failed, %d skipped\n",
		file, stats.Found, stats.Localized, stats.Cached, stats.Failed, stats.Skipped)
	return nil
}
