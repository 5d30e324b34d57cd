package commands

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/leadsweep/leadsweep/internal/browser"
	"github.com/leadsweep/leadsweep/internal/logger"
	"github.com/leadsweep/leadsweep/internal/output"
	"github.com/leadsweep/leadsweep/internal/runner"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape business leads from directory URLs",
	Long: `Scrape one or more directory URLs into a deduplicated lead file.

Each URL is opened in a headless browser (or fetched statically with
--fetch-mode static), paginated up to --max-pages, and mined for
business cards. Leads are deduplicated across all URLs on the
business name and phone number.

Examples:
  # Basic run, three pages per URL, leads.json output
  leadsweep scrape -u "https://chamber.example.com/list/searchalpha/a"

  # Slower, deeper walk with page snapshots for debugging selectors
  leadsweep scrape -u "https://directory.example.com/members" \
      --max-pages 20 --delay-min 2s --delay-max 4s --save-pages ./pages`,
	RunE: runScrapeCmd,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	flags := scrapeCmd.Flags()

	flags.StringSliceP("url", "u", nil, "directory URL(s) to scrape (can be repeated)")

	// Output settings
	flags.StringP("out", "o", "leads.json", "output file path")
	flags.String("format", "json", "output format: json, jsonl, yaml")
	flags.Bool("compact", false, "write compact JSON instead of pretty-printed")
	flags.String("list-name", "Default", "list name stamped on every lead")

	// Pagination settings
	flags.Int("max-pages", 3, "max result pages to walk per URL")
	flags.Duration("delay-min", 800*time.Millisecond, "minimum delay between pages")
	flags.Duration("delay-max", 1600*time.Millisecond, "maximum delay between pages")

	// Fetch settings
	flags.String("fetch-mode", "dynamic", "fetch mode: dynamic (headless browser), static (plain HTTP)")
	flags.Duration("timeout", 30*time.Second, "per-page request timeout")
	flags.String("user-agent", "", "override the browser user-agent")
	flags.Bool("headless", true, "run the browser headless (use --headless=false to watch)")
	flags.String("save-pages", "", "dump each visited page's HTML into this directory")

	_ = scrapeCmd.MarkFlagRequired("url")
}

func runScrapeCmd(cmd *cobra.Command, args []string) error {
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := runner.DefaultOptions()
	opts.URLs, _ = cmd.Flags().GetStringSlice("url")
	opts.ListName, _ = cmd.Flags().GetString("list-name")
	opts.OutPath, _ = cmd.Flags().GetString("out")
	opts.MaxPages, _ = cmd.Flags().GetInt("max-pages")
	opts.DelayMin, _ = cmd.Flags().GetDuration("delay-min")
	opts.DelayMax, _ = cmd.Flags().GetDuration("delay-max")
	opts.Timeout, _ = cmd.Flags().GetDuration("timeout")
	opts.UserAgent, _ = cmd.Flags().GetString("user-agent")
	opts.Headless, _ = cmd.Flags().GetBool("headless")
	opts.SavePages, _ = cmd.Flags().GetString("save-pages")

	formatStr, _ := cmd.Flags().GetString("format")
	opts.Format = output.Format(formatStr)
	fetchModeStr, _ := cmd.Flags().GetString("fetch-mode")
	opts.FetchMode = browser.Mode(fetchModeStr)

	logger.Debug("scrape starting",
		"urls", len(opts.URLs),
		"list", opts.ListName,
		"max_pages", opts.MaxPages,
		"fetch_mode", opts.FetchMode)

	r, err := runner.New(opts)
	if err != nil {
		logger.Error("failed to start", "error", err)
		return err
	}
	defer func() { _ = r.Close() }()

	leads, err := r.Run(ctx)
	if err != nil {
		// Cancellation: still flush whatever was collected
		logger.Warn("run interrupted, saving partial results", "error", err, "leads", len(leads))
	}

	compact, _ := cmd.Flags().GetBool("compact")
	if err := runner.SaveLeads(opts.OutPath, opts.Format, leads, output.WithPretty(!compact)); err != nil {
		logger.Error("failed to save leads", "path", opts.OutPath, "error", err)
		return err
	}

	logger.Info("done", "leads", len(leads), "path", opts.OutPath)
	return nil
}
