package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/samvad-hq/gladstart-reader/internal/app"
	"github.com/samvad-hq/gladstart-reader/internal/config"
	"github.com/samvad-hq/gladstart-reader/internal/domain"
	"github.com/samvad-hq/gladstart-reader/internal/logger"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type feedFlags struct {
	region   string
	topics   []string
	sources  []string
	minScore float64
	pages    int
	json     bool
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gladstart",
		Short:         "Terminal reader for positive Swedish news",
		Long:          "gladstart browses the GladStart positive-news API: a filtered, infinitely scrolling article feed, user posts and regional positivity.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withReader(cmd.Context(), func(ctx context.Context, r *app.Reader) error {
				return r.Run(ctx)
			})
		},
	}

	root.AddCommand(newFeedCmd(), newArticleCmd(), newVersionCmd())
	return root
}

func newFeedCmd() *cobra.Command {
	var flags feedFlags
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Print matching articles without starting the UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}
			return withReader(cmd.Context(), func(ctx context.Context, r *app.Reader) error {
				return r.Feed(ctx, opts, cmd.OutOrStdout())
			})
		},
	}
	cmd.Flags().StringVar(&flags.region, "region", domain.AllRegions, "region name (all for every region)")
	cmd.Flags().StringSliceVar(&flags.topics, "topic", nil, "topic name, repeatable")
	cmd.Flags().StringSliceVar(&flags.sources, "source", nil, "source name, repeatable")
	cmd.Flags().Float64Var(&flags.minScore, "min-score", domain.DefaultMinScore, "minimum positivity score (0.5-1.0 in steps of 0.05)")
	cmd.Flags().IntVar(&flags.pages, "pages", 1, "number of pages to fetch")
	cmd.Flags().BoolVar(&flags.json, "json", false, "print JSON instead of a table")
	return cmd
}

func (f feedFlags) options() (app.FeedOptions, error) {
	if f.minScore < domain.MinScoreFloor || f.minScore > domain.MinScoreCeil {
		return app.FeedOptions{}, fmt.Errorf("--min-score must be between %.2f and %.2f", domain.MinScoreFloor, domain.MinScoreCeil)
	}
	if !domain.OnScoreStep(f.minScore) {
		return app.FeedOptions{}, fmt.Errorf("--min-score must be a multiple of %.2f, got %v", domain.MinScoreStep, f.minScore)
	}
	if f.pages < 1 {
		return app.FeedOptions{}, fmt.Errorf("--pages must be at least 1")
	}
	return app.FeedOptions{
		Region:   f.region,
		Topics:   f.topics,
		Sources:  f.sources,
		MinScore: f.minScore,
		Pages:    f.pages,
		JSON:     f.json,
	}, nil
}

func newArticleCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "article <id>",
		Short: "Print a single article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withReader(cmd.Context(), func(ctx context.Context, r *app.Reader) error {
				return r.Article(ctx, id, asJSON, cmd.OutOrStdout())
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gladstart %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid article id %q", raw)
	}
	return id, nil
}

// withReader loads config and logging, builds the runtime and runs fn under a
// signal-aware context.
func withReader(parent context.Context, fn func(context.Context, *app.Reader) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("gladstart starting", "config", cfg)

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	reader, err := app.NewReader(cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize reader", "error", err)
		return err
	}
	return fn(ctx, reader)
}
