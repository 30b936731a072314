package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sitedata/internal/alphavantage"
	"sitedata/internal/config"
	"sitedata/internal/contentful"
	"sitedata/internal/coordinator"
	"sitedata/internal/logging"
	"sitedata/internal/page"
	"sitedata/internal/ratelimit"
	"sitedata/internal/subscription"
)

var fetchTimeout time.Duration

var rootCmd = &cobra.Command{
	Use:   "sitedata [page...]",
	Short: "Load the site pages and print what each would render",
	Long: `Loads content and market data for every page of the site, or only the
named pages, and prints each page or its fallback placeholder.

Page names: index, blog, blog/POST_ID, resume, finance/SEGMENT.`,
	RunE: run,
}

func init() {
	rootCmd.Flags().DurationVar(&fetchTimeout, "timeout", 30*time.Second, "Give up on pages still loading after this long")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Handle interrupt signals for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(cmd.ErrOrStderr(), "\nReceived interrupt signal, shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	s := newSite(cfg, logger, ratelimit.New())
	defer s.Close()

	pages, err := s.selectPages(args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	coord := coordinator.New(pages, coordinator.WithLogger(logger), coordinator.WithOutput(out))

	// Add timeout to prevent hanging indefinitely
	fetchCtx, fetchCancel := context.WithTimeout(ctx, fetchTimeout)
	defer fetchCancel()

	fmt.Fprintln(out, "Loading site pages...")
	fmt.Fprintln(out, "================================================")
	if err := coord.Run(fetchCtx); err != nil {
		return fmt.Errorf("coordinator failed: %w", err)
	}

	fmt.Fprintln(out, "================================================")
	fmt.Fprintln(out, "All pages loaded!")
	return nil
}

// site wires the clients and shared market data stores behind every page.
type site struct {
	cms       *contentful.Client
	quotes    *subscription.Store[alphavantage.Quote]
	companies *subscription.Store[alphavantage.Company]
}

func newSite(cfg *config.Config, logger *zap.Logger, limiter *ratelimit.Limiter) *site {
	cms := contentful.NewClient(cfg.ContentfulBaseURL, cfg.ContentfulSpaceID, cfg.ContentfulAccessToken,
		contentful.WithLogger(logger.Named("contentful")),
		contentful.WithLimiter(limiter))

	market := alphavantage.NewClient(cfg.AlphavantageAPIKey, cfg.AlphavantageBaseURL,
		alphavantage.WithLogger(logger.Named("alphavantage")),
		alphavantage.WithLimiter(limiter))

	storeLogger := logger.Named("subscription")
	return &site{
		cms: cms,
		quotes: subscription.NewStore(market.Quote,
			subscription.WithName("quote"),
			subscription.WithLogger(storeLogger)),
		companies: subscription.NewStore(market.Company,
			subscription.WithName("company"),
			subscription.WithLogger(storeLogger)),
	}
}

// Close stops every pending market data request.
func (s *site) Close() {
	s.quotes.Close()
	s.companies.Close()
}

// pages returns every page of the site.
func (s *site) pages() []page.Page {
	pages := []page.Page{
		page.NewIndexPage(s.cms),
		page.NewBlogPage(s.cms),
		page.NewResumePage(s.cms),
	}
	for _, h := range page.Holdings {
		pages = append(pages, page.NewFinancePage(h, s.quotes, s.companies))
	}
	return pages
}

// selectPages picks pages by name. No names selects every page; "blog/ID"
// selects the post with that id.
func (s *site) selectPages(names []string) ([]page.Page, error) {
	all := s.pages()
	if len(names) == 0 {
		return all, nil
	}

	byName := make(map[string]page.Page, len(all))
	for _, p := range all {
		byName[p.Name()] = p
	}

	var selected []page.Page
	for _, name := range names {
		if p, ok := byName[name]; ok {
			selected = append(selected, p)
			continue
		}
		if postID, ok := strings.CutPrefix(name, "blog/"); ok && postID != "" {
			selected = append(selected, page.NewBlogPostPage(s.cms, postID))
			continue
		}
		return nil, fmt.Errorf("unknown page %q", name)
	}
	return selected, nil
}
