package coordinator

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sourcegraph/conc/iter"
	"go.uber.org/zap"

	"sitedata/internal/page"
)

// Coordinator loads pages concurrently and prints their views
type Coordinator struct {
	pages  []page.Page
	out    io.Writer
	logger *zap.Logger
}

// Option configures a Coordinator
type Option func(*Coordinator)

// WithOutput sets where views are printed. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(c *Coordinator) { c.out = w }
}

// WithLogger sets the logger used for per-page summaries
func WithLogger(logger *zap.Logger) Option {
	return func(c *Coordinator) { c.logger = logger }
}

// New creates a new Coordinator with the given pages
func New(pages []page.Page, opts ...Option) *Coordinator {
	c := &Coordinator{
		pages:  pages,
		out:    os.Stdout,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run loads every page concurrently, then prints the views in page order.
// Each view is preceded by a "==> NAME" line. A page that falls back is
// still printed; only a failure to write the output is returned.
func (c *Coordinator) Run(ctx context.Context) error {
	if len(c.pages) == 0 {
		return fmt.Errorf("no pages configured")
	}

	// One goroutine per page: a finance page can wait on a slow quote and
	// must not hold up the others.
	mapper := iter.Mapper[page.Page, page.View]{MaxGoroutines: len(c.pages)}
	views := mapper.Map(c.pages, func(p *page.Page) page.View {
		return (*p).Load(ctx)
	})

	for i, view := range views {
		name := c.pages[i].Name()
		c.logger.Info("page loaded",
			zap.String("page", name),
			zap.Bool("fallback", view.Fallback()))

		if _, err := fmt.Fprintf(c.out, "==> %s\n", name); err != nil {
			return fmt.Errorf("failed to write page %s: %w", name, err)
		}
		if err := view.Render(c.out); err != nil {
			return fmt.Errorf("failed to write page %s: %w", name, err)
		}
		if _, err := fmt.Fprintln(c.out); err != nil {
			return fmt.Errorf("failed to write page %s: %w", name, err)
		}
	}

	return nil
}
