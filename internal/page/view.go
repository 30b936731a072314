// Package page decides, for each page of the site, whether its data can be
// shown or whether the page falls back to a placeholder.
package page

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Placeholder is rendered in place of any section whose data did not load.
const Placeholder = "Something went wrong while loading this content. Please try again later."

// Page loads the data behind one page of the site.
type Page interface {
	// Name identifies the page in output, e.g. "blog" or "finance/hess".
	Name() string
	// Load fetches the page data and builds its view. It never fails: data
	// that could not be loaded turns the affected section into a fallback.
	Load(ctx context.Context) View
}

// Section is an independently loaded part of a page.
type Section struct {
	Heading  string
	Lines    []string
	Fallback bool
}

// View is the render decision for a page.
type View struct {
	Title    string
	Sections []Section
}

// Fallback reports whether any section of the page shows the placeholder.
func (v View) Fallback() bool {
	for _, s := range v.Sections {
		if s.Fallback {
			return true
		}
	}
	return false
}

// Render writes the view as plain text.
func (v View) Render(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", v.Title)
	for _, s := range v.Sections {
		if s.Heading != "" {
			fmt.Fprintf(&b, "\n## %s\n", s.Heading)
		}
		if s.Fallback {
			fmt.Fprintf(&b, "%s\n", Placeholder)
			continue
		}
		for _, line := range s.Lines {
			fmt.Fprintf(&b, "%s\n", line)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func fallbackSection(heading string) Section {
	return Section{Heading: heading, Fallback: true}
}
