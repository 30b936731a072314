package page

import (
	"context"
	"fmt"
	"strings"

	"github.com/sourcegraph/conc"

	"sitedata/internal/content"
	"sitedata/internal/contentful"
	"sitedata/internal/result"
)

// IndexPage shows the timeline and the technologies list. Each falls back
// on its own.
type IndexPage struct {
	client *contentful.Client
}

// NewIndexPage creates the landing page.
func NewIndexPage(client *contentful.Client) *IndexPage {
	return &IndexPage{client: client}
}

// Name implements Page.
func (p *IndexPage) Name() string { return "index" }

// Load implements Page.
func (p *IndexPage) Load(ctx context.Context) View {
	var (
		timeline result.Result[[]content.TimelineEvent, error]
		groups   result.Result[[]content.LanguageGroup, error]
	)

	// Failures travel in the Results; each section decides on its own.
	var wg conc.WaitGroup
	wg.Go(func() { timeline = content.FetchTimelineEvents(ctx, p.client) })
	wg.Go(func() { groups = content.FetchLanguageGroups(ctx, p.client) })
	wg.Wait()

	return View{
		Title:    "Home",
		Sections: []Section{timelineSection(timeline), languagesSection(groups)},
	}
}

func timelineSection(res result.Result[[]content.TimelineEvent, error]) Section {
	const heading = "Timeline"
	if res.IsErr() {
		return fallbackSection(heading)
	}

	s := Section{Heading: heading}
	for _, ev := range res.Unwrap() {
		s.Lines = append(s.Lines, fmt.Sprintf("%s | %s: %s", ev.DateString, ev.Title, ev.Description))
	}
	return s
}

func languagesSection(res result.Result[[]content.LanguageGroup, error]) Section {
	const heading = "Technologies"
	if res.IsErr() {
		return fallbackSection(heading)
	}

	s := Section{Heading: heading}
	for _, group := range res.Unwrap() {
		names := make([]string, 0, len(group.LanguagesCollection.Items))
		for _, lang := range group.LanguagesCollection.Items {
			names = append(names, lang.Name)
		}
		s.Lines = append(s.Lines, fmt.Sprintf("%s %s: %s", group.Emoji, group.Heading, strings.Join(names, ", ")))
	}
	return s
}
