package page

import (
	"context"
	"fmt"
	"strings"

	"sitedata/internal/content"
	"sitedata/internal/contentful"
)

// ResumePage shows the tabbed and bubble sections of the resume.
type ResumePage struct {
	client *contentful.Client
}

// NewResumePage creates the resume page.
func NewResumePage(client *contentful.Client) *ResumePage {
	return &ResumePage{client: client}
}

// Name implements Page.
func (p *ResumePage) Name() string { return "resume" }

// Load implements Page.
func (p *ResumePage) Load(ctx context.Context) View {
	view := View{Title: "Resume"}

	res := content.FetchResume(ctx, p.client)
	if res.IsErr() {
		view.Sections = []Section{fallbackSection("")}
		return view
	}

	resume := res.Unwrap()
	for _, tab := range resume.Tabs {
		s := Section{Heading: tab.Heading}
		for _, sub := range tab.Subsections {
			line := sub.Heading
			if sub.Subheading != "" {
				line += ", " + sub.Subheading
			}
			if sub.DateString != "" {
				line += fmt.Sprintf(" (%s)", sub.DateString)
			}
			s.Lines = append(s.Lines, line)
			for _, d := range sub.Description {
				s.Lines = append(s.Lines, "  - "+d)
			}
		}
		view.Sections = append(view.Sections, s)
	}
	for _, b := range resume.Bubbles {
		view.Sections = append(view.Sections, Section{
			Heading: b.Heading,
			Lines:   []string{strings.Join(b.Items, ", ")},
		})
	}
	return view
}
