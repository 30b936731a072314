// Package content holds the Contentful content models used by the site
// and the queries that load them.
package content

// Asset describes an image hosted by the content backend.
type Asset struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// RichText wraps a rich-text field as Contentful returns it.
type RichText struct {
	JSON Document `json:"json"`
}

// BlogPost is a single entry of the blog.
type BlogPost struct {
	PostID      string   `json:"postId"`
	Title       string   `json:"title"`
	PublishDate string   `json:"publishDate"`
	TopicTags   []string `json:"topicTags"`
	HeroBanner  Asset    `json:"heroBanner"`
	Body        RichText `json:"body"`
}

// TimelineEvent is one milestone on the index page.
type TimelineEvent struct {
	Title       string `json:"title"`
	DateString  string `json:"dateString"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

// Language is a technology listed inside a LanguageGroup.
type Language struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// LanguageGroup is a section of the technologies list.
type LanguageGroup struct {
	Heading             string `json:"heading"`
	Description         string `json:"description"`
	Emoji               string `json:"emoji"`
	EmojiLabel          string `json:"emojiLabel"`
	LanguagesCollection struct {
		Items []Language `json:"items"`
	} `json:"languagesCollection"`
}

// Subsection is one entry inside a tabbed resume section.
type Subsection struct {
	Heading     string   `json:"heading"`
	Subheading  string   `json:"subheading"`
	DateString  string   `json:"dateString"`
	Description []string `json:"description"`
}

// ResumeTab is a resume section rendered as tabs.
type ResumeTab struct {
	Heading     string
	Subsections []Subsection
}

// ResumeBubbles is a resume section rendered as a list of short items.
type ResumeBubbles struct {
	Heading string   `json:"heading"`
	Items   []string `json:"items"`
}

// Resume gathers every resume section.
type Resume struct {
	Tabs    []ResumeTab
	Bubbles []ResumeBubbles
}
