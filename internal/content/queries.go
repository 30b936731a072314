package content

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"sitedata/internal/contentful"
	"sitedata/internal/fetcher"
	"sitedata/internal/result"
)

const blogPostFields = `
      postId
      title
      publishDate
      topicTags
      heroBanner { title url width height }
      body { json }`

// BlogPostsQuery lists every blog post, newest first.
const BlogPostsQuery = `query BlogPosts {
  blogPostCollection(order: publishDate_DESC) {
    items {` + blogPostFields + `
    }
  }
}`

// BlogPostQuery loads one blog post by its postId.
const BlogPostQuery = `query BlogPost($postId: String!) {
  blogPostCollection(where: { postId: $postId }, limit: 1) {
    items {` + blogPostFields + `
    }
  }
}`

// TimelineQuery loads the index page timeline.
const TimelineQuery = `query TimelineEvents {
  timelineEventCollection(order: order_ASC) {
    items { title dateString description type }
  }
}`

// LanguageGroupsQuery loads the technology groups of the index page.
const LanguageGroupsQuery = `query LanguageGroups {
  languageGroupCollection(order: order_ASC) {
    items {
      heading
      description
      emoji
      emojiLabel
      languagesCollection { items { name url } }
    }
  }
}`

// ResumeSectionsQuery loads both kinds of resume section.
const ResumeSectionsQuery = `query ResumeSections {
  resumeTabSectionCollection(order: order_ASC) {
    items {
      heading
      subsectionsCollection { items { heading subheading dateString description } }
    }
  }
  resumeBubblesSectionCollection(order: order_ASC) {
    items { heading items }
  }
}`

type blogPostsData struct {
	BlogPostCollection *struct {
		Items []BlogPost `json:"items"`
	} `json:"blogPostCollection"`
}

func (d blogPostsData) Validate() error {
	if d.BlogPostCollection == nil {
		return errors.New("blogPostCollection missing from response")
	}
	return nil
}

type timelineData struct {
	TimelineEventCollection *struct {
		Items []TimelineEvent `json:"items"`
	} `json:"timelineEventCollection"`
}

func (d timelineData) Validate() error {
	if d.TimelineEventCollection == nil {
		return errors.New("timelineEventCollection missing from response")
	}
	return nil
}

type languageGroupsData struct {
	LanguageGroupCollection *struct {
		Items []LanguageGroup `json:"items"`
	} `json:"languageGroupCollection"`
}

func (d languageGroupsData) Validate() error {
	if d.LanguageGroupCollection == nil {
		return errors.New("languageGroupCollection missing from response")
	}
	return nil
}

type resumeData struct {
	ResumeTabSectionCollection *struct {
		Items []struct {
			Heading               string `json:"heading"`
			SubsectionsCollection struct {
				Items []Subsection `json:"items"`
			} `json:"subsectionsCollection"`
		} `json:"items"`
	} `json:"resumeTabSectionCollection"`
	ResumeBubblesSectionCollection *struct {
		Items []ResumeBubbles `json:"items"`
	} `json:"resumeBubblesSectionCollection"`
}

func (d resumeData) Validate() error {
	if d.ResumeTabSectionCollection == nil || d.ResumeBubblesSectionCollection == nil {
		return errors.New("resume sections missing from response")
	}
	return nil
}

// FetchBlogPosts loads every blog post.
func FetchBlogPosts(ctx context.Context, c *contentful.Client) result.Result[[]BlogPost, error] {
	res := contentful.Query[blogPostsData](ctx, c, BlogPostsQuery, nil)
	if res.IsErr() {
		return result.Err[[]BlogPost](res.UnwrapErr())
	}
	return result.Ok[[]BlogPost, error](res.Unwrap().BlogPostCollection.Items)
}

// FetchBlogPost loads the post with the given id. A missing post is an Err.
func FetchBlogPost(ctx context.Context, c *contentful.Client, postID string) result.Result[BlogPost, error] {
	res := contentful.Query[blogPostsData](ctx, c, BlogPostQuery, map[string]any{"postId": postID})
	if res.IsErr() {
		return result.Err[BlogPost](res.UnwrapErr())
	}
	items := res.Unwrap().BlogPostCollection.Items
	if len(items) == 0 {
		err := fetcher.NewParseError(fmt.Sprintf("no blog post with id %q", postID), nil)
		c.Logger().Error("blog post lookup failed", zap.String("post_id", postID), zap.Error(err))
		return result.Err[BlogPost](error(err))
	}
	return result.Ok[BlogPost, error](items[0])
}

// FetchTimelineEvents loads the index page timeline.
func FetchTimelineEvents(ctx context.Context, c *contentful.Client) result.Result[[]TimelineEvent, error] {
	res := contentful.Query[timelineData](ctx, c, TimelineQuery, nil)
	if res.IsErr() {
		return result.Err[[]TimelineEvent](res.UnwrapErr())
	}
	return result.Ok[[]TimelineEvent, error](res.Unwrap().TimelineEventCollection.Items)
}

// FetchLanguageGroups loads the index page technology groups.
func FetchLanguageGroups(ctx context.Context, c *contentful.Client) result.Result[[]LanguageGroup, error] {
	res := contentful.Query[languageGroupsData](ctx, c, LanguageGroupsQuery, nil)
	if res.IsErr() {
		return result.Err[[]LanguageGroup](res.UnwrapErr())
	}
	return result.Ok[[]LanguageGroup, error](res.Unwrap().LanguageGroupCollection.Items)
}

// FetchResume loads the resume sections and flattens their collections.
func FetchResume(ctx context.Context, c *contentful.Client) result.Result[Resume, error] {
	res := contentful.Query[resumeData](ctx, c, ResumeSectionsQuery, nil)
	if res.IsErr() {
		return result.Err[Resume](res.UnwrapErr())
	}

	data := res.Unwrap()
	resume := Resume{Bubbles: data.ResumeBubblesSectionCollection.Items}
	for _, tab := range data.ResumeTabSectionCollection.Items {
		resume.Tabs = append(resume.Tabs, ResumeTab{
			Heading:     tab.Heading,
			Subsections: tab.SubsectionsCollection.Items,
		})
	}
	return result.Ok[Resume, error](resume)
}
