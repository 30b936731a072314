package page

import (
	"context"
	"fmt"
	"strings"

	"sitedata/internal/content"
	"sitedata/internal/contentful"
	"sitedata/internal/derive"
)

// BlogPage lists every post, the newest one featured first.
type BlogPage struct {
	client *contentful.Client
}

// NewBlogPage creates the blog index page.
func NewBlogPage(client *contentful.Client) *BlogPage {
	return &BlogPage{client: client}
}

// Name implements Page.
func (p *BlogPage) Name() string { return "blog" }

// Load implements Page.
func (p *BlogPage) Load(ctx context.Context) View {
	view := View{Title: "devDeque"}

	res := content.FetchBlogPosts(ctx, p.client)
	res.Match(
		func(posts []content.BlogPost) {
			if len(posts) == 0 {
				view.Sections = append(view.Sections, Section{Lines: []string{"No posts yet."}})
				return
			}
			view.Sections = append(view.Sections, Section{
				Heading: "Featured",
				Lines:   []string{postCard(posts[0])},
			})
			if len(posts) > 1 {
				s := Section{Heading: "More posts"}
				for _, post := range posts[1:] {
					s.Lines = append(s.Lines, postCard(post))
				}
				view.Sections = append(view.Sections, s)
			}
		},
		func(error) {
			view.Sections = append(view.Sections, fallbackSection(""))
		},
	)
	return view
}

// postCard summarizes a post on one line.
func postCard(post content.BlogPost) string {
	line := fmt.Sprintf("%s | %d min read | %s", publishDate(post), derive.ReadingTime(post.Body.JSON), post.Title)
	if len(post.TopicTags) > 0 {
		line += " [" + strings.Join(post.TopicTags, ", ") + "]"
	}
	return line
}

func publishDate(post content.BlogPost) string {
	date, err := derive.FormatFullDate(post.PublishDate)
	if err != nil {
		return post.PublishDate
	}
	return date
}

// BlogPostPage shows a single post.
type BlogPostPage struct {
	client *contentful.Client
	postID string
}

// NewBlogPostPage creates the page of the post with id postID.
func NewBlogPostPage(client *contentful.Client, postID string) *BlogPostPage {
	return &BlogPostPage{client: client, postID: postID}
}

// Name implements Page.
func (p *BlogPostPage) Name() string { return "blog/" + p.postID }

// Load implements Page.
func (p *BlogPostPage) Load(ctx context.Context) View {
	res := content.FetchBlogPost(ctx, p.client, p.postID)
	if res.IsErr() {
		return View{Title: p.postID, Sections: []Section{fallbackSection("")}}
	}

	post := res.Unwrap()
	header := Section{Lines: []string{
		fmt.Sprintf("%s | %d min read", publishDate(post), derive.ReadingTime(post.Body.JSON)),
	}}
	body := Section{}
	for _, para := range post.Body.JSON.Paragraphs() {
		if text := paragraphText(para); text != "" {
			body.Lines = append(body.Lines, text)
		}
	}
	return View{Title: post.Title, Sections: []Section{header, body}}
}

func paragraphText(n content.Node) string {
	var b strings.Builder
	for _, child := range n.Content {
		if child.NodeType == content.NodeText {
			b.WriteString(child.Value)
			continue
		}
		b.WriteString(paragraphText(child))
	}
	return b.String()
}
