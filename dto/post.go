package dto

import (
	"sort"
	"time"

	"folio/models"
)

// CategoryRef is the display projection of a category reference.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type PageDTO struct {
	ID         string `json:"id,omitempty"`
	PageNumber int    `json:"pageNumber"`
	Title      string `json:"title"`
	Content    string `json:"content"`
}

// PostDTO is the wire projection of a post: plain data only, dates as
// ISO-8601 strings or null, category references resolved, pages sorted
// ascending by page number.
type PostDTO struct {
	ID          string        `json:"id"`
	Slug        string        `json:"slug"`
	Title       string        `json:"title"`
	Description *string       `json:"description"`
	Author      string        `json:"author"`
	Image       *string       `json:"image"`
	Tags        []string      `json:"tags"`
	Published   bool          `json:"published"`
	Views       int64         `json:"views"`
	Section     string        `json:"section"`
	CreatedAt   *string       `json:"createdAt"`
	UpdatedAt   *string       `json:"updatedAt"`
	Pages       []PageDTO     `json:"pages"`
	Categories  []CategoryRef `json:"categories"`
}

// NewPostDTO maps a stored post to its wire projection. cats supplies the
// resolved category documents; references without a match are dropped.
func NewPostDTO(p models.Post, cats map[string]models.Category) PostDTO {
	pages := make([]PageDTO, 0, len(p.Pages))
	for _, pg := range p.Pages {
		pages = append(pages, PageDTO{
			ID:         pg.ID,
			PageNumber: pg.PageNumber,
			Title:      pg.Title,
			Content:    pg.Content,
		})
	}
	sort.SliceStable(pages, func(i, j int) bool {
		return pages[i].PageNumber < pages[j].PageNumber
	})

	refs := make([]CategoryRef, 0, len(p.Categories))
	for _, id := range p.Categories {
		if c, ok := cats[id.Hex()]; ok {
			refs = append(refs, CategoryRef{ID: c.ID.Hex(), Name: c.Name, Slug: c.Slug})
		}
	}

	return PostDTO{
		ID:          p.ID.Hex(),
		Slug:        p.Slug,
		Title:       p.Title,
		Description: optString(p.Description),
		Author:      p.Author,
		Image:       optString(p.Image),
		Tags:        coalesce(p.Tags),
		Published:   p.Published,
		Views:       p.Views,
		Section:     string(p.Section),
		CreatedAt:   isoTime(p.CreatedAt),
		UpdatedAt:   isoTime(p.UpdatedAt),
		Pages:       pages,
		Categories:  refs,
	}
}

// JumpEntry is one item of the page navigation jump list.
type JumpEntry struct {
	PageNumber int    `json:"pageNumber"`
	Title      string `json:"title"`
}

// RenderedPage is the navigation envelope for a single rendered page.
type RenderedPage struct {
	PageNumber      int         `json:"pageNumber"`
	Title           string      `json:"title"`
	ContentMarkdown string      `json:"contentMarkdown"`
	ContentHTML     string      `json:"contentHtml"`
	PrevPageNumber  *int        `json:"prevPageNumber"`
	NextPageNumber  *int        `json:"nextPageNumber"`
	PagesCount      int         `json:"pagesCount"`
	JumpTo          []JumpEntry `json:"jumpTo"`
}

func isoTime(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func coalesce(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}
