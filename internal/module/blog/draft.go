package blog

import (
	"slices"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/Thutra02/mypham-fe/internal/domain"
	"github.com/Thutra02/mypham-fe/internal/form"
)

// policy strips scripts, event handlers and other unsafe markup from the
// editor output while keeping ordinary formatting.
var policy = bluemonday.UGCPolicy()

// Sanitize returns content safe to store and render.
func Sanitize(content string) string {
	return strings.TrimSpace(policy.Sanitize(content))
}

// Draft is the blog post form. Tags are picked from the known tags or typed
// as a comma separated list of new names.
type Draft struct {
	Title      string            `form:"title" label:"Title" validate:"required,max=255"`
	Content    string            `form:"content" label:"Content" validate:"required"`
	Image      string            `form:"image" label:"Image" validate:"max=500"`
	Status     domain.BlogStatus `form:"status" label:"Status" validate:"required,oneof=DRAFT PUBLISHED"`
	CategoryID uint              `form:"categoryId" label:"Category" validate:"required"`
	AuthorID   uint              `form:"authorId" label:"Author" validate:"required"`
	Tags       []string          `form:"tags" label:"Tags"`
	NewTags    string            `form:"newTags" label:"New tags" validate:"max=500"`
}

// Hydrate fills the draft from a fetched post, including its tag names.
func (d *Draft) Hydrate(b domain.Blog) {
	d.Title = b.Title
	d.Content = b.Content
	d.Image = b.Image
	d.Status = b.Status
	d.CategoryID = 0
	if b.Category != nil {
		d.CategoryID = b.Category.ID
	}
	d.AuthorID = b.Author.ID
	d.Tags = b.TagNames()
	d.NewTags = ""
}

// TagNames returns the selected and newly typed tag names, trimmed and
// without duplicates, in input order.
func (d *Draft) TagNames() []string {
	names := make([]string, 0, len(d.Tags))
	add := func(n string) {
		n = strings.TrimSpace(n)
		if n != "" && !slices.Contains(names, n) {
			names = append(names, n)
		}
	}
	for _, n := range d.Tags {
		add(n)
	}
	for _, n := range strings.Split(d.NewTags, ",") {
		add(n)
	}
	return names
}

// Payload builds the post to send. Related records are referenced by id and
// tags by name; the API resolves them.
func (d *Draft) Payload(orig *domain.Blog, now time.Time) domain.Blog {
	var b domain.Blog
	if orig != nil {
		b = *orig
	} else {
		b.CreatedDate = now
	}
	b.Title = strings.TrimSpace(d.Title)
	b.Content = Sanitize(d.Content)
	b.Image = d.Image
	b.Status = d.Status

	if b.Category == nil || b.Category.ID != d.CategoryID {
		b.Category = &domain.NamedRef{ID: d.CategoryID}
	}
	if b.Author.ID != d.AuthorID {
		b.Author = domain.UserRef{ID: d.AuthorID}
	}

	names := d.TagNames()
	if orig == nil || !slices.Equal(names, orig.TagNames()) {
		tags := make([]domain.NamedRef, 0, len(names))
		for _, n := range names {
			tags = append(tags, domain.NamedRef{Name: n})
		}
		b.Tags = tags
	}
	b.UpdatedDate = now
	return b
}

// Validate checks the field rules. Content that is empty once sanitised
// counts as missing.
func (d *Draft) Validate() form.FieldErrors {
	d.Title = strings.TrimSpace(d.Title)
	errs := form.Validate(d)
	if !errs.Has("content") && Sanitize(d.Content) == "" {
		errs.Add("content", "Content is required")
	}
	return errs
}

func (d *Draft) ImageRef() string       { return d.Image }
func (d *Draft) SetImageRef(ref string) { d.Image = ref }
