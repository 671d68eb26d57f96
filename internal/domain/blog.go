package domain

import "time"

// BlogStatus is the publication state of a post.
type BlogStatus string

const (
	BlogDraft     BlogStatus = "DRAFT"
	BlogPublished BlogStatus = "PUBLISHED"
)

// BlogStatuses lists the publication states.
var BlogStatuses = []BlogStatus{BlogDraft, BlogPublished}

// NamedRef is the short {id, name} projection of a related record.
type NamedRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// Blog is a blog post as returned by the API. Related records are embedded
// projections; writes go through BlogRequest instead.
type Blog struct {
	BaseModel
	Title    string     `gorm:"size:255;not null" json:"title"`
	Content  string     `gorm:"type:text" json:"content"`
	Image    string     `gorm:"size:500" json:"image"`
	Status   BlogStatus `gorm:"size:20" json:"status"`
	Category *NamedRef  `gorm:"serializer:json" json:"category"`
	Author   UserRef    `gorm:"serializer:json" json:"author"`
	Tags     []NamedRef `gorm:"serializer:json" json:"tags"`
}

// BlogRequest is the write payload for blog posts: related records are sent
// by id and tags by name.
type BlogRequest struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Image       string     `json:"image"`
	Status      BlogStatus `json:"status"`
	CategoryID  uint       `json:"categoryId"`
	Author      uint       `json:"author"`
	Tags        []string   `json:"tags"`
	CreatedDate time.Time  `json:"createdDate"`
	UpdatedDate time.Time  `json:"updatedDate"`
}

// Request converts a fetched post into its write payload.
func (b Blog) Request() BlogRequest {
	req := BlogRequest{
		ID:          b.ID,
		Title:       b.Title,
		Content:     b.Content,
		Image:       b.Image,
		Status:      b.Status,
		Author:      b.Author.ID,
		Tags:        make([]string, 0, len(b.Tags)),
		CreatedDate: b.CreatedDate,
		UpdatedDate: b.UpdatedDate,
	}
	if b.Category != nil {
		req.CategoryID = b.Category.ID
	}
	for _, t := range b.Tags {
		req.Tags = append(req.Tags, t.Name)
	}
	return req
}

// TagNames returns the names of the post's tags.
func (b Blog) TagNames() []string {
	names := make([]string, 0, len(b.Tags))
	for _, t := range b.Tags {
		names = append(names, t.Name)
	}
	return names
}
