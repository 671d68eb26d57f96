package devapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Thutra02/mypham-fe/internal/domain"
	"github.com/Thutra02/mypham-fe/internal/pkg"
)

// blogs serves the blog collection. Reads go through the generic collection;
// writes take a domain.BlogRequest and resolve its category, author and tags.
type blogs struct {
	*Collection[domain.Blog, *domain.Blog]
	db *gorm.DB
}

func newBlogs(db *gorm.DB) *blogs {
	repo := NewRepository[domain.Blog](db, Columns{
		Sort:    []string{"title", "created_date", "updated_date"},
		Search:  []string{"title"},
		Filters: map[string]string{"status": "status"},
	})
	return &blogs{Collection: NewCollection(repo, nil), db: db}
}

func (h *blogs) Register(rg gin.IRoutes, path string) {
	rg.GET(path, h.List)
	rg.POST(path, h.Create)
	rg.GET(path+"/:id", h.Get)
	rg.PUT(path+"/:id", h.Update)
	rg.DELETE(path+"/:id", h.Delete)
}

// Create handles POST /api/blogs.
func (h *blogs) Create(c *gin.Context) {
	var req domain.BlogRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	blog, err := h.save(c.Request.Context(), 0, req)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, pkg.Response{Status: pkg.StatusSuccess, Message: "created", Data: blog})
}

// Update handles PUT /api/blogs/:id.
func (h *blogs) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	var req domain.BlogRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	blog, err := h.save(c.Request.Context(), id, req)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, blog)
}

// save writes req as post id, or as a new post when id is 0. Tags unknown to
// the store are created in the same transaction.
func (h *blogs) save(ctx context.Context, id uint, req domain.BlogRequest) (*domain.Blog, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := required(map[string]string{"title": req.Title}); err != nil {
		return nil, err
	}
	if req.Status == "" {
		req.Status = domain.BlogDraft
	}
	if req.Status != domain.BlogDraft && req.Status != domain.BlogPublished {
		return nil, domain.NewValidationError(map[string]string{"status": "unknown blog status"})
	}

	var blog domain.Blog
	err := pkg.WithTx(ctx, h.db, func(tx *gorm.DB) error {
		if id != 0 {
			if err := tx.First(&blog, id).Error; err != nil {
				return mapError(err)
			}
		}
		blog.Title = req.Title
		blog.Content = req.Content
		blog.Image = req.Image
		blog.Status = req.Status

		blog.Category = nil
		if req.CategoryID != 0 {
			var cat domain.BlogCategory
			if err := tx.First(&cat, req.CategoryID).Error; err != nil {
				return relatedError("categoryId", err)
			}
			blog.Category = &domain.NamedRef{ID: cat.ID, Name: cat.Name}
		}

		blog.Author = domain.UserRef{}
		if req.Author != 0 {
			var u domain.User
			if err := tx.First(&u, req.Author).Error; err != nil {
				return relatedError("author", err)
			}
			blog.Author = domain.UserRef{ID: u.ID, Username: u.Username}
		}

		tags, err := resolveTags(tx, req.Tags)
		if err != nil {
			return err
		}
		blog.Tags = tags

		if id == 0 {
			return mapError(tx.Create(&blog).Error)
		}
		return mapError(tx.Model(&blog).Select("*").Omit("id", "created_date").Updates(&blog).Error)
	})
	if err != nil {
		return nil, err
	}
	return &blog, nil
}

// resolveTags returns the tags named in names, creating the missing ones.
func resolveTags(tx *gorm.DB, names []string) ([]domain.NamedRef, error) {
	refs := make([]domain.NamedRef, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			continue
		}
		seen[key] = true

		var tag domain.Tag
		if err := tx.Where(domain.Tag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
			return nil, mapError(err)
		}
		refs = append(refs, domain.NamedRef{ID: tag.ID, Name: tag.Name})
	}
	return refs, nil
}

func relatedError(field string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NewValidationError(map[string]string{field: field + " does not exist"})
	}
	return mapError(err)
}
