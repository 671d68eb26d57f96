package devapi

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Thutra02/mypham-fe/internal/domain"
	"github.com/Thutra02/mypham-fe/internal/pkg"
)

// Collection serves the REST routes of one collection:
//
//	GET    /<path>       list with page, size, search, sort and filters
//	POST   /<path>       create
//	GET    /<path>/:id   read
//	PUT    /<path>/:id   replace
//	DELETE /<path>/:id   delete
type Collection[T any, P record[T]] struct {
	repo  *Repository[T, P]
	check func(*T) error
}

// NewCollection creates a Collection. check validates request bodies before
// they are written; it may be nil.
func NewCollection[T any, P record[T]](repo *Repository[T, P], check func(*T) error) *Collection[T, P] {
	return &Collection[T, P]{repo: repo, check: check}
}

// Register mounts the collection routes under path.
func (h *Collection[T, P]) Register(rg gin.IRoutes, path string) {
	rg.GET(path, h.List)
	rg.POST(path, h.Create)
	rg.GET(path+"/:id", h.Get)
	rg.PUT(path+"/:id", h.Update)
	rg.DELETE(path+"/:id", h.Delete)
}

// List handles GET /api/<path>.
func (h *Collection[T, P]) List(c *gin.Context) {
	page, err := h.repo.List(c.Request.Context(), pkg.ParsePageRequest(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.List(c, page)
}

// Get handles GET /api/<path>/:id.
func (h *Collection[T, P]) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	v, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, v)
}

// Create handles POST /api/<path>.
func (h *Collection[T, P]) Create(c *gin.Context) {
	var v T
	if !h.bind(c, &v) {
		return
	}
	if err := h.repo.Create(c.Request.Context(), &v); err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Created(c, &v)
}

// Update handles PUT /api/<path>/:id.
func (h *Collection[T, P]) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	var v T
	if !h.bind(c, &v) {
		return
	}
	out, err := h.repo.Update(c.Request.Context(), id, &v)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, out)
}

// Delete handles DELETE /api/<path>/:id.
func (h *Collection[T, P]) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, nil)
}

func (h *Collection[T, P]) bind(c *gin.Context, v *T) bool {
	if !pkg.BindAndValidate(c, P(v)) {
		return false
	}
	if h.check != nil {
		if err := h.check(v); err != nil {
			pkg.Error(c, err)
			return false
		}
	}
	return true
}

// parseID extracts and validates the "id" URL parameter.
func parseID(c *gin.Context) (uint, error) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || id == 0 || id > uint64(^uint(0)) {
		return 0, domain.NewAppError(domain.CodeValidation, fmt.Sprintf("invalid id: %s", idStr), nil)
	}
	return uint(id), nil
}

// required returns a validation error naming every blank field.
func required(fields map[string]string) error {
	missing := map[string]string{}
	for name, v := range fields {
		if strings.TrimSpace(v) == "" {
			missing[name] = name + " is required"
		}
	}
	if len(missing) > 0 {
		return domain.NewValidationError(missing)
	}
	return nil
}
