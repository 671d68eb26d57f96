package devapi

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Thutra02/mypham-fe/internal/apiclient"
	"github.com/Thutra02/mypham-fe/internal/domain"
	"github.com/Thutra02/mypham-fe/internal/pkg"
)

// maxUploadBytes caps the size of one uploaded image.
const maxUploadBytes = 5 << 20

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// uploads stores images on local disk under random names.
type uploads struct {
	dir string
}

// Upload handles POST /api/upload. It replies with the image path relative to
// the API root, e.g. "images/5f0c....png".
func (u *uploads) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes+1<<20)
	fh, err := c.FormFile(apiclient.UploadField)
	if err != nil {
		pkg.Error(c, domain.NewValidationError(map[string]string{apiclient.UploadField: "an image file is required"}))
		return
	}
	if fh.Size > maxUploadBytes {
		pkg.Error(c, domain.NewValidationError(map[string]string{apiclient.UploadField: "image must not exceed 5MB"}))
		return
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !imageExts[ext] {
		pkg.Error(c, domain.NewValidationError(map[string]string{apiclient.UploadField: fmt.Sprintf("unsupported image type %q", ext)}))
		return
	}

	if err := os.MkdirAll(u.dir, 0o755); err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeInternal, "failed to store image", err))
		return
	}
	name := uuid.NewString() + ext
	if err := c.SaveUploadedFile(fh, filepath.Join(u.dir, name)); err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeInternal, "failed to store image", err))
		return
	}
	pkg.Success(c, "images/"+name)
}

// Image handles GET /api/images/:name.
func (u *uploads) Image(c *gin.Context) {
	name := filepath.Base(c.Param("name"))
	if name == "." || name == string(filepath.Separator) || !imageExts[strings.ToLower(filepath.Ext(name))] {
		pkg.Error(c, domain.ErrNotFound)
		return
	}
	path := filepath.Join(u.dir, name)
	if _, err := os.Stat(path); err != nil {
		pkg.Error(c, domain.ErrNotFound)
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.File(path)
}
