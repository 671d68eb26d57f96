package crud

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Thutra02/mypham-fe/internal/middleware"
	"github.com/Thutra02/mypham-fe/internal/pkg"
	"github.com/Thutra02/mypham-fe/internal/session"
)

// View adds the layout values every console page needs to data: the active
// sidebar section, the CSRF token, the operator and, on full page loads, the
// pending flash notification.
func View(c *gin.Context, section string, data gin.H) gin.H {
	if data == nil {
		data = gin.H{}
	}
	data["Section"] = section
	data["CSRFToken"] = middleware.GetCSRFToken(c)
	data["Operator"] = middleware.GetOperator(c)
	if w := session.FromContext(c); w != nil && (!pkg.IsHTMX(c) || pkg.IsBoosted(c)) {
		if f, ok := w.PopFlash(); ok {
			data["Flash"] = f
		}
	}
	return data
}

// ErrorPage renders the error template for code.
func ErrorPage(c *gin.Context, code int) {
	name := "errors/500.html"
	switch code {
	case http.StatusBadRequest:
		name = "errors/400.html"
	case http.StatusNotFound:
		name = "errors/404.html"
	}
	c.HTML(code, name, View(c, "", gin.H{}))
}

// ParseID extracts and validates the "id" URL parameter.
func ParseID(c *gin.Context) (uint, error) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id: %s", idStr)
	}
	if id > uint64(^uint(0)) {
		return 0, fmt.Errorf("invalid id: %s", idStr)
	}
	return uint(id), nil
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
