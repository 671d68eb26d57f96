package app

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Thutra02/mypham-fe/internal/pkg"
)

// errorTemplates maps HTTP status codes to their error template paths.
var errorTemplates = map[int]string{
	400: "errors/400.html",
	404: "errors/404.html",
	500: "errors/500.html",
}

// renderError sends an error response appropriate for the client:
//   - htmx fragment requests get an error toast and no swap, keeping the current page
//   - explicit JSON clients get the envelope with status "error"
//   - browsers get the error page for code (errors/500.html for unmapped codes,
//     plain text when rendering panics)
func renderError(c *gin.Context, code int, message string) {
	if pkg.IsHTMX(c) && !pkg.IsBoosted(c) {
		c.Header("HX-Reswap", "none")
		pkg.SetToast(c, toastText(code), pkg.ToastError)
		c.AbortWithStatus(code)
		return
	}

	accept := strings.ToLower(c.GetHeader("Accept"))
	// Checked before acceptsHTML, which also matches */*.
	if strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html") {
		c.JSON(code, pkg.Response{Status: pkg.StatusError, Message: message})
		return
	}
	if acceptsHTML(c) {
		renderHTMLErrorPage(c, code)
		return
	}
	c.JSON(code, pkg.Response{Status: pkg.StatusError, Message: message})
}

// renderHTMLErrorPage renders the error template for the given status code.
// If no template exists for the code, it falls back to errors/500.html.
// If rendering panics, it falls back to a plain text response.
func renderHTMLErrorPage(c *gin.Context, code int) {
	defer func() {
		if r := recover(); r != nil {
			c.Data(code, "text/plain; charset=utf-8",
				[]byte(fmt.Sprintf("%d %s", code, defaultStatusText(code))))
		}
	}()

	tmpl, ok := errorTemplates[code]
	if !ok {
		tmpl = errorTemplates[500]
	}
	c.HTML(code, tmpl, gin.H{"Title": defaultStatusText(code)})
}

// acceptsHTML returns true if the client accepts an HTML response.
// Matches text/html, */* (browser default), and empty Accept headers.
func acceptsHTML(c *gin.Context) bool {
	accept := strings.ToLower(c.GetHeader("Accept"))
	return strings.Contains(accept, "text/html") ||
		strings.Contains(accept, "*/*") ||
		strings.TrimSpace(accept) == ""
}

// toastText is the operator-facing notification for an htmx request that
// failed with code.
func toastText(code int) string {
	switch code {
	case 404:
		return "That page no longer exists, reload the list"
	case 403:
		return "You are not allowed to do that"
	default:
		return "Something went wrong, please try again"
	}
}

// defaultStatusText returns a short human-readable label for common error codes.
func defaultStatusText(code int) string {
	switch code {
	case 400:
		return "Bad Request"
	case 403:
		return "Forbidden"
	case 404:
		return "Not Found"
	case 408:
		return "Request Timeout"
	case 429:
		return "Too Many Requests"
	case 500:
		return "Internal Server Error"
	case 502:
		return "Bad Gateway"
	default:
		return "Error"
	}
}
