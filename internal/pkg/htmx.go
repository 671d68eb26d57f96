package pkg

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Thutra02/mypham-fe/internal/domain"
)

// Toast types understood by the toast partial.
const (
	ToastSuccess = "success"
	ToastError   = "error"
	ToastInfo    = "info"
)

// IsHTMX reports whether the request was issued by htmx.
func IsHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}

// IsBoosted reports whether htmx requested a full page (hx-boost or history restore).
func IsBoosted(c *gin.Context) bool {
	return c.GetHeader("HX-Boosted") == "true" || c.GetHeader("HX-History-Restore-Request") == "true"
}

// SetToast sets the HX-Trigger response header with a showToast event.
func SetToast(c *gin.Context, message, toastType string) {
	trigger, _ := json.Marshal(map[string]any{
		"showToast": map[string]string{
			"message": message,
			"type":    toastType,
		},
	})
	c.Header("HX-Trigger", string(trigger))
}

// ToastOnly replies 200 with a toast and tells htmx not to swap anything.
func ToastOnly(c *gin.Context, message, toastType string) {
	c.Header("HX-Reswap", "none")
	SetToast(c, message, toastType)
	c.Status(http.StatusOK)
}

// Redirect sends the browser to location, through HX-Redirect for htmx
// requests and a 303 otherwise.
func Redirect(c *gin.Context, location string) {
	if IsHTMX(c) {
		c.Header("HX-Redirect", location)
		c.Status(http.StatusOK)
		return
	}
	c.Redirect(http.StatusSeeOther, location)
}

// SafeErrorMessage extracts an operator-safe error message from an AppError.
// Messages from user-facing codes are returned as-is, which includes the shop
// API's own error text. Internal or unknown errors return the fallback to
// avoid leaking technical details.
func SafeErrorMessage(err error, fallback string) string {
	var appErr *domain.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		switch appErr.Code {
		case domain.CodeNotFound, domain.CodeAlreadyExists, domain.CodeValidation,
			domain.CodeUnauthorized, domain.CodeForbidden, domain.CodeUpstream:
			return appErr.Message
		}
	}
	return fallback
}
