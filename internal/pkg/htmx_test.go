package pkg

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Thutra02/mypham-fe/internal/domain"
)

func newHTMXContext(htmx bool) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/admin/brand/add", nil)
	if htmx {
		c.Request.Header.Set("HX-Request", "true")
	}
	return c, w
}

func TestSetToast(t *testing.T) {
	c, w := newHTMXContext(true)
	SetToast(c, "Brand saved", ToastSuccess)

	var trigger map[string]map[string]string
	if err := json.Unmarshal([]byte(w.Header().Get("HX-Trigger")), &trigger); err != nil {
		t.Fatalf("HX-Trigger is not JSON: %v", err)
	}
	if got := trigger["showToast"]; got["message"] != "Brand saved" || got["type"] != "success" {
		t.Errorf("showToast = %v", got)
	}
}

func TestToastOnly(t *testing.T) {
	c, w := newHTMXContext(true)
	ToastOnly(c, "Delete failed", ToastError)
	c.Writer.WriteHeaderNow()

	if w.Code != http.StatusOK {
		t.Errorf("status = %d; want 200", w.Code)
	}
	if got := w.Header().Get("HX-Reswap"); got != "none" {
		t.Errorf("HX-Reswap = %q; want none", got)
	}
}

func TestRedirect(t *testing.T) {
	t.Run("htmx", func(t *testing.T) {
		c, w := newHTMXContext(true)
		Redirect(c, "/admin/brand")
		c.Writer.WriteHeaderNow()
		if got := w.Header().Get("HX-Redirect"); got != "/admin/brand" {
			t.Errorf("HX-Redirect = %q", got)
		}
		if w.Code != http.StatusOK {
			t.Errorf("status = %d; want 200", w.Code)
		}
	})
	t.Run("plain form post", func(t *testing.T) {
		c, w := newHTMXContext(false)
		Redirect(c, "/admin/brand")
		c.Writer.WriteHeaderNow()
		if w.Code != http.StatusSeeOther {
			t.Errorf("status = %d; want 303", w.Code)
		}
		if got := w.Header().Get("Location"); got != "/admin/brand" {
			t.Errorf("Location = %q", got)
		}
	})
}

func TestIsHTMX(t *testing.T) {
	c, _ := newHTMXContext(true)
	if !IsHTMX(c) {
		t.Error("expected htmx request")
	}
	c.Request.Header.Set("HX-Boosted", "true")
	if !IsBoosted(c) {
		t.Error("expected boosted request")
	}
	plain, _ := newHTMXContext(false)
	if IsHTMX(plain) || IsBoosted(plain) {
		t.Error("plain request reported as htmx")
	}
}

func TestSafeErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"validation", domain.NewValidationError(map[string]string{"name": "Name is required"}), "Name is required"},
		{"upstream message passes", domain.NewAppError(domain.CodeUpstream, "Brand name already taken", nil), "Brand name already taken"},
		{"forbidden", domain.NewAppError(domain.CodeForbidden, "only admins can cancel orders", nil), "only admins can cancel orders"},
		{"internal hidden", domain.NewAppError(domain.CodeInternal, "sql: no rows", nil), "fallback"},
		{"plain error hidden", errors.New("dial tcp"), "fallback"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SafeErrorMessage(tt.err, "fallback"); got != tt.want {
				t.Errorf("SafeErrorMessage = %q; want %q", got, tt.want)
			}
		})
	}
}
