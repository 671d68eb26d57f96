package order

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Thutra02/mypham-fe/internal/auth"
	"github.com/Thutra02/mypham-fe/internal/domain"
	"github.com/Thutra02/mypham-fe/internal/middleware"
	"github.com/Thutra02/mypham-fe/internal/module/crud"
	"github.com/Thutra02/mypham-fe/internal/session"
	"github.com/Thutra02/mypham-fe/internal/store/storetest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeStatuses struct {
	mu    sync.Mutex
	calls []domain.OrderStatus
	err   error
}

func (f *fakeStatuses) UpdateOrderStatus(_ context.Context, id uint, status domain.OrderStatus) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, status)
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Order{BaseModel: domain.BaseModel{ID: id, UpdatedDate: time.Now()}, Status: status}, nil
}

const stubTemplates = `
{{define "order/list.html"}}page{{end}}
{{define "order/list.html#table"}}{{range .Items}}{{.OrderID}}={{.Status}};{{end}}|admin={{.IsAdmin}}{{end}}
{{define "errors/500.html"}}500{{end}}
`

func setup(t *testing.T, role string) (*gin.Engine, *storetest.Source[domain.Order], *fakeStatuses, *http.Cookie) {
	t.Helper()
	src := storetest.New(
		domain.Order{BaseModel: domain.BaseModel{ID: 1}, OrderID: "A1", Status: domain.OrderPending},
		domain.Order{BaseModel: domain.BaseModel{ID: 2}, OrderID: "A2", Status: domain.OrderShipping},
	)
	statuses := &fakeStatuses{}

	r := gin.New()
	r.SetHTMLTemplate(template.Must(template.New("").Parse(stubTemplates)))
	mgr := session.NewManager(session.Config{})
	t.Cleanup(mgr.Close)
	token, err := auth.SignToken("order-test-secret-order-test-secret", "7", "staff", role, time.Hour)
	if err != nil {
		t.Fatalf("SignToken() error: %v", err)
	}
	r.Use(mgr.Middleware(), middleware.Operator(token, nil))
	newModule(src, statuses, crud.ListSettings{PageSize: 10}, nil).RegisterRoutes(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/orders", nil))
	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "console_session" {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("no session cookie")
	}
	return r, src, statuses, cookie
}

func putStatus(r *gin.Engine, cookie *http.Cookie, id, status string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, "/admin/orders/status/"+id, strings.NewReader(url.Values{"status": {status}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func toastOf(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var trigger map[string]map[string]string
	if err := json.Unmarshal([]byte(w.Header().Get("HX-Trigger")), &trigger); err != nil {
		t.Fatalf("HX-Trigger: %v", err)
	}
	return trigger["showToast"]
}

func TestUpdateStatus_PatchesOnlyTheRow(t *testing.T) {
	r, src, statuses, cookie := setup(t, "STAFF")
	before := len(src.Queries())

	w := putStatus(r, cookie, "2", "DELIVERED")
	if got := w.Body.String(); got != "A1=PENDING;A2=DELIVERED;|admin=false" {
		t.Errorf("body = %q", got)
	}
	if got := toastOf(t, w); got["type"] != "success" {
		t.Errorf("toast = %v", got)
	}
	if len(statuses.calls) != 1 || statuses.calls[0] != domain.OrderDelivered {
		t.Errorf("calls = %v", statuses.calls)
	}
	if len(src.Queries()) != before {
		t.Error("status edit must not refetch the list")
	}
}

func TestUpdateStatus_NonAdminCannotCancel(t *testing.T) {
	r, _, statuses, cookie := setup(t, "STAFF")

	w := putStatus(r, cookie, "1", "CANCELLED")
	if got := toastOf(t, w); got["type"] != "error" || got["message"] != "Only administrators can cancel orders" {
		t.Errorf("toast = %v", got)
	}
	if len(statuses.calls) != 0 {
		t.Error("rejected change must never reach the API")
	}
	if got := w.Body.String(); !strings.HasPrefix(got, "A1=PENDING;") {
		t.Errorf("row must keep its status, body = %q", got)
	}
}

func TestUpdateStatus_AdminCancels(t *testing.T) {
	r, _, statuses, cookie := setup(t, "admin")

	w := putStatus(r, cookie, "1", "CANCELLED")
	if got := w.Body.String(); got != "A1=CANCELLED;A2=SHIPPING;|admin=true" {
		t.Errorf("body = %q", got)
	}
	if len(statuses.calls) != 1 {
		t.Errorf("calls = %v", statuses.calls)
	}
}

func TestUpdateStatus_Failures(t *testing.T) {
	r, _, statuses, cookie := setup(t, "ADMIN")

	w := putStatus(r, cookie, "1", "LOST")
	if got := toastOf(t, w); got["message"] != "Unknown order status" {
		t.Errorf("toast = %v", got)
	}

	w = putStatus(r, cookie, "x", "PENDING")
	if w.Header().Get("HX-Reswap") != "none" {
		t.Error("bad id must not swap")
	}

	statuses.err = domain.NewAppError(domain.CodeUpstream, "shop API unavailable", nil)
	w = putStatus(r, cookie, "1", "CONFIRMED")
	if got := toastOf(t, w); got["message"] != "shop API unavailable" {
		t.Errorf("toast = %v", got)
	}
	if got := w.Body.String(); !strings.HasPrefix(got, "A1=PENDING;") {
		t.Errorf("failed change must leave the row untouched, body = %q", got)
	}
}

func TestCheckStatusChange(t *testing.T) {
	tests := []struct {
		role   string
		status domain.OrderStatus
		ok     bool
	}{
		{"STAFF", domain.OrderConfirmed, true},
		{"STAFF", domain.OrderCancelled, false},
		{"ADMIN", domain.OrderCancelled, true},
		{"", domain.OrderShipping, true},
		{"ADMIN", "", false},
	}
	for _, tt := range tests {
		err := CheckStatusChange(auth.Operator{Role: tt.role}, tt.status)
		if (err == nil) != tt.ok {
			t.Errorf("CheckStatusChange(%q, %q) = %v; want ok=%v", tt.role, tt.status, err, tt.ok)
		}
	}
	if err := CheckStatusChange(auth.Operator{}, domain.OrderCancelled); !domain.IsForbidden(err) {
		t.Errorf("cancel by non-admin = %v; want forbidden", err)
	}
}
