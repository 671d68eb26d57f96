package report

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Thutra02/mypham-fe/internal/module/crud"
	"github.com/Thutra02/mypham-fe/internal/pkg"
	"github.com/Thutra02/mypham-fe/internal/session"
)

const dashboardKey = "dashboard"

// Module serves the dashboard.
type Module struct {
	src    Source
	now    func() time.Time
	logger *slog.Logger
}

// NewModule creates the dashboard module.
func NewModule(src Source, logger *slog.Logger) *Module {
	if logger == nil {
		logger = slog.Default()
	}
	return &Module{src: src, now: time.Now, logger: logger}
}

// RegisterRoutes mounts the dashboard routes.
func (m *Module) RegisterRoutes(r gin.IRoutes) {
	r.GET("/admin", m.Page)
	r.GET("/admin/dashboard/year", m.SelectYear)
}

// Page mounts a fresh dashboard and renders it.
// GET /admin
func (m *Module) Page(c *gin.Context) {
	w := session.FromContext(c)
	if w == nil {
		crud.ErrorPage(c, http.StatusInternalServerError)
		return
	}

	d := NewDashboard(m.src, m.now)
	w.Replace(dashboardKey, d)
	if err := d.Mount(c.Request.Context()); err != nil {
		m.logger.WarnContext(c.Request.Context(), "dashboard load failed", slog.String("error", err.Error()))
	}
	c.HTML(http.StatusOK, "dashboard/index.html", crud.View(c, "dashboard", m.data(d)))
}

// SelectYear shows another year from the cached history.
// GET /admin/dashboard/year?year=Y
func (m *Module) SelectYear(c *gin.Context) {
	w := session.FromContext(c)
	if w == nil {
		pkg.ToastOnly(c, "Your session expired, reload the page", pkg.ToastError)
		return
	}

	d := session.Value(w, dashboardKey, func() *Dashboard { return NewDashboard(m.src, m.now) })
	if !d.Loaded() {
		if err := d.Mount(c.Request.Context()); err != nil {
			m.logger.WarnContext(c.Request.Context(), "dashboard load failed", slog.String("error", err.Error()))
		}
	}

	year, err := strconv.Atoi(c.Query("year"))
	if err == nil {
		err = d.SelectYear(year)
	}
	if err != nil {
		pkg.ToastOnly(c, "Unsupported year", pkg.ToastError)
		return
	}
	c.HTML(http.StatusOK, "dashboard/index.html#report", crud.View(c, "dashboard", m.data(d)))
}

func (m *Module) data(d *Dashboard) gin.H {
	v := d.View()
	return gin.H{
		"Title":       "Dashboard",
		"Report":      v.Year,
		"Years":       v.Years,
		"Statuses":    v.Statuses,
		"TotalOrders": v.TotalOrders,
		"ReportErr":   v.ReportErr,
		"StatusErr":   v.StatusErr,
	}
}
