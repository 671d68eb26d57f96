package devapi

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Thutra02/mypham-fe/internal/auth"
	"github.com/Thutra02/mypham-fe/internal/domain"
	"github.com/Thutra02/mypham-fe/internal/pkg"
)

type statusRequest struct {
	Status domain.OrderStatus `json:"status" binding:"required"`
}

// orders adds the status and report endpoints to the order collection.
type orders struct {
	*Collection[domain.Order, *domain.Order]
	db *gorm.DB
}

func newOrders(db *gorm.DB) *orders {
	repo := NewRepository[domain.Order](db, Columns{
		Sort:    []string{"order_date", "total_amount", "final_amount", "status"},
		Search:  []string{"order_id", "user_username", "shipping_address"},
		Filters: map[string]string{"status": "status", "userId": "user_id"},
	})
	return &orders{Collection: NewCollection(repo, nil), db: db}
}

func (h *orders) Register(rg gin.IRoutes, path string) {
	h.Collection.Register(rg, path)
	rg.PUT(path+"/:id/status", h.UpdateStatus)
}

// UpdateStatus handles PUT /api/orders/:id/status. Only admins cancel.
func (h *orders) UpdateStatus(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	var req statusRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	if !req.Status.Valid() {
		pkg.Error(c, domain.NewValidationError(map[string]string{"status": "unknown order status"}))
		return
	}
	if req.Status == domain.OrderCancelled {
		if op, ok := auth.FromContext(c.Request.Context()); !ok || !op.IsAdmin() {
			pkg.Error(c, domain.NewAppError(domain.CodeForbidden, "only administrators can cancel orders", nil))
			return
		}
	}

	ctx := c.Request.Context()
	result := h.db.WithContext(ctx).Model(&domain.Order{}).Where("id = ?", id).Update("status", req.Status)
	if result.Error != nil {
		pkg.Error(c, mapError(result.Error))
		return
	}
	if result.RowsAffected == 0 {
		pkg.Error(c, domain.ErrNotFound)
		return
	}

	var order domain.Order
	if err := h.db.WithContext(ctx).First(&order, id).Error; err != nil {
		pkg.Error(c, mapError(err))
		return
	}
	pkg.Success(c, &order)
}

// Reports handles GET /api/reports: revenue and order totals per month, oldest
// first. Cancelled orders are left out.
func (h *orders) Reports(c *gin.Context) {
	var rows []domain.Order
	err := h.db.WithContext(c.Request.Context()).
		Select("order_date", "total_amount", "final_amount").
		Where("status <> ?", domain.OrderCancelled).
		Find(&rows).Error
	if err != nil {
		pkg.Error(c, mapError(err))
		return
	}
	pkg.Success(c, monthlyReports(rows))
}

// StatusCounts handles GET /api/reports/order-status.
func (h *orders) StatusCounts(c *gin.Context) {
	var counts []domain.OrderStatusCount
	err := h.db.WithContext(c.Request.Context()).Model(&domain.Order{}).
		Select("status, COUNT(*) AS order_count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		pkg.Error(c, mapError(err))
		return
	}
	if counts == nil {
		counts = []domain.OrderStatusCount{}
	}
	c.JSON(http.StatusOK, pkg.Response{Status: pkg.StatusSuccess, Message: "success", Data: counts})
}

// monthlyReports groups orders by calendar month of their order date.
func monthlyReports(rows []domain.Order) []domain.MonthlyReport {
	type key struct{ year, month int }
	byMonth := make(map[key]*domain.MonthlyReport)
	for _, o := range rows {
		k := key{o.OrderDate.Year(), int(o.OrderDate.Month())}
		r, ok := byMonth[k]
		if !ok {
			r = &domain.MonthlyReport{
				Year:                   k.year,
				Month:                  k.month,
				TotalRevenue:           decimal.Zero,
				TotalDiscountedRevenue: decimal.Zero,
			}
			byMonth[k] = r
		}
		r.TotalRevenue = r.TotalRevenue.Add(o.TotalAmount)
		r.TotalDiscountedRevenue = r.TotalDiscountedRevenue.Add(o.FinalAmount)
		r.TotalOrders++
	}

	out := make([]domain.MonthlyReport, 0, len(byMonth))
	for _, r := range byMonth {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}
