// Package order serves the order list and its status edits. Orders are
// placed by customers, so there is no add or edit form.
package order

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/Thutra02/mypham-fe/internal/apiclient"
	"github.com/Thutra02/mypham-fe/internal/auth"
	"github.com/Thutra02/mypham-fe/internal/domain"
	"github.com/Thutra02/mypham-fe/internal/middleware"
	"github.com/Thutra02/mypham-fe/internal/module/crud"
	"github.com/Thutra02/mypham-fe/internal/pkg"
	"github.com/Thutra02/mypham-fe/internal/store"
)

// StatusUpdater changes the status of an order on the server.
type StatusUpdater interface {
	UpdateOrderStatus(ctx context.Context, id uint, status domain.OrderStatus) (*domain.Order, error)
}

// Module is the order screen.
type Module struct {
	list     *crud.Handler[domain.Order]
	statuses StatusUpdater
	logger   *slog.Logger
}

// NewModule creates the order screen backed by /orders.
func NewModule(deps crud.Deps) *Module {
	return newModule(apiclient.NewResource[domain.Order](deps.Client, "orders"), deps.Client, deps.ListSettings("order"), deps.Logger)
}

func newModule(src store.Source[domain.Order], statuses StatusUpdater, list crud.ListSettings, logger *slog.Logger) *Module {
	if logger == nil {
		logger = slog.Default()
	}
	return &Module{
		list: crud.New(crud.Options[domain.Order]{
			Name:     "order",
			Singular: "Order",
			Title:    "Orders",
			Path:     "/admin/orders",
			Source:   src,
			ListData: func(c *gin.Context) gin.H {
				return gin.H{
					"Statuses": domain.OrderStatuses,
					"IsAdmin":  middleware.GetOperator(c).IsAdmin(),
				}
			},
			List:   list,
			Logger: logger,
		}),
		statuses: statuses,
		logger:   logger,
	}
}

// RegisterRoutes mounts the list routes and the status edit.
func (m *Module) RegisterRoutes(r gin.IRoutes) {
	m.list.RegisterRoutes(r)
	r.PUT(m.list.Path()+"/status/:id", m.UpdateStatus)
}

// CheckStatusChange reports whether op may move an order to status. Only
// admins may cancel orders.
func CheckStatusChange(op auth.Operator, status domain.OrderStatus) error {
	if !status.Valid() {
		return domain.NewAppError(domain.CodeValidation, "Unknown order status", nil)
	}
	if status == domain.OrderCancelled && !op.IsAdmin() {
		return domain.NewAppError(domain.CodeForbidden, "Only administrators can cancel orders", domain.ErrForbidden)
	}
	return nil
}

// UpdateStatus changes the status of one order. The change is checked before
// anything is sent; on success only the affected row is patched in place.
// PUT /admin/orders/status/:id
func (m *Module) UpdateStatus(c *gin.Context) {
	st := m.list.Store(c)
	if st == nil {
		pkg.ToastOnly(c, "Your session expired, reload the page", pkg.ToastError)
		return
	}
	id, err := crud.ParseID(c)
	if err != nil {
		pkg.ToastOnly(c, "Invalid order id", pkg.ToastError)
		return
	}

	status := domain.OrderStatus(c.PostForm("status"))
	if err := CheckStatusChange(middleware.GetOperator(c), status); err != nil {
		// The select already shows the rejected value: re-render the row.
		pkg.SetToast(c, pkg.SafeErrorMessage(err, "Status change rejected"), pkg.ToastError)
		m.list.RenderTable(c)
		return
	}

	updated, err := m.statuses.UpdateOrderStatus(c.Request.Context(), id, status)
	if err != nil {
		m.logger.WarnContext(c.Request.Context(), "order status update failed",
			slog.Uint64("id", uint64(id)),
			slog.String("status", string(status)),
			slog.String("error", err.Error()),
		)
		pkg.SetToast(c, pkg.SafeErrorMessage(err, "Failed to update the order status"), pkg.ToastError)
		if domain.IsNotFound(err) {
			_ = m.list.List(c).Refresh(c.Request.Context())
		}
		m.list.RenderTable(c)
		return
	}

	st.Patch(id, func(o *domain.Order) {
		o.Status = status
		if updated != nil && !updated.UpdatedDate.IsZero() {
			o.UpdatedDate = updated.UpdatedDate
		}
	})
	pkg.SetToast(c, "Order status updated", pkg.ToastSuccess)
	m.list.RenderTable(c)
}
