package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderConfirmed OrderStatus = "CONFIRMED"
	OrderShipping  OrderStatus = "SHIPPING"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []OrderStatus{OrderPending, OrderConfirmed, OrderShipping, OrderDelivered, OrderCancelled}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// UserRef is the short user projection embedded in orders and blog posts.
type UserRef struct {
	ID       uint   `json:"id"`
	Username string `gorm:"size:100" json:"username"`
}

// Order is a customer order.
type Order struct {
	BaseModel
	OrderID         string          `gorm:"size:64;uniqueIndex" json:"orderId"`
	User            UserRef         `gorm:"embedded;embeddedPrefix:user_" json:"user"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(15,2)" json:"totalAmount"`
	FinalAmount     decimal.Decimal `gorm:"type:decimal(15,2)" json:"finalAmount"`
	OrderDate       time.Time       `json:"orderDate"`
	Status          OrderStatus     `gorm:"size:20;index" json:"status"`
	ShippingAddress string          `gorm:"size:500" json:"shippingAddress"`
	Note            string          `gorm:"size:1000" json:"note"`
}

// OrderStatusCount is one bucket of the order status breakdown.
type OrderStatusCount struct {
	Status     OrderStatus `json:"status"`
	OrderCount int64       `json:"orderCount"`
}

// MonthlyReport aggregates revenue and orders for one calendar month.
type MonthlyReport struct {
	Month                  int             `json:"month"`
	Year                   int             `json:"year"`
	TotalRevenue           decimal.Decimal `json:"totalRevenue"`
	TotalDiscountedRevenue decimal.Decimal `json:"totalDiscountedRevenue"`
	TotalOrders            int64           `json:"totalOrders"`
}
