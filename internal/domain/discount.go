package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountType selects how DiscountValue is applied.
type DiscountType string

const (
	DiscountPercentage DiscountType = "PERCENTAGE"
	DiscountFixed      DiscountType = "FIXED"
)

// DiscountTypes lists the supported discount types in display order.
var DiscountTypes = []DiscountType{DiscountPercentage, DiscountFixed}

// Discount is a promotional code.
type Discount struct {
	BaseModel
	Name                string          `gorm:"size:255;not null" json:"name"`
	DiscountCode        string          `gorm:"size:50;uniqueIndex;not null" json:"discountCode"`
	DiscountType        DiscountType    `gorm:"size:20" json:"discountType"`
	DiscountValue       decimal.Decimal `gorm:"type:decimal(15,2)" json:"discountValue"`
	MinOrderValue       decimal.Decimal `gorm:"type:decimal(15,2)" json:"minOrderValue"`
	MaxDiscountAmount   decimal.Decimal `gorm:"type:decimal(15,2)" json:"maxDiscountAmount"`
	MaxUsage            int             `json:"maxUsage"`
	UsageCount          int             `json:"usageCount"`
	ApplicableProductID *uint           `json:"applicableProductId"`
	StartDate           time.Time       `json:"startDate"`
	EndDate             time.Time       `json:"endDate"`
	Active              bool            `json:"active"`
}
