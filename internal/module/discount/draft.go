package discount

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Thutra02/mypham-fe/internal/domain"
	"github.com/Thutra02/mypham-fe/internal/form"
)

var hundred = decimal.NewFromInt(100)

// Draft is the discount form. Usage count and the applicable product are
// server-owned and carried over from the original on update.
type Draft struct {
	Name              string              `form:"name" label:"Name" validate:"required,max=255"`
	DiscountCode      string              `form:"discountCode" label:"Discount code" validate:"required,max=50"`
	DiscountType      domain.DiscountType `form:"discountType" label:"Discount type" validate:"required,oneof=PERCENTAGE FIXED"`
	DiscountValue     string              `form:"discountValue" label:"Discount value" validate:"required,numeric"`
	MinOrderValue     string              `form:"minOrderValue" label:"Minimum order value" validate:"required,numeric"`
	MaxDiscountAmount string              `form:"maxDiscountAmount" label:"Maximum discount amount" validate:"required,numeric"`
	MaxUsage          int                 `form:"maxUsage" label:"Maximum usage" validate:"gte=0"`
	StartDate         string              `form:"startDate" label:"Start date" validate:"required"`
	EndDate           string              `form:"endDate" label:"End date" validate:"required"`
	Active            bool                `form:"active"`
}

// Hydrate fills the draft from a fetched discount, formatting amounts and
// dates the way the form inputs expect them.
func (d *Draft) Hydrate(v domain.Discount) {
	d.Name = v.Name
	d.DiscountCode = v.DiscountCode
	d.DiscountType = v.DiscountType
	d.DiscountValue = form.FormatDecimal(v.DiscountValue)
	d.MinOrderValue = form.FormatDecimal(v.MinOrderValue)
	d.MaxDiscountAmount = form.FormatDecimal(v.MaxDiscountAmount)
	d.MaxUsage = v.MaxUsage
	d.StartDate = form.FormatDate(v.StartDate)
	d.EndDate = form.FormatDate(v.EndDate)
	d.Active = v.Active
}

// Payload builds the discount to send. Amounts and dates equal to those of
// orig keep orig's value, so an unchanged form round-trips exactly.
func (d *Draft) Payload(orig *domain.Discount, now time.Time) domain.Discount {
	var v domain.Discount
	if orig != nil {
		v = *orig
	} else {
		v.CreatedDate = now
	}
	v.Name = strings.TrimSpace(d.Name)
	v.DiscountCode = strings.TrimSpace(d.DiscountCode)
	v.DiscountType = d.DiscountType
	v.DiscountValue = form.DecimalOr(v.DiscountValue, d.DiscountValue)
	v.MinOrderValue = form.DecimalOr(v.MinOrderValue, d.MinOrderValue)
	v.MaxDiscountAmount = form.DecimalOr(v.MaxDiscountAmount, d.MaxDiscountAmount)
	v.MaxUsage = d.MaxUsage
	v.StartDate = form.DateOr(v.StartDate, d.StartDate)
	v.EndDate = form.DateOr(v.EndDate, d.EndDate)
	v.Active = d.Active
	v.UpdatedDate = now
	return v
}

// Validate checks the field rules and the cross-field rules: the value is at
// least 1, a percentage never exceeds 100%, a fixed value never exceeds a
// positive maximum discount amount, and the period starts before it ends.
func (d *Draft) Validate() form.FieldErrors {
	d.Name = strings.TrimSpace(d.Name)
	d.DiscountCode = strings.TrimSpace(d.DiscountCode)
	d.DiscountValue = strings.TrimSpace(d.DiscountValue)
	d.MinOrderValue = strings.TrimSpace(d.MinOrderValue)
	d.MaxDiscountAmount = strings.TrimSpace(d.MaxDiscountAmount)

	errs := form.Validate(d)

	if !errs.Has("discountValue") {
		value := form.Decimal(d.DiscountValue)
		switch {
		case value.LessThan(decimal.NewFromInt(1)):
			errs.Add("discountValue", "Discount value must be greater than 0")
		case d.DiscountType == domain.DiscountPercentage && value.GreaterThan(hundred):
			errs.Add("discountValue", "Percentage discount must not exceed 100%")
		case d.DiscountType == domain.DiscountFixed && !errs.Has("maxDiscountAmount"):
			maxAmount := form.Decimal(d.MaxDiscountAmount)
			if maxAmount.IsPositive() && value.GreaterThan(maxAmount) {
				errs.Add("discountValue", "Discount value must not exceed the maximum discount amount")
			}
		}
	}
	if !errs.Has("minOrderValue") && form.Decimal(d.MinOrderValue).IsNegative() {
		errs.Add("minOrderValue", "Minimum order value must not be negative")
	}
	if !errs.Has("maxDiscountAmount") && form.Decimal(d.MaxDiscountAmount).IsNegative() {
		errs.Add("maxDiscountAmount", "Maximum discount amount must not be negative")
	}

	start, startErr := form.Date(d.StartDate)
	if startErr != nil && !errs.Has("startDate") {
		errs.Add("startDate", "Start date is not a valid date")
	}
	end, endErr := form.Date(d.EndDate)
	if endErr != nil && !errs.Has("endDate") {
		errs.Add("endDate", "End date is not a valid date")
	}
	if !errs.Has("startDate") && !errs.Has("endDate") && !start.Before(end) {
		errs.Add("startDate", "Start date must be before the end date")
		errs.Add("endDate", "End date must be after the start date")
	}
	return errs
}
