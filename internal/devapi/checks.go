package devapi

import (
	"github.com/shopspring/decimal"

	"github.com/Thutra02/mypham-fe/internal/domain"
)

var hundred = decimal.NewFromInt(100)

func checkBrand(b *domain.Brand) error {
	return required(map[string]string{"name": b.Name})
}

func checkCategory(c *domain.Category) error {
	return required(map[string]string{"name": c.Name})
}

func checkBlogCategory(c *domain.BlogCategory) error {
	return required(map[string]string{"name": c.Name})
}

func checkTag(t *domain.Tag) error {
	return required(map[string]string{"name": t.Name})
}

func checkUser(u *domain.User) error {
	return required(map[string]string{"username": u.Username})
}

func checkProduct(p *domain.Product) error {
	if err := required(map[string]string{"name": p.Name}); err != nil {
		return err
	}
	fields := map[string]string{}
	if p.Price.IsNegative() {
		fields["price"] = "price must not be negative"
	}
	if p.SalePrice.IsNegative() {
		fields["salePrice"] = "sale price must not be negative"
	} else if p.SalePrice.GreaterThan(p.Price) {
		fields["salePrice"] = "sale price must not exceed the price"
	}
	if p.Stock < 0 {
		fields["stock"] = "stock must not be negative"
	}
	if len(fields) > 0 {
		return domain.NewValidationError(fields)
	}
	return nil
}

func checkDiscount(d *domain.Discount) error {
	if err := required(map[string]string{"name": d.Name, "discountCode": d.DiscountCode}); err != nil {
		return err
	}
	fields := map[string]string{}
	switch d.DiscountType {
	case domain.DiscountPercentage:
		if d.DiscountValue.GreaterThan(hundred) {
			fields["discountValue"] = "percentage discount must not exceed 100"
		}
	case domain.DiscountFixed:
	default:
		fields["discountType"] = "unknown discount type"
	}
	if !d.DiscountValue.IsPositive() {
		fields["discountValue"] = "discount value must be greater than 0"
	}
	if !d.StartDate.IsZero() && !d.EndDate.IsZero() && !d.StartDate.Before(d.EndDate) {
		fields["endDate"] = "end date must be after the start date"
	}
	if len(fields) > 0 {
		return domain.NewValidationError(fields)
	}
	return nil
}
