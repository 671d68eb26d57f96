package product

import (
	"strings"
	"time"

	"github.com/Thutra02/mypham-fe/internal/domain"
	"github.com/Thutra02/mypham-fe/internal/form"
)

// Draft is the product form. Money fields stay strings until Payload so an
// invalid entry is reported instead of silently zeroed.
type Draft struct {
	Name        string `form:"name" label:"Name" validate:"required,max=255"`
	Description string `form:"description" label:"Description"`
	Image       string `form:"image" label:"Image" validate:"max=500"`
	Price       string `form:"price" label:"Price" validate:"required,numeric"`
	SalePrice   string `form:"salePrice" label:"Sale price" validate:"omitempty,numeric"`
	Stock       int    `form:"stock" label:"Stock" validate:"gte=0"`
	CategoryID  uint   `form:"categoryId" label:"Category" validate:"required"`
	BrandID     uint   `form:"brandId" label:"Brand" validate:"required"`
	Active      bool   `form:"active"`
}

// Hydrate fills the draft from a fetched product.
func (d *Draft) Hydrate(p domain.Product) {
	d.Name = p.Name
	d.Description = p.Description
	d.Image = p.Image
	d.Price = form.FormatDecimal(p.Price)
	d.SalePrice = form.FormatDecimal(p.SalePrice)
	d.Stock = p.Stock
	d.CategoryID = p.CategoryID
	d.BrandID = p.BrandID
	d.Active = p.Active
}

// Payload builds the product to send, keeping the server-owned fields of orig
// on update.
func (d *Draft) Payload(orig *domain.Product, now time.Time) domain.Product {
	var p domain.Product
	if orig != nil {
		p = *orig
	} else {
		p.CreatedDate = now
	}
	p.Name = strings.TrimSpace(d.Name)
	p.Description = strings.TrimSpace(d.Description)
	p.Image = d.Image
	p.Price = form.DecimalOr(p.Price, d.Price)
	p.SalePrice = form.DecimalOr(p.SalePrice, d.SalePrice)
	p.Stock = d.Stock
	p.CategoryID = d.CategoryID
	p.BrandID = d.BrandID
	p.Active = d.Active
	p.UpdatedDate = now
	return p
}

// Validate checks the field rules and that the sale price neither is
// negative nor exceeds the price.
func (d *Draft) Validate() form.FieldErrors {
	d.Name = strings.TrimSpace(d.Name)
	d.Price = strings.TrimSpace(d.Price)
	d.SalePrice = strings.TrimSpace(d.SalePrice)

	errs := form.Validate(d)
	if !errs.Has("price") && form.Decimal(d.Price).IsNegative() {
		errs.Add("price", "Price must not be negative")
	}
	if !errs.Has("salePrice") && d.SalePrice != "" {
		sale := form.Decimal(d.SalePrice)
		switch {
		case sale.IsNegative():
			errs.Add("salePrice", "Sale price must not be negative")
		case !errs.Has("price") && sale.GreaterThan(form.Decimal(d.Price)):
			errs.Add("salePrice", "Sale price must not exceed the price")
		}
	}
	return errs
}

func (d *Draft) ImageRef() string       { return d.Image }
func (d *Draft) SetImageRef(ref string) { d.Image = ref }
