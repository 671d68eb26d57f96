package domain

import "github.com/shopspring/decimal"

// Brand is a product brand.
type Brand struct {
	BaseModel
	Name        string `gorm:"size:150;not null" json:"name"`
	Description string `gorm:"size:1000" json:"description"`
	Image       string `gorm:"size:500" json:"image"`
	Active      bool   `json:"active"`
}

// Category is a product category.
type Category struct {
	BaseModel
	Name        string `gorm:"size:150;not null" json:"name"`
	Description string `gorm:"size:1000" json:"description"`
	Image       string `gorm:"size:500" json:"image"`
	Active      bool   `json:"active"`
}

// Product is a sellable item. Prices are carried as decimals so that money
// never goes through float64.
type Product struct {
	BaseModel
	Name        string          `gorm:"size:255;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Image       string          `gorm:"size:500" json:"image"`
	Price       decimal.Decimal `gorm:"type:decimal(15,2)" json:"price"`
	SalePrice   decimal.Decimal `gorm:"type:decimal(15,2)" json:"salePrice"`
	Stock       int             `json:"stock"`
	CategoryID  uint            `gorm:"index" json:"categoryId"`
	BrandID     uint            `gorm:"index" json:"brandId"`
	Active      bool            `json:"active"`
}

// Tag labels blog posts.
type Tag struct {
	BaseModel
	Name string `gorm:"size:100;uniqueIndex;not null" json:"name"`
}

// BlogCategory groups blog posts.
type BlogCategory struct {
	BaseModel
	Name        string `gorm:"size:150;not null" json:"name"`
	Description string `gorm:"size:1000" json:"description"`
	Active      bool   `json:"active"`
}

// Contact is a message left by a shop visitor.
type Contact struct {
	BaseModel
	Name    string `gorm:"size:150" json:"name"`
	Email   string `gorm:"size:255" json:"email"`
	Message string `gorm:"type:text" json:"message"`
}

// User is a shop account as seen by the console.
type User struct {
	BaseModel
	Username string `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Email    string `gorm:"size:255" json:"email"`
	FullName string `gorm:"size:255" json:"fullName"`
	Role     string `gorm:"size:30" json:"role"`
	Active   bool   `json:"active"`
}

// RoleAdmin is the role allowed to cancel orders.
const RoleAdmin = "ADMIN"
