package devapi

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Thutra02/mypham-fe/internal/domain"
	"github.com/Thutra02/mypham-fe/internal/pkg"
)

// Seed fills an empty database with sample catalogue, order and blog data.
// It does nothing when any user already exists.
func Seed(ctx context.Context, db *gorm.DB, now time.Time) error {
	var users int64
	if err := db.WithContext(ctx).Model(&domain.User{}).Count(&users).Error; err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if users > 0 {
		return nil
	}

	return pkg.WithTx(ctx, db, func(tx *gorm.DB) error {
		admin := domain.User{Username: "admin", Email: "admin@example.com", FullName: "Shop Admin", Role: domain.RoleAdmin, Active: true}
		staff := domain.User{Username: "staff", Email: "staff@example.com", FullName: "Shop Staff", Role: "STAFF", Active: true}
		customer := domain.User{Username: "lan.nguyen", Email: "lan@example.com", FullName: "Nguyễn Lan", Role: "CUSTOMER", Active: true}
		for _, u := range []*domain.User{&admin, &staff, &customer} {
			if err := tx.Create(u).Error; err != nil {
				return fmt.Errorf("seed user %s: %w", u.Username, err)
			}
		}

		brands := []domain.Brand{
			{Name: "La Roche-Posay", Description: "Dermatological skincare", Active: true},
			{Name: "Innisfree", Description: "Natural ingredients from Jeju", Active: true},
			{Name: "Bioderma", Description: "Micellar water and sensitive skin care", Active: false},
		}
		if err := tx.Create(&brands).Error; err != nil {
			return fmt.Errorf("seed brands: %w", err)
		}

		categories := []domain.Category{
			{Name: "Cleanser", Description: "Face washes and micellar water", Active: true},
			{Name: "Serum", Active: true},
			{Name: "Sunscreen", Active: true},
		}
		if err := tx.Create(&categories).Error; err != nil {
			return fmt.Errorf("seed categories: %w", err)
		}

		products := []domain.Product{
			{Name: "Effaclar Gel", Price: decimal.NewFromInt(395000), SalePrice: decimal.NewFromInt(350000), Stock: 40, CategoryID: categories[0].ID, BrandID: brands[0].ID, Active: true},
			{Name: "Green Tea Seed Serum", Price: decimal.NewFromInt(550000), SalePrice: decimal.NewFromInt(550000), Stock: 25, CategoryID: categories[1].ID, BrandID: brands[1].ID, Active: true},
			{Name: "Anthelios UVMune 400", Price: decimal.NewFromInt(495000), SalePrice: decimal.NewFromInt(445000), Stock: 0, CategoryID: categories[2].ID, BrandID: brands[0].ID, Active: false},
		}
		if err := tx.Create(&products).Error; err != nil {
			return fmt.Errorf("seed products: %w", err)
		}

		discounts := []domain.Discount{
			{Name: "Welcome", DiscountCode: "WELCOME10", DiscountType: domain.DiscountPercentage, DiscountValue: decimal.NewFromInt(10), MaxDiscountAmount: decimal.NewFromInt(100000), MaxUsage: 100, StartDate: now.AddDate(0, -1, 0), EndDate: now.AddDate(0, 2, 0), Active: true},
			{Name: "Summer sale", DiscountCode: "SUMMER50K", DiscountType: domain.DiscountFixed, DiscountValue: decimal.NewFromInt(50000), MinOrderValue: decimal.NewFromInt(300000), MaxUsage: 50, StartDate: now.AddDate(0, -3, 0), EndDate: now.AddDate(0, -1, 0)},
		}
		if err := tx.Create(&discounts).Error; err != nil {
			return fmt.Errorf("seed discounts: %w", err)
		}

		if err := tx.Create(seedOrders(customer, now)).Error; err != nil {
			return fmt.Errorf("seed orders: %w", err)
		}

		blogCategories := []domain.BlogCategory{
			{Name: "Skincare tips", Active: true},
			{Name: "News", Active: true},
		}
		if err := tx.Create(&blogCategories).Error; err != nil {
			return fmt.Errorf("seed blog categories: %w", err)
		}
		tags, err := resolveTags(tx, []string{"routine", "sunscreen", "acne"})
		if err != nil {
			return fmt.Errorf("seed tags: %w", err)
		}
		blogs := []domain.Blog{
			{
				Title:    "A simple morning routine",
				Content:  "<p>Cleanse, treat, protect.</p>",
				Status:   domain.BlogPublished,
				Category: &domain.NamedRef{ID: blogCategories[0].ID, Name: blogCategories[0].Name},
				Author:   domain.UserRef{ID: admin.ID, Username: admin.Username},
				Tags:     tags[:2],
			},
			{
				Title:   "New arrivals",
				Content: "<p>Coming soon.</p>",
				Status:  domain.BlogDraft,
				Author:  domain.UserRef{ID: staff.ID, Username: staff.Username},
				Tags:    []domain.NamedRef{},
			},
		}
		if err := tx.Create(&blogs).Error; err != nil {
			return fmt.Errorf("seed blogs: %w", err)
		}

		contacts := []domain.Contact{
			{Name: "Minh", Email: "minh@example.com", Message: "Is the serum suitable for oily skin?"},
			{Name: "Hoa", Email: "hoa@example.com", Message: "When will the sunscreen be back in stock?"},
		}
		if err := tx.Create(&contacts).Error; err != nil {
			return fmt.Errorf("seed contacts: %w", err)
		}
		return nil
	})
}

// seedOrders spreads orders over the previous twelve months.
func seedOrders(customer domain.User, now time.Time) []domain.Order {
	orders := make([]domain.Order, 0, 24)
	for i := range 24 {
		placed := now.AddDate(0, -(i / 2), -(i % 28))
		total := decimal.NewFromInt(int64(200000 + 35000*(i%7)))
		final := total
		if i%3 == 0 {
			final = total.Sub(decimal.NewFromInt(20000))
		}
		orders = append(orders, domain.Order{
			OrderID:         fmt.Sprintf("ORD-%s-%03d", placed.Format("200601"), i+1),
			User:            domain.UserRef{ID: customer.ID, Username: customer.Username},
			TotalAmount:     total,
			FinalAmount:     final,
			OrderDate:       placed,
			Status:          domain.OrderStatuses[i%len(domain.OrderStatuses)],
			ShippingAddress: "12 Lê Lợi, Quận 1, TP.HCM",
		})
	}
	return orders
}
