package devapi

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Thutra02/mypham-fe/internal/config"
	"github.com/Thutra02/mypham-fe/internal/domain"
	"github.com/Thutra02/mypham-fe/internal/middleware"
	"github.com/Thutra02/mypham-fe/internal/pkg"
)

// Models lists every table the development API owns.
var Models = []any{
	&domain.Brand{},
	&domain.Category{},
	&domain.Product{},
	&domain.Discount{},
	&domain.Order{},
	&domain.BlogCategory{},
	&domain.Tag{},
	&domain.Blog{},
	&domain.User{},
	&domain.Contact{},
}

// Migrate creates or updates the tables of every model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models...)
}

// NewRouter builds the development API engine.
func NewRouter(db *gorm.DB, cfg config.DevAPIConfig, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}

	r := gin.New()
	r.Use(
		middleware.Recovery(logger),
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{TrustUpstream: true}),
		middleware.Logger(logger),
	)

	up := &uploads{dir: cfg.UploadDir}
	api := r.Group("/api")
	// Images are fetched by browsers, which send no bearer token.
	api.GET("/images/:name", up.Image)

	api.Use(Authenticate(cfg.JWTSecret))
	api.POST("/upload", up.Upload)

	NewCollection(NewRepository[domain.Brand](db, Columns{
		Sort:    []string{"name", "created_date"},
		Search:  []string{"name", "description"},
		Filters: map[string]string{"isActive": "active"},
	}), checkBrand).Register(api, "/brands")

	NewCollection(NewRepository[domain.Category](db, Columns{
		Sort:    []string{"name", "created_date"},
		Search:  []string{"name", "description"},
		Filters: map[string]string{"isActive": "active"},
	}), checkCategory).Register(api, "/categories")

	NewCollection(NewRepository[domain.Product](db, Columns{
		Sort:    []string{"name", "price", "stock", "created_date"},
		Search:  []string{"name", "description"},
		Filters: map[string]string{"isActive": "active", "categoryId": "category_id", "brandId": "brand_id"},
	}), checkProduct).Register(api, "/products")

	NewCollection(NewRepository[domain.Discount](db, Columns{
		Sort:    []string{"name", "start_date", "end_date"},
		Search:  []string{"name", "discount_code"},
		Filters: map[string]string{"isActive": "active", "discountType": "discount_type"},
	}), checkDiscount).Register(api, "/discounts")

	ord := newOrders(db)
	ord.Register(api, "/orders")
	api.GET("/reports", ord.Reports)
	api.GET("/reports/order-status", ord.StatusCounts)

	newBlogs(db).Register(api, "/blogs")

	NewCollection(NewRepository[domain.BlogCategory](db, Columns{
		Sort:    []string{"name"},
		Search:  []string{"name", "description"},
		Filters: map[string]string{"isActive": "active"},
	}), checkBlogCategory).Register(api, "/blog-categories")

	NewCollection(NewRepository[domain.Tag](db, Columns{
		Sort:   []string{"name"},
		Search: []string{"name"},
	}), checkTag).Register(api, "/tags")

	NewCollection(NewRepository[domain.User](db, Columns{
		Sort:    []string{"username", "created_date"},
		Search:  []string{"username", "email", "full_name"},
		Filters: map[string]string{"role": "role"},
	}), checkUser).Register(api, "/users")

	NewCollection(NewRepository[domain.Contact](db, Columns{
		Sort:   []string{"created_date"},
		Search: []string{"name", "email", "message"},
	}), nil).Register(api, "/contacts")

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, pkg.Response{Status: pkg.StatusError, Message: "not found"})
	})
	return r
}
