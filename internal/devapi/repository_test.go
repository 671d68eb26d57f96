package devapi

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/go-cmp/cmp"
	"gorm.io/gorm"

	"github.com/Thutra02/mypham-fe/internal/domain"
)

// setupTestDB creates an in-memory SQLite database with every table.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	// Every pooled connection would otherwise open its own empty database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func brandRepo(db *gorm.DB) *Repository[domain.Brand, *domain.Brand] {
	return NewRepository[domain.Brand](db, Columns{
		Sort:    []string{"name"},
		Search:  []string{"name", "description"},
		Filters: map[string]string{"isActive": "active"},
	})
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo := brandRepo(setupTestDB(t))
	ctx := context.Background()

	b := &domain.Brand{BaseModel: domain.BaseModel{ID: 42}, Name: "Innisfree", Active: true}
	if err := repo.Create(ctx, b); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.ID == 0 || b.ID == 42 {
		t.Fatalf("ID = %d; want a store-assigned id", b.ID)
	}

	got, err := repo.Get(ctx, b.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Innisfree" || !got.Active {
		t.Errorf("got %+v", got)
	}

	if _, err := repo.Get(ctx, 999); !domain.IsNotFound(err) {
		t.Errorf("Get(999) = %v; want not found", err)
	}
}

func TestRepository_List(t *testing.T) {
	repo := brandRepo(setupTestDB(t))
	ctx := context.Background()
	for i := range 7 {
		b := &domain.Brand{Name: fmt.Sprintf("Brand %d", i), Active: i%2 == 0}
		if i == 3 {
			b.Description = "Korean skincare"
		}
		if err := repo.Create(ctx, b); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	tests := []struct {
		name      string
		req       domain.PageRequest
		wantNames []string
		wantPage  domain.Pagination
	}{
		{
			name:      "newest first by default",
			req:       domain.PageRequest{Page: 1, PageSize: 3, Sort: "id:desc"},
			wantNames: []string{"Brand 6", "Brand 5", "Brand 4"},
			wantPage:  domain.Pagination{CurrentPage: 1, TotalPages: 3, TotalElements: 7, PageSize: 3},
		},
		{
			name:      "last partial page",
			req:       domain.PageRequest{Page: 3, PageSize: 3, Sort: "id:asc"},
			wantNames: []string{"Brand 6"},
			wantPage:  domain.Pagination{CurrentPage: 3, TotalPages: 3, TotalElements: 7, PageSize: 3},
		},
		{
			name:      "search matches description case-insensitively",
			req:       domain.PageRequest{Page: 1, PageSize: 10, Search: "KOREAN", Sort: "id:asc"},
			wantNames: []string{"Brand 3"},
			wantPage:  domain.Pagination{CurrentPage: 1, TotalPages: 1, TotalElements: 1, PageSize: 10},
		},
		{
			name:      "boolean filter",
			req:       domain.PageRequest{Page: 1, PageSize: 10, Sort: "id:asc", Filter: map[string]string{"isActive": "false"}},
			wantNames: []string{"Brand 1", "Brand 3", "Brand 5"},
			wantPage:  domain.Pagination{CurrentPage: 1, TotalPages: 1, TotalElements: 3, PageSize: 10},
		},
		{
			name:      "unknown filter ignored",
			req:       domain.PageRequest{Page: 1, PageSize: 2, Sort: "name:desc", Filter: map[string]string{"password": "x"}},
			wantNames: []string{"Brand 6", "Brand 5"},
			wantPage:  domain.Pagination{CurrentPage: 1, TotalPages: 4, TotalElements: 7, PageSize: 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := repo.List(ctx, tt.req)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			names := make([]string, 0, len(page.Items))
			for _, b := range page.Items {
				names = append(names, b.Name)
			}
			if diff := cmp.Diff(tt.wantNames, names); diff != "" {
				t.Errorf("names mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantPage, page.Pagination); diff != "" {
				t.Errorf("pagination mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRepository_UpdateKeepsCreatedDate(t *testing.T) {
	repo := brandRepo(setupTestDB(t))
	ctx := context.Background()

	b := &domain.Brand{Name: "Old", Active: true}
	if err := repo.Create(ctx, b); err != nil {
		t.Fatalf("Create: %v", err)
	}
	created := b.CreatedDate

	got, err := repo.Update(ctx, b.ID, &domain.Brand{Name: "New", Active: false})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Name != "New" || got.Active {
		t.Errorf("Update() = %+v; want Name=New, Active=false", got)
	}
	if got.CreatedDate.Sub(created).Abs() > time.Second {
		t.Errorf("CreatedDate = %v; want %v", got.CreatedDate, created)
	}

	if _, err := repo.Update(ctx, 999, &domain.Brand{Name: "x"}); !domain.IsNotFound(err) {
		t.Errorf("Update(999) = %v; want not found", err)
	}
}

func TestRepository_Delete(t *testing.T) {
	repo := brandRepo(setupTestDB(t))
	ctx := context.Background()

	b := &domain.Brand{Name: "Gone"}
	if err := repo.Create(ctx, b); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Delete(ctx, b.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, b.ID); !domain.IsNotFound(err) {
		t.Errorf("second Delete = %v; want not found", err)
	}
}

func TestRepository_DuplicateKey(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository[domain.Tag](db, Columns{Search: []string{"name"}})
	ctx := context.Background()

	if err := repo.Create(ctx, &domain.Tag{Name: "acne"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, &domain.Tag{Name: "acne"}); !domain.IsAlreadyExists(err) {
		t.Errorf("duplicate Create = %v; want already exists", err)
	}
}

func TestMonthlyReports(t *testing.T) {
	d := func(y int, m time.Month, day int) time.Time { return time.Date(y, m, day, 10, 0, 0, 0, time.UTC) }
	rows := []domain.Order{
		{OrderDate: d(2024, 3, 2), TotalAmount: dec("50"), FinalAmount: dec("50")},
		{OrderDate: d(2024, 1, 5), TotalAmount: dec("100"), FinalAmount: dec("90")},
		{OrderDate: d(2023, 12, 31), TotalAmount: dec("10"), FinalAmount: dec("10")},
		{OrderDate: d(2024, 1, 20), TotalAmount: dec("100"), FinalAmount: dec("90")},
	}

	got := monthlyReports(rows)
	type row struct {
		Year, Month    int
		Revenue, Final string
		Orders         int64
	}
	simplified := make([]row, 0, len(got))
	for _, r := range got {
		simplified = append(simplified, row{r.Year, r.Month, r.TotalRevenue.String(), r.TotalDiscountedRevenue.String(), r.TotalOrders})
	}
	want := []row{
		{2023, 12, "10", "10", 1},
		{2024, 1, "200", "180", 2},
		{2024, 3, "50", "50", 1},
	}
	if diff := cmp.Diff(want, simplified); diff != "" {
		t.Errorf("monthlyReports() mismatch (-want +got):\n%s", diff)
	}
}

func TestSeed_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	if err := Seed(ctx, db, now); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if err := Seed(ctx, db, now); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	counts := map[string]int64{}
	for name, model := range map[string]any{
		"users":  &domain.User{},
		"brands": &domain.Brand{},
		"orders": &domain.Order{},
		"blogs":  &domain.Blog{},
		"tags":   &domain.Tag{},
	} {
		var n int64
		if err := db.Model(model).Count(&n).Error; err != nil {
			t.Fatalf("count %s: %v", name, err)
		}
		counts[name] = n
	}
	want := map[string]int64{"users": 3, "brands": 3, "orders": 24, "blogs": 2, "tags": 3}
	if diff := cmp.Diff(want, counts); diff != "" {
		t.Errorf("row counts mismatch (-want +got):\n%s", diff)
	}
}
