package blogcategory

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/Thutra02/mypham-fe/internal/domain"
)

func TestDraft(t *testing.T) {
	if errs := (&Draft{Name: " "}).Validate(); errs["name"] != "Name is required" {
		t.Errorf("Validate() = %v; want name required", errs)
	}

	ts := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	now := ts.Add(time.Hour)
	orig := domain.BlogCategory{
		BaseModel:   domain.BaseModel{ID: 7, CreatedDate: ts, UpdatedDate: ts},
		Name:        "Reviews",
		Description: "Product reviews",
		Active:      true,
	}

	var d Draft
	d.Hydrate(orig)
	if d.Name != orig.Name || d.Description != orig.Description || !d.Active {
		t.Fatalf("Hydrate() = %+v", d)
	}

	d.Active = false
	d.Description = "  Honest reviews  "
	got := d.Payload(&orig, now)

	want := orig
	want.Active = false
	want.Description = "Honest reviews"
	want.UpdatedDate = now
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Payload mismatch (-want +got):\n%s", diff)
	}
}
