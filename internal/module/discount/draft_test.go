package discount

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/Thutra02/mypham-fe/internal/domain"
)

func baseDraft() Draft {
	return Draft{
		Name:              "Summer sale",
		DiscountCode:      "SUMMER10",
		DiscountType:      domain.DiscountPercentage,
		DiscountValue:     "10",
		MinOrderValue:     "100000",
		MaxDiscountAmount: "50000",
		MaxUsage:          100,
		StartDate:         "2024-06-01",
		EndDate:           "2024-06-30",
		Active:            true,
	}
}

func TestDraft_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Draft)
		want   map[string]string
	}{
		{"valid percentage", func(*Draft) {}, map[string]string{}},
		{"percentage at 100", func(d *Draft) { d.DiscountValue = "100" }, map[string]string{}},
		{
			"percentage above 100",
			func(d *Draft) { d.DiscountValue = "150" },
			map[string]string{"discountValue": "Percentage discount must not exceed 100%"},
		},
		{
			"value below 1",
			func(d *Draft) { d.DiscountValue = "0" },
			map[string]string{"discountValue": "Discount value must be greater than 0"},
		},
		{
			"fixed above max amount",
			func(d *Draft) { d.DiscountType = domain.DiscountFixed; d.DiscountValue = "60000" },
			map[string]string{"discountValue": "Discount value must not exceed the maximum discount amount"},
		},
		{
			"fixed without a cap",
			func(d *Draft) {
				d.DiscountType = domain.DiscountFixed
				d.DiscountValue = "60000"
				d.MaxDiscountAmount = "0"
			},
			map[string]string{},
		},
		{
			"fixed may exceed 100",
			func(d *Draft) { d.DiscountType = domain.DiscountFixed; d.DiscountValue = "20000" },
			map[string]string{},
		},
		{
			"start after end",
			func(d *Draft) { d.StartDate = "2024-07-01" },
			map[string]string{
				"startDate": "Start date must be before the end date",
				"endDate":   "End date must be after the start date",
			},
		},
		{
			"same day",
			func(d *Draft) { d.EndDate = d.StartDate },
			map[string]string{
				"startDate": "Start date must be before the end date",
				"endDate":   "End date must be after the start date",
			},
		},
		{
			"missing dates",
			func(d *Draft) { d.StartDate, d.EndDate = "", "" },
			map[string]string{"startDate": "Start date is required", "endDate": "End date is required"},
		},
		{
			"garbled date",
			func(d *Draft) { d.EndDate = "30/06/2024" },
			map[string]string{"endDate": "End date is not a valid date"},
		},
		{
			"unknown type",
			func(d *Draft) { d.DiscountType = "BOGO" },
			map[string]string{"discountType": "Discount type must be one of: PERCENTAGE, FIXED"},
		},
		{
			"negative minimum",
			func(d *Draft) { d.MinOrderValue = "-5" },
			map[string]string{"minOrderValue": "Minimum order value must not be negative"},
		},
		{
			"required fields",
			func(d *Draft) { d.Name, d.DiscountCode, d.DiscountValue = "", " ", "" },
			map[string]string{
				"name":          "Name is required",
				"discountCode":  "Discount code is required",
				"discountValue": "Discount value is required",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := baseDraft()
			tt.mutate(&d)
			if diff := cmp.Diff(tt.want, map[string]string(d.Validate())); diff != "" {
				t.Errorf("Validate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDraft_ValidationNeverTouchesPayload(t *testing.T) {
	d := baseDraft()
	d.DiscountValue = "150"
	if errs := d.Validate(); !errs.Has("discountValue") {
		t.Fatal("percentage above 100 must be rejected")
	}
	if err := d.Validate().Err(); !domain.IsValidation(err) {
		t.Errorf("Err() = %v; want a validation error", err)
	}
}

func TestDraft_RoundTrip(t *testing.T) {
	productID := uint(12)
	created := time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)
	orig := domain.Discount{
		BaseModel:           domain.BaseModel{ID: 3, CreatedDate: created, UpdatedDate: created},
		Name:                "Summer sale",
		DiscountCode:        "SUMMER10",
		DiscountType:        domain.DiscountPercentage,
		DiscountValue:       decimal.RequireFromString("10.00"),
		MinOrderValue:       decimal.RequireFromString("100000"),
		MaxDiscountAmount:   decimal.RequireFromString("50000.00"),
		MaxUsage:            100,
		UsageCount:          7,
		ApplicableProductID: &productID,
		StartDate:           time.Date(2024, 6, 1, 7, 0, 0, 0, time.UTC),
		EndDate:             time.Date(2024, 6, 30, 7, 0, 0, 0, time.UTC),
		Active:              true,
	}

	var d Draft
	d.Hydrate(orig)
	if errs := d.Validate(); len(errs) != 0 {
		t.Fatalf("hydrated draft invalid: %v", errs)
	}
	now := created.Add(24 * time.Hour)
	got := d.Payload(&orig, now)

	want := orig
	want.UpdatedDate = now
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unchanged form must round-trip (-want +got):\n%s", diff)
	}
}

func TestDraft_PayloadNew(t *testing.T) {
	now := time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)
	d := baseDraft()
	got := d.Payload(nil, now)

	if got.ID != 0 || got.UsageCount != 0 || got.ApplicableProductID != nil {
		t.Errorf("new discount carries server-owned values: %+v", got)
	}
	if !got.DiscountValue.Equal(decimal.NewFromInt(10)) {
		t.Errorf("DiscountValue = %s; want 10", got.DiscountValue)
	}
	if want := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC); !got.StartDate.Equal(want) {
		t.Errorf("StartDate = %v; want %v", got.StartDate, want)
	}
	if !got.CreatedDate.Equal(now) {
		t.Errorf("CreatedDate = %v; want %v", got.CreatedDate, now)
	}
}
