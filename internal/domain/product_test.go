package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func discountWindow(percentage float64, start, end time.Time) *Discount {
	return &Discount{Percentage: percentage, StartDate: &start, EndDate: &end}
}

func TestInStock(t *testing.T) {
	p := &Product{Inventory: 5}
	assert.True(t, p.InStock())

	p.Inventory = 0
	assert.False(t, p.InStock())
}

func TestOnSaleWindow(t *testing.T) {
	now := time.Now()
	yesterday := now.Add(-24 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)

	tests := []struct {
		name     string
		discount *Discount
		want     bool
	}{
		{"no discount", nil, false},
		{"inside window", discountWindow(20, yesterday, tomorrow), true},
		{"window passed", discountWindow(20, now.Add(-48*time.Hour), yesterday), false},
		{"window not started", discountWindow(20, tomorrow, now.Add(48*time.Hour)), false},
		{"zero percentage", discountWindow(0, yesterday, tomorrow), false},
		{"open start", &Discount{Percentage: 10, EndDate: &tomorrow}, true},
		{"open end", &Discount{Percentage: 10, StartDate: &yesterday}, true},
		{"unbounded", &Discount{Percentage: 10}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Product{Price: 100, Discount: tt.discount}
			assert.Equal(t, tt.want, p.OnSale(now))
		})
	}
}

func TestDiscountedPrice(t *testing.T) {
	now := time.Now()
	yesterday := now.Add(-24 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)

	p := &Product{Price: 100.00, Discount: discountWindow(20, yesterday, tomorrow)}
	assert.InDelta(t, 80.00, p.DiscountedPrice(now), 0.001)

	// After the window closes the list price applies again.
	afterEnd := tomorrow.Add(time.Hour)
	assert.InDelta(t, 100.00, p.DiscountedPrice(afterEnd), 0.001)

	// No discount at all.
	p.Discount = nil
	assert.InDelta(t, 100.00, p.DiscountedPrice(now), 0.001)
}

func TestCategoryIsValid(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, c.IsValid(), "category %q should be valid", c)
	}
	assert.False(t, Category("furniture").IsValid())
	assert.False(t, Category("").IsValid())
	assert.False(t, Category("Electronics").IsValid(), "enum membership is case-sensitive")
}

func TestCanMutate(t *testing.T) {
	vendor := Actor{ID: newUUID(t), Role: RoleVendor}
	otherVendor := Actor{ID: newUUID(t), Role: RoleVendor}
	admin := Actor{ID: newUUID(t), Role: RoleAdmin}
	customer := Actor{ID: vendor.ID, Role: RoleCustomer}

	product := &Product{VendorID: vendor.ID}

	assert.True(t, vendor.CanMutate(product))
	assert.False(t, otherVendor.CanMutate(product))
	assert.True(t, admin.CanMutate(product))
	assert.False(t, customer.CanMutate(product), "role matters even when the ID matches")
}

func TestCanCreate(t *testing.T) {
	assert.True(t, Actor{Role: RoleVendor}.CanCreate())
	assert.True(t, Actor{Role: RoleAdmin}.CanCreate())
	assert.False(t, Actor{Role: RoleCustomer}.CanCreate())
}

func newUUID(t *testing.T) uuid.UUID {
	t.Helper()
	return uuid.New()
}
