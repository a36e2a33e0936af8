package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category is the fixed set of product categories.
type Category string

const (
	CategoryElectronics Category = "electronics"
	CategoryClothing    Category = "clothing"
	CategoryBooks       Category = "books"
	CategoryHome        Category = "home"
	CategorySports      Category = "sports"
)

// Categories lists every valid category value.
var Categories = []Category{
	CategoryElectronics,
	CategoryClothing,
	CategoryBooks,
	CategoryHome,
	CategorySports,
}

// IsValid reports whether c is a member of the category enumeration.
func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Discount is a time-windowed percentage reduction on a product's price.
// A nil StartDate or EndDate leaves that side of the window open.
type Discount struct {
	Percentage float64    `json:"percentage"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
}

// ActiveAt reports whether the discount applies at the given instant.
func (d *Discount) ActiveAt(now time.Time) bool {
	if d == nil || d.Percentage <= 0 {
		return false
	}
	if d.StartDate != nil && now.Before(*d.StartDate) {
		return false
	}
	if d.EndDate != nil && now.After(*d.EndDate) {
		return false
	}
	return true
}

// Dimensions are the physical dimensions of a shippable product.
type Dimensions struct {
	Length float64 `json:"length" validate:"gt=0"`
	Width  float64 `json:"width" validate:"gt=0"`
	Height float64 `json:"height" validate:"gt=0"`
}

// Shipping holds the shipping profile of a product.
type Shipping struct {
	Weight       float64    `json:"weight"`
	Dimensions   Dimensions `json:"dimensions"`
	FreeShipping bool       `json:"free_shipping"`
}

// Product represents a product in the catalog
type Product struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Slug        string    `json:"slug" db:"slug"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	Category    Category  `json:"category" db:"category"`
	Images      []string  `json:"images" db:"images"`
	Inventory   int       `json:"inventory" db:"inventory"`
	Tags        []string  `json:"tags" db:"tags"`
	Rating      float64   `json:"rating" db:"rating"`
	ReviewCount int       `json:"review_count" db:"review_count"`
	Active      bool      `json:"active" db:"active"`
	Featured    bool      `json:"featured" db:"featured"`
	Discount    *Discount `json:"discount,omitempty" db:"discount"`
	VendorID    uuid.UUID `json:"vendor_id" db:"vendor_id"`
	Shipping    *Shipping `json:"shipping,omitempty" db:"shipping"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// InStock reports whether any inventory remains.
func (p *Product) InStock() bool {
	return p.Inventory > 0
}

// OnSale reports whether the product's discount window covers now.
func (p *Product) OnSale(now time.Time) bool {
	return p.Discount.ActiveAt(now)
}

// DiscountedPrice returns the effective price at the given instant.
// Outside the discount window it is simply the list price.
func (p *Product) DiscountedPrice(now time.Time) float64 {
	if !p.OnSale(now) {
		return p.Price
	}
	return p.Price * (1 - p.Discount.Percentage/100)
}
