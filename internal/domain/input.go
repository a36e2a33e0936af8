package domain

import "time"

// DiscountInput is the discount sub-record of a create or update payload.
// Percentage is a pointer so an update can adjust dates without restating it.
type DiscountInput struct {
	Percentage *float64   `json:"percentage" validate:"omitempty,gte=0,lte=99"`
	StartDate  *time.Time `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
}

// ShippingInput is the shipping sub-record of a create or update payload.
type ShippingInput struct {
	Weight       float64    `json:"weight" validate:"gt=0"`
	Dimensions   Dimensions `json:"dimensions"`
	FreeShipping bool       `json:"free_shipping"`
}

// ProductInput is a full create payload. Every constraint the catalog
// enforces on a new product is expressed here as a validation tag; the
// cross-field discount date ordering is checked separately.
type ProductInput struct {
	Name        string         `json:"name" validate:"required,min=3,max=200"`
	Description string         `json:"description" validate:"required,min=10,max=2000"`
	Price       float64        `json:"price" validate:"required,gte=0.01,lte=999999.99"`
	Category    Category       `json:"category" validate:"required,category"`
	Images      []string       `json:"images" validate:"required,min=1,max=10,dive,image_url"`
	Inventory   int            `json:"inventory" validate:"gte=0"`
	Tags        []string       `json:"tags" validate:"max=10,dive,max=50"`
	Rating      float64        `json:"rating" validate:"gte=0,lte=5"`
	Featured    bool           `json:"featured"`
	Discount    *DiscountInput `json:"discount,omitempty"`
	Shipping    *ShippingInput `json:"shipping" validate:"required"`
}

// ProductPatch is a partial update payload. Nil fields are left untouched
// and are not re-validated; supplied fields must satisfy the same
// constraints as on create.
type ProductPatch struct {
	Name        *string        `json:"name,omitempty" validate:"omitempty,min=3,max=200"`
	Description *string        `json:"description,omitempty" validate:"omitempty,min=10,max=2000"`
	Price       *float64       `json:"price,omitempty" validate:"omitempty,gte=0.01,lte=999999.99"`
	Category    *Category      `json:"category,omitempty" validate:"omitempty,category"`
	Images      []string       `json:"images,omitempty" validate:"omitempty,min=1,max=10,dive,image_url"`
	Inventory   *int           `json:"inventory,omitempty" validate:"omitempty,gte=0"`
	Tags        []string       `json:"tags,omitempty" validate:"omitempty,max=10,dive,max=50"`
	Rating      *float64       `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	Featured    *bool          `json:"featured,omitempty"`
	Discount    *DiscountInput `json:"discount,omitempty"`
	Shipping    *ShippingInput `json:"shipping,omitempty"`
}
