package validation

import (
	"strings"
	"testing"
	"time"

	"catalog-api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() *domain.ProductInput {
	return &domain.ProductInput{
		Name:        "Wireless Bluetooth Headphones",
		Description: "Noise-cancelling over-ear headphones with 30 hour battery.",
		Price:       99.99,
		Category:    domain.CategoryElectronics,
		Images:      []string{"https://cdn.example.com/headphones.jpg"},
		Inventory:   5,
		Tags:        []string{"audio", "wireless"},
		Rating:      4.5,
		Shipping: &domain.ShippingInput{
			Weight: 0.75,
			Dimensions: domain.Dimensions{
				Length: 20, Width: 18, Height: 9,
			},
		},
	}
}

func fields(err error) []string {
	errs, ok := err.(Errors)
	if !ok {
		return nil
	}
	names := make([]string, len(errs))
	for i, fe := range errs {
		names[i] = fe.Field
	}
	return names
}

func TestValidateCreateAcceptsValidInput(t *testing.T) {
	assert.NoError(t, ValidateCreate(validInput()))
}

func TestValidateCreateReportsEveryViolation(t *testing.T) {
	in := validInput()
	in.Name = "ab"                          // too short
	in.Description = "short"                // too short
	in.Price = 0                            // below minimum
	in.Category = "furniture"               // not in enum
	in.Images = []string{"not-a-url"}       // bad pattern
	in.Rating = 7                           // above 5
	in.Inventory = -1                       // negative

	err := ValidateCreate(in)
	require.Error(t, err)

	got := fields(err)
	for _, want := range []string{"name", "description", "price", "category", "rating", "inventory"} {
		assert.Contains(t, got, want)
	}
	// The image violation is reported under its indexed path.
	assert.True(t, containsPrefix(got, "images["), "expected an images[i] violation, got %v", got)
	assert.GreaterOrEqual(t, len(got), 7, "every independent violation must be reported")
}

func TestValidateCreateRequiresShipping(t *testing.T) {
	in := validInput()
	in.Shipping = nil

	err := ValidateCreate(in)
	require.Error(t, err)
	assert.Contains(t, fields(err), "shipping")
}

func TestValidateCreateShippingDimensions(t *testing.T) {
	in := validInput()
	in.Shipping.Weight = 0
	in.Shipping.Dimensions.Height = -1

	err := ValidateCreate(in)
	require.Error(t, err)

	got := fields(err)
	assert.Contains(t, got, "shipping.weight")
	assert.Contains(t, got, "shipping.dimensions.height")
}

func TestValidateCreateImageLimits(t *testing.T) {
	in := validInput()
	in.Images = nil
	err := ValidateCreate(in)
	require.Error(t, err)
	assert.Contains(t, fields(err), "images")

	in = validInput()
	in.Images = make([]string, 11)
	for i := range in.Images {
		in.Images[i] = "https://cdn.example.com/a.png"
	}
	err = ValidateCreate(in)
	require.Error(t, err)
	assert.Contains(t, fields(err), "images")
}

func TestValidateCreateTagLimits(t *testing.T) {
	in := validInput()
	in.Tags = []string{strings.Repeat("x", 51)}

	err := ValidateCreate(in)
	require.Error(t, err)
	assert.True(t, containsPrefix(fields(err), "tags["))
}

func TestValidateCreateDiscountWindow(t *testing.T) {
	start := time.Now()
	end := start.Add(-time.Hour)
	pct := 20.0

	in := validInput()
	in.Discount = &domain.DiscountInput{Percentage: &pct, StartDate: &start, EndDate: &end}

	err := ValidateCreate(in)
	require.Error(t, err)
	assert.Contains(t, fields(err), "discount.end_date")

	// A correctly ordered window passes.
	goodEnd := start.Add(time.Hour)
	in.Discount.EndDate = &goodEnd
	assert.NoError(t, ValidateCreate(in))
}

func TestValidateCreateDiscountPercentageBound(t *testing.T) {
	pct := 100.0
	in := validInput()
	in.Discount = &domain.DiscountInput{Percentage: &pct}

	err := ValidateCreate(in)
	require.Error(t, err)
	assert.Contains(t, fields(err), "discount.percentage")
}

func TestValidateUpdateChecksOnlySuppliedFields(t *testing.T) {
	// An empty patch is valid regardless of the record's state.
	assert.NoError(t, ValidateUpdate(&domain.ProductPatch{}, &domain.Product{}))

	badName := "ab"
	err := ValidateUpdate(&domain.ProductPatch{Name: &badName}, &domain.Product{})
	require.Error(t, err)
	assert.Equal(t, []string{"name"}, fields(err))
}

func TestValidateUpdateDiscountUsesExistingBound(t *testing.T) {
	existingStart := time.Now()
	existing := &domain.Product{
		Discount: &domain.Discount{Percentage: 10, StartDate: &existingStart},
	}

	// Supplying only an end date before the stored start date must fail.
	badEnd := existingStart.Add(-time.Hour)
	err := ValidateUpdate(&domain.ProductPatch{
		Discount: &domain.DiscountInput{EndDate: &badEnd},
	}, existing)
	require.Error(t, err)
	assert.Contains(t, fields(err), "discount.end_date")

	goodEnd := existingStart.Add(time.Hour)
	assert.NoError(t, ValidateUpdate(&domain.ProductPatch{
		Discount: &domain.DiscountInput{EndDate: &goodEnd},
	}, existing))
}

func TestErrorsMessage(t *testing.T) {
	err := Errors{{Field: "name", Message: "too short"}, {Field: "price", Message: "too low"}}
	assert.Equal(t, "validation failed: name, price", err.Error())
}

func containsPrefix(values []string, prefix string) bool {
	for _, v := range values {
		if strings.HasPrefix(v, prefix) {
			return true
		}
	}
	return false
}
