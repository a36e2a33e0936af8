package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"catalog-api/internal/domain"

	"github.com/go-playground/validator/v10"
)

// imageURLPattern matches http(s) URLs ending in an allowed image extension.
var imageURLPattern = regexp.MustCompile(`^https?://\S+\.(jpg|jpeg|png|gif|webp)$`)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report violations under the wire field name, not the Go field name.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	validate.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return domain.Category(fl.Field().String()).IsValid()
	})

	validate.RegisterValidation("image_url", func(fl validator.FieldLevel) bool {
		return imageURLPattern.MatchString(strings.ToLower(fl.Field().String()))
	})
}

// FieldError describes a single violated constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is the full set of constraint violations found in one pass.
type Errors []FieldError

func (e Errors) Error() string {
	fields := make([]string, len(e))
	for i, fe := range e {
		fields[i] = fe.Field
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(fields, ", "))
}

// ValidateCreate checks a full create payload and returns every violation.
func ValidateCreate(in *domain.ProductInput) error {
	errs := collect(validate.Struct(in))
	if in.Discount != nil {
		errs = append(errs, checkDiscountWindow(in.Discount.StartDate, in.Discount.EndDate)...)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateUpdate checks a partial update payload. Only supplied fields are
// validated; the discount window is completed from the existing record
// before the ordering check so a one-sided date change is still caught.
func ValidateUpdate(patch *domain.ProductPatch, existing *domain.Product) error {
	errs := collect(validate.Struct(patch))
	if patch.Discount != nil {
		start := patch.Discount.StartDate
		end := patch.Discount.EndDate
		if existing != nil && existing.Discount != nil {
			if start == nil {
				start = existing.Discount.StartDate
			}
			if end == nil {
				end = existing.Discount.EndDate
			}
		}
		errs = append(errs, checkDiscountWindow(start, end)...)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// checkDiscountWindow enforces end > start once both bounds are known.
func checkDiscountWindow(start, end *time.Time) Errors {
	if start == nil || end == nil {
		return nil
	}
	if !end.After(*start) {
		return Errors{{
			Field:   "discount.end_date",
			Message: "must be after discount.start_date",
		}}
	}
	return nil
}

// collect flattens validator output into field errors. All violations from
// a single Struct call are reported, not just the first.
func collect(err error) Errors {
	if err == nil {
		return nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return Errors{{Field: "payload", Message: err.Error()}}
	}

	errs := make(Errors, 0, len(validationErrors))
	for _, e := range validationErrors {
		errs = append(errs, FieldError{
			Field:   fieldPath(e),
			Message: message(e),
		})
	}
	return errs
}

// fieldPath strips the payload struct name from the validator namespace,
// leaving a dotted path like "shipping.dimensions.length".
func fieldPath(e validator.FieldError) string {
	path := e.Namespace()
	if i := strings.Index(path, "."); i >= 0 {
		path = path[i+1:]
	}
	return path
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "this field is required"
	case "min":
		if e.Kind() == reflect.String {
			return "must be at least " + e.Param() + " characters"
		}
		return "must contain at least " + e.Param() + " entries"
	case "max":
		if e.Kind() == reflect.String {
			return "must be at most " + e.Param() + " characters"
		}
		return "must contain at most " + e.Param() + " entries"
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "lt":
		return "must be less than " + e.Param()
	case "category":
		return "must be one of: electronics, clothing, books, home, sports"
	case "image_url":
		return "must be an http(s) URL ending in jpg, jpeg, png, gif or webp"
	default:
		return "invalid value"
	}
}
