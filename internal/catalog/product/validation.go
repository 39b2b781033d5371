package product

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/oakline/catalog-api/internal/platform/httpx"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateCreate checks a full create payload and returns the first violation.
func ValidateCreate(req CreateProductRequest) error {
	return firstViolation(validate.Struct(req))
}

// ValidateUpdate checks only the fields present in a partial update, with the
// same rules as create.
func ValidateUpdate(req UpdateProductRequest) error {
	if req.Empty() {
		return fmt.Errorf("%w: no fields to update", httpx.ErrValidation)
	}
	return firstViolation(validate.Struct(req))
}

func firstViolation(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: invalid payload", httpx.ErrValidation)
	}
	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%w: %s is required", httpx.ErrValidation, fieldName(fe))
	case "gte":
		return fmt.Errorf("%w: %s must not be negative", httpx.ErrValidation, fieldName(fe))
	case "min":
		return fmt.Errorf("%w: %s must not be empty", httpx.ErrValidation, fieldName(fe))
	case "url":
		return fmt.Errorf("%w: %s must be a valid URL", httpx.ErrValidation, fieldName(fe))
	default:
		return fmt.Errorf("%w: %s is invalid", httpx.ErrValidation, fieldName(fe))
	}
}

func fieldName(fe validator.FieldError) string {
	switch fe.Field() {
	case "Name":
		return "name"
	case "Mark":
		return "mark"
	case "Category":
		return "category"
	case "Description":
		return "description"
	case "Price":
		return "price"
	case "Stock":
		return "stock"
	case "ImageURL":
		return "image_url"
	default:
		return fe.Field()
	}
}
