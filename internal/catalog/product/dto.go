package product

import "github.com/oakline/catalog-api/internal/shared"

// CreateProductRequest is the payload for POST /products. All rules apply.
type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required"`
	Mark        string  `json:"mark"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	ImageURL    string  `json:"image_url" validate:"omitempty,url"`
}

// UpdateProductRequest is the payload for PUT /products/{id}. Only fields
// present in the body are validated and written.
type UpdateProductRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1"`
	Mark        *string  `json:"mark"`
	Category    *string  `json:"category"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Stock       *int     `json:"stock" validate:"omitempty,gte=0"`
	ImageURL    *string  `json:"image_url" validate:"omitempty,url"`
}

// Empty reports whether the update carries no fields at all.
func (u UpdateProductRequest) Empty() bool {
	return u.Name == nil && u.Mark == nil && u.Category == nil &&
		u.Description == nil && u.Price == nil && u.Stock == nil && u.ImageURL == nil
}

// ListResponse is the paginated listing envelope.
type ListResponse struct {
	shared.Pagination
	Data []Product `json:"data"`
}
