package product

// Product represents a catalog item.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Mark        string  `json:"mark"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	ImageURL    string  `json:"image_url,omitempty"`
	PublicID    string  `json:"public_id,omitempty"`
}

// RatedProduct is a Product enriched with review aggregates.
type RatedProduct struct {
	Product
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int     `json:"reviewCount"`
}
