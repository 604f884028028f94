package domain

// Product is the public projection of an upstream catalog record.
type Product struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

// ProductQuery carries optional pagination forwarded to the upstream catalog.
type ProductQuery struct {
	Limit *int
	Skip  *int
}
