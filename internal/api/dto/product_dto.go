package dto

import "github.com/spec-kit/catalog-gateway/internal/domain"

// ProductListResponse wraps the product list. Data is never null.
type ProductListResponse struct {
	Data []domain.Product `json:"data"`
}
