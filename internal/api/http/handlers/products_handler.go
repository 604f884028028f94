package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/catalog-gateway/internal/api/dto"
	"github.com/spec-kit/catalog-gateway/internal/auth"
	"github.com/spec-kit/catalog-gateway/internal/catalog"
	"github.com/spec-kit/catalog-gateway/internal/domain"
	"github.com/spec-kit/catalog-gateway/internal/service"
	apperrors "github.com/spec-kit/catalog-gateway/pkg/util/errorutil"
)

// ProductsHandler exposes the proxied catalog.
type ProductsHandler struct {
	catalog *service.CatalogService
}

// NewProductsHandler constructs handler.
func NewProductsHandler(catalogService *service.CatalogService) *ProductsHandler {
	return &ProductsHandler{catalog: catalogService}
}

// List handles GET /products. An empty catalog is still a 200.
func (h *ProductsHandler) List(c *fiber.Ctx) error {
	authCtx, ok := auth.AuthContextFrom(c)
	if !ok {
		return apperrors.NewMissingToken()
	}

	query, err := parseProductQuery(c)
	if err != nil {
		return err
	}

	products, err := h.catalog.ListProducts(c.UserContext(), authCtx, query)
	if err != nil {
		return mapProxyError(err)
	}
	return c.JSON(dto.ProductListResponse{Data: products})
}

func parseProductQuery(c *fiber.Ctx) (domain.ProductQuery, error) {
	var q domain.ProductQuery
	for name, dst := range map[string]**int{"limit": &q.Limit, "skip": &q.Skip} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return q, apperrors.NewValidationError(name + " must be a non-negative integer")
		}
		*dst = &v
	}
	return q, nil
}

func mapProxyError(err error) error {
	var perr *catalog.ProxyError
	if !errors.As(err, &perr) {
		return apperrors.NewInternalError(err)
	}
	if perr.Kind == catalog.Unreachable {
		return apperrors.NewProxyUnreachable(perr)
	}
	return apperrors.NewProxyUpstreamError(perr.Status, perr.Message, perr)
}
