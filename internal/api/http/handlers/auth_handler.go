package handlers

import (
	"errors"
	"mime"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/catalog-gateway/internal/api/dto"
	"github.com/spec-kit/catalog-gateway/internal/domain"
	"github.com/spec-kit/catalog-gateway/internal/service"
	apperrors "github.com/spec-kit/catalog-gateway/pkg/util/errorutil"
)

// CookieSettings controls how the token cookie is written.
type CookieSettings struct {
	Name     string
	Secure   bool
	SameSite http.SameSite
}

// AuthHandler exposes the authentication endpoint.
type AuthHandler struct {
	auth   *service.AuthService
	cookie CookieSettings
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, cookie CookieSettings) *AuthHandler {
	return &AuthHandler{auth: authService, cookie: cookie}
}

// Login handles POST /auth.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	mediaType, _, err := mime.ParseMediaType(string(c.Request().Header.ContentType()))
	if err != nil || mediaType != fiber.MIMEApplicationJSON {
		return apperrors.NewUnsupportedMediaType()
	}

	var req dto.AuthRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}

	token, meta, err := h.auth.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return apperrors.NewInvalidCredentials()
		}
		return apperrors.NewInternalError(err)
	}

	c.Cookie(h.tokenCookie(token, meta))
	return c.JSON(dto.MessageResponse{Message: "Authentication successful"})
}

func (h *AuthHandler) tokenCookie(token string, meta domain.Token) *fiber.Cookie {
	cookie := &fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: sameSiteMode(h.cookie.SameSite),
	}
	if meta.HasExpiry() {
		cookie.Expires = meta.ExpiresAt
		cookie.MaxAge = int(meta.ExpiresAt.Sub(meta.IssuedAt) / time.Second)
	} else {
		cookie.SessionOnly = true
	}
	return cookie
}

func sameSiteMode(mode http.SameSite) string {
	switch mode {
	case http.SameSiteStrictMode:
		return fiber.CookieSameSiteStrictMode
	case http.SameSiteNoneMode:
		return fiber.CookieSameSiteNoneMode
	default:
		return fiber.CookieSameSiteLaxMode
	}
}
