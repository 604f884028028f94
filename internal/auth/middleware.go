package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/catalog-gateway/internal/domain"
	apperrors "github.com/spec-kit/catalog-gateway/pkg/util/errorutil"
)

const authContextKey = "auth_context"

// RejectionRecorder counts requests turned away by the gate.
type RejectionRecorder interface {
	RecordGateRejection(reason string)
}

// Gate validates the token cookie and attaches the caller's AuthContext.
type Gate struct {
	tokens     *TokenManager
	cookieName string
	logger     *zap.Logger
	recorder   RejectionRecorder
	now        func() time.Time
}

// NewGate constructs the middleware. recorder may be nil.
func NewGate(tokens *TokenManager, cookieName string, logger *zap.Logger, recorder RejectionRecorder) *Gate {
	return &Gate{
		tokens:     tokens,
		cookieName: cookieName,
		logger:     logger,
		recorder:   recorder,
		now:        time.Now,
	}
}

// Handle enforces authentication for protected routes.
func (g *Gate) Handle(c *fiber.Ctx) error {
	token := c.Cookies(g.cookieName)
	if token == "" {
		g.reject("missing")
		return apperrors.NewMissingToken()
	}

	subjectID, err := g.tokens.Verify(token, g.now())
	if err != nil {
		reason := TokenErrorReason(err)
		g.reject(reason)
		g.logger.Debug("token rejected", zap.String("reason", reason), zap.String("path", c.Path()))
		return apperrors.NewInvalidToken(err)
	}

	c.Locals(authContextKey, domain.AuthContext{SubjectID: subjectID})
	return c.Next()
}

func (g *Gate) reject(reason string) {
	if g.recorder != nil {
		g.recorder.RecordGateRejection(reason)
	}
}

// AuthContextFrom retrieves the context attached by Gate.Handle.
func AuthContextFrom(c *fiber.Ctx) (domain.AuthContext, bool) {
	authCtx, ok := c.Locals(authContextKey).(domain.AuthContext)
	return authCtx, ok
}
