package middleware

import (
	"errors"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/albaranes-api/internal/auth"
	"github.com/yukikurage/albaranes-api/internal/constants"
	apierrors "github.com/yukikurage/albaranes-api/internal/errors"
	"github.com/yukikurage/albaranes-api/internal/models"
	"gorm.io/gorm"
)

// UserLookup loads the user behind an authenticated request.
type UserLookup interface {
	FindByID(id uint64) (*models.User, error)
}

// RequireAuth accepts a bearer token and falls back to the session cookie.
func RequireAuth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); header != "" {
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				apierrors.Unauthorized(c, "Malformed authorization header")
				return
			}
			claims, err := tokens.Parse(strings.TrimSpace(parts[1]))
			if err != nil {
				apierrors.Unauthorized(c, "Invalid or expired token")
				return
			}
			userID, err := claims.UserID()
			if err != nil {
				apierrors.Unauthorized(c, "Invalid or expired token")
				return
			}
			c.Set(constants.ContextKeyUserID, userID)
			c.Next()
			return
		}

		session := sessions.Default(c)
		userID := session.Get(constants.ContextKeyUserID)
		if userID == nil {
			apierrors.Unauthorized(c, "")
			return
		}

		// Store user ID in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

// ResolvePrincipal loads the authenticated user and stores its principal.
// Must run after RequireAuth.
func ResolvePrincipal(users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			apierrors.Unauthorized(c, "Not authenticated")
			return
		}

		user, err := users.FindByID(userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apierrors.Unauthorized(c, "User no longer exists")
				return
			}
			logrus.WithError(err).WithField("user_id", userID).Error("failed to resolve principal")
			apierrors.InternalError(c, "Internal server error")
			return
		}

		c.Set(constants.ContextKeyPrincipal, auth.PrincipalFor(*user))
		c.Next()
	}
}

// GetPrincipal retrieves the principal stored by ResolvePrincipal
func GetPrincipal(c *gin.Context) (auth.Principal, bool) {
	value, exists := c.Get(constants.ContextKeyPrincipal)
	if !exists {
		return auth.Principal{}, false
	}
	p, ok := value.(auth.Principal)
	return p, ok
}
