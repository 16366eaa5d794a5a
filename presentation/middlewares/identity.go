package middlewares

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	profileUseCase "github.com/cheerioo/api/application/usecases/profile"
	"github.com/cheerioo/api/domain/apperrors"
	"github.com/cheerioo/api/domain/model"
	"github.com/cheerioo/api/infrastructure/cache"
	"github.com/cheerioo/api/infrastructure/logger"
	"github.com/cheerioo/api/infrastructure/security"
)

const (
	UserContextKey = "user"

	// anonymousCacheTTL bounds how stale a cached anonymous validation can
	// get. Within the window the last-seen touch is skipped too, which is
	// fine at this granularity.
	anonymousCacheTTL = time.Minute
)

// IdentityMiddleware resolves who is making the request. A request carrying
// an anonymous participant id must present one that was registered earlier;
// an unknown claim is rejected so nobody can write under an id they just
// invented. Requests without one get a supporter identity from the cookie,
// minted on first contact.
func IdentityMiddleware(profileUC *profileUseCase.ProfileUseCase, validated *cache.DistributedCache, logger *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if anonymousID := security.GetAnonymousID(c.Request); anonymousID != "" {
			var displayName string
			if validated != nil {
				if hit, err := validated.Get(c.Request.Context(), anonymousID, &displayName); err == nil && hit {
					c.Set(UserContextKey, &model.User{
						ID:          anonymousID,
						Username:    displayName,
						IsAnonymous: true,
					})
					c.Next()
					return
				}
			}

			prof, err := profileUC.ValidateAnonymous(c.Request.Context(), anonymousID)
			if err != nil {
				status := http.StatusForbidden
				if !apperrors.IsKind(err, apperrors.KindForbidden) {
					logger.Error("failed to validate anonymous id", zap.Error(err))
					status = http.StatusInternalServerError
				}
				c.JSON(status, gin.H{
					"error":   "invalid_anonymous_id",
					"message": "Anonymous id is not registered",
				})
				c.Abort()
				return
			}

			if validated != nil {
				if err := validated.Set(c.Request.Context(), prof.ID, prof.DisplayName, anonymousCacheTTL); err != nil {
					logger.Debug("failed to cache anonymous validation", zap.Error(err))
				}
			}

			c.Set(UserContextKey, &model.User{
				ID:          prof.ID,
				Username:    prof.DisplayName,
				IsAnonymous: true,
			})
			c.Next()
			return
		}

		userID := security.GetOrCreateUserID(c.Writer, c.Request)

		prof, err := profileUC.Get(c.Request.Context(), userID)
		if err != nil {
			logger.Error("failed to load profile", zap.Error(err), zap.String("userID", userID))
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "internal_server_error",
				"message": "Failed to initialize user session",
			})
			c.Abort()
			return
		}

		username := prof.DisplayName
		if username == "" {
			username = "supporter-" + shortID(userID)
		}

		c.Set(UserContextKey, &model.User{
			ID:       userID,
			Username: username,
		})

		c.Next()
	}
}

func GetUserFromContext(c *gin.Context) (*model.User, bool) {
	user, exists := c.Get(UserContextKey)
	if !exists {
		return nil, false
	}

	u, ok := user.(*model.User)
	return u, ok
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
