package guard

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"pitchside/marketplace-backend/internal/auth"
	"pitchside/marketplace-backend/internal/profiles"
)

// Middleware adapts the pure guard to gin. It runs after the auth
// middleware and answers with the redirect target when the guard
// bounces the request. The profile snapshot is loaded only for paths
// whose decision depends on the completion gate; role checks need
// nothing beyond the token. Evaluation happens on every request;
// nothing is cached across paths.
func Middleware(g *Guard, profileService *profiles.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := Session{
			UserID: auth.CurrentUser(c),
			Role:   auth.CurrentRole(c),
		}

		if session.UserID != uuid.Nil && NeedsProfile(c.Request.URL.Path) {
			profile, err := profileService.GetProfile(c.Request.Context(), session.UserID)
			if err != nil {
				logger.Error("guard: failed to load profile", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve session"})
				c.Abort()
				return
			}
			if profile != nil {
				session.HasProfile = true
				session.Profile = profile.OnboardingState()
			}
		}

		decision := g.Evaluate(session, c.Request.URL.Path)
		if decision.Render {
			c.Next()
			return
		}

		status := http.StatusForbidden
		switch decision.State {
		case StateUnauthenticated:
			status = http.StatusUnauthorized
		case StateOnboardingIncomplete, StateAuthorized:
			status = http.StatusConflict
		}

		c.JSON(status, gin.H{
			"state":    decision.State,
			"redirect": decision.Redirect,
		})
		c.Abort()
	}
}
