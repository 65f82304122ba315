package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/taskdeck-io/taskdeck/internal/modules/repo"
	"github.com/taskdeck-io/taskdeck/internal/modules/serializer"
	"github.com/taskdeck-io/taskdeck/internal/pkg/auth"
)

// AccountAuth returns a middleware that authenticates requests using access
// tokens. It verifies the token, loads the account with its profile, and sets
// the account on the context for handlers.
func AccountAuth(tokens *auth.TokenService, accounts repo.AccountRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		claims, err := tokens.Verify(c.Request.Context(), raw, auth.TypAccess)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
			return
		}

		accountID, err := claims.AccountID()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
			return
		}

		account, err := accounts.GetByID(c.Request.Context(), accountID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
			return
		}

		c.Set("caller", account)
		c.Next()
	}
}
