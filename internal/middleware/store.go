package middleware

import (
	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/siap-guru-api/pkg/errors"
	"github.com/noah-isme/siap-guru-api/pkg/response"
)

// StoreChecker reports whether the record store endpoint is usable.
type StoreChecker interface {
	Configured() bool
}

// RequireStore blocks data routes with 503 while the record store endpoint is missing.
func RequireStore(store StoreChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil || !store.Configured() {
			response.Error(c, appErrors.ErrStoreNotConfigured)
			c.Abort()
			return
		}
		c.Next()
	}
}
