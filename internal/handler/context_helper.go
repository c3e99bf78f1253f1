package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/siap-guru-api/internal/middleware"
	"github.com/noah-isme/siap-guru-api/internal/models"
	appErrors "github.com/noah-isme/siap-guru-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	claims, ok := middleware.Claims(c)
	if !ok {
		return nil
	}
	return claims
}

// scopedClassID resolves the class a request may touch. Class representatives are pinned to
// their own class; everybody else must name one.
func scopedClassID(c *gin.Context, requested string) (string, error) {
	claims := claimsFromContext(c)
	if claims == nil {
		return "", appErrors.ErrUnauthorized
	}
	requested = strings.ToUpper(strings.TrimSpace(requested))
	if claims.Role == models.RoleClassRep {
		if requested == "" {
			return claims.Class, nil
		}
		if requested != claims.Class {
			return "", appErrors.Clone(appErrors.ErrForbidden, "class representatives may only access their own class")
		}
		return requested, nil
	}
	if requested == "" {
		return "", appErrors.Clone(appErrors.ErrValidation, "classId is required")
	}
	return requested, nil
}

func withMeta(c *gin.Context, hit bool) map[string]interface{} {
	middleware.SetCacheHit(c, hit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{"cache_hit": hit}
	}
	return meta
}
