package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/ignatzorin/proposal-backend/internal/models"
)

// ContextIdentityKey ключ внешней личности в gin.Context.
const ContextIdentityKey = "identity"

// AuthMiddleware проверяет сессионный токен внешнего провайдера
// аутентификации и кладёт разрешённую личность в контекст.
// Отсутствие разрешимой личности — единственный источник 401.
func AuthMiddleware(secret string) gin.HandlerFunc {
	secretBytes := []byte(secret)

	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		raw := strings.TrimPrefix(auth, "Bearer ")
		ident, err := parseSessionToken(raw, secretBytes)
		if err != nil || ident.StackUserID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(ContextIdentityKey, ident)
		c.Next()
	}
}

// parseSessionToken извлекает внешнюю личность из клеймов токена:
// sub — идентификатор учётной записи, email и name — её атрибуты.
func parseSessionToken(token string, secret []byte) (models.Identity, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		return models.Identity{}, jwt.ErrTokenInvalidClaims
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return models.Identity{}, jwt.ErrTokenInvalidClaims
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return models.Identity{}, jwt.ErrTokenInvalidClaims
	}

	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)

	return models.Identity{
		StackUserID: sub,
		Email:       email,
		Name:        name,
	}, nil
}
