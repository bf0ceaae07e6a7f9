package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/yoonly93/posikiCS/shared/config"
	"github.com/yoonly93/posikiCS/shared/models"
	"github.com/yoonly93/posikiCS/shared/utils"
)

// AuthMiddleware handles bearer token validation. Authentication itself is
// an external identity provider; this layer only verifies the token and
// yields the authenticated principal.
type AuthMiddleware struct {
	db            *gorm.DB
	jwksValidator *utils.JWKSValidator
}

// IdentityClaims are the claims this system reads from an identity token.
// The subject doubles as the tenant uid.
type IdentityClaims struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// NewAuthMiddleware creates a new authentication middleware. When
// AUTH_JWKS_URL is set, token signatures are verified against the
// provider's key set; otherwise tokens are parsed without verification
// (trusted-proxy deployments).
func NewAuthMiddleware(db *gorm.DB) *AuthMiddleware {
	am := &AuthMiddleware{db: db}
	if jwksURL := config.GetEnv("AUTH_JWKS_URL", ""); jwksURL != "" {
		am.jwksValidator = utils.NewJWKSValidator(jwksURL)
	}
	return am
}

// RequireAuth validates the bearer token and puts the tenant uid and email
// on the request context. A tenant row is created on first authenticated
// access.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			utils.UnauthorizedResponse(c, "Authorization token required")
			c.Abort()
			return
		}

		claims, err := am.resolveClaims(tokenString)
		if err != nil {
			utils.UnauthorizedResponse(c, "Invalid token")
			c.Abort()
			return
		}

		c.Set("tenant_uid", claims.Sub)
		c.Set("email", claims.Email)

		c.Next()
	}
}

// resolveClaims parses the token, consulting the Redis cache first. On a
// cache miss the tenant record is provisioned before the claims are cached.
func (am *AuthMiddleware) resolveClaims(tokenString string) (*IdentityClaims, error) {
	cacheKey := tokenCacheKey(tokenString)
	if cachedData, err := utils.CacheGet(cacheKey); err == nil {
		var claims IdentityClaims
		if err := json.Unmarshal([]byte(cachedData), &claims); err == nil {
			return &claims, nil
		}
	}

	claims, err := am.parseToken(tokenString)
	if err != nil {
		return nil, err
	}

	if err := am.ensureTenant(claims); err != nil {
		return nil, err
	}

	if cacheData, err := json.Marshal(claims); err == nil {
		_ = utils.CacheSet(cacheKey, string(cacheData), 1*time.Hour)
	}

	return claims, nil
}

func (am *AuthMiddleware) parseToken(tokenString string) (*IdentityClaims, error) {
	var mapClaims jwt.MapClaims

	if am.jwksValidator != nil {
		token, err := am.jwksValidator.ValidateToken(tokenString)
		if err != nil {
			return nil, fmt.Errorf("token verification failed: %w", err)
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return nil, fmt.Errorf("invalid token claims format")
		}
		mapClaims = claims
	} else {
		token, _, err := new(jwt.Parser).ParseUnverified(tokenString, jwt.MapClaims{})
		if err != nil {
			return nil, fmt.Errorf("failed to parse token: %w", err)
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return nil, fmt.Errorf("invalid token claims format")
		}
		mapClaims = claims
	}

	claims := &IdentityClaims{
		Sub:   getClaimString(mapClaims, "sub"),
		Email: getClaimString(mapClaims, "email"),
		Name:  getClaimString(mapClaims, "name"),
	}
	if claims.Sub == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	return claims, nil
}

// ensureTenant creates the tenant row on first authenticated access.
func (am *AuthMiddleware) ensureTenant(claims *IdentityClaims) error {
	if am.db == nil {
		return nil
	}
	tenant := models.Tenant{
		UID:         claims.Sub,
		Email:       claims.Email,
		DisplayName: claims.Name,
		Status:      "active",
	}
	if err := am.db.Where(models.Tenant{UID: claims.Sub}).FirstOrCreate(&tenant).Error; err != nil {
		return fmt.Errorf("failed to provision tenant: %w", err)
	}
	return nil
}

func tokenCacheKey(tokenString string) string {
	hash := sha256.Sum256([]byte(tokenString))
	return "token:" + hex.EncodeToString(hash[:])
}

// extractToken extracts the JWT token from the Authorization header
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return authHeader
}

// getClaimString safely extracts a string claim from JWT claims
func getClaimString(claims jwt.MapClaims, key string) string {
	if val, ok := claims[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

// GetTenantFromContext extracts the authenticated tenant uid and email from
// the Gin context.
func GetTenantFromContext(c *gin.Context) (tenantUID, email string) {
	return c.GetString("tenant_uid"), c.GetString("email")
}
