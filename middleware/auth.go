package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Pranay9392/ecommerce-mernstack-backend/auth"
	"github.com/Pranay9392/ecommerce-mernstack-backend/store"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const claimsKey = "claims"

// Guard gates requests: token first, then role. Ownership is checked by
// the handler once it has loaded the record.
type Guard struct {
	issuer *auth.TokenIssuer
	log    *zap.Logger

	// When set, role checks read flags from the stored user instead of
	// the token snapshot.
	users store.Users
}

func NewGuard(issuer *auth.TokenIssuer, log *zap.Logger) *Guard {
	return &Guard{issuer: issuer, log: log}
}

// WithStrictRoles makes every role check re-read the user record.
func (g *Guard) WithStrictRoles(users store.Users) *Guard {
	g.users = users
	return g
}

// Authenticate verifies the token header and stores the claims on the
// context.
func (g *Guard) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := g.issuer.Verify(c.GetHeader(auth.TokenHeader))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": authMessage(err)})
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// ClaimsFrom returns the claims Authenticate stored.
func ClaimsFrom(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

// MustClaims is for handlers mounted behind Authenticate.
func MustClaims(c *gin.Context) *auth.Claims {
	claims, ok := ClaimsFrom(c)
	if !ok {
		panic("middleware: handler mounted without Authenticate")
	}
	return claims
}

func authMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrMissingToken):
		return "No token, authorization denied"
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token has expired"
	default:
		return "Token is not valid"
	}
}

// TokenFromQuery copies a ?token= parameter into the token header on
// websocket upgrades, where browsers cannot set custom headers.
func TokenFromQuery() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader(auth.TokenHeader) == "" && websocketUpgrade(c) {
			if token := c.Query("token"); token != "" {
				c.Request.Header.Set(auth.TokenHeader, token)
			}
		}
		c.Next()
	}
}

func websocketUpgrade(c *gin.Context) bool {
	return strings.EqualFold(c.GetHeader("Upgrade"), "websocket")
}
