package auth

import "github.com/labstack/echo/v4"

// GetClaims returns the claims stored by RequireAuth.
func GetClaims(c echo.Context) (*JWTClaims, bool) {
	claims, ok := c.Get(string(ClaimsContextKey)).(*JWTClaims)
	return claims, ok && claims != nil
}

// OwnerID returns the authenticated owner, or "" outside RequireAuth.
func OwnerID(c echo.Context) string {
	if claims, ok := GetClaims(c); ok {
		return claims.Subject
	}
	return ""
}
