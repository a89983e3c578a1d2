package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/otakusphere/backend/internal/models"
	"github.com/otakusphere/backend/internal/repositories"
)

// claimsFromContext extracts the JWT claims the auth middleware stored.
func claimsFromContext(c echo.Context) *models.JwtCustomClaims {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok {
		return nil
	}
	return claims
}

// currentUser resolves the acting user from the request's claims. The actor
// is always threaded explicitly from here into repository calls, never read
// from ambient state deeper down. Deactivated accounts are refused.
func currentUser(c echo.Context, users repositories.UserRepository) (*models.User, error) {
	claims := claimsFromContext(c)
	if claims == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	user, err := users.ByID(claims.UserID)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Authenticated user not found")
	}
	if !user.IsActive {
		return nil, echo.NewHTTPError(http.StatusForbidden, "Account is deactivated")
	}
	return user, nil
}
