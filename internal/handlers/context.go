package handlers

import (
	"net/http"

	"github.com/gearworks/motorhub/backend/internal/models"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// currentUserID extracts the authenticated user's ObjectID from the JWT
// claims set by the auth middleware.
func currentUserID(c echo.Context) (primitive.ObjectID, error) {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok {
		return primitive.NilObjectID, echo.NewHTTPError(http.StatusUnauthorized, "Missing authentication claims")
	}

	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, echo.NewHTTPError(http.StatusUnauthorized, "Invalid user id in token")
	}
	return id, nil
}
