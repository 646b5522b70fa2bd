package handlers

import (
	"net/http"
	"strconv"

	"github.com/gearworks/motorhub/backend/internal/models"
	"github.com/gearworks/motorhub/backend/internal/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
)

// UserHandler handles user profile HTTP requests
type UserHandler struct {
	userRepository repositories.UserRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository) *UserHandler {
	return &UserHandler{userRepository: userRepo}
}

// RegisterUserRoutes registers user-related routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/users/me", h.GetMe)
	g.GET("/users/:profile_name", h.GetByProfileName)
	g.PUT("/users/me", h.UpdateMe)
	g.GET("/users", h.Search)
	g.PUT("/users/me/notification-settings", h.UpdateNotificationSettings)
	g.PUT("/users/me/fcm-token", h.RegisterFCMToken)
}

// GetMe returns the authenticated user's own profile
func (h *UserHandler) GetMe(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByID(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	return c.JSON(http.StatusOK, user)
}

// GetByProfileName returns a public profile by profile name
func (h *UserHandler) GetByProfileName(c echo.Context) error {
	profileName := c.Param("profile_name")

	user, err := h.userRepository.GetUserByProfileName(c.Request().Context(), profileName)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found: "+profileName)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateMe applies a partial update to the authenticated user's profile
func (h *UserHandler) UpdateMe(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req models.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	update := bson.M{}
	if req.FirstName != "" {
		update["first_name"] = req.FirstName
	}
	if req.LastName != "" {
		update["last_name"] = req.LastName
	}
	if req.FirstName != "" || req.LastName != "" {
		user, err := h.userRepository.GetUserByID(c.Request().Context(), userID)
		if err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		first, last := user.FirstName, user.LastName
		if req.FirstName != "" {
			first = req.FirstName
		}
		if req.LastName != "" {
			last = req.LastName
		}
		update["name"] = first + " " + last
	}
	if req.Description != "" {
		update["description"] = req.Description
	}
	if req.Location != nil {
		update["location"] = req.Location
	}
	if len(update) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "No fields to update")
	}

	if err := h.userRepository.UpdateUser(c.Request().Context(), userID, update); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Profile updated"})
}

// Search finds users by name or profile name
func (h *UserHandler) Search(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing query parameter q")
	}

	limit := int64(20)
	if raw := c.QueryParam("limit"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	users, err := h.userRepository.SearchUsers(c.Request().Context(), query, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, users)
}

// UpdateNotificationSettingsRequest defines the request body for email opt-in
// changes. All three flags are required so a partial payload cannot silently
// zero the others.
type UpdateNotificationSettingsRequest struct {
	Newsletters    *bool `json:"newsletters" validate:"required"`
	WeeklyDigest   *bool `json:"weekly_digest" validate:"required"`
	InsideTheBuild *bool `json:"inside_the_build" validate:"required"`
}

// UpdateNotificationSettings updates which emails the user receives
func (h *UserHandler) UpdateNotificationSettings(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req UpdateNotificationSettingsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	update := bson.M{
		"notification_settings": models.NotificationSettings{
			Newsletters:    *req.Newsletters,
			WeeklyDigest:   *req.WeeklyDigest,
			InsideTheBuild: *req.InsideTheBuild,
		},
	}
	if err := h.userRepository.UpdateUser(c.Request().Context(), userID, update); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Notification settings updated"})
}

// RegisterFCMToken stores the device token used for push notifications
func (h *UserHandler) RegisterFCMToken(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req struct {
		FCMToken string `json:"fcm_token" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.userRepository.UpdateUser(c.Request().Context(), userID, bson.M{"fcm_token": req.FCMToken}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Device token registered"})
}
