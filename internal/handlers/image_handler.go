package handlers

import (
	"net/http"

	"github.com/gearworks/motorhub/backend/internal/models"
	"github.com/gearworks/motorhub/backend/internal/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ImageHandler handles photo metadata HTTP requests
type ImageHandler struct {
	imageRepository   repositories.ImageRepository
	vehicleRepository repositories.VehicleRepository
	userRepository    repositories.UserRepository
	notifier          *Notifier
}

// NewImageHandler creates a new ImageHandler
func NewImageHandler(
	imageRepo repositories.ImageRepository,
	vehicleRepo repositories.VehicleRepository,
	userRepo repositories.UserRepository,
	notifier *Notifier,
) *ImageHandler {
	return &ImageHandler{
		imageRepository:   imageRepo,
		vehicleRepository: vehicleRepo,
		userRepository:    userRepo,
		notifier:          notifier,
	}
}

// RegisterImageRoutes registers image-related routes
func (h *ImageHandler) RegisterImageRoutes(g *echo.Group) {
	g.POST("/images", h.CreateImage)
	g.GET("/images/:id", h.GetImage)
}

// CreateImage stores photo metadata. When the photo is attached to a
// vehicle, followers of that vehicle are notified.
func (h *ImageHandler) CreateImage(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req models.CreateImageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()

	image := &models.Image{
		Owners: []primitive.ObjectID{userID},
		Thumb:  req.Thumb,
		Medium: req.Medium,
		Large:  req.Large,
		Title:  req.Title,
	}

	var vehicle *models.Vehicle
	if req.VehicleID != "" {
		vehicleID, err := primitive.ObjectIDFromHex(req.VehicleID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid vehicle id")
		}

		vehicle, err = h.vehicleRepository.GetVehicleByID(ctx, vehicleID)
		if err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "Vehicle not found")
		}
		if !ownsVehicle(vehicle, userID) {
			return echo.NewHTTPError(http.StatusForbidden, "Not an owner of this vehicle")
		}

		poster, err := h.userRepository.GetUserByID(ctx, userID)
		if err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}

		image.Vehicles = []models.ImageVehicleRef{{
			VehicleID:         vehicle.ID,
			PosterProfileName: poster.ProfileName,
			VehicleURLID:      vehicle.VehicleURLID,
			Slug:              vehicle.Slug,
		}}
	}

	if err := h.imageRepository.CreateImage(ctx, image); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if vehicle != nil {
		proto := models.Notification{
			TargetID:   vehicle.ID,
			TargetType: models.TypeVehicle,
			Action:     models.ActionPhotoPost,
			ActionType: models.TypeImage,
		}
		h.notifier.FanToFollowers(ctx, vehicle.ID, proto, userID, image.ID)
	}

	return c.JSON(http.StatusCreated, image)
}

// GetImage returns photo metadata by id
func (h *ImageHandler) GetImage(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid image id")
	}

	image, err := h.imageRepository.GetImageByID(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Image not found")
	}
	return c.JSON(http.StatusOK, image)
}
