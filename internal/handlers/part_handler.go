package handlers

import (
	"net/http"

	"github.com/gearworks/motorhub/backend/internal/models"
	"github.com/gearworks/motorhub/backend/internal/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PartHandler handles installed-part HTTP requests
type PartHandler struct {
	partRepository    repositories.PartRepository
	vehicleRepository repositories.VehicleRepository
	notifier          *Notifier
}

// NewPartHandler creates a new PartHandler
func NewPartHandler(partRepo repositories.PartRepository, vehicleRepo repositories.VehicleRepository, notifier *Notifier) *PartHandler {
	return &PartHandler{
		partRepository:    partRepo,
		vehicleRepository: vehicleRepo,
		notifier:          notifier,
	}
}

// RegisterPartRoutes registers part-related routes
func (h *PartHandler) RegisterPartRoutes(g *echo.Group) {
	g.POST("/parts", h.CreatePart)
	g.GET("/parts/:id", h.GetPart)
	g.GET("/vehicles/:id/parts", h.ListVehicleParts)
}

// CreatePart installs a part on a vehicle. Followers of the vehicle are
// notified about the install.
func (h *PartHandler) CreatePart(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req models.CreatePartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	vehicleID, err := primitive.ObjectIDFromHex(req.VehicleID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid vehicle id")
	}

	ctx := c.Request().Context()

	vehicle, err := h.vehicleRepository.GetVehicleByID(ctx, vehicleID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Vehicle not found")
	}
	if !ownsVehicle(vehicle, userID) {
		return echo.NewHTTPError(http.StatusForbidden, "Not an owner of this vehicle")
	}

	part := &models.Part{
		Owners:       vehicle.Owners,
		Vehicle:      vehicle.ID,
		Brand:        req.Brand,
		Name:         req.Name,
		Category:     req.Category,
		PartURLID:    vehicle.VehicleURLID,
		Slug:         slugify(req.Brand, req.Name),
		VehicleYear:  vehicle.Year,
		VehicleMake:  vehicle.Make,
		VehicleModel: vehicle.Model,
	}

	if err := h.partRepository.CreatePart(ctx, part); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	proto := models.Notification{
		TargetID:   vehicle.ID,
		TargetType: models.TypeVehicle,
		Action:     models.ActionPartAdd,
		ActionType: models.TypePart,
	}
	h.notifier.FanToFollowers(ctx, vehicle.ID, proto, userID, part.ID)

	return c.JSON(http.StatusCreated, part)
}

// GetPart returns a single part by id
func (h *PartHandler) GetPart(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid part id")
	}

	part, err := h.partRepository.GetPartByID(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Part not found")
	}
	return c.JSON(http.StatusOK, part)
}

// ListVehicleParts returns all parts installed on a vehicle
func (h *PartHandler) ListVehicleParts(c echo.Context) error {
	vehicleID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid vehicle id")
	}

	parts, err := h.partRepository.GetPartsByVehicle(c.Request().Context(), vehicleID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, parts)
}
