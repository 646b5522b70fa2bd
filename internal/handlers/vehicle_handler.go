package handlers

import (
	"net/http"
	"strconv"

	"github.com/gearworks/motorhub/backend/internal/models"
	"github.com/gearworks/motorhub/backend/internal/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VehicleHandler handles build-page HTTP requests
type VehicleHandler struct {
	vehicleRepository repositories.VehicleRepository
	notifier          *Notifier
}

// NewVehicleHandler creates a new VehicleHandler
func NewVehicleHandler(vehicleRepo repositories.VehicleRepository, notifier *Notifier) *VehicleHandler {
	return &VehicleHandler{vehicleRepository: vehicleRepo, notifier: notifier}
}

// RegisterVehicleRoutes registers vehicle-related routes
func (h *VehicleHandler) RegisterVehicleRoutes(g *echo.Group) {
	g.POST("/vehicles", h.CreateVehicle)
	g.GET("/vehicles/:id", h.GetVehicle)
	g.GET("/vehicles", h.ListMyVehicles)
	g.PUT("/vehicles/:id", h.UpdateVehicle)
}

// CreateVehicle adds a new build page. Followers of the owner are notified
// that a vehicle was added to the garage.
func (h *VehicleHandler) CreateVehicle(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req models.CreateVehicleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	vehicle := &models.Vehicle{
		Poster: userID,
		Owners: []primitive.ObjectID{userID},
		Year:   req.Year,
		Make:   req.Make,
		Model:  req.Model,
		Trim:   req.Trim,
		Slug:   slugify(strconv.Itoa(req.Year), req.Make, req.Model),
	}

	if err := h.vehicleRepository.CreateVehicle(c.Request().Context(), vehicle); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	proto := models.Notification{
		TargetID:   vehicle.ID,
		TargetType: models.TypeVehicle,
		Action:     models.ActionVehicleAdd,
		ActionType: models.TypeVehicle,
	}
	h.notifier.FanToFollowers(c.Request().Context(), userID, proto, userID, vehicle.ID)

	return c.JSON(http.StatusCreated, vehicle)
}

// GetVehicle returns a single vehicle by id
func (h *VehicleHandler) GetVehicle(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid vehicle id")
	}

	vehicle, err := h.vehicleRepository.GetVehicleByID(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Vehicle not found")
	}
	return c.JSON(http.StatusOK, vehicle)
}

// ListMyVehicles returns the authenticated user's garage
func (h *VehicleHandler) ListMyVehicles(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	vehicles, err := h.vehicleRepository.GetVehiclesByOwner(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, vehicles)
}

// UpdateVehicle edits a vehicle the authenticated user owns
func (h *VehicleHandler) UpdateVehicle(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid vehicle id")
	}

	var req models.UpdateVehicleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	vehicle, err := h.vehicleRepository.GetVehicleByID(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Vehicle not found")
	}
	if !ownsVehicle(vehicle, userID) {
		return echo.NewHTTPError(http.StatusForbidden, "Not an owner of this vehicle")
	}

	update := bson.M{}
	if req.Trim != "" {
		update["trim"] = req.Trim
	}
	if req.Description != "" {
		update["description"] = req.Description
	}
	if len(update) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "No fields to update")
	}

	if err := h.vehicleRepository.UpdateVehicle(c.Request().Context(), id, update); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Vehicle updated"})
}

func ownsVehicle(v *models.Vehicle, userID primitive.ObjectID) bool {
	for _, owner := range v.Owners {
		if owner == userID {
			return true
		}
	}
	return false
}
