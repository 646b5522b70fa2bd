package handlers

import (
	"net/http"
	"time"

	"github.com/gearworks/motorhub/backend/internal/models"
	"github.com/gearworks/motorhub/backend/internal/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ConnectionHandler handles follow/like edge HTTP requests
type ConnectionHandler struct {
	connectionRepository repositories.ConnectionRepository
	userRepository       repositories.UserRepository
	vehicleRepository    repositories.VehicleRepository
	postRepository       repositories.PostRepository
	notifier             *Notifier
}

// NewConnectionHandler creates a new ConnectionHandler
func NewConnectionHandler(
	connectionRepo repositories.ConnectionRepository,
	userRepo repositories.UserRepository,
	vehicleRepo repositories.VehicleRepository,
	postRepo repositories.PostRepository,
	notifier *Notifier,
) *ConnectionHandler {
	return &ConnectionHandler{
		connectionRepository: connectionRepo,
		userRepository:       userRepo,
		vehicleRepository:    vehicleRepo,
		postRepository:       postRepo,
		notifier:             notifier,
	}
}

// RegisterConnectionRoutes registers connection-related routes
func (h *ConnectionHandler) RegisterConnectionRoutes(g *echo.Group) {
	g.POST("/connections", h.CreateConnection)
	g.DELETE("/connections", h.DeleteConnection)
}

// CreateConnection records a FOLLOW or LIKE edge, bumps the receiver's
// counter and notifies its owner.
func (h *ConnectionHandler) CreateConnection(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req models.CreateConnectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.ReceiverID == userID.Hex() && req.ReceiverType == string(models.TypeUser) {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot connect to yourself")
	}

	receiverID, err := primitive.ObjectIDFromHex(req.ReceiverID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid receiver id")
	}

	exists, err := h.connectionRepository.IsConnected(req.Type, userID.Hex(), req.ReceiverID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if exists {
		return echo.NewHTTPError(http.StatusConflict, "Connection already exists")
	}

	ctx := c.Request().Context()

	owner, err := h.receiverOwner(c, models.EntityType(req.ReceiverType), receiverID)
	if err != nil {
		return err
	}

	conn := &models.Connection{
		Type:          req.Type,
		RequestorID:   userID.Hex(),
		RequestorType: string(models.TypeUser),
		ReceiverID:    req.ReceiverID,
		ReceiverType:  req.ReceiverType,
		CreatedAt:     time.Now(),
	}
	if err := h.connectionRepository.CreateConnection(conn); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.adjustCounter(c, models.EntityType(req.ReceiverType), receiverID, req.Type, 1); err != nil {
		return err
	}

	// The edge lives in Postgres so the notification carries a synthetic
	// action id rather than a document reference.
	proto := models.Notification{
		Owner:      owner,
		TargetID:   receiverID,
		TargetType: models.EntityType(req.ReceiverType),
		Action:     req.Type,
		ActionType: models.TypeConnection,
	}
	h.notifier.Notify(ctx, &proto, userID, primitive.NewObjectID())

	if req.Type == models.ConnectionFollow && owner != userID {
		if requestor, err := h.userRepository.GetUserByID(ctx, userID); err == nil {
			h.notifier.PushToUser(ctx, owner, "New follower", requestor.DisplayName()+" started following you")
		}
	}

	return c.JSON(http.StatusCreated, conn)
}

// DeleteConnection removes a FOLLOW or LIKE edge and rolls back the counter
func (h *ConnectionHandler) DeleteConnection(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req models.CreateConnectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	receiverID, err := primitive.ObjectIDFromHex(req.ReceiverID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid receiver id")
	}

	if err := h.connectionRepository.DeleteConnection(req.Type, userID.Hex(), req.ReceiverID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Connection not found")
	}

	if err := h.adjustCounter(c, models.EntityType(req.ReceiverType), receiverID, req.Type, -1); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Connection removed"})
}

// receiverOwner resolves who gets notified about an edge to the receiver.
func (h *ConnectionHandler) receiverOwner(c echo.Context, receiverType models.EntityType, receiverID primitive.ObjectID) (primitive.ObjectID, error) {
	ctx := c.Request().Context()

	switch receiverType {
	case models.TypeUser:
		user, err := h.userRepository.GetUserByID(ctx, receiverID)
		if err != nil {
			return primitive.NilObjectID, echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return user.ID, nil
	case models.TypeVehicle:
		vehicle, err := h.vehicleRepository.GetVehicleByID(ctx, receiverID)
		if err != nil {
			return primitive.NilObjectID, echo.NewHTTPError(http.StatusNotFound, "Vehicle not found")
		}
		return vehicle.Poster, nil
	case models.TypePost:
		post, err := h.postRepository.GetPostByID(ctx, receiverID)
		if err != nil {
			return primitive.NilObjectID, echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return post.Owner, nil
	}
	return primitive.NilObjectID, echo.NewHTTPError(http.StatusBadRequest, "Unsupported receiver type")
}

// adjustCounter keeps the denormalized follower/like counts in step with
// the edge table.
func (h *ConnectionHandler) adjustCounter(c echo.Context, receiverType models.EntityType, receiverID primitive.ObjectID, connType string, delta int) error {
	ctx := c.Request().Context()

	var err error
	switch {
	case receiverType == models.TypeUser && connType == models.ConnectionFollow:
		var user *models.User
		if user, err = h.userRepository.GetUserByID(ctx, receiverID); err == nil {
			err = h.userRepository.UpdateUser(ctx, receiverID, bson.M{"follower_count": user.FollowerCount + delta})
		}
	case receiverType == models.TypeVehicle && connType == models.ConnectionLike:
		var vehicle *models.Vehicle
		if vehicle, err = h.vehicleRepository.GetVehicleByID(ctx, receiverID); err == nil {
			err = h.vehicleRepository.UpdateVehicle(ctx, receiverID, bson.M{"like_count": vehicle.LikeCount + delta})
		}
	case receiverType == models.TypePost && connType == models.ConnectionLike:
		var post *models.Post
		if post, err = h.postRepository.GetPostByID(ctx, receiverID); err == nil {
			err = h.postRepository.UpdatePost(ctx, receiverID, bson.M{"like_count": post.LikeCount + delta})
		}
	default:
		return nil
	}

	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return nil
}
