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

// PostHandler handles wall and vehicle post HTTP requests
type PostHandler struct {
	postRepository    repositories.PostRepository
	vehicleRepository repositories.VehicleRepository
	userRepository    repositories.UserRepository
	notifier          *Notifier
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(
	postRepo repositories.PostRepository,
	vehicleRepo repositories.VehicleRepository,
	userRepo repositories.UserRepository,
	notifier *Notifier,
) *PostHandler {
	return &PostHandler{
		postRepository:    postRepo,
		vehicleRepository: vehicleRepo,
		userRepository:    userRepo,
		notifier:          notifier,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.GET("/posts", h.ListRecent)
	g.PUT("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
}

// CreatePost creates a wall post, or a vehicle post when vehicle_id is set.
// Followers of the poster are notified either way.
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()

	poster, err := h.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	post := &models.Post{
		Owner:            userID,
		Title:            req.Title,
		Content:          req.Content,
		PreviewText:      previewText(req.Content),
		OwnerProfileName: poster.ProfileName,
		RootType:         models.TypeUser,
	}
	action := models.ActionWallPost

	if req.VehicleID != "" {
		vehicleID, err := primitive.ObjectIDFromHex(req.VehicleID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid vehicle id")
		}
		vehicle, err := h.vehicleRepository.GetVehicleByID(ctx, vehicleID)
		if err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "Vehicle not found")
		}
		if !ownsVehicle(vehicle, userID) {
			return echo.NewHTTPError(http.StatusForbidden, "Not an owner of this vehicle")
		}
		post.RootType = models.TypeVehicle
		post.RootID = &vehicle.ID
		action = models.ActionVehiclePost
	}

	if err := h.postRepository.CreatePost(ctx, post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	proto := models.Notification{
		TargetID:   userID,
		TargetType: models.TypeUser,
		Action:     action,
		ActionType: models.TypePost,
	}
	h.notifier.FanToFollowers(ctx, userID, proto, userID, post.ID)

	return c.JSON(http.StatusCreated, post)
}

// GetPost returns a single post by id
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post id")
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	return c.JSON(http.StatusOK, post)
}

// ListRecent returns the newest posts across the site
func (h *PostHandler) ListRecent(c echo.Context) error {
	limit := int64(20)
	if raw := c.QueryParam("limit"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	posts, err := h.postRepository.RecentPosts(c.Request().Context(), limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, posts)
}

// UpdatePost edits a post the authenticated user owns
func (h *PostHandler) UpdatePost(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post id")
	}

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()

	post, err := h.postRepository.GetPostByID(ctx, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	if post.Owner != userID {
		return echo.NewHTTPError(http.StatusForbidden, "Not the owner of this post")
	}

	update := bson.M{}
	if req.Title != "" {
		update["title"] = req.Title
	}
	if req.Content != "" {
		update["content"] = req.Content
		update["preview_text"] = previewText(req.Content)
	}
	if len(update) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "No fields to update")
	}

	if err := h.postRepository.UpdatePost(ctx, id, update); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Post updated"})
}

// DeletePost soft-deletes a post the authenticated user owns
func (h *PostHandler) DeletePost(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post id")
	}

	ctx := c.Request().Context()

	post, err := h.postRepository.GetPostByID(ctx, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	if post.Owner != userID {
		return echo.NewHTTPError(http.StatusForbidden, "Not the owner of this post")
	}

	if err := h.postRepository.DeletePost(ctx, id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Post deleted"})
}

// previewText trims content to a short teaser for lists and emails.
func previewText(content string) string {
	runes := []rune(content)
	if len(runes) <= 300 {
		return content
	}
	return string(runes[:300])
}
