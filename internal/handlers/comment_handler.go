package handlers

import (
	"net/http"
	"strconv"

	"github.com/gearworks/motorhub/backend/internal/models"
	"github.com/gearworks/motorhub/backend/internal/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommentHandler handles comment-thread HTTP requests
type CommentHandler struct {
	commentRepository repositories.CommentThreadRepository
	entityRepository  repositories.EntityRepository
	userRepository    repositories.UserRepository
	notifier          *Notifier
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(
	commentRepo repositories.CommentThreadRepository,
	entityRepo repositories.EntityRepository,
	userRepo repositories.UserRepository,
	notifier *Notifier,
) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		entityRepository:  entityRepo,
		userRepository:    userRepo,
		notifier:          notifier,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/comments", h.CreateComment)
	g.GET("/comments", h.ListByRoot)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// CreateComment posts a comment on a root entity and notifies its owner,
// including a push to the owner's device.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	rootID, err := primitive.ObjectIDFromHex(req.RootID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid root id")
	}
	rootType := models.EntityType(req.RootType)

	ctx := c.Request().Context()

	root, err := h.entityRepository.FindByID(ctx, rootType, rootID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Root entity not found")
	}

	comment := &models.CommentThread{
		Poster:   userID,
		Text:     req.Text,
		RootType: rootType,
		RootID:   rootID,
	}
	if err := h.commentRepository.CreateComment(ctx, comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if owner, ok := entityOwner(root); ok {
		proto := models.Notification{
			Owner:      owner,
			TargetID:   rootID,
			TargetType: rootType,
			Action:     models.ActionComment,
			ActionType: models.TypeCommentThread,
		}
		h.notifier.Notify(ctx, &proto, userID, comment.ID)

		if owner != userID {
			if poster, err := h.userRepository.GetUserByID(ctx, userID); err == nil {
				h.notifier.PushToUser(ctx, owner, "New comment", poster.DisplayName()+" commented: "+req.Text)
			}
		}
	}

	return c.JSON(http.StatusCreated, comment)
}

// ListByRoot returns comments hung off a root entity, newest first
func (h *CommentHandler) ListByRoot(c echo.Context) error {
	rootID, err := primitive.ObjectIDFromHex(c.QueryParam("root_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid root id")
	}
	rootType := models.EntityType(c.QueryParam("root_type"))
	if rootType.CollectionName() == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid root type")
	}

	skip, limit := int64(0), int64(20)
	if raw := c.QueryParam("skip"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed >= 0 {
			skip = parsed
		}
	}
	if raw := c.QueryParam("limit"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	comments, err := h.commentRepository.GetCommentsByRoot(c.Request().Context(), rootType, rootID, skip, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, comments)
}

// DeleteComment removes a comment the authenticated user posted
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment id")
	}

	ctx := c.Request().Context()

	comment, err := h.commentRepository.GetCommentByID(ctx, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}
	if comment.Poster != userID {
		return echo.NewHTTPError(http.StatusForbidden, "Not the poster of this comment")
	}

	if err := h.commentRepository.DeleteComment(ctx, id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Comment deleted"})
}

// entityOwner resolves who should be notified about activity on an entity.
func entityOwner(e *models.Entity) (primitive.ObjectID, bool) {
	switch {
	case e.User != nil:
		return e.User.ID, true
	case e.Vehicle != nil:
		return e.Vehicle.Poster, true
	case e.Part != nil && len(e.Part.Owners) > 0:
		return e.Part.Owners[0], true
	case e.Image != nil && len(e.Image.Owners) > 0:
		return e.Image.Owners[0], true
	case e.Post != nil:
		return e.Post.Owner, true
	case e.Thread != nil:
		return e.Thread.Poster, true
	}
	return primitive.NilObjectID, false
}
