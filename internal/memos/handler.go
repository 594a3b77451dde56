package memos

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resumai-backend/internal/shared/server/middleware"
	"resumai-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches memo routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/memos", h.create)
	rg.GET("/memos", h.list)
	rg.GET("/memos/search", h.list)
	rg.GET("/memos/:id", h.get)
	rg.PUT("/memos/:id", h.update)
	rg.DELETE("/memos/:id", h.delete)
}

type memoRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req memoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	memo, err := h.Svc.Create(c.Request.Context(), userID, req.Title, req.Content)
	if err != nil {
		h.writeError(c, err, "failed to create memo")
		return
	}
	respond.JSON(c, http.StatusCreated, toResponse(memo))
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	filter := ListFilter{Keyword: c.Query("keyword")}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "limit must be an integer", nil)
			return
		}
		filter.Limit = n
	}
	if raw := c.Query("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "offset must be an integer", nil)
			return
		}
		filter.Offset = n
	}

	memos, err := h.Svc.List(c.Request.Context(), userID, filter)
	if err != nil {
		h.writeError(c, err, "failed to list memos")
		return
	}
	respond.OK(c, gin.H{"memos": toResponses(memos)})
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	memo, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.writeError(c, err, "failed to load memo")
		return
	}
	respond.OK(c, toResponse(memo))
}

func (h *Handler) update(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req memoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	memo, err := h.Svc.Update(c.Request.Context(), userID, c.Param("id"), req.Title, req.Content)
	if err != nil {
		h.writeError(c, err, "failed to update memo")
		return
	}
	respond.OK(c, toResponse(memo))
}

func (h *Handler) delete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if err := h.Svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.writeError(c, err, "failed to delete memo")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "memo not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
