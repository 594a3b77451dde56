package resumes

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"resumai-backend/internal/shared/server/middleware"
	"resumai-backend/internal/shared/server/respond"
	"resumai-backend/internal/users"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches resume routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/resumes/guidelines", h.guidelines)
	rg.POST("/resumes/generate", h.generate)
	rg.GET("/resumes", h.list)
	rg.GET("/resumes/:id", h.get)
	rg.PUT("/resumes/:id", h.update)
	rg.POST("/resumes/:id/scrap", h.scrap)
	rg.POST("/resumes/:id/chat", h.chat)
	rg.DELETE("/resumes/:id", h.delete)
}

func (h *Handler) guidelines(c *gin.Context) {
	guidelines, err := h.Svc.GenerateGuidelines(c.Request.Context(), c.Query("question"))
	if err != nil {
		h.writeError(c, err, "failed to generate guidelines")
		return
	}
	respond.OK(c, gin.H{"result": guidelines})
}

type generateRequest struct {
	Title      string   `json:"title"`
	Position   string   `json:"position"`
	Company    string   `json:"company"`
	Question   string   `json:"question"`
	DueDate    string   `json:"dueDate"`
	Guidelines []string `json:"guidelines"`
	Answers    []string `json:"answers"`
	FreeAnswer string   `json:"freeAnswer"`
	FavorInfo  string   `json:"favorInfo"`
}

func (h *Handler) generate(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	var dueDate *time.Time
	if req.DueDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.DueDate)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "dueDate must be RFC3339", nil)
			return
		}
		dueDate = &parsed
	}

	resume, err := h.Svc.Generate(c.Request.Context(), userID, GenerateRequest{
		Title:      req.Title,
		Position:   req.Position,
		Company:    req.Company,
		Question:   req.Question,
		DueDate:    dueDate,
		Guidelines: req.Guidelines,
		Answers:    req.Answers,
		FreeAnswer: req.FreeAnswer,
		FavorInfo:  req.FavorInfo,
	})
	if err != nil {
		h.writeError(c, err, "failed to generate resume")
		return
	}
	respond.JSON(c, http.StatusCreated, gin.H{"id": resume.ID, "result": resume.Content})
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var filter ListFilter
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

	resumes, err := h.Svc.List(c.Request.Context(), userID, filter)
	if err != nil {
		h.writeError(c, err, "failed to list resumes")
		return
	}
	respond.OK(c, gin.H{"resumes": toResponses(resumes)})
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	resume, turns, err := h.Svc.GetWithTurns(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.writeError(c, err, "failed to load resume")
		return
	}
	respond.OK(c, gin.H{
		"resume": toResponse(resume),
		"turns":  toTurnResponses(turns),
	})
}

type updateResumeRequest struct {
	Title      *string `json:"title"`
	Position   *string `json:"position"`
	Company    *string `json:"company"`
	Content    *string `json:"content"`
	DueDate    *string `json:"dueDate"`
	IsFinished *bool   `json:"isFinished"`
}

func (h *Handler) update(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req updateResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	update := ResumeUpdate{
		Title:      req.Title,
		Position:   req.Position,
		Company:    req.Company,
		Content:    req.Content,
		IsFinished: req.IsFinished,
	}
	if req.DueDate != nil {
		parsed, err := time.Parse(time.RFC3339, *req.DueDate)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "dueDate must be RFC3339", nil)
			return
		}
		update.DueDate = &parsed
	}

	resume, err := h.Svc.Update(c.Request.Context(), userID, c.Param("id"), update)
	if err != nil {
		h.writeError(c, err, "failed to update resume")
		return
	}
	respond.OK(c, toResponse(resume))
}

func (h *Handler) scrap(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	resume, err := h.Svc.ToggleLiked(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.writeError(c, err, "failed to update resume")
		return
	}
	respond.OK(c, gin.H{"id": resume.ID, "isLiked": resume.IsLiked})
}

type chatRequest struct {
	Query string `json:"query"`
}

func (h *Handler) chat(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	turn, err := h.Svc.Refine(c.Request.Context(), userID, c.Param("id"), req.Query)
	if err != nil {
		h.writeError(c, err, "failed to refine resume")
		return
	}
	respond.OK(c, gin.H{"result": turn.Response, "turnId": turn.ID})
}

func (h *Handler) delete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if err := h.Svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.writeError(c, err, "failed to delete resume")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, users.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, users.ErrQuotaExhausted):
		respond.Error(c, http.StatusTooManyRequests, "quota_exhausted", "no chat credits left today", nil)
	case errors.Is(err, ErrGuidelineFormat):
		respond.Error(c, http.StatusUnprocessableEntity, "guideline_format_error", "could not produce guidelines, try a different question", nil)
	case errors.Is(err, ErrUpstream):
		respond.Error(c, http.StatusBadGateway, "upstream_error", "upstream service failed", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
