package thread

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/matricare/mcare-api/internal/handler"
	"github.com/matricare/mcare-api/internal/model"
	"github.com/matricare/mcare-api/internal/repository"
	"github.com/matricare/mcare-api/internal/service/thread"
)

type Handler struct {
	service *thread.Service
	*handler.BaseHandler
}

func NewHandler(service *thread.Service, outboxRepo repository.OutboxRepository) *Handler {
	return &Handler{
		service:     service,
		BaseHandler: &handler.BaseHandler{Outbox: outboxRepo},
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/mothers/:id/queries", h.Open)
	r.GET("/mothers/:id/queries", h.ListByMother)

	queries := r.Group("/queries")
	{
		queries.GET("/:id", h.Get)
		queries.POST("/:id/close", h.Close)
		queries.POST("/:id/messages", h.PostMessage)
		queries.GET("/:id/messages", h.ListMessages)
	}
}

func (h *Handler) Open(c *gin.Context) {
	motherID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid mother ID"))
		return
	}

	var req model.OpenThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	t, err := h.service.OpenThread(c.Request.Context(), motherID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	h.Emit(c, "QUERY_OPENED", t)

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(t))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid query ID"))
		return
	}

	t, err := h.service.GetThread(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(t))
}

func (h *Handler) ListByMother(c *gin.Context) {
	motherID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid mother ID"))
		return
	}

	threads, err := h.service.ListThreadsByMother(c.Request.Context(), motherID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(threads))
}

func (h *Handler) Close(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid query ID"))
		return
	}

	t, err := h.service.CloseThread(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	h.Emit(c, "QUERY_CLOSED", t)

	c.JSON(http.StatusOK, handler.NewSuccessResponse(t))
}

func (h *Handler) PostMessage(c *gin.Context) {
	threadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid query ID"))
		return
	}

	var req model.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	msg, err := h.service.PostMessage(c.Request.Context(), threadID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	h.Emit(c, "QUERY_MESSAGE_POSTED", msg)

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(msg))
}

func (h *Handler) ListMessages(c *gin.Context) {
	threadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid query ID"))
		return
	}

	messages, err := h.service.ListMessages(c.Request.Context(), threadID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(messages))
}
