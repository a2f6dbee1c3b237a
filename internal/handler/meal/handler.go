package meal

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/matricare/mcare-api/internal/handler"
	"github.com/matricare/mcare-api/internal/model"
	"github.com/matricare/mcare-api/internal/repository"
	"github.com/matricare/mcare-api/internal/service/meal"
)

type Handler struct {
	service *meal.Service
	*handler.BaseHandler
}

func NewHandler(service *meal.Service, outboxRepo repository.OutboxRepository) *Handler {
	return &Handler{
		service:     service,
		BaseHandler: &handler.BaseHandler{Outbox: outboxRepo},
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/mothers/:id/meals", h.Create)
	r.GET("/mothers/:id/meals", h.ListByMother)

	meals := r.Group("/meals")
	{
		meals.GET("/:id", h.Get)
		meals.POST("/:id/process", h.Process)
	}
}

func (h *Handler) Create(c *gin.Context) {
	motherID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid mother ID"))
		return
	}

	var req model.CreateMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	m, err := h.service.CreateMeal(c.Request.Context(), motherID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	h.Emit(c, "MEAL_CREATED", m)

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(m))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid meal ID"))
		return
	}

	m, err := h.service.GetMeal(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(m))
}

func (h *Handler) ListByMother(c *gin.Context) {
	motherID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid mother ID"))
		return
	}

	meals, err := h.service.ListMealsByMother(c.Request.Context(), motherID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(meals))
}

// Process records the classifier result for a meal photo.
func (h *Handler) Process(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid meal ID"))
		return
	}

	var req model.ProcessMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	m, err := h.service.ProcessMeal(c.Request.Context(), id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	h.Emit(c, "MEAL_PROCESSED", m)

	c.JSON(http.StatusOK, handler.NewSuccessResponse(m))
}
