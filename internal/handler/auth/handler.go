package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/matricare/mcare-api/internal/handler"
	"github.com/matricare/mcare-api/internal/model"
	"github.com/matricare/mcare-api/internal/service/auth"
	"github.com/matricare/mcare-api/internal/service/notification"
)

type Handler struct {
	service       *auth.Service
	notifications *notification.Service
}

func NewHandler(service *auth.Service, notifications *notification.Service) *Handler {
	return &Handler{
		service:       service,
		notifications: notifications,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", h.Login)
		authGroup.POST("/otp/request", h.RequestOTP)
		authGroup.POST("/otp/verify", h.VerifyOTP)
	}
}

type loginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type otpRequest struct {
	Phone string `json:"phone" binding:"required"`
}

type otpVerifyRequest struct {
	Phone string `json:"phone" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	result, err := h.service.Login(c.Request.Context(), req.Phone, req.Password)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}

// RequestOTP generates a code and queues an SMS carrying it. The code is
// never included in the HTTP response.
func (h *Handler) RequestOTP(c *gin.Context) {
	var req otpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	code, err := h.service.RequestOTP(c.Request.Context(), req.Phone)
	if err != nil {
		handler.Error(c, err)
		return
	}

	if _, err := h.notifications.Enqueue(c.Request.Context(), &model.CreateNotificationRequest{
		Channel:    string(model.NotificationChannelSMS),
		To:         req.Phone,
		TemplateID: "otp_login",
		Data:       []byte(`{"code":"` + code + `"}`),
	}); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"message": "code sent"}))
}

func (h *Handler) VerifyOTP(c *gin.Context) {
	var req otpVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	result, err := h.service.VerifyOTP(c.Request.Context(), req.Phone, req.Code)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}
