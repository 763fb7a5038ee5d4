package booking

import (
	"context"
	"net/http"
	"strconv"

	"tripadmin/internal/apperr"
	"tripadmin/internal/auth"
	"tripadmin/pkg/token"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service *Service
}

func NewBookingHandler(s *Service) *BookingHandler {
	return &BookingHandler{
		service: s,
	}
}

func (h *BookingHandler) RegisterRoutes(router *gin.Engine, authn gin.HandlerFunc) {
	admins := auth.RequireRole(
		token.RoleTourAdmin,
		token.RoleFlightAdmin,
		token.RoleHotelAdmin,
		token.RoleCarRentalAdmin,
	)

	group := router.Group("/v1/bookings", authn, admins)
	group.GET("", h.ListHandler)
	group.GET("/stats", h.StatsHandler)
	group.POST("/:id/confirm", h.ConfirmHandler)
	group.POST("/:id/cancel", h.CancelHandler)
	group.DELETE("/:id", h.DeleteHandler)
	group.POST("/bulk/confirm", h.BulkConfirmHandler)
	group.POST("/bulk/cancel", h.BulkCancelHandler)
}

// ListHandler godoc
// @Summary      List bookings
// @Description  Filter, sort, and paginate the scope's bookings with summary stats
// @Tags         bookings
// @Produce      json
// @Param        search query string false "Free-text search over email and booked item"
// @Param        status query string false "Canonical status"
// @Param        booking_type query string false "Room, Car, Flight, or Tour"
// @Param        sort_by query string false "start_date, end_date, price, email, status, or priority"
// @Param        page query int false "Page number"
// @Success      200 {object} ListResult
// @Failure      401 {object} map[string]string
// @Router       /v1/bookings [get]
func (h *BookingHandler) ListHandler(c *gin.Context) {
	var params ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		apperr.Send(c, apperr.New(http.StatusBadRequest, apperr.ErrorCodeValidation, "invalid query parameters"))
		return
	}

	result, err := h.service.List(c.Request.Context(), auth.BearerFromContext(c), scopeOf(c), params)
	if err != nil {
		apperr.Send(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *BookingHandler) StatsHandler(c *gin.Context) {
	var params ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		apperr.Send(c, apperr.New(http.StatusBadRequest, apperr.ErrorCodeValidation, "invalid query parameters"))
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), auth.BearerFromContext(c), scopeOf(c), params)
	if err != nil {
		apperr.Send(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *BookingHandler) ConfirmHandler(c *gin.Context) {
	h.mutate(c, h.service.Confirm)
}

func (h *BookingHandler) CancelHandler(c *gin.Context) {
	h.mutate(c, h.service.Cancel)
}

func (h *BookingHandler) DeleteHandler(c *gin.Context) {
	h.mutate(c, h.service.Delete)
}

func (h *BookingHandler) mutate(c *gin.Context, action func(ctx context.Context, bearer, scope string, id int64) error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		apperr.Send(c, apperr.New(http.StatusBadRequest, apperr.ErrorCodeValidation, "invalid booking id"))
		return
	}

	if err := action(c.Request.Context(), auth.BearerFromContext(c), scopeOf(c), id); err != nil {
		apperr.Send(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type bulkRequest struct {
	IDs []int64 `json:"ids" binding:"required,min=1"`
}

// BulkConfirmHandler confirms many bookings at once; each item settles
// independently and the response reports every outcome.
func (h *BookingHandler) BulkConfirmHandler(c *gin.Context) {
	var req bulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Send(c, apperr.New(http.StatusBadRequest, apperr.ErrorCodeValidation, "ids are required"))
		return
	}

	outcomes := h.service.BulkConfirm(c.Request.Context(), auth.BearerFromContext(c), scopeOf(c), req.IDs)
	c.JSON(http.StatusOK, gin.H{"outcomes": outcomes})
}

func (h *BookingHandler) BulkCancelHandler(c *gin.Context) {
	var req bulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Send(c, apperr.New(http.StatusBadRequest, apperr.ErrorCodeValidation, "ids are required"))
		return
	}

	outcomes := h.service.BulkCancel(c.Request.Context(), auth.BearerFromContext(c), scopeOf(c), req.IDs)
	c.JSON(http.StatusOK, gin.H{"outcomes": outcomes})
}

func scopeOf(c *gin.Context) string {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return "anonymous"
	}
	return auth.Scope(claims)
}
