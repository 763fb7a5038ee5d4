package review

import (
	"net/http"
	"strconv"

	"tripadmin/internal/apperr"
	"tripadmin/internal/auth"
	"tripadmin/pkg/token"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	service *Service
}

func NewReviewHandler(s *Service) *ReviewHandler {
	return &ReviewHandler{
		service: s,
	}
}

func (h *ReviewHandler) RegisterRoutes(router *gin.Engine, authn gin.HandlerFunc) {
	admins := auth.RequireRole(
		token.RoleTourAdmin,
		token.RoleFlightAdmin,
		token.RoleHotelAdmin,
		token.RoleCarRentalAdmin,
	)

	group := router.Group("/v1/reviews", authn, admins)
	group.GET("", h.ListHandler)
	group.POST("", h.CreateHandler)
	group.PUT("/:id", h.UpdateHandler)
	group.DELETE("/:id", h.DeleteHandler)
}

// ListHandler godoc
// @Summary      List reviews across all company types
// @Description  Fans out to every company-type review source, joins fail-soft, then filters and paginates
// @Tags         reviews
// @Produce      json
// @Success      200 {object} ListResult
// @Router       /v1/reviews [get]
func (h *ReviewHandler) ListHandler(c *gin.Context) {
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

func (h *ReviewHandler) CreateHandler(c *gin.Context) {
	var r Review
	if err := c.ShouldBindJSON(&r); err != nil {
		apperr.Send(c, apperr.New(http.StatusBadRequest, apperr.ErrorCodeValidation, "invalid review body"))
		return
	}

	created, err := h.service.Create(c.Request.Context(), auth.BearerFromContext(c), scopeOf(c), r)
	if err != nil {
		apperr.Send(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *ReviewHandler) UpdateHandler(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		apperr.Send(c, apperr.New(http.StatusBadRequest, apperr.ErrorCodeValidation, "invalid review id"))
		return
	}

	var r Review
	if err := c.ShouldBindJSON(&r); err != nil {
		apperr.Send(c, apperr.New(http.StatusBadRequest, apperr.ErrorCodeValidation, "invalid review body"))
		return
	}
	r.ID = id

	if err := h.service.Update(c.Request.Context(), auth.BearerFromContext(c), scopeOf(c), r); err != nil {
		apperr.Send(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *ReviewHandler) DeleteHandler(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		apperr.Send(c, apperr.New(http.StatusBadRequest, apperr.ErrorCodeValidation, "invalid review id"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), auth.BearerFromContext(c), scopeOf(c), id); err != nil {
		apperr.Send(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func scopeOf(c *gin.Context) string {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return "anonymous"
	}
	return auth.Scope(claims)
}
