package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/citypages/directory-api/internal/dto"
	"github.com/citypages/directory-api/internal/models"
	appErrors "github.com/citypages/directory-api/pkg/errors"
	"github.com/citypages/directory-api/pkg/response"
)

type featuredService interface {
	Submit(ctx context.Context, req dto.CreateFeaturedRequest, actor *models.JWTClaims) (*models.FeaturedRequest, error)
	ListForUser(ctx context.Context, userID string) ([]models.FeaturedRequest, error)
	ListForAdmin(ctx context.Context, filter models.FeaturedRequestFilter) ([]models.FeaturedRequest, error)
	Review(ctx context.Context, id int64, req dto.ReviewFeaturedRequest, actor *models.JWTClaims) (*models.FeaturedRequest, error)
}

// FeaturedHandler exposes the promotion workflow over REST.
type FeaturedHandler struct {
	service featuredService
}

// NewFeaturedHandler constructs the handler.
func NewFeaturedHandler(service featuredService) *FeaturedHandler {
	return &FeaturedHandler{service: service}
}

// Create godoc
// @Summary Request promotion for an owned listing
// @Tags Featured requests
// @Accept json
// @Produce json
// @Param payload body dto.CreateFeaturedRequest true "Request payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /featured-requests [post]
func (h *FeaturedHandler) Create(c *gin.Context) {
	var req dto.CreateFeaturedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid featured request payload"))
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	request, err := h.service.Submit(c.Request.Context(), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, request, nil)
}

// ListMine godoc
// @Summary List the caller's featured requests
// @Tags Featured requests
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /featured-requests [get]
func (h *FeaturedHandler) ListMine(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	items, err := h.service.ListForUser(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// ListForUserByID godoc
// @Summary List featured requests for a specific user
// @Tags Featured requests
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /featured-requests/user/{id} [get]
func (h *FeaturedHandler) ListForUserByID(c *gin.Context) {
	items, err := h.service.ListForUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// ListAll godoc
// @Summary List featured requests across all users
// @Tags Featured requests
// @Produce json
// @Param status query string false "Comma separated statuses"
// @Param business_id query string false "Business place ID"
// @Success 200 {object} response.Envelope
// @Router /admin/featured-requests [get]
func (h *FeaturedHandler) ListAll(c *gin.Context) {
	filter := models.FeaturedRequestFilter{
		BusinessID: strings.TrimSpace(c.Query("business_id")),
	}
	if rawStatus := c.Query("status"); rawStatus != "" {
		parts := strings.Split(rawStatus, ",")
		statuses := make([]models.ReviewStatus, 0, len(parts))
		for _, part := range parts {
			part = strings.ToUpper(strings.TrimSpace(part))
			if part == "" {
				continue
			}
			statuses = append(statuses, models.ReviewStatus(part))
		}
		filter.Status = statuses
	}
	items, err := h.service.ListForAdmin(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Review godoc
// @Summary Approve or reject a featured request
// @Tags Featured requests
// @Accept json
// @Produce json
// @Param id path int true "Request ID"
// @Param payload body dto.ReviewFeaturedRequest true "Decision"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/featured-requests/{id}/review [put]
func (h *FeaturedHandler) Review(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "request id must be numeric"))
		return
	}

	var req dto.ReviewFeaturedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid decision payload"))
		return
	}

	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	request, err := h.service.Review(c.Request.Context(), id, req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, request, nil)
}
