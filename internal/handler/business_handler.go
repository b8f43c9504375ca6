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

type businessService interface {
	Create(ctx context.Context, req dto.CreateBusinessRequest, actor *models.JWTClaims) (*models.Business, error)
	Get(ctx context.Context, placeID string) (*models.Business, error)
	Update(ctx context.Context, placeID string, req dto.UpdateBusinessRequest, actor *models.JWTClaims) (*models.Business, error)
	SetFeatured(ctx context.Context, placeID string, featured bool, actor *models.JWTClaims) (*models.Business, error)
	Delete(ctx context.Context, placeID string, actor *models.JWTClaims) error
	BulkDelete(ctx context.Context, req dto.BulkDeleteBusinessesRequest, actor *models.JWTClaims) (*models.BulkOperationResult, error)
}

// BusinessHandler exposes the admin CRUD endpoints for listings.
type BusinessHandler struct {
	service businessService
}

// NewBusinessHandler constructs the handler.
func NewBusinessHandler(service businessService) *BusinessHandler {
	return &BusinessHandler{service: service}
}

// Create godoc
// @Summary Create a business listing
// @Tags Businesses
// @Accept json
// @Produce json
// @Param payload body dto.CreateBusinessRequest true "Business payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/businesses [post]
func (h *BusinessHandler) Create(c *gin.Context) {
	var req dto.CreateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid business payload"))
		return
	}
	business, err := h.service.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, business, nil)
}

// Get godoc
// @Summary Get a business listing
// @Tags Businesses
// @Produce json
// @Param id path string true "Place ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/businesses/{id} [get]
func (h *BusinessHandler) Get(c *gin.Context) {
	business, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, business, nil)
}

// Update godoc
// @Summary Update a business listing
// @Tags Businesses
// @Accept json
// @Produce json
// @Param id path string true "Place ID"
// @Param payload body dto.UpdateBusinessRequest true "Partial update"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/businesses/{id} [put]
func (h *BusinessHandler) Update(c *gin.Context) {
	var req dto.UpdateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid business payload"))
		return
	}
	business, err := h.service.Update(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, business, nil)
}

// SetFeatured godoc
// @Summary Toggle the featured flag
// @Tags Businesses
// @Produce json
// @Param id path string true "Place ID"
// @Param featured query bool true "Featured value"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/businesses/{id}/featured [put]
func (h *BusinessHandler) SetFeatured(c *gin.Context) {
	featured, err := strconv.ParseBool(strings.TrimSpace(c.Query("featured")))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "featured must be true or false"))
		return
	}
	business, err := h.service.SetFeatured(c.Request.Context(), c.Param("id"), featured, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, business, nil)
}

// Delete godoc
// @Summary Delete a business listing
// @Tags Businesses
// @Produce json
// @Param id path string true "Place ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/businesses/{id} [delete]
func (h *BusinessHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// BulkDelete godoc
// @Summary Delete multiple business listings
// @Tags Businesses
// @Accept json
// @Produce json
// @Param payload body dto.BulkDeleteBusinessesRequest true "Place IDs"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/businesses/bulk-delete [post]
func (h *BusinessHandler) BulkDelete(c *gin.Context) {
	var req dto.BulkDeleteBusinessesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid bulk delete payload"))
		return
	}
	result, err := h.service.BulkDelete(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.BulkDeleteBusinessesResponse{
		Message:        "bulk delete finished",
		DeletedCount:   result.SuccessCount,
		TotalRequested: result.TotalRequested,
		Errors:         result.Errors,
	}, nil)
}
