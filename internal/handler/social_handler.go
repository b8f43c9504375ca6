package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/citypages/directory-api/internal/dto"
	"github.com/citypages/directory-api/internal/models"
	appErrors "github.com/citypages/directory-api/pkg/errors"
	"github.com/citypages/directory-api/pkg/response"
)

type socialService interface {
	Create(ctx context.Context, req dto.CreateSocialLinkRequest, actor *models.JWTClaims) (*models.SocialMediaLink, error)
	List(ctx context.Context, activeOnly bool) ([]models.SocialMediaLink, error)
	Delete(ctx context.Context, id int64) error
	BulkAction(ctx context.Context, req dto.SocialBulkActionRequest, actor *models.JWTClaims) (*models.BulkOperationResult, error)
}

// SocialHandler manages the site-wide social links.
type SocialHandler struct {
	service socialService
}

// NewSocialHandler constructs the handler.
func NewSocialHandler(service socialService) *SocialHandler {
	return &SocialHandler{service: service}
}

// ListPublic godoc
// @Summary List active social links
// @Tags Social links
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /social-links [get]
func (h *SocialHandler) ListPublic(c *gin.Context) {
	links, err := h.service.List(c.Request.Context(), true)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, links, nil)
}

// ListAll godoc
// @Summary List all social links including inactive
// @Tags Social links
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/social-links [get]
func (h *SocialHandler) ListAll(c *gin.Context) {
	links, err := h.service.List(c.Request.Context(), false)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, links, nil)
}

// Create godoc
// @Summary Add a social link
// @Tags Social links
// @Accept json
// @Produce json
// @Param payload body dto.CreateSocialLinkRequest true "Link payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/social-links [post]
func (h *SocialHandler) Create(c *gin.Context) {
	var req dto.CreateSocialLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid social link payload"))
		return
	}
	link, err := h.service.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, link, nil)
}

// Delete godoc
// @Summary Delete a social link
// @Tags Social links
// @Produce json
// @Param id path int true "Link ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/social-links/{id} [delete]
func (h *SocialHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "link id must be numeric"))
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// BulkAction godoc
// @Summary Apply a bulk action to social links
// @Tags Social links
// @Accept json
// @Produce json
// @Param payload body dto.SocialBulkActionRequest true "Action payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/social-media/bulk-action [post]
func (h *SocialHandler) BulkAction(c *gin.Context) {
	var req dto.SocialBulkActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid bulk action payload"))
		return
	}
	result, err := h.service.BulkAction(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
