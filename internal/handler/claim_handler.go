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

type claimService interface {
	Submit(ctx context.Context, req dto.CreateClaimRequest, actor *models.JWTClaims) (*models.OwnershipClaim, error)
	ListForUser(ctx context.Context, userID string) ([]models.OwnershipClaim, error)
	ListForAdmin(ctx context.Context, filter models.ClaimFilter) ([]models.OwnershipClaim, error)
	Approve(ctx context.Context, id int64, req dto.ResolveClaimRequest, actor *models.JWTClaims) (*dto.ClaimApprovalResponse, error)
	Reject(ctx context.Context, id int64, req dto.ResolveClaimRequest, actor *models.JWTClaims) (*models.OwnershipClaim, error)
}

// ClaimHandler exposes the ownership-claim workflow over REST.
type ClaimHandler struct {
	service claimService
}

// NewClaimHandler constructs the handler.
func NewClaimHandler(service claimService) *ClaimHandler {
	return &ClaimHandler{service: service}
}

// Create godoc
// @Summary Submit an ownership claim
// @Tags Ownership claims
// @Accept json
// @Produce json
// @Param payload body dto.CreateClaimRequest true "Claim payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /ownership-claims [post]
func (h *ClaimHandler) Create(c *gin.Context) {
	var req dto.CreateClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid claim payload"))
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	claim, err := h.service.Submit(c.Request.Context(), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, claim, nil)
}

// ListMine godoc
// @Summary List the caller's ownership claims
// @Tags Ownership claims
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /ownership-claims [get]
func (h *ClaimHandler) ListMine(c *gin.Context) {
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

// ListAll godoc
// @Summary List ownership claims across all users
// @Tags Ownership claims
// @Produce json
// @Param status query string false "Comma separated statuses"
// @Param business_id query string false "Business place ID"
// @Success 200 {object} response.Envelope
// @Router /admin/ownership-claims [get]
func (h *ClaimHandler) ListAll(c *gin.Context) {
	filter := models.ClaimFilter{
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

// Approve godoc
// @Summary Approve an ownership claim
// @Tags Ownership claims
// @Accept json
// @Produce json
// @Param id path int true "Claim ID"
// @Param payload body dto.ResolveClaimRequest false "Decision note"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/ownership-claims/{id}/approve [post]
func (h *ClaimHandler) Approve(c *gin.Context) {
	h.resolve(c, true)
}

// Reject godoc
// @Summary Reject an ownership claim
// @Tags Ownership claims
// @Accept json
// @Produce json
// @Param id path int true "Claim ID"
// @Param payload body dto.ResolveClaimRequest false "Decision note"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/ownership-claims/{id}/reject [post]
func (h *ClaimHandler) Reject(c *gin.Context) {
	h.resolve(c, false)
}

func (h *ClaimHandler) resolve(c *gin.Context, approve bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "claim id must be numeric"))
		return
	}

	var req dto.ResolveClaimRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid decision payload"))
			return
		}
	}

	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if approve {
		result, err := h.service.Approve(c.Request.Context(), id, req, claims)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, result, nil)
		return
	}

	claim, err := h.service.Reject(c.Request.Context(), id, req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, claim, nil)
}
