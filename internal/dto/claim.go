package dto

import "github.com/citypages/directory-api/internal/models"

// CreateClaimRequest is the payload for submitting an ownership claim. The
// minimum message length is enforced by the service against configuration.
type CreateClaimRequest struct {
	BusinessID string `json:"business_id" validate:"required"`
	Message    string `json:"message" validate:"required"`
}

// ResolveClaimRequest carries the admin's decision note.
type ResolveClaimRequest struct {
	AdminMessage string `json:"admin_message"`
}

// ClaimApprovalResponse returns both records touched by an approval so the
// caller can observe the ownership transfer.
type ClaimApprovalResponse struct {
	Claim    *models.OwnershipClaim `json:"claim"`
	Business *models.Business       `json:"business"`
}
