package dto

import "github.com/citypages/directory-api/internal/models"

// CreateFeaturedRequest is the payload for requesting listing promotion.
// The submitter is taken from the authenticated identity, never the body.
type CreateFeaturedRequest struct {
	BusinessID string `json:"business_id" validate:"required"`
	Message    string `json:"message"`
}

// ReviewFeaturedRequest carries the admin decision for a pending request.
type ReviewFeaturedRequest struct {
	Status       models.ReviewStatus `json:"status" validate:"required"`
	AdminMessage string              `json:"admin_message"`
}
