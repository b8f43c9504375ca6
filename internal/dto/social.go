package dto

import "github.com/citypages/directory-api/internal/models"

// CreateSocialLinkRequest adds a social profile link.
type CreateSocialLinkRequest struct {
	Platform  string `json:"platform" validate:"required"`
	URL       string `json:"url" validate:"required,url"`
	Label     string `json:"label"`
	SortOrder int    `json:"sort_order"`
}

// SocialBulkActionRequest applies one action to a set of link ids.
type SocialBulkActionRequest struct {
	LinkIDs []int64                 `json:"link_ids"`
	Action  models.SocialBulkAction `json:"action"`
}
