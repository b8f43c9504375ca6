package dto

import "github.com/citypages/directory-api/internal/models"

// CreateBusinessRequest is the admin payload for creating a listing.
type CreateBusinessRequest struct {
	Title       string `json:"title" validate:"required"`
	Category    string `json:"category" validate:"required"`
	City        string `json:"city" validate:"required"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Website     string `json:"website" validate:"omitempty,url"`
	Email       string `json:"email" validate:"omitempty,email"`
	Description string `json:"description"`
	OwnerID     string `json:"owner_id"`
}

// UpdateBusinessRequest carries a partial update. Nil fields are left
// untouched; an explicit empty-string owner clears the reference.
type UpdateBusinessRequest struct {
	Title       *string `json:"title,omitempty"`
	Category    *string `json:"category,omitempty"`
	City        *string `json:"city,omitempty"`
	Address     *string `json:"address,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Website     *string `json:"website,omitempty"`
	Email       *string `json:"email,omitempty"`
	Description *string `json:"description,omitempty"`
	OwnerID     *string `json:"owner_id,omitempty"`
	Featured    *bool   `json:"featured,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// BulkDeleteBusinessesRequest lists the place ids to remove.
type BulkDeleteBusinessesRequest struct {
	BusinessIDs []string `json:"business_ids"`
}

// BulkDeleteBusinessesResponse reconciles a bulk delete for the caller.
type BulkDeleteBusinessesResponse struct {
	Message        string   `json:"message"`
	DeletedCount   int      `json:"deleted_count"`
	TotalRequested int      `json:"total_requested"`
	Errors         []string `json:"errors,omitempty"`
}

// BusinessListQuery mirrors the public directory list parameters.
type BusinessListQuery struct {
	Category string
	City     string
	Search   string
	Featured *bool
	Page     int
	PageSize int
}

// BusinessListResponse bundles listings with aggregates for one page.
type BusinessListResponse struct {
	Businesses []models.Business  `json:"businesses"`
	Pagination *models.Pagination `json:"pagination,omitempty"`
}
