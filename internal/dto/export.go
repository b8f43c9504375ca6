package dto

import "github.com/citypages/directory-api/internal/models"

// CreateExportRequest queues an asynchronous dataset export.
type CreateExportRequest struct {
	Kind     models.ExportKind   `json:"kind" validate:"required"`
	Format   models.ExportFormat `json:"format" validate:"required"`
	Category string              `json:"category"`
	City     string              `json:"city"`
	Status   string              `json:"status"`
}
