package service

import (
	"context"

	"github.com/citypages/directory-api/internal/models"
)

// auditLogger is the slice of the user repository the domain services need
// for trail records.
type auditLogger interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}
