package service

import (
	"context"
	"fmt"

	"github.com/citypages/directory-api/internal/models"
	appErrors "github.com/citypages/directory-api/pkg/errors"
)

// BulkOp applies one operation to a single id. A returned error marks the
// item failed without affecting its siblings.
type BulkOp[ID comparable] func(ctx context.Context, id ID) error

// ApplyBatch runs op over every id with per-item isolation. An empty id list
// fails the whole call before any work happens. The result accounts for
// every id exactly once: SuccessCount + FailureCount == TotalRequested.
func ApplyBatch[ID comparable](ctx context.Context, ids []ID, op BulkOp[ID]) (*models.BulkOperationResult, error) {
	if len(ids) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "id list must not be empty")
	}

	result := &models.BulkOperationResult{TotalRequested: len(ids)}
	for _, id := range ids {
		if err := op(ctx, id); err != nil {
			result.FailureCount++
			result.Errors = append(result.Errors, fmt.Sprintf("%v: %v", id, err))
			continue
		}
		result.SuccessCount++
	}
	return result, nil
}
