package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/citypages/directory-api/internal/models"
)

const featuredColumns = `id, business_id, user_id, message, status, admin_message, reviewed_by, created_at, reviewed_at`

// FeaturedRepository persists featured requests.
type FeaturedRepository struct {
	db *sqlx.DB
}

// NewFeaturedRepository constructs the repository.
func NewFeaturedRepository(db *sqlx.DB) *FeaturedRepository {
	return &FeaturedRepository{db: db}
}

// Create inserts a new request in PENDING state.
func (r *FeaturedRepository) Create(ctx context.Context, request *models.FeaturedRequest) error {
	if request.Status == "" {
		request.Status = models.ReviewStatusPending
	}
	if request.CreatedAt.IsZero() {
		request.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO featured_requests (business_id, user_id, message, status, created_at)
	VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := r.db.GetContext(ctx, &request.ID, query, request.BusinessID, request.UserID, request.Message, request.Status, request.CreatedAt); err != nil {
		return fmt.Errorf("create featured request: %w", err)
	}
	return nil
}

// GetByID fetches a request by identifier.
func (r *FeaturedRepository) GetByID(ctx context.Context, id int64) (*models.FeaturedRequest, error) {
	query := `SELECT ` + featuredColumns + ` FROM featured_requests WHERE id = $1 LIMIT 1`
	var request models.FeaturedRequest
	if err := r.db.GetContext(ctx, &request, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get featured request: %w", err)
	}
	return &request, nil
}

// PendingExists reports whether any PENDING request exists for the business,
// regardless of submitter.
func (r *FeaturedRepository) PendingExists(ctx context.Context, businessID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM featured_requests WHERE business_id = $1 AND status = $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, businessID, models.ReviewStatusPending); err != nil {
		return false, fmt.Errorf("check pending featured request: %w", err)
	}
	return exists, nil
}

// List returns requests matching the filter, newest first.
func (r *FeaturedRepository) List(ctx context.Context, filter models.FeaturedRequestFilter) ([]models.FeaturedRequest, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 4)
	builder.WriteString(`SELECT ` + featuredColumns + ` FROM featured_requests`)

	conditions := make([]string, 0, 3)
	if len(filter.Status) > 0 {
		placeholders := make([]string, len(filter.Status))
		for i, status := range filter.Status {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		conditions = append(conditions, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.BusinessID != "" {
		args = append(args, filter.BusinessID)
		conditions = append(conditions, fmt.Sprintf("business_id = $%d", len(args)))
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY created_at DESC")

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	builder.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset))

	var requests []models.FeaturedRequest
	if err := r.db.SelectContext(ctx, &requests, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list featured requests: %w", err)
	}
	return requests, nil
}

// ResolveFeaturedParams groups the reviewer decision columns.
type ResolveFeaturedParams struct {
	ID           int64
	AdminMessage *string
	ReviewedBy   string
	ReviewedAt   time.Time
}

// Reject marks a pending request rejected without touching the business.
// Guarded on PENDING; zero rows surfaces as sql.ErrNoRows.
func (r *FeaturedRepository) Reject(ctx context.Context, params ResolveFeaturedParams) (*models.FeaturedRequest, error) {
	const query = `UPDATE featured_requests SET status = $2, admin_message = $3, reviewed_by = $4, reviewed_at = $5
	WHERE id = $1 AND status = $6`
	result, err := r.db.ExecContext(ctx, query, params.ID, models.ReviewStatusRejected, params.AdminMessage, params.ReviewedBy, params.ReviewedAt, models.ReviewStatusPending)
	if err != nil {
		return nil, fmt.Errorf("reject featured request: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("check featured reject rows: %w", err)
	}
	if rows == 0 {
		return nil, sql.ErrNoRows
	}
	return r.GetByID(ctx, params.ID)
}

// Approve marks a pending request approved and sets the business featured
// flag in the same transaction. A reader never observes one write without
// the other.
func (r *FeaturedRepository) Approve(ctx context.Context, params ResolveFeaturedParams) (*models.FeaturedRequest, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin featured approval: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var request models.FeaturedRequest
	lockQuery := `SELECT ` + featuredColumns + ` FROM featured_requests WHERE id = $1 FOR UPDATE`
	if err = tx.GetContext(ctx, &request, lockQuery, params.ID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("lock featured request: %w", err)
	}
	if request.Status != models.ReviewStatusPending {
		err = sql.ErrNoRows
		return nil, err
	}

	const updateRequest = `UPDATE featured_requests SET status = $2, admin_message = $3, reviewed_by = $4, reviewed_at = $5
	WHERE id = $1 AND status = $6`
	if _, err = tx.ExecContext(ctx, updateRequest, params.ID, models.ReviewStatusApproved, params.AdminMessage, params.ReviewedBy, params.ReviewedAt, models.ReviewStatusPending); err != nil {
		return nil, fmt.Errorf("approve featured request: %w", err)
	}

	const updateBusiness = `UPDATE businesses SET featured = TRUE, updated_at = $2 WHERE place_id = $1`
	var result sql.Result
	if result, err = tx.ExecContext(ctx, updateBusiness, request.BusinessID, params.ReviewedAt); err != nil {
		return nil, fmt.Errorf("set business featured: %w", err)
	}
	var rows int64
	if rows, err = result.RowsAffected(); err != nil {
		return nil, fmt.Errorf("check featured flag rows: %w", err)
	}
	if rows == 0 {
		err = fmt.Errorf("featured request %d references missing business %s", request.ID, request.BusinessID)
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit featured approval: %w", err)
	}

	request.Status = models.ReviewStatusApproved
	request.AdminMessage = params.AdminMessage
	request.ReviewedBy = &params.ReviewedBy
	reviewedAt := params.ReviewedAt
	request.ReviewedAt = &reviewedAt
	return &request, nil
}
