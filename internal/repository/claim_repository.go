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

const claimColumns = `id, user_id, business_id, message, status, admin_message, reviewed_by, created_at, reviewed_at`

// ClaimRepository persists ownership claims.
type ClaimRepository struct {
	db *sqlx.DB
}

// NewClaimRepository constructs the repository.
func NewClaimRepository(db *sqlx.DB) *ClaimRepository {
	return &ClaimRepository{db: db}
}

// Create inserts a new claim in PENDING state and fills the generated id
// and timestamp.
func (r *ClaimRepository) Create(ctx context.Context, claim *models.OwnershipClaim) error {
	if claim.Status == "" {
		claim.Status = models.ReviewStatusPending
	}
	if claim.CreatedAt.IsZero() {
		claim.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO ownership_claims (user_id, business_id, message, status, created_at)
	VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := r.db.GetContext(ctx, &claim.ID, query, claim.UserID, claim.BusinessID, claim.Message, claim.Status, claim.CreatedAt); err != nil {
		return fmt.Errorf("create ownership claim: %w", err)
	}
	return nil
}

// GetByID fetches a claim by identifier.
func (r *ClaimRepository) GetByID(ctx context.Context, id int64) (*models.OwnershipClaim, error) {
	query := `SELECT ` + claimColumns + ` FROM ownership_claims WHERE id = $1 LIMIT 1`
	var claim models.OwnershipClaim
	if err := r.db.GetContext(ctx, &claim, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get ownership claim: %w", err)
	}
	return &claim, nil
}

// List returns claims matching the filter, newest first.
func (r *ClaimRepository) List(ctx context.Context, filter models.ClaimFilter) ([]models.OwnershipClaim, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 4)
	builder.WriteString(`SELECT ` + claimColumns + ` FROM ownership_claims`)

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

	var claims []models.OwnershipClaim
	if err := r.db.SelectContext(ctx, &claims, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list ownership claims: %w", err)
	}
	return claims, nil
}

// ResolveClaimParams groups the reviewer decision columns.
type ResolveClaimParams struct {
	ID           int64
	AdminMessage *string
	ReviewedBy   string
	ReviewedAt   time.Time
}

// Reject marks a pending claim rejected. The update is guarded on the
// PENDING status; a zero-row result surfaces as sql.ErrNoRows so a second
// resolution attempt loses.
func (r *ClaimRepository) Reject(ctx context.Context, params ResolveClaimParams) (*models.OwnershipClaim, error) {
	const query = `UPDATE ownership_claims SET status = $2, admin_message = $3, reviewed_by = $4, reviewed_at = $5
	WHERE id = $1 AND status = $6`
	result, err := r.db.ExecContext(ctx, query, params.ID, models.ReviewStatusRejected, params.AdminMessage, params.ReviewedBy, params.ReviewedAt, models.ReviewStatusPending)
	if err != nil {
		return nil, fmt.Errorf("reject ownership claim: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("check claim reject rows: %w", err)
	}
	if rows == 0 {
		return nil, sql.ErrNoRows
	}
	return r.GetByID(ctx, params.ID)
}

// Approve marks a pending claim approved and transfers ownership of the
// referenced business to the claimant, in a single transaction. Either both
// writes commit or neither does. The claim row is locked first so two
// concurrent approvals serialize; the loser observes a non-pending status
// and gets sql.ErrNoRows.
func (r *ClaimRepository) Approve(ctx context.Context, params ResolveClaimParams) (*models.OwnershipClaim, *models.Business, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("begin claim approval: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var claim models.OwnershipClaim
	lockQuery := `SELECT ` + claimColumns + ` FROM ownership_claims WHERE id = $1 FOR UPDATE`
	if err = tx.GetContext(ctx, &claim, lockQuery, params.ID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("lock ownership claim: %w", err)
	}
	if claim.Status != models.ReviewStatusPending {
		err = sql.ErrNoRows
		return nil, nil, err
	}

	const updateClaim = `UPDATE ownership_claims SET status = $2, admin_message = $3, reviewed_by = $4, reviewed_at = $5
	WHERE id = $1 AND status = $6`
	if _, err = tx.ExecContext(ctx, updateClaim, params.ID, models.ReviewStatusApproved, params.AdminMessage, params.ReviewedBy, params.ReviewedAt, models.ReviewStatusPending); err != nil {
		return nil, nil, fmt.Errorf("approve ownership claim: %w", err)
	}

	const updateBusiness = `UPDATE businesses SET owner_id = $2, updated_at = $3 WHERE place_id = $1`
	var result sql.Result
	if result, err = tx.ExecContext(ctx, updateBusiness, claim.BusinessID, claim.UserID, params.ReviewedAt); err != nil {
		return nil, nil, fmt.Errorf("transfer business ownership: %w", err)
	}
	var rows int64
	if rows, err = result.RowsAffected(); err != nil {
		return nil, nil, fmt.Errorf("check ownership transfer rows: %w", err)
	}
	if rows == 0 {
		err = fmt.Errorf("claim %d references missing business %s", claim.ID, claim.BusinessID)
		return nil, nil, err
	}

	var business models.Business
	businessQuery := `SELECT ` + businessColumns + ` FROM businesses WHERE place_id = $1`
	if err = tx.GetContext(ctx, &business, businessQuery, claim.BusinessID); err != nil {
		return nil, nil, fmt.Errorf("load business after transfer: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit claim approval: %w", err)
	}

	claim.Status = models.ReviewStatusApproved
	claim.AdminMessage = params.AdminMessage
	claim.ReviewedBy = &params.ReviewedBy
	reviewedAt := params.ReviewedAt
	claim.ReviewedAt = &reviewedAt
	return &claim, &business, nil
}
