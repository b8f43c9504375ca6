package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/citypages/directory-api/internal/models"
)

const socialColumns = `id, platform, url, label, active, sort_order, created_at, updated_at`

// SocialRepository persists social media links.
type SocialRepository struct {
	db *sqlx.DB
}

// NewSocialRepository constructs the repository.
func NewSocialRepository(db *sqlx.DB) *SocialRepository {
	return &SocialRepository{db: db}
}

// Create inserts a new link and fills the generated id.
func (r *SocialRepository) Create(ctx context.Context, link *models.SocialMediaLink) error {
	now := time.Now().UTC()
	if link.CreatedAt.IsZero() {
		link.CreatedAt = now
	}
	link.UpdatedAt = now
	const query = `INSERT INTO social_media_links (platform, url, label, active, sort_order, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if err := r.db.GetContext(ctx, &link.ID, query, link.Platform, link.URL, link.Label, link.Active, link.SortOrder, link.CreatedAt, link.UpdatedAt); err != nil {
		return fmt.Errorf("create social link: %w", err)
	}
	return nil
}

// GetByID fetches one link.
func (r *SocialRepository) GetByID(ctx context.Context, id int64) (*models.SocialMediaLink, error) {
	query := `SELECT ` + socialColumns + ` FROM social_media_links WHERE id = $1 LIMIT 1`
	var link models.SocialMediaLink
	if err := r.db.GetContext(ctx, &link, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get social link: %w", err)
	}
	return &link, nil
}

// List returns all links ordered for display.
func (r *SocialRepository) List(ctx context.Context, activeOnly bool) ([]models.SocialMediaLink, error) {
	query := `SELECT ` + socialColumns + ` FROM social_media_links`
	if activeOnly {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY sort_order, id`
	var links []models.SocialMediaLink
	if err := r.db.SelectContext(ctx, &links, query); err != nil {
		return nil, fmt.Errorf("list social links: %w", err)
	}
	return links, nil
}

// SetActive writes the active flag for one link.
func (r *SocialRepository) SetActive(ctx context.Context, id int64, active bool) error {
	const query = `UPDATE social_media_links SET active = $2, updated_at = $3 WHERE id = $1`
	return r.execOne(ctx, query, id, active, time.Now().UTC())
}

// Toggle inverts the active flag for one link.
func (r *SocialRepository) Toggle(ctx context.Context, id int64) error {
	const query = `UPDATE social_media_links SET active = NOT active, updated_at = $2 WHERE id = $1`
	return r.execOne(ctx, query, id, time.Now().UTC())
}

// Delete removes a link. Returns sql.ErrNoRows for unknown ids.
func (r *SocialRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM social_media_links WHERE id = $1`
	return r.execOne(ctx, query, id)
}

func (r *SocialRepository) execOne(ctx context.Context, query string, args ...interface{}) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("social link write: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check social link rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
