package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/citypages/directory-api/internal/models"
)

const businessColumns = `place_id, title, category, city, address, phone, website, email, description, featured, owner_id, status, created_at, updated_at`

// BusinessRepository persists directory listings.
type BusinessRepository struct {
	db *sqlx.DB
}

// NewBusinessRepository constructs the repository.
func NewBusinessRepository(db *sqlx.DB) *BusinessRepository {
	return &BusinessRepository{db: db}
}

// Create inserts a new listing. A missing place id is assigned here and the
// status defaults to ACTIVE.
func (r *BusinessRepository) Create(ctx context.Context, business *models.Business) error {
	if business.PlaceID == "" {
		business.PlaceID = uuid.NewString()
	}
	if business.Status == "" {
		business.Status = models.BusinessStatusActive
	}
	now := time.Now().UTC()
	if business.CreatedAt.IsZero() {
		business.CreatedAt = now
	}
	business.UpdatedAt = now
	normalizeOwner(business)

	const query = `INSERT INTO businesses (place_id, title, category, city, address, phone, website, email, description, featured, owner_id, status, created_at, updated_at)
	VALUES (:place_id, :title, :category, :city, :address, :phone, :website, :email, :description, :featured, :owner_id, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, business); err != nil {
		return fmt.Errorf("create business: %w", err)
	}
	return nil
}

// GetByPlaceID fetches one listing.
func (r *BusinessRepository) GetByPlaceID(ctx context.Context, placeID string) (*models.Business, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses WHERE place_id = $1 LIMIT 1`
	var business models.Business
	if err := r.db.GetContext(ctx, &business, query, placeID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get business: %w", err)
	}
	return &business, nil
}

// List returns listings matching the filter with a total count.
func (r *BusinessRepository) List(ctx context.Context, filter models.BusinessFilter) ([]models.Business, int, error) {
	baseQuery := `FROM businesses WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)+1))
		args = append(args, filter.Category)
	}
	if filter.City != "" {
		conditions = append(conditions, fmt.Sprintf("city = $%d", len(args)+1))
		args = append(args, filter.City)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(title) LIKE $%d OR LOWER(description) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.Featured != nil {
		conditions = append(conditions, fmt.Sprintf("featured = $%d", len(args)+1))
		args = append(args, *filter.Featured)
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.OwnerID != "" {
		conditions = append(conditions, fmt.Sprintf("owner_id = $%d", len(args)+1))
		args = append(args, filter.OwnerID)
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"title":      true,
		"city":       true,
		"category":   true,
		"created_at": true,
		"updated_at": true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "created_at"
	}
	sortOrder := strings.ToUpper(filter.SortOrder)
	if sortOrder != "ASC" && sortOrder != "DESC" {
		sortOrder = "DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", businessColumns, baseQuery, sortBy, sortOrder, pageSize, offset)

	var businesses []models.Business
	if err := r.db.SelectContext(ctx, &businesses, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list businesses: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count businesses: %w", err)
	}

	return businesses, total, nil
}

// UpdateBusinessParams groups the mutable columns for a partial update.
type UpdateBusinessParams struct {
	Title       *string
	Category    *string
	City        *string
	Address     *string
	Phone       *string
	Website     *string
	Email       *string
	Description *string
	// OwnerSet distinguishes "leave owner untouched" from "write OwnerID".
	// A nil OwnerID with OwnerSet true clears the reference.
	OwnerSet bool
	OwnerID  *string
	Featured *bool
	Status   *models.BusinessStatus
}

// Update applies a partial update and returns the stored record.
func (r *BusinessRepository) Update(ctx context.Context, placeID string, params UpdateBusinessParams) (*models.Business, error) {
	setParts := []string{"updated_at = :updated_at"}
	namedArgs := map[string]interface{}{
		"place_id":   placeID,
		"updated_at": time.Now().UTC(),
	}

	assign := func(column string, value interface{}) {
		setParts = append(setParts, fmt.Sprintf("%s = :%s", column, column))
		namedArgs[column] = value
	}

	if params.Title != nil {
		assign("title", *params.Title)
	}
	if params.Category != nil {
		assign("category", *params.Category)
	}
	if params.City != nil {
		assign("city", *params.City)
	}
	if params.Address != nil {
		assign("address", *params.Address)
	}
	if params.Phone != nil {
		assign("phone", *params.Phone)
	}
	if params.Website != nil {
		assign("website", *params.Website)
	}
	if params.Email != nil {
		assign("email", *params.Email)
	}
	if params.Description != nil {
		assign("description", *params.Description)
	}
	if params.OwnerSet {
		assign("owner_id", params.OwnerID)
	}
	if params.Featured != nil {
		assign("featured", *params.Featured)
	}
	if params.Status != nil {
		assign("status", *params.Status)
	}

	query := fmt.Sprintf("UPDATE businesses SET %s WHERE place_id = :place_id", strings.Join(setParts, ", "))
	result, err := r.db.NamedExecContext(ctx, query, namedArgs)
	if err != nil {
		return nil, fmt.Errorf("update business: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("check business update rows: %w", err)
	}
	if rows == 0 {
		return nil, sql.ErrNoRows
	}

	return r.GetByPlaceID(ctx, placeID)
}

// SetFeatured flips the featured flag directly (admin toggle).
func (r *BusinessRepository) SetFeatured(ctx context.Context, placeID string, featured bool) (*models.Business, error) {
	const query = `UPDATE businesses SET featured = $2, updated_at = $3 WHERE place_id = $1`
	result, err := r.db.ExecContext(ctx, query, placeID, featured, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("set business featured: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("check featured update rows: %w", err)
	}
	if rows == 0 {
		return nil, sql.ErrNoRows
	}
	return r.GetByPlaceID(ctx, placeID)
}

// Delete removes a listing. Returns sql.ErrNoRows when the id is unknown.
func (r *BusinessRepository) Delete(ctx context.Context, placeID string) error {
	const query = `DELETE FROM businesses WHERE place_id = $1`
	result, err := r.db.ExecContext(ctx, query, placeID)
	if err != nil {
		return fmt.Errorf("delete business: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check business delete rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Categories aggregates active listings per category.
func (r *BusinessRepository) Categories(ctx context.Context) ([]models.CategoryCount, error) {
	const query = `SELECT category, COUNT(*) AS count FROM businesses WHERE status = $1 GROUP BY category ORDER BY category`
	var counts []models.CategoryCount
	if err := r.db.SelectContext(ctx, &counts, query, models.BusinessStatusActive); err != nil {
		return nil, fmt.Errorf("aggregate categories: %w", err)
	}
	return counts, nil
}

// Cities aggregates active listings per city.
func (r *BusinessRepository) Cities(ctx context.Context) ([]models.CityCount, error) {
	const query = `SELECT city, COUNT(*) AS count FROM businesses WHERE status = $1 GROUP BY city ORDER BY city`
	var counts []models.CityCount
	if err := r.db.SelectContext(ctx, &counts, query, models.BusinessStatusActive); err != nil {
		return nil, fmt.Errorf("aggregate cities: %w", err)
	}
	return counts, nil
}

// normalizeOwner clears an empty-string owner so it never reaches the
// foreign key as a dangling reference.
func normalizeOwner(business *models.Business) {
	if business.OwnerID != nil && strings.TrimSpace(*business.OwnerID) == "" {
		business.OwnerID = nil
	}
}
