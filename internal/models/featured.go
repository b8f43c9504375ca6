package models

import "time"

// FeaturedRequest records a business owner's request to have their listing
// promoted. At most one pending request may exist per business; approval
// flips the business's featured flag in the same transaction.
type FeaturedRequest struct {
	ID           int64        `db:"id" json:"id"`
	BusinessID   string       `db:"business_id" json:"business_id"`
	UserID       string       `db:"user_id" json:"user_id"`
	Message      *string      `db:"message" json:"message,omitempty"`
	Status       ReviewStatus `db:"status" json:"status"`
	AdminMessage *string      `db:"admin_message" json:"admin_message,omitempty"`
	ReviewedBy   *string      `db:"reviewed_by" json:"reviewed_by,omitempty"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	ReviewedAt   *time.Time   `db:"reviewed_at" json:"reviewed_at,omitempty"`
}

// FeaturedRequestFilter constrains featured-request listing queries.
type FeaturedRequestFilter struct {
	Status     []ReviewStatus
	UserID     string
	BusinessID string
	Limit      int
	Offset     int
}
