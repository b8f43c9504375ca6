package models

import "time"

// ReviewStatus captures workflow states shared by ownership claims and
// featured requests. PENDING is the only state a resolution may start from;
// APPROVED and REJECTED are terminal.
type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "PENDING"
	ReviewStatusApproved ReviewStatus = "APPROVED"
	ReviewStatusRejected ReviewStatus = "REJECTED"
)

// OwnershipClaim records a user's assertion of ownership over a listing,
// awaiting admin review. Approval transfers ownership of the business.
type OwnershipClaim struct {
	ID           int64        `db:"id" json:"id"`
	UserID       string       `db:"user_id" json:"user_id"`
	BusinessID   string       `db:"business_id" json:"business_id"`
	Message      string       `db:"message" json:"message"`
	Status       ReviewStatus `db:"status" json:"status"`
	AdminMessage *string      `db:"admin_message" json:"admin_message,omitempty"`
	ReviewedBy   *string      `db:"reviewed_by" json:"reviewed_by,omitempty"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	ReviewedAt   *time.Time   `db:"reviewed_at" json:"reviewed_at,omitempty"`
}

// ClaimFilter constrains claim listing queries.
type ClaimFilter struct {
	Status     []ReviewStatus
	UserID     string
	BusinessID string
	Limit      int
	Offset     int
}
