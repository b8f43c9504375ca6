package models

import "time"

// SocialMediaLink is a site-wide social profile shown in the directory footer
// and on listing pages. Links are toggled individually or in bulk by admins.
type SocialMediaLink struct {
	ID        int64     `db:"id" json:"id"`
	Platform  string    `db:"platform" json:"platform"`
	URL       string    `db:"url" json:"url"`
	Label     string    `db:"label" json:"label,omitempty"`
	Active    bool      `db:"active" json:"active"`
	SortOrder int       `db:"sort_order" json:"sort_order"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// SocialBulkAction enumerates the batch operations supported on links.
type SocialBulkAction string

const (
	SocialActionActivate   SocialBulkAction = "activate"
	SocialActionDeactivate SocialBulkAction = "deactivate"
	SocialActionToggle     SocialBulkAction = "toggle"
	SocialActionDelete     SocialBulkAction = "delete"
)

// ValidSocialBulkAction reports whether the action name is recognised.
func ValidSocialBulkAction(action SocialBulkAction) bool {
	switch action {
	case SocialActionActivate, SocialActionDeactivate, SocialActionToggle, SocialActionDelete:
		return true
	}
	return false
}
