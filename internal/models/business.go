package models

import "time"

// BusinessStatus enumerates listing lifecycle states.
type BusinessStatus string

const (
	BusinessStatusActive   BusinessStatus = "ACTIVE"
	BusinessStatusInactive BusinessStatus = "INACTIVE"
)

// Business represents a directory listing keyed by an immutable place id.
// OwnerID is nullable: an unclaimed listing simply has no owner.
type Business struct {
	PlaceID     string         `db:"place_id" json:"place_id"`
	Title       string         `db:"title" json:"title"`
	Category    string         `db:"category" json:"category"`
	City        string         `db:"city" json:"city"`
	Address     string         `db:"address" json:"address"`
	Phone       string         `db:"phone" json:"phone,omitempty"`
	Website     string         `db:"website" json:"website,omitempty"`
	Email       string         `db:"email" json:"email,omitempty"`
	Description string         `db:"description" json:"description,omitempty"`
	Featured    bool           `db:"featured" json:"featured"`
	OwnerID     *string        `db:"owner_id" json:"owner_id,omitempty"`
	Status      BusinessStatus `db:"status" json:"status"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// BusinessFilter captures filtering criteria for listing businesses.
type BusinessFilter struct {
	Category  string
	City      string
	Search    string
	Featured  *bool
	Status    *BusinessStatus
	OwnerID   string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// CategoryCount aggregates listings per category for the public site.
type CategoryCount struct {
	Category string `db:"category" json:"category"`
	Count    int    `db:"count" json:"count"`
}

// CityCount aggregates listings per city for the public site.
type CityCount struct {
	City  string `db:"city" json:"city"`
	Count int    `db:"count" json:"count"`
}
