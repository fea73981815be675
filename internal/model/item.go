package model

import "time"

// Item represents a reported lost or found object with an approval lifecycle.
type Item struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Type        string     `json:"type"`
	Category    string     `json:"category"`
	Location    string     `json:"location,omitempty"`
	Date        string     `json:"date,omitempty"`
	ImageRef    string     `json:"image_ref,omitempty"`
	ImageMime   string     `json:"image_mime,omitempty"`
	Status      string     `json:"status"`
	ReporterID  int64      `json:"reporter_id"`
	HighValue   bool       `json:"high_value"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// Item types.
const (
	ItemTypeLost  = "LOST"
	ItemTypeFound = "FOUND"
)

// Item statuses.
const (
	ItemStatusPending  = "PENDING"
	ItemStatusApproved = "APPROVED"
	ItemStatusRejected = "REJECTED"
)

// OppositeType returns FOUND for LOST and vice versa.
func OppositeType(itemType string) string {
	if itemType == ItemTypeLost {
		return ItemTypeFound
	}
	return ItemTypeLost
}

// Categories accepted for item reports.
var Categories = []string{
	"Electronics",
	"Clothing",
	"Books",
	"Personal Items",
	"Sports Equipment",
	"Other",
}

// ValidCategory reports whether category is one of the accepted categories.
func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}
