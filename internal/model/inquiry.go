package model

import "time"

// Inquiry is a question from a user to the admins about an item.
type Inquiry struct {
	ID         int64     `json:"id"`
	ItemID     int64     `json:"item_id"`
	ItemTitle  string    `json:"item_title"`
	UserID     int64     `json:"user_id"`
	Username   string    `json:"username"`
	Message    string    `json:"message"`
	AdminReply string    `json:"admin_reply,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// Inquiry statuses.
const (
	InquiryStatusOpen     = "OPEN"
	InquiryStatusResolved = "RESOLVED"
)
