package model

import "time"

// Notification is an append-only message to a user. Only the recipient may
// flip the read flag; nothing else mutates a notification once written.
type Notification struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	Type           string    `json:"type"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	PickupLocation string    `json:"pickup_location,omitempty"`
	PickupCode     string    `json:"pickup_code,omitempty"`
	Read           bool      `json:"read"`
	CreatedAt      time.Time `json:"created_at"`
}

// Notification types.
const (
	NotifItemApproved  = "ITEM_APPROVED"
	NotifItemRejected  = "ITEM_REJECTED"
	NotifItemClaimed   = "ITEM_CLAIMED"
	NotifClaimApproved = "CLAIM_APPROVED"
	NotifClaimRejected = "CLAIM_REJECTED"
	NotifInquiryReply  = "INQUIRY_REPLY"
)
