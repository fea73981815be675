package model

import "time"

// Claim represents a user's formal assertion of ownership over a found item.
// ItemTitle is snapshotted at creation so the claim stays readable after the
// item is removed.
type Claim struct {
	ID                 int64      `json:"id"`
	ItemID             int64      `json:"item_id"`
	ItemTitle          string     `json:"item_title"`
	ClaimantID         int64      `json:"claimant_id"`
	ClaimantName       string     `json:"claimant_name"`
	Status             string     `json:"status"`
	ClaimedLocation    string     `json:"claimed_location"`
	ClaimedDescription string     `json:"claimed_description"`
	AdditionalProof    string     `json:"additional_proof,omitempty"`
	RejectReason       string     `json:"reject_reason,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	DecidedAt          *time.Time `json:"decided_at,omitempty"`

	// Advisory fields from the external review service. Never authoritative:
	// the admin action decides the terminal status.
	Review *ClaimReview `json:"review,omitempty"`
}

// ClaimReview is the recommendation returned by the claim-review service for
// low-value (assisted path) claims.
type ClaimReview struct {
	Approved         bool   `json:"approved"`
	Confidence       int    `json:"confidence"`
	NeedsAdminReview bool   `json:"needs_admin_review"`
	Reason           string `json:"reason,omitempty"`
}

// Claim statuses. APPROVED and REJECTED are terminal.
const (
	ClaimStatusPending  = "PENDING"
	ClaimStatusApproved = "APPROVED"
	ClaimStatusRejected = "REJECTED"
)

// MaxProofImages is the maximum number of proof images per claim.
const MaxProofImages = 3
