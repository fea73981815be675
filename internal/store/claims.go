package store

import (
	"context"
	"database/sql"
	"fmt"

	"lostfound/internal/model"
)

// NewClaim holds the claimant-supplied fields for a new claim.
type NewClaim struct {
	ItemID             int64
	ClaimantID         int64
	ClaimantName       string
	ClaimedLocation    string
	ClaimedDescription string
	AdditionalProof    string
}

// CreateClaim files a claim against an APPROVED, FOUND item. The item title
// is snapshotted so the claim stays readable after the item is removed, and
// the item's reporter is notified in the same transaction.
func CreateClaim(ctx context.Context, db *sql.DB, n NewClaim) (*model.Claim, error) {
	item, err := GetItem(ctx, db, n.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("item no longer available")
	}
	if item.Status != model.ItemStatusApproved {
		return nil, fmt.Errorf("item is not open to claims")
	}
	if item.Type != model.ItemTypeFound {
		return nil, fmt.Errorf("only found items can be claimed")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO claims (item_id, item_title, claimant_id, claimant_name,
		                     claimed_location, claimed_description, additional_proof)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.ItemID, item.Title, n.ClaimantID, n.ClaimantName,
		n.ClaimedLocation, n.ClaimedDescription, n.AdditionalProof,
	)
	if err != nil {
		return nil, fmt.Errorf("creating claim: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting claim id: %w", err)
	}

	// Let the finder know someone is claiming their item.
	_, err = insertNotification(ctx, tx, model.Notification{
		UserID: item.ReporterID,
		Type:   model.NotifItemClaimed,
		Title:  "Claim Filed",
		Message: fmt.Sprintf("Someone has filed an ownership claim for %q. An administrator will review it.",
			item.Title),
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing claim: %w", err)
	}

	return GetClaim(ctx, db, id)
}

const claimColumns = `id, item_id, item_title, claimant_id, claimant_name, status,
	claimed_location, claimed_description, additional_proof, proof, reject_reason,
	ai_reviewed, ai_approved, ai_confidence, ai_needs_admin, ai_reason,
	created_at, decided_at`

func scanClaim(row interface{ Scan(...any) error }) (*model.Claim, error) {
	c := &model.Claim{}
	var claimedLocation, claimedDescription, additionalProof, legacyProof, rejectReason sql.NullString
	var aiReviewed int
	var aiApproved, aiConfidence, aiNeedsAdmin sql.NullInt64
	var aiReason sql.NullString
	err := row.Scan(&c.ID, &c.ItemID, &c.ItemTitle, &c.ClaimantID, &c.ClaimantName, &c.Status,
		&claimedLocation, &claimedDescription, &additionalProof, &legacyProof, &rejectReason,
		&aiReviewed, &aiApproved, &aiConfidence, &aiNeedsAdmin, &aiReason,
		&c.CreatedAt, &c.DecidedAt)
	if err != nil {
		return nil, err
	}
	c.ClaimedLocation = claimedLocation.String
	c.ClaimedDescription = claimedDescription.String
	c.AdditionalProof = additionalProof.String
	c.RejectReason = rejectReason.String

	// Read-compat shim for claims written before the structured fields
	// existed: the old free-text proof doubles as the description.
	if c.ClaimedDescription == "" {
		c.ClaimedDescription = legacyProof.String
	}

	if aiReviewed != 0 {
		c.Review = &model.ClaimReview{
			Approved:         aiApproved.Int64 != 0,
			Confidence:       int(aiConfidence.Int64),
			NeedsAdminReview: aiNeedsAdmin.Int64 != 0,
			Reason:           aiReason.String,
		}
	}
	return c, nil
}

// GetClaim returns a claim by ID, or nil if it does not exist.
func GetClaim(ctx context.Context, db *sql.DB, id int64) (*model.Claim, error) {
	c, err := scanClaim(db.QueryRowContext(ctx,
		`SELECT `+claimColumns+` FROM claims WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting claim: %w", err)
	}
	return c, nil
}

// ListClaims returns claims for the admin queue, optionally filtered by
// status, newest first.
func ListClaims(ctx context.Context, db *sql.DB, status string) ([]model.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing claims: %w", err)
	}
	defer rows.Close()

	var claims []model.Claim
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning claim: %w", err)
		}
		claims = append(claims, *c)
	}
	return claims, rows.Err()
}

// SetClaimReview records the external review service's recommendation on a
// pending claim. Advisory only: it never changes the claim status. Recording
// is one-shot and skipped silently if the claim has already been decided or
// already carries a recommendation.
func SetClaimReview(ctx context.Context, db *sql.DB, claimID int64, r model.ClaimReview) error {
	_, err := db.ExecContext(ctx,
		`UPDATE claims SET ai_reviewed = 1, ai_approved = ?, ai_confidence = ?,
		        ai_needs_admin = ?, ai_reason = ?
		 WHERE id = ? AND status = ? AND ai_reviewed = 0`,
		r.Approved, r.Confidence, r.NeedsAdminReview, r.Reason,
		claimID, model.ClaimStatusPending,
	)
	if err != nil {
		return fmt.Errorf("recording claim review: %w", err)
	}
	return nil
}

// ApproveClaim finishes a claim: PENDING -> APPROVED, exactly one
// CLAIM_APPROVED notification with a pickup code and the item's true
// location, and removal of the item from public listings — all in one
// transaction. Returns the pickup code, or ErrStaleState if the claim was
// already decided (the transaction applies nothing in that case, so two
// near-simultaneous approvals yield one notification and one removal).
func ApproveClaim(ctx context.Context, db *sql.DB, claimID int64) (string, error) {
	claim, err := GetClaim(ctx, db, claimID)
	if err != nil {
		return "", err
	}
	if claim == nil {
		return "", fmt.Errorf("claim not found")
	}

	// The item may already be gone; approval still completes, with the
	// pickup location left for the admin to communicate separately.
	item, err := GetItem(ctx, db, claim.ItemID)
	if err != nil {
		return "", err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE claims SET status = ?, decided_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = ?`,
		model.ClaimStatusApproved, claimID, model.ClaimStatusPending,
	)
	if err != nil {
		return "", fmt.Errorf("approving claim: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return "", ErrStaleState
	}

	code, err := newPickupCode(ctx, tx)
	if err != nil {
		return "", err
	}

	notif := model.Notification{
		UserID:     claim.ClaimantID,
		Type:       model.NotifClaimApproved,
		Title:      "Claim Approved",
		PickupCode: code,
		Message: fmt.Sprintf("Your claim for %q has been approved. Show your pickup code to collect the item.",
			claim.ItemTitle),
	}
	if item != nil {
		notif.PickupLocation = item.Location
	}
	if _, err := insertNotification(ctx, tx, notif); err != nil {
		return "", err
	}

	// Remove the item from public listings. This also invalidates every
	// other open claim for it: their targets resolve to "no longer
	// available". No-op if the item is already gone.
	if item != nil {
		_, err = tx.ExecContext(ctx,
			`UPDATE items SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
			item.ID,
		)
		if err != nil {
			return "", fmt.Errorf("removing claimed item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing claim approval: %w", err)
	}
	return code, nil
}

// RejectClaim finishes a claim: PENDING -> REJECTED with exactly one
// CLAIM_REJECTED notification. The item stays listed and open to other
// claims. Returns ErrStaleState if the claim was already decided.
func RejectClaim(ctx context.Context, db *sql.DB, claimID int64, reason string) error {
	claim, err := GetClaim(ctx, db, claimID)
	if err != nil {
		return err
	}
	if claim == nil {
		return fmt.Errorf("claim not found")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE claims SET status = ?, reject_reason = ?, decided_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = ?`,
		model.ClaimStatusRejected, reason, claimID, model.ClaimStatusPending,
	)
	if err != nil {
		return fmt.Errorf("rejecting claim: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrStaleState
	}

	detail := reason
	if detail == "" {
		detail = "The information provided did not match the item details."
	}
	_, err = insertNotification(ctx, tx, model.Notification{
		UserID:  claim.ClaimantID,
		Type:    model.NotifClaimRejected,
		Title:   "Claim Not Approved",
		Message: fmt.Sprintf("Your claim for %q was not approved. %s", claim.ItemTitle, detail),
	})
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing claim rejection: %w", err)
	}
	return nil
}

// AddClaimImage attaches a proof image to a pending claim at the given slot.
func AddClaimImage(ctx context.Context, db *sql.DB, claimID int64, position int, image []byte, mime string) error {
	if position < 0 || position >= model.MaxProofImages {
		return fmt.Errorf("proof image position out of range")
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO claim_images (claim_id, position, image, mime) VALUES (?, ?, ?, ?)
		 ON CONFLICT (claim_id, position) DO UPDATE SET image = excluded.image, mime = excluded.mime`,
		claimID, position, image, mime,
	)
	if err != nil {
		return fmt.Errorf("adding claim image: %w", err)
	}
	return nil
}

// GetClaimImage returns the proof image at the given slot, or nil if absent.
func GetClaimImage(ctx context.Context, db *sql.DB, claimID int64, position int) ([]byte, string, error) {
	var image []byte
	var mime string
	err := db.QueryRowContext(ctx,
		`SELECT image, mime FROM claim_images WHERE claim_id = ? AND position = ?`,
		claimID, position,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting claim image: %w", err)
	}
	return image, mime, nil
}
