package store

import (
	"context"
	"database/sql"
	"fmt"

	"lostfound/internal/model"
)

// CreateInquiry files a question about an item. The item title is
// snapshotted so the inquiry stays readable after the item is removed.
func CreateInquiry(ctx context.Context, db *sql.DB, itemID, userID int64, username, message string) (*model.Inquiry, error) {
	item, err := GetItem(ctx, db, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("item no longer available")
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO inquiries (item_id, item_title, user_id, username, message)
		 VALUES (?, ?, ?, ?, ?)`,
		itemID, item.Title, userID, username, message,
	)
	if err != nil {
		return nil, fmt.Errorf("creating inquiry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting inquiry id: %w", err)
	}
	return GetInquiry(ctx, db, id)
}

// GetInquiry returns an inquiry by ID, or nil if it does not exist.
func GetInquiry(ctx context.Context, db *sql.DB, id int64) (*model.Inquiry, error) {
	inq := &model.Inquiry{}
	var reply sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, item_id, item_title, user_id, username, message, admin_reply, status, created_at
		 FROM inquiries WHERE id = ?`, id,
	).Scan(&inq.ID, &inq.ItemID, &inq.ItemTitle, &inq.UserID, &inq.Username,
		&inq.Message, &reply, &inq.Status, &inq.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting inquiry: %w", err)
	}
	inq.AdminReply = reply.String
	return inq, nil
}

// ListInquiries returns inquiries, optionally filtered by status, newest
// first.
func ListInquiries(ctx context.Context, db *sql.DB, status string) ([]model.Inquiry, error) {
	query := `SELECT id, item_id, item_title, user_id, username, message, admin_reply, status, created_at
	          FROM inquiries`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing inquiries: %w", err)
	}
	defer rows.Close()

	var inquiries []model.Inquiry
	for rows.Next() {
		var inq model.Inquiry
		var reply sql.NullString
		if err := rows.Scan(&inq.ID, &inq.ItemID, &inq.ItemTitle, &inq.UserID, &inq.Username,
			&inq.Message, &reply, &inq.Status, &inq.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning inquiry: %w", err)
		}
		inq.AdminReply = reply.String
		inquiries = append(inquiries, inq)
	}
	return inquiries, rows.Err()
}

// ResolveInquiry records the admin reply: OPEN -> RESOLVED with exactly one
// INQUIRY_REPLY notification to the asking user, in one transaction. Returns
// ErrStaleState if the inquiry was already resolved.
func ResolveInquiry(ctx context.Context, db *sql.DB, id int64, reply string) error {
	inq, err := GetInquiry(ctx, db, id)
	if err != nil {
		return err
	}
	if inq == nil {
		return fmt.Errorf("inquiry not found")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE inquiries SET admin_reply = ?, status = ? WHERE id = ? AND status = ?`,
		reply, model.InquiryStatusResolved, id, model.InquiryStatusOpen,
	)
	if err != nil {
		return fmt.Errorf("resolving inquiry: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrStaleState
	}

	_, err = insertNotification(ctx, tx, model.Notification{
		UserID:  inq.UserID,
		Type:    model.NotifInquiryReply,
		Title:   "Admin Reply",
		Message: fmt.Sprintf("An admin replied to your inquiry about %q: %q", inq.ItemTitle, reply),
	})
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing inquiry resolution: %w", err)
	}
	return nil
}
