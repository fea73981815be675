package store

import (
	"context"
	"database/sql"
	"fmt"

	"lostfound/internal/model"
	"lostfound/internal/pickup"
)

// insertNotification appends a notification record. It takes an execer so
// adjudication transactions can write their notification atomically with the
// status transition; that is what makes "exactly one notification per
// decision" hold under concurrent approvals.
func insertNotification(ctx context.Context, e execer, n model.Notification) (int64, error) {
	result, err := e.ExecContext(ctx,
		`INSERT INTO notifications (user_id, type, title, message, pickup_location, pickup_code)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		n.UserID, n.Type, n.Title, n.Message, n.PickupLocation, n.PickupCode,
	)
	if err != nil {
		return 0, fmt.Errorf("creating notification: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting notification id: %w", err)
	}
	return id, nil
}

// CreateNotification appends a notification record and returns it.
// Notifications are append-only: nothing mutates one after this except the
// recipient marking it read.
func CreateNotification(ctx context.Context, db *sql.DB, n model.Notification) (*model.Notification, error) {
	id, err := insertNotification(ctx, db, n)
	if err != nil {
		return nil, err
	}
	return GetNotification(ctx, db, id)
}

// GetNotification returns a notification by ID, or nil if it does not exist.
func GetNotification(ctx context.Context, db *sql.DB, id int64) (*model.Notification, error) {
	n := &model.Notification{}
	var pickupLocation, pickupCode sql.NullString
	var read int
	err := db.QueryRowContext(ctx,
		`SELECT id, user_id, type, title, message, pickup_location, pickup_code, read, created_at
		 FROM notifications WHERE id = ?`, id,
	).Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &pickupLocation, &pickupCode, &read, &n.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting notification: %w", err)
	}
	n.PickupLocation = pickupLocation.String
	n.PickupCode = pickupCode.String
	n.Read = read != 0
	return n, nil
}

// ListNotifications returns a user's notifications, newest first.
func ListNotifications(ctx context.Context, db *sql.DB, userID int64) ([]model.Notification, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, user_id, type, title, message, pickup_location, pickup_code, read, created_at
		 FROM notifications WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	defer rows.Close()

	var notifs []model.Notification
	for rows.Next() {
		var n model.Notification
		var pickupLocation, pickupCode sql.NullString
		var read int
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message,
			&pickupLocation, &pickupCode, &read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}
		n.PickupLocation = pickupLocation.String
		n.PickupCode = pickupCode.String
		n.Read = read != 0
		notifs = append(notifs, n)
	}
	return notifs, rows.Err()
}

// CountUnreadNotifications returns the number of unread notifications for a
// user.
func CountUnreadNotifications(ctx context.Context, db *sql.DB, userID int64) (int, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND read = 0`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting unread notifications: %w", err)
	}
	return count, nil
}

// MarkNotificationRead flips the read flag. Only the owning user may do so;
// returns false when the notification does not exist or belongs to someone
// else.
func MarkNotificationRead(ctx context.Context, db *sql.DB, id, userID int64) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE notifications SET read = 1 WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("marking notification read: %w", err)
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}

// maxPickupCodeAttempts bounds collision retries. The code space is 32^6 (a
// little over a billion) so repeated collisions mean something is very wrong.
const maxPickupCodeAttempts = 5

// newPickupCode generates a code not currently issued on any unread
// CLAIM_APPROVED notification. Once the recipient has read the notification
// the pickup is considered actionable and the code may recur.
func newPickupCode(ctx context.Context, e execer) (string, error) {
	for i := 0; i < maxPickupCodeAttempts; i++ {
		code, err := pickup.NewCode()
		if err != nil {
			return "", err
		}

		var inUse int
		err = e.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM notifications
			 WHERE pickup_code = ? AND type = ? AND read = 0`,
			code, model.NotifClaimApproved,
		).Scan(&inUse)
		if err != nil {
			return "", fmt.Errorf("checking pickup code: %w", err)
		}
		if inUse == 0 {
			return code, nil
		}
	}
	return "", fmt.Errorf("no unique pickup code after %d attempts", maxPickupCodeAttempts)
}
