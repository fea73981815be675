package store

import (
	"context"
	"database/sql"
	"testing"

	"lostfound/internal/model"
)

func seedUser(t *testing.T, db *sql.DB, username, role string) *model.User {
	t.Helper()
	u, err := CreateUser(context.Background(), db, username, username, "hash", role)
	if err != nil {
		t.Fatalf("seeding user %s: %v", username, err)
	}
	return u
}

func seedItem(t *testing.T, db *sql.DB, reporterID int64, title, itemType, category string) *model.Item {
	t.Helper()
	item, err := CreateItem(context.Background(), db, NewItem{
		Title:      title,
		Type:       itemType,
		Category:   category,
		Location:   "Library, second floor",
		Date:       "2026-08-30",
		ReporterID: reporterID,
	})
	if err != nil {
		t.Fatalf("seeding item %s: %v", title, err)
	}
	return item
}

func approveItem(t *testing.T, db *sql.DB, id int64) {
	t.Helper()
	if err := ReviewItem(context.Background(), db, id, true); err != nil {
		t.Fatalf("approving item %d: %v", id, err)
	}
}

func countNotifications(t *testing.T, db *sql.DB, userID int64, notifType string) int {
	t.Helper()
	var count int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND type = ?`,
		userID, notifType,
	).Scan(&count)
	if err != nil {
		t.Fatalf("counting notifications: %v", err)
	}
	return count
}
