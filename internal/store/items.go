package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"lostfound/internal/model"
)

// NewItem holds the reporter-supplied fields for a new report.
type NewItem struct {
	Title       string
	Description string
	Type        string
	Category    string
	Location    string
	Date        string
	ReporterID  int64
	HighValue   bool
}

// CreateItem creates a new item report with status PENDING.
func CreateItem(ctx context.Context, db *sql.DB, n NewItem) (*model.Item, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO items (title, description, type, category, location, date, reporter_id, high_value)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		n.Title, n.Description, n.Type, n.Category, n.Location, n.Date, n.ReporterID, n.HighValue,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

const itemColumns = `id, title, description, type, category, location, date,
	image_ref, image_mime, status, reporter_id, high_value, created_at, updated_at, deleted_at`

func scanItem(row interface{ Scan(...any) error }) (*model.Item, error) {
	item := &model.Item{}
	var description, location, date, imageRef, imageMime sql.NullString
	var highValue int
	err := row.Scan(&item.ID, &item.Title, &description, &item.Type, &item.Category,
		&location, &date, &imageRef, &imageMime, &item.Status, &item.ReporterID,
		&highValue, &item.CreatedAt, &item.UpdatedAt, &item.DeletedAt)
	if err != nil {
		return nil, err
	}
	item.Description = description.String
	item.Location = location.String
	item.Date = date.String
	item.ImageRef = imageRef.String
	item.ImageMime = imageMime.String
	item.HighValue = highValue != 0
	return item, nil
}

// GetItem returns a non-deleted item by ID, or nil if it does not exist.
// A claim may reference an item that has since been removed; callers treat
// nil as "item no longer available", not as an error.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	item, err := scanItem(db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ? AND deleted_at IS NULL`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns all non-deleted items for the admin view, optionally
// filtered by status, type and category.
func ListItems(ctx context.Context, db *sql.DB, status, itemType, category string) ([]model.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE deleted_at IS NULL`
	var args []any
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	if itemType != "" {
		query += ` AND type = ?`
		args = append(args, itemType)
	}
	if category != "" {
		query += ` AND category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

// ListPublicItems returns APPROVED items only. This is the sole listing
// non-admin users see, and the pool the matching engine draws candidates
// from. The optional search query is a case-insensitive substring match over
// title and description.
func ListPublicItems(ctx context.Context, db *sql.DB, search string) ([]model.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items
	          WHERE deleted_at IS NULL AND status = ?`
	args := []any{model.ItemStatusApproved}

	if search != "" {
		query += ` AND (LOWER(title) LIKE ? OR LOWER(description) LIKE ?)`
		pattern := "%" + strings.ToLower(search) + "%"
		args = append(args, pattern, pattern)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing public items: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

func collectItems(rows *sql.Rows) ([]model.Item, error) {
	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// ReviewItem applies the admin decision on a pending report: PENDING ->
// APPROVED or PENDING -> REJECTED, emitting exactly one notification to the
// reporter in the same transaction. Returns ErrStaleState if the item is no
// longer PENDING (a concurrent review won).
func ReviewItem(ctx context.Context, db *sql.DB, id int64, approve bool) error {
	item, err := GetItem(ctx, db, id)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("item not found")
	}

	newStatus := model.ItemStatusRejected
	if approve {
		newStatus = model.ItemStatusApproved
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE items SET status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = ? AND deleted_at IS NULL`,
		newStatus, id, model.ItemStatusPending,
	)
	if err != nil {
		return fmt.Errorf("updating item status: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrStaleState
	}

	notif := model.Notification{
		UserID: item.ReporterID,
		Type:   model.NotifItemApproved,
		Title:  "Item Approved",
		Message: fmt.Sprintf("Your report %q has been approved and is now visible to other users.",
			item.Title),
	}
	if !approve {
		notif.Type = model.NotifItemRejected
		notif.Title = "Item Rejected"
		notif.Message = fmt.Sprintf("Your report %q was not approved. Please contact an administrator if you have questions.",
			item.Title)
	}
	if _, err := insertNotification(ctx, tx, notif); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing item review: %w", err)
	}
	return nil
}

// MarkItemHighValue sets the high-value flag. The flag is monotonic: there is
// no corresponding clear operation, so a later low-value verdict from the
// evaluation service can never downgrade an item.
func MarkItemHighValue(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET high_value = 1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND high_value = 0 AND deleted_at IS NULL`, id,
	)
	if err != nil {
		return fmt.Errorf("marking item high value: %w", err)
	}
	return nil
}

// DeleteItem soft-deletes an item. Idempotent: deleting an already-deleted
// item is a no-op.
func DeleteItem(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`, id,
	)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return nil
}

// SetItemImage stores a processed image and assigns a public ref.
func SetItemImage(ctx context.Context, db *sql.DB, id int64, image []byte, mime string) (string, error) {
	ref := newImageRef()
	_, err := db.ExecContext(ctx,
		`UPDATE items SET image = ?, image_mime = ?, image_ref = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		image, mime, ref, id,
	)
	if err != nil {
		return "", fmt.Errorf("setting item image: %w", err)
	}
	return ref, nil
}

// RemoveItemImage clears an item's image after a failed moderation verdict.
func RemoveItemImage(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET image = NULL, image_mime = NULL, image_ref = NULL, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`, id,
	)
	if err != nil {
		return fmt.Errorf("removing item image: %w", err)
	}
	return nil
}

// GetItemImage returns an item's image data and MIME type.
func GetItemImage(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM items WHERE id = ?`, id,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item image: %w", err)
	}
	return image, mime.String, nil
}

// newImageRef generates a public image reference in the same shape the
// portal has always used for externally visible image ids.
func newImageRef() string {
	return "lostfound/" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
