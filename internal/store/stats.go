package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Stats is the admin dashboard summary.
type Stats struct {
	PendingItems    int `json:"pending_items"`
	ApprovedItems   int `json:"approved_items"`
	PendingClaims   int `json:"pending_claims"`
	OpenInquiries   int `json:"open_inquiries"`
	RegisteredUsers int `json:"registered_users"`
}

// GetStats collects the counts shown on the admin dashboard.
func GetStats(ctx context.Context, db *sql.DB) (*Stats, error) {
	s := &Stats{}
	queries := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM items WHERE status = 'PENDING' AND deleted_at IS NULL`, &s.PendingItems},
		{`SELECT COUNT(*) FROM items WHERE status = 'APPROVED' AND deleted_at IS NULL`, &s.ApprovedItems},
		{`SELECT COUNT(*) FROM claims WHERE status = 'PENDING'`, &s.PendingClaims},
		{`SELECT COUNT(*) FROM inquiries WHERE status = 'OPEN'`, &s.OpenInquiries},
		{`SELECT COUNT(*) FROM users WHERE deleted_at IS NULL`, &s.RegisteredUsers},
	}
	for _, q := range queries {
		if err := db.QueryRowContext(ctx, q.query).Scan(q.dest); err != nil {
			return nil, fmt.Errorf("collecting stats: %w", err)
		}
	}
	return s, nil
}
