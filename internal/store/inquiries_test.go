package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"lostfound/internal/db"
	"lostfound/internal/model"
)

func TestCreateInquiryRequiresItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	user := seedUser(t, database, "alice", model.RoleUser)

	if _, err := CreateInquiry(ctx, database, 9999, user.ID, "alice", "is this mine?"); err == nil {
		t.Error("expected error for missing item")
	}

	finder := seedUser(t, database, "finder", model.RoleUser)
	item := seedItem(t, database, finder.ID, "Glasses", model.ItemTypeFound, "Personal Items")
	approveItem(t, database, item.ID)

	inq, err := CreateInquiry(ctx, database, item.ID, user.ID, "alice", "is this mine?")
	if err != nil {
		t.Fatalf("CreateInquiry: %v", err)
	}
	if inq.Status != model.InquiryStatusOpen {
		t.Errorf("new inquiry status = %q, want OPEN", inq.Status)
	}
	if inq.ItemTitle != "Glasses" {
		t.Errorf("item title snapshot = %q", inq.ItemTitle)
	}
}

func TestResolveInquiry(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	user := seedUser(t, database, "alice", model.RoleUser)
	finder := seedUser(t, database, "finder", model.RoleUser)
	item := seedItem(t, database, finder.ID, "Glasses", model.ItemTypeFound, "Personal Items")
	approveItem(t, database, item.ID)

	inq, _ := CreateInquiry(ctx, database, item.ID, user.ID, "alice", "is this mine?")

	if err := ResolveInquiry(ctx, database, inq.ID, "Come check at the front desk."); err != nil {
		t.Fatalf("ResolveInquiry: %v", err)
	}

	got, _ := GetInquiry(ctx, database, inq.ID)
	if got.Status != model.InquiryStatusResolved {
		t.Errorf("status = %q, want RESOLVED", got.Status)
	}
	if got.AdminReply != "Come check at the front desk." {
		t.Errorf("admin reply = %q", got.AdminReply)
	}

	notifs, _ := ListNotifications(ctx, database, user.ID)
	var replies []model.Notification
	for _, n := range notifs {
		if n.Type == model.NotifInquiryReply {
			replies = append(replies, n)
		}
	}
	if len(replies) != 1 {
		t.Fatalf("INQUIRY_REPLY notifications = %d, want 1", len(replies))
	}
	if !strings.Contains(replies[0].Message, "front desk") {
		t.Errorf("reply message %q missing reply text", replies[0].Message)
	}

	// Resolving again is a stale transition and must not notify twice.
	if err := ResolveInquiry(ctx, database, inq.ID, "again"); !errors.Is(err, ErrStaleState) {
		t.Errorf("double resolve error = %v, want ErrStaleState", err)
	}
	if n := countNotifications(t, database, user.ID, model.NotifInquiryReply); n != 1 {
		t.Errorf("INQUIRY_REPLY notifications after retry = %d, want 1", n)
	}
}

func TestListInquiriesByStatus(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	user := seedUser(t, database, "alice", model.RoleUser)
	finder := seedUser(t, database, "finder", model.RoleUser)
	item := seedItem(t, database, finder.ID, "Glasses", model.ItemTypeFound, "Personal Items")
	approveItem(t, database, item.ID)

	first, _ := CreateInquiry(ctx, database, item.ID, user.ID, "alice", "question one")
	CreateInquiry(ctx, database, item.ID, user.ID, "alice", "question two")
	ResolveInquiry(ctx, database, first.ID, "answered")

	open, err := ListInquiries(ctx, database, model.InquiryStatusOpen)
	if err != nil {
		t.Fatalf("ListInquiries: %v", err)
	}
	if len(open) != 1 || open[0].Message != "question two" {
		t.Errorf("open inquiries = %+v, want just question two", open)
	}

	all, _ := ListInquiries(ctx, database, "")
	if len(all) != 2 {
		t.Errorf("all inquiries = %d, want 2", len(all))
	}
}
