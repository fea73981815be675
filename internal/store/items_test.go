package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"lostfound/internal/db"
	"lostfound/internal/model"
)

func TestCreateAndGetItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	reporter := seedUser(t, database, "alice", model.RoleUser)

	item, err := CreateItem(ctx, database, NewItem{
		Title:       "Blue Thermos Bottle",
		Description: "dented on one side",
		Type:        model.ItemTypeLost,
		Category:    "Personal Items",
		Location:    "Gym",
		Date:        "2026-08-30",
		ReporterID:  reporter.ID,
		HighValue:   true,
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if item.Status != model.ItemStatusPending {
		t.Errorf("new item status = %q, want PENDING", item.Status)
	}
	if !item.HighValue {
		t.Error("reporter opt-in should set high_value")
	}

	got, err := GetItem(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got == nil || got.Title != "Blue Thermos Bottle" {
		t.Errorf("GetItem = %+v", got)
	}
}

func TestGetItemMissingReturnsNil(t *testing.T) {
	database := db.NewTestDB(t)

	item, err := GetItem(context.Background(), database, 9999)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if item != nil {
		t.Errorf("expected nil for missing item, got %+v", item)
	}
}

func TestPublicListingShowsOnlyApproved(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	reporter := seedUser(t, database, "alice", model.RoleUser)

	pending := seedItem(t, database, reporter.ID, "pending umbrella", model.ItemTypeFound, "Other")
	approved := seedItem(t, database, reporter.ID, "approved umbrella", model.ItemTypeFound, "Other")
	rejected := seedItem(t, database, reporter.ID, "rejected umbrella", model.ItemTypeFound, "Other")
	deleted := seedItem(t, database, reporter.ID, "deleted umbrella", model.ItemTypeFound, "Other")

	approveItem(t, database, approved.ID)
	if err := ReviewItem(ctx, database, rejected.ID, false); err != nil {
		t.Fatalf("rejecting item: %v", err)
	}
	approveItem(t, database, deleted.ID)
	if err := DeleteItem(ctx, database, deleted.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}

	items, err := ListPublicItems(ctx, database, "")
	if err != nil {
		t.Fatalf("ListPublicItems: %v", err)
	}
	if len(items) != 1 || items[0].ID != approved.ID {
		t.Errorf("public listing = %v, want only item %d", items, approved.ID)
	}
	_ = pending
}

func TestPublicListingSearch(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	reporter := seedUser(t, database, "alice", model.RoleUser)

	a := seedItem(t, database, reporter.ID, "Black Headphones", model.ItemTypeFound, "Electronics")
	b := seedItem(t, database, reporter.ID, "Red Scarf", model.ItemTypeFound, "Clothing")
	approveItem(t, database, a.ID)
	approveItem(t, database, b.ID)

	items, err := ListPublicItems(ctx, database, "headphone")
	if err != nil {
		t.Fatalf("ListPublicItems: %v", err)
	}
	if len(items) != 1 || items[0].ID != a.ID {
		t.Errorf("search result = %v, want only item %d", items, a.ID)
	}
}

func TestReviewItemNotifiesReporterOnce(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	reporter := seedUser(t, database, "alice", model.RoleUser)
	item := seedItem(t, database, reporter.ID, "Calculator", model.ItemTypeFound, "Electronics")

	if err := ReviewItem(ctx, database, item.ID, true); err != nil {
		t.Fatalf("ReviewItem: %v", err)
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got.Status != model.ItemStatusApproved {
		t.Errorf("status = %q, want APPROVED", got.Status)
	}
	if n := countNotifications(t, database, reporter.ID, model.NotifItemApproved); n != 1 {
		t.Errorf("ITEM_APPROVED notifications = %d, want 1", n)
	}

	// A second review loses the conditional update and emits nothing.
	err := ReviewItem(ctx, database, item.ID, false)
	if !errors.Is(err, ErrStaleState) {
		t.Fatalf("second review error = %v, want ErrStaleState", err)
	}
	if n := countNotifications(t, database, reporter.ID, model.NotifItemRejected); n != 0 {
		t.Errorf("ITEM_REJECTED notifications = %d, want 0", n)
	}
	got, _ = GetItem(ctx, database, item.ID)
	if got.Status != model.ItemStatusApproved {
		t.Errorf("status after stale review = %q, want APPROVED", got.Status)
	}
}

func TestMarkItemHighValueIsMonotonic(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	reporter := seedUser(t, database, "alice", model.RoleUser)
	item := seedItem(t, database, reporter.ID, "Gold Ring", model.ItemTypeFound, "Personal Items")

	if item.HighValue {
		t.Fatal("item should start low value")
	}
	if err := MarkItemHighValue(ctx, database, item.ID); err != nil {
		t.Fatalf("MarkItemHighValue: %v", err)
	}
	// Re-marking is a no-op; there is no API to clear the flag at all.
	if err := MarkItemHighValue(ctx, database, item.ID); err != nil {
		t.Fatalf("MarkItemHighValue (again): %v", err)
	}

	got, _ := GetItem(ctx, database, item.ID)
	if !got.HighValue {
		t.Error("high_value not set")
	}
}

func TestDeleteItemIdempotent(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	reporter := seedUser(t, database, "alice", model.RoleUser)
	item := seedItem(t, database, reporter.ID, "Notebook", model.ItemTypeLost, "Books")

	if err := DeleteItem(ctx, database, item.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if err := DeleteItem(ctx, database, item.ID); err != nil {
		t.Fatalf("DeleteItem (again): %v", err)
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got != nil {
		t.Errorf("deleted item still visible: %+v", got)
	}
}

func TestSetItemImageAssignsRef(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	reporter := seedUser(t, database, "alice", model.RoleUser)
	item := seedItem(t, database, reporter.ID, "Camera", model.ItemTypeFound, "Electronics")

	ref, err := SetItemImage(ctx, database, item.ID, []byte{0xff, 0xd8}, "image/jpeg")
	if err != nil {
		t.Fatalf("SetItemImage: %v", err)
	}
	if !strings.HasPrefix(ref, "lostfound/") {
		t.Errorf("image ref %q missing lostfound/ prefix", ref)
	}

	data, mime, err := GetItemImage(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("GetItemImage: %v", err)
	}
	if len(data) != 2 || mime != "image/jpeg" {
		t.Errorf("image round trip: %d bytes, mime %q", len(data), mime)
	}
}
