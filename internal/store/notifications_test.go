package store

import (
	"context"
	"testing"

	"lostfound/internal/db"
	"lostfound/internal/model"
)

func TestNotificationsListNewestFirst(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	user := seedUser(t, database, "alice", model.RoleUser)
	other := seedUser(t, database, "bob", model.RoleUser)

	for _, title := range []string{"first", "second", "third"} {
		if _, err := CreateNotification(ctx, database, model.Notification{
			UserID: user.ID,
			Type:   model.NotifItemApproved,
			Title:  title,
		}); err != nil {
			t.Fatalf("CreateNotification: %v", err)
		}
	}
	CreateNotification(ctx, database, model.Notification{
		UserID: other.ID, Type: model.NotifItemApproved, Title: "not yours",
	})

	notifs, err := ListNotifications(ctx, database, user.ID)
	if err != nil {
		t.Fatalf("ListNotifications: %v", err)
	}
	if len(notifs) != 3 {
		t.Fatalf("got %d notifications, want 3", len(notifs))
	}
	if notifs[0].Title != "third" || notifs[2].Title != "first" {
		t.Errorf("wrong order: %q ... %q", notifs[0].Title, notifs[2].Title)
	}
}

func TestUnreadCountAndMarkRead(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	user := seedUser(t, database, "alice", model.RoleUser)
	other := seedUser(t, database, "bob", model.RoleUser)

	n1, _ := CreateNotification(ctx, database, model.Notification{
		UserID: user.ID, Type: model.NotifItemApproved, Title: "a",
	})
	CreateNotification(ctx, database, model.Notification{
		UserID: user.ID, Type: model.NotifItemRejected, Title: "b",
	})

	count, err := CountUnreadNotifications(ctx, database, user.ID)
	if err != nil {
		t.Fatalf("CountUnreadNotifications: %v", err)
	}
	if count != 2 {
		t.Errorf("unread = %d, want 2", count)
	}

	// Another user cannot mark someone else's notification.
	ok, err := MarkNotificationRead(ctx, database, n1.ID, other.ID)
	if err != nil {
		t.Fatalf("MarkNotificationRead: %v", err)
	}
	if ok {
		t.Error("marked a notification belonging to another user")
	}

	ok, err = MarkNotificationRead(ctx, database, n1.ID, user.ID)
	if err != nil || !ok {
		t.Fatalf("MarkNotificationRead by owner: ok=%v err=%v", ok, err)
	}

	count, _ = CountUnreadNotifications(ctx, database, user.ID)
	if count != 1 {
		t.Errorf("unread after read = %d, want 1", count)
	}
}

func TestPickupCodeAvoidsActiveCollision(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	user := seedUser(t, database, "alice", model.RoleUser)

	// An unread approval occupies its code; a fresh code must differ.
	occupied, err := newPickupCode(ctx, database)
	if err != nil {
		t.Fatalf("newPickupCode: %v", err)
	}
	CreateNotification(ctx, database, model.Notification{
		UserID:     user.ID,
		Type:       model.NotifClaimApproved,
		Title:      "Claim Approved",
		PickupCode: occupied,
	})

	for i := 0; i < 20; i++ {
		code, err := newPickupCode(ctx, database)
		if err != nil {
			t.Fatalf("newPickupCode: %v", err)
		}
		if code == occupied {
			t.Fatalf("issued code %q colliding with an active pickup", code)
		}
	}
}
