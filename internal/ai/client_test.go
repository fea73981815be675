package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"lostfound/internal/config"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(config.Collaborators{
		Enabled:        true,
		BaseURL:        server.URL,
		TimeoutSeconds: 2,
	})
}

func TestNilClientReportsUnavailable(t *testing.T) {
	var c *Client
	_, err := c.ModerateContent(context.Background(), "t", "d", "c")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestNewDisabledReturnsNil(t *testing.T) {
	if c := New(config.Collaborators{Enabled: false}); c != nil {
		t.Error("expected nil client when disabled")
	}
}

func TestModerateContent(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/moderate-content" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		if req["title"] != "airpods" {
			t.Errorf("title = %q", req["title"])
		}
		json.NewEncoder(w).Encode(ModerationResult{Approved: false, Reason: "spam"})
	})

	result, err := client.ModerateContent(context.Background(), "airpods", "desc", "Electronics")
	if err != nil {
		t.Fatalf("ModerateContent: %v", err)
	}
	if result.Approved || result.Reason != "spam" {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestReviewClaimClampsConfidence(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"approved":         true,
			"confidence":       250,
			"needsAdminReview": true,
			"reason":           "location matches",
		})
	})

	result, err := client.ReviewClaim(context.Background(), 7, 9)
	if err != nil {
		t.Fatalf("ReviewClaim: %v", err)
	}
	if result.Confidence != 100 {
		t.Errorf("confidence = %d, want clamped to 100", result.Confidence)
	}
	if !result.NeedsAdminReview {
		t.Error("needsAdminReview not decoded")
	}
}

func TestServerErrorIsUnavailable(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.EvaluateValue(context.Background(), "ring", "gold", "Personal Items")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestUnreachableServerIsUnavailable(t *testing.T) {
	client := New(config.Collaborators{
		Enabled:        true,
		BaseURL:        "http://127.0.0.1:1", // nothing listens here
		TimeoutSeconds: 1,
	})

	_, err := client.ModerateImage(context.Background(), "lostfound/abc")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}
