// Package ai is the HTTP client for the external collaborator services:
// content moderation, image moderation, value evaluation and claim review.
//
// All four services are best effort. Callers treat any error from this
// package as "no advice available" and proceed (fail open) rather than
// blocking the gated operation.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"lostfound/internal/config"
)

// ErrUnavailable is returned when the collaborator services are disabled or
// cannot be reached.
var ErrUnavailable = errors.New("collaborator service unavailable")

// Client talks to the collaborator service endpoints. A nil *Client is valid
// and reports ErrUnavailable from every method.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client from configuration. Returns nil when the collaborator
// services are disabled.
func New(cfg config.Collaborators) *Client {
	if !cfg.Enabled {
		return nil
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// ModerationResult is the verdict from the content and image moderation
// endpoints.
type ModerationResult struct {
	Approved bool   `json:"approved"`
	Reason   string `json:"reason,omitempty"`
}

// ValueResult is the verdict from the value-evaluation endpoint.
type ValueResult struct {
	HighValue bool `json:"highValue"`
}

// ClaimReviewResult is the recommendation from the claim-review endpoint.
// It is advisory only; the administrator decides the terminal claim status.
type ClaimReviewResult struct {
	Approved         bool   `json:"approved"`
	Confidence       int    `json:"confidence"`
	NeedsAdminReview bool   `json:"needsAdminReview"`
	Reason           string `json:"reason"`
}

// ModerateContent checks a report's text for appropriateness.
func (c *Client) ModerateContent(ctx context.Context, title, description, category string) (*ModerationResult, error) {
	req := map[string]string{
		"title":       title,
		"description": description,
		"category":    category,
	}
	var result ModerationResult
	if err := c.post(ctx, "/api/moderate-content", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ModerateImage checks an uploaded image for appropriateness.
func (c *Client) ModerateImage(ctx context.Context, imageRef string) (*ModerationResult, error) {
	req := map[string]string{"image_url": imageRef}
	var result ModerationResult
	if err := c.post(ctx, "/api/moderate-image", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// EvaluateValue asks whether an item should be treated as high value.
func (c *Client) EvaluateValue(ctx context.Context, title, description, category string) (*ValueResult, error) {
	req := map[string]string{
		"title":       title,
		"description": description,
		"category":    category,
	}
	var result ValueResult
	if err := c.post(ctx, "/api/evaluate-value", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ReviewClaim requests a recommendation for a low-value claim.
func (c *Client) ReviewClaim(ctx context.Context, itemID, claimID int64) (*ClaimReviewResult, error) {
	req := map[string]int64{
		"itemId":  itemID,
		"claimId": claimID,
	}
	var result ClaimReviewResult
	if err := c.post(ctx, "/api/review-claim", req, &result); err != nil {
		return nil, err
	}
	if result.Confidence < 0 {
		result.Confidence = 0
	}
	if result.Confidence > 100 {
		result.Confidence = 100
	}
	return &result, nil
}

func (c *Client) post(ctx context.Context, path string, payload, target any) error {
	if c == nil {
		return ErrUnavailable
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned %d", ErrUnavailable, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
	}
	return nil
}
