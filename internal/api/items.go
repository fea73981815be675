package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"lostfound/internal/ai"
	"lostfound/internal/imaging"
	"lostfound/internal/match"
	"lostfound/internal/model"
	"lostfound/internal/store"
)

// ItemsHandler handles item report endpoints.
type ItemsHandler struct {
	DB *sql.DB
	AI *ai.Client
}

type createItemRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Location    string `json:"location"`
	Date        string `json:"date"`
	HighValue   bool   `json:"high_value"`
}

type reviewItemRequest struct {
	Approved bool `json:"approved"`
}

// redactItem hides the true location of high-value found items from anyone
// but the reporter and the admins. Claimants have to describe where they
// lost the item, so handing them the location would defeat the check.
func redactItem(r *http.Request, item *model.Item) *model.Item {
	if !item.HighValue || item.Type != model.ItemTypeFound {
		return item
	}
	claims := GetClaims(r.Context())
	if isAdmin(r.Context()) || (claims != nil && claims.UserID == item.ReporterID) {
		return item
	}
	redacted := *item
	redacted.Location = ""
	return &redacted
}

func redactItems(r *http.Request, items []model.Item) []model.Item {
	out := make([]model.Item, len(items))
	for i := range items {
		out[i] = *redactItem(r, &items[i])
	}
	return out
}

// List handles GET /api/items. Admins see every status and can filter;
// everyone else sees approved items only, optionally text-searched via ?q=.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	var items []model.Item
	var err error
	if isAdmin(r.Context()) {
		q := r.URL.Query()
		items, err = store.ListItems(r.Context(), h.DB, q.Get("status"), q.Get("type"), q.Get("category"))
	} else {
		items, err = store.ListPublicItems(r.Context(), h.DB, r.URL.Query().Get("q"))
	}
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, redactItems(r, items))
}

// Create handles POST /api/items: moderation gate, insert, value check and
// an inline match preview against existing approved reports.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Title == "" || req.Location == "" || req.Date == "" {
		jsonError(w, http.StatusBadRequest, "title, location and date required")
		return
	}
	if req.Type != model.ItemTypeLost && req.Type != model.ItemTypeFound {
		jsonError(w, http.StatusBadRequest, "type must be LOST or FOUND")
		return
	}
	if !model.ValidCategory(req.Category) {
		jsonError(w, http.StatusBadRequest, "invalid category")
		return
	}

	// Moderation gate. Only an explicit rejection blocks the report; an
	// unreachable moderation service must never stop users from reporting.
	verdict, err := h.AI.ModerateContent(r.Context(), req.Title, req.Description, req.Category)
	if err != nil {
		slog.Warn("content moderation unavailable, accepting report", "error", err)
	} else if !verdict.Approved {
		reason := verdict.Reason
		if reason == "" {
			reason = "report rejected by content moderation"
		}
		jsonError(w, http.StatusBadRequest, reason)
		return
	}

	item, err := store.CreateItem(r.Context(), h.DB, store.NewItem{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Category:    req.Category,
		Location:    req.Location,
		Date:        req.Date,
		ReporterID:  claims.UserID,
		HighValue:   req.HighValue,
	})
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	// Value check, also best effort. The flag only ever goes up.
	if !item.HighValue {
		value, err := h.AI.EvaluateValue(r.Context(), req.Title, req.Description, req.Category)
		if err == nil && value.HighValue {
			if err := store.MarkItemHighValue(r.Context(), h.DB, item.ID); err == nil {
				item.HighValue = true
				slog.Info("item flagged high value", "item", item.ID)
			}
		}
	}

	matches, err := h.findMatches(r, item)
	if err != nil {
		// The report itself succeeded; just skip the preview.
		slog.Warn("match preview failed", "item", item.ID, "error", err)
		matches = []model.Item{}
	}

	jsonResponse(w, http.StatusCreated, map[string]any{
		"item":    item,
		"matches": matches,
	})
}

func (h *ItemsHandler) findMatches(r *http.Request, item *model.Item) ([]model.Item, error) {
	pool, err := store.ListPublicItems(r.Context(), h.DB, "")
	if err != nil {
		return nil, err
	}
	matches := match.FindMatches(*item, pool)
	if matches == nil {
		matches = []model.Item{}
	}
	return redactItems(r, matches), nil
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	// Non-admins only ever see approved reports, except their own.
	claims := GetClaims(r.Context())
	if item.Status != model.ItemStatusApproved && !isAdmin(r.Context()) &&
		(claims == nil || claims.UserID != item.ReporterID) {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	jsonResponse(w, http.StatusOK, redactItem(r, item))
}

// Matches handles GET /api/items/{id}/matches.
func (h *ItemsHandler) Matches(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	claims := GetClaims(r.Context())
	if item == nil || (item.Status != model.ItemStatusApproved && !isAdmin(r.Context()) &&
		(claims == nil || claims.UserID != item.ReporterID)) {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	matches, err := h.findMatches(r, item)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to find matches")
		return
	}
	jsonResponse(w, http.StatusOK, matches)
}

// Review handles PUT /api/items/{id}/review (admin).
func (h *ItemsHandler) Review(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req reviewItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	if err := store.ReviewItem(r.Context(), h.DB, id, req.Approved); err != nil {
		if errors.Is(err, store.ErrStaleState) {
			jsonError(w, http.StatusConflict, "item already reviewed")
			return
		}
		jsonError(w, http.StatusInternalServerError, "failed to review item")
		return
	}

	slog.Info("item reviewed", "item", id, "approved", req.Approved)
	reviewed, _ := store.GetItem(r.Context(), h.DB, id)
	jsonResponse(w, http.StatusOK, reviewed)
}

// Delete handles DELETE /api/items/{id} (admin).
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := store.DeleteItem(r.Context(), h.DB, id); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// UploadImage handles PUT /api/items/{id}/image (reporter or admin).
func (h *ItemsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	claims := GetClaims(r.Context())
	if !isAdmin(r.Context()) && claims.UserID != item.ReporterID {
		jsonError(w, http.StatusForbidden, "only the reporter may attach a photo")
		return
	}

	// Limit to 5 MB.
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)

	if err := r.ParseMultipartForm(5 << 20); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	if !imaging.AllowedMIME[header.Header.Get("Content-Type")] {
		jsonError(w, http.StatusBadRequest, "image must be JPEG, PNG, or WebP")
		return
	}

	processed, err := imaging.Process(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid image")
		return
	}

	ref, err := store.SetItemImage(r.Context(), h.DB, id, processed.Data, processed.MIME)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to save image")
		return
	}

	// Image moderation after the fact, fail open like the content gate:
	// only an explicit rejection takes the photo down again.
	verdict, err := h.AI.ModerateImage(r.Context(), ref)
	if err != nil {
		slog.Warn("image moderation unavailable, keeping image", "item", id, "error", err)
	} else if !verdict.Approved {
		if err := store.RemoveItemImage(r.Context(), h.DB, id); err != nil {
			jsonError(w, http.StatusInternalServerError, "failed to remove image")
			return
		}
		reason := verdict.Reason
		if reason == "" {
			reason = "image rejected by moderation"
		}
		jsonError(w, http.StatusBadRequest, reason)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "image uploaded", "image_ref": ref})
}

// GetImage handles GET /api/items/{id}/image.
func (h *ItemsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	data, mime, err := store.GetItemImage(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get image")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}
