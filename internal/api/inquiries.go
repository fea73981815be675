package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"lostfound/internal/model"
	"lostfound/internal/store"
)

// InquiriesHandler handles item inquiry endpoints.
type InquiriesHandler struct {
	DB *sql.DB
}

type createInquiryRequest struct {
	ItemID  int64  `json:"item_id"`
	Message string `json:"message"`
}

type replyInquiryRequest struct {
	Reply string `json:"reply"`
}

// Create handles POST /api/inquiries.
func (h *InquiriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req createInquiryRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		jsonError(w, http.StatusBadRequest, "message required")
		return
	}

	inq, err := store.CreateInquiry(r.Context(), h.DB, req.ItemID, claims.UserID, claims.Username, req.Message)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "item no longer available")
		return
	}

	jsonResponse(w, http.StatusCreated, inq)
}

// List handles GET /api/inquiries (admin, ?status= filter).
func (h *InquiriesHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := store.ListInquiries(r.Context(), h.DB, r.URL.Query().Get("status"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list inquiries")
		return
	}
	if list == nil {
		list = []model.Inquiry{}
	}
	jsonResponse(w, http.StatusOK, list)
}

// Reply handles PUT /api/inquiries/{id}/reply (admin).
func (h *InquiriesHandler) Reply(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid inquiry id")
		return
	}

	var req replyInquiryRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Reply == "" {
		jsonError(w, http.StatusBadRequest, "reply required")
		return
	}

	inq, err := store.GetInquiry(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get inquiry")
		return
	}
	if inq == nil {
		jsonError(w, http.StatusNotFound, "inquiry not found")
		return
	}

	if err := store.ResolveInquiry(r.Context(), h.DB, id, req.Reply); err != nil {
		if errors.Is(err, store.ErrStaleState) {
			jsonError(w, http.StatusConflict, "inquiry already resolved")
			return
		}
		jsonError(w, http.StatusInternalServerError, "failed to resolve inquiry")
		return
	}

	resolved, _ := store.GetInquiry(r.Context(), h.DB, id)
	jsonResponse(w, http.StatusOK, resolved)
}
