package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"lostfound/internal/ai"
	"lostfound/internal/imaging"
	"lostfound/internal/model"
	"lostfound/internal/store"
)

// ClaimsHandler handles ownership claim endpoints.
type ClaimsHandler struct {
	DB *sql.DB
	AI *ai.Client
}

type createClaimRequest struct {
	ItemID             int64  `json:"item_id"`
	ClaimedLocation    string `json:"claimed_location"`
	ClaimedDescription string `json:"claimed_description"`
	AdditionalProof    string `json:"additional_proof"`
}

type rejectClaimRequest struct {
	Reason string `json:"reason"`
}

// Create handles POST /api/claims.
func (h *ClaimsHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req createClaimRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ClaimedLocation == "" || req.ClaimedDescription == "" {
		jsonError(w, http.StatusBadRequest, "claimed location and description required")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, req.ItemID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil || item.Status != model.ItemStatusApproved || item.Type != model.ItemTypeFound {
		jsonError(w, http.StatusBadRequest, "item is not claimable")
		return
	}

	claim, err := store.CreateClaim(r.Context(), h.DB, store.NewClaim{
		ItemID:             req.ItemID,
		ClaimantID:         claims.UserID,
		ClaimantName:       claims.Username,
		ClaimedLocation:    req.ClaimedLocation,
		ClaimedDescription: req.ClaimedDescription,
		AdditionalProof:    req.AdditionalProof,
	})
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create claim")
		return
	}

	// High-value items always go to a human. Everything else gets a best
	// effort recommendation from the review service; the claim is already
	// persisted, so a dead service just means no advice.
	message := "Your claim has been submitted and is awaiting admin review."
	if !item.HighValue {
		review, err := h.AI.ReviewClaim(r.Context(), item.ID, claim.ID)
		if err != nil {
			slog.Warn("claim review unavailable", "claim", claim.ID, "error", err)
		} else {
			rec := model.ClaimReview{
				Approved:         review.Approved,
				Confidence:       review.Confidence,
				NeedsAdminReview: review.NeedsAdminReview,
				Reason:           review.Reason,
			}
			if err := store.SetClaimReview(r.Context(), h.DB, claim.ID, rec); err != nil {
				slog.Warn("storing claim review failed", "claim", claim.ID, "error", err)
			} else {
				claim.Review = &rec
				switch {
				case review.NeedsAdminReview:
					message = "Your claim needs additional verification and has been forwarded to an admin."
				case review.Approved:
					message = "Your claim details look consistent with the item. An admin will finalize the decision."
				default:
					message = "Your claim details could not be verified automatically. An admin will review it."
				}
			}
		}
	}

	jsonResponse(w, http.StatusCreated, map[string]any{
		"claim":   claim,
		"message": message,
	})
}

// List handles GET /api/claims (admin queue, ?status= filter).
func (h *ClaimsHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := store.ListClaims(r.Context(), h.DB, r.URL.Query().Get("status"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list claims")
		return
	}
	if list == nil {
		list = []model.Claim{}
	}
	jsonResponse(w, http.StatusOK, list)
}

// getOwnClaim loads a claim and enforces that the requester is an admin or
// the claimant. Writes the error response itself and returns nil on failure.
func (h *ClaimsHandler) getOwnClaim(w http.ResponseWriter, r *http.Request) *model.Claim {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid claim id")
		return nil
	}

	claim, err := store.GetClaim(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get claim")
		return nil
	}
	if claim == nil {
		jsonError(w, http.StatusNotFound, "claim not found")
		return nil
	}

	claims := GetClaims(r.Context())
	if !isAdmin(r.Context()) && claims.UserID != claim.ClaimantID {
		jsonError(w, http.StatusForbidden, "not your claim")
		return nil
	}
	return claim
}

// Get handles GET /api/claims/{id} (admin or claimant).
func (h *ClaimsHandler) Get(w http.ResponseWriter, r *http.Request) {
	claim := h.getOwnClaim(w, r)
	if claim == nil {
		return
	}
	jsonResponse(w, http.StatusOK, claim)
}

// Approve handles PUT /api/claims/{id}/approve (admin).
func (h *ClaimsHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid claim id")
		return
	}

	claim, err := store.GetClaim(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get claim")
		return
	}
	if claim == nil {
		jsonError(w, http.StatusNotFound, "claim not found")
		return
	}

	code, err := store.ApproveClaim(r.Context(), h.DB, id)
	if err != nil {
		if errors.Is(err, store.ErrStaleState) {
			jsonError(w, http.StatusConflict, "claim already decided")
			return
		}
		jsonError(w, http.StatusInternalServerError, "failed to approve claim")
		return
	}

	slog.Info("claim approved", "claim", id, "item", claim.ItemID)
	jsonResponse(w, http.StatusOK, map[string]string{
		"message":     "claim approved",
		"pickup_code": code,
	})
}

// Reject handles PUT /api/claims/{id}/reject (admin).
func (h *ClaimsHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid claim id")
		return
	}

	var req rejectClaimRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claim, err := store.GetClaim(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get claim")
		return
	}
	if claim == nil {
		jsonError(w, http.StatusNotFound, "claim not found")
		return
	}

	if err := store.RejectClaim(r.Context(), h.DB, id, req.Reason); err != nil {
		if errors.Is(err, store.ErrStaleState) {
			jsonError(w, http.StatusConflict, "claim already decided")
			return
		}
		jsonError(w, http.StatusInternalServerError, "failed to reject claim")
		return
	}

	slog.Info("claim rejected", "claim", id, "item", claim.ItemID)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "claim rejected"})
}

// UploadImage handles PUT /api/claims/{id}/images/{pos} (claimant only,
// while the claim is still pending).
func (h *ClaimsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	claim := h.getOwnClaim(w, r)
	if claim == nil {
		return
	}
	if GetClaims(r.Context()).UserID != claim.ClaimantID {
		jsonError(w, http.StatusForbidden, "only the claimant may attach proof photos")
		return
	}
	if claim.Status != model.ClaimStatusPending {
		jsonError(w, http.StatusConflict, "claim already decided")
		return
	}

	pos, err := strconv.Atoi(r.PathValue("pos"))
	if err != nil || pos < 0 || pos >= model.MaxProofImages {
		jsonError(w, http.StatusBadRequest, "invalid image position")
		return
	}

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

	if err := store.AddClaimImage(r.Context(), h.DB, claim.ID, pos, processed.Data, processed.MIME); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to save image")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "image uploaded"})
}

// GetImage handles GET /api/claims/{id}/images/{pos} (admin or claimant).
func (h *ClaimsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	claim := h.getOwnClaim(w, r)
	if claim == nil {
		return
	}

	pos, err := strconv.Atoi(r.PathValue("pos"))
	if err != nil || pos < 0 || pos >= model.MaxProofImages {
		jsonError(w, http.StatusBadRequest, "invalid image position")
		return
	}

	data, mime, err := store.GetClaimImage(r.Context(), h.DB, claim.ID, pos)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get image")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Write(data)
}
