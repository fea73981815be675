package api

import (
	"database/sql"
	"net/http"

	"lostfound/internal/ai"
	"lostfound/internal/model"
)

// NewRouter creates the API router with all endpoints registered. The ai
// client may be nil, in which case every gated operation proceeds without
// collaborator advice.
func NewRouter(db *sql.DB, jwtSecret string, aiClient *ai.Client) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	itemsHandler := &ItemsHandler{DB: db, AI: aiClient}
	claimsHandler := &ClaimsHandler{DB: db, AI: aiClient}
	inquiriesHandler := &InquiriesHandler{DB: db}
	notificationsHandler := &NotificationsHandler{DB: db}
	usersHandler := &UsersHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)
	requireAdmin := RequireRole(model.RoleAdmin)

	// Public: account creation and login.
	mux.HandleFunc("POST /api/auth/signup", authHandler.Signup)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Session management.
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))

	// Items: everyone sees the approved listing, admins review and remove.
	mux.Handle("GET /api/items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("POST /api/items", authMW(http.HandlerFunc(itemsHandler.Create)))
	mux.Handle("GET /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Get)))
	mux.Handle("GET /api/items/{id}/matches", authMW(http.HandlerFunc(itemsHandler.Matches)))
	mux.Handle("PUT /api/items/{id}/image", authMW(http.HandlerFunc(itemsHandler.UploadImage)))
	mux.Handle("GET /api/items/{id}/image", authMW(http.HandlerFunc(itemsHandler.GetImage)))
	mux.Handle("PUT /api/items/{id}/review", authMW(requireAdmin(http.HandlerFunc(itemsHandler.Review))))
	mux.Handle("DELETE /api/items/{id}", authMW(requireAdmin(http.HandlerFunc(itemsHandler.Delete))))

	// Claims: filing is open to users, adjudication is admin only.
	mux.Handle("POST /api/claims", authMW(http.HandlerFunc(claimsHandler.Create)))
	mux.Handle("GET /api/claims", authMW(requireAdmin(http.HandlerFunc(claimsHandler.List))))
	mux.Handle("GET /api/claims/{id}", authMW(http.HandlerFunc(claimsHandler.Get)))
	mux.Handle("PUT /api/claims/{id}/approve", authMW(requireAdmin(http.HandlerFunc(claimsHandler.Approve))))
	mux.Handle("PUT /api/claims/{id}/reject", authMW(requireAdmin(http.HandlerFunc(claimsHandler.Reject))))
	mux.Handle("PUT /api/claims/{id}/images/{pos}", authMW(http.HandlerFunc(claimsHandler.UploadImage)))
	mux.Handle("GET /api/claims/{id}/images/{pos}", authMW(http.HandlerFunc(claimsHandler.GetImage)))

	// Inquiries.
	mux.Handle("POST /api/inquiries", authMW(http.HandlerFunc(inquiriesHandler.Create)))
	mux.Handle("GET /api/inquiries", authMW(requireAdmin(http.HandlerFunc(inquiriesHandler.List))))
	mux.Handle("PUT /api/inquiries/{id}/reply", authMW(requireAdmin(http.HandlerFunc(inquiriesHandler.Reply))))

	// Notifications (own only).
	mux.Handle("GET /api/notifications", authMW(http.HandlerFunc(notificationsHandler.List)))
	mux.Handle("PUT /api/notifications/{id}/read", authMW(http.HandlerFunc(notificationsHandler.MarkRead)))

	// User administration.
	mux.Handle("GET /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("PUT /api/users/{id}/role", authMW(requireAdmin(http.HandlerFunc(usersHandler.UpdateRole))))
	mux.Handle("DELETE /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Delete))))
	mux.Handle("GET /api/stats", authMW(requireAdmin(http.HandlerFunc(usersHandler.Stats))))

	return mux
}
