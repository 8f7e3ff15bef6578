package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/you/payout-backoffice/internal/domain"
)

func NewRouter(h *Handlers) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", h.Health).Methods("GET")

	r.HandleFunc("/api/login", h.Login).Methods("POST")
	r.HandleFunc("/api/logout", h.Logout).Methods("POST")
	r.HandleFunc("/api/check-session", h.CheckSession).Methods("GET")
	r.HandleFunc("/api/refresh-session", h.withAuth(h.RefreshSession)).Methods("POST")
	r.HandleFunc("/api/user", h.withAuth(h.CurrentUser)).Methods("GET")

	r.HandleFunc("/requests", h.withAuth(h.requireRole(domain.RoleUser, h.CreateRequest))).Methods("POST")
	r.HandleFunc("/requests", h.withAuth(h.ListRequests)).Methods("GET")
	r.HandleFunc("/teamleader/requests", h.withAuth(h.requireRole(domain.RoleTeamLeader, h.ListPendingRequests))).Methods("GET")
	r.HandleFunc("/teamleader/requests/{id}/approve", h.withAuth(h.requireRole(domain.RoleTeamLeader, h.ApproveRequest))).Methods("PUT")
	r.HandleFunc("/teamleader/requests/{id}/reject", h.withAuth(h.requireRole(domain.RoleTeamLeader, h.RejectRequest))).Methods("PUT")

	r.HandleFunc("/api/expenses", h.withAuth(h.QueryExpenses)).Methods("GET")
	r.HandleFunc("/api/users", h.withAuth(h.ListUsers)).Methods("GET")

	r.HandleFunc("/teams", h.withAuth(h.ListTeams)).Methods("GET")
	r.HandleFunc("/admin/teams", h.withAuth(h.requireRole(domain.RoleAdmin, h.ListTeams))).Methods("GET")
	r.HandleFunc("/teamleader/team", h.withAuth(h.requireRole(domain.RoleTeamLeader, h.ListTeams))).Methods("GET")
	r.HandleFunc("/user/team", h.withAuth(h.requireRole(domain.RoleUser, h.ListTeams))).Methods("GET")
	return r
}
