package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/you/payout-backoffice/internal/auth"
	"github.com/you/payout-backoffice/internal/domain"
	"github.com/you/payout-backoffice/internal/infra"
	"github.com/you/payout-backoffice/internal/repository"
	uc "github.com/you/payout-backoffice/internal/usecase"
)

type Handlers struct {
	RequestUC *uc.RequestUsecase
	ExpenseUC *uc.ExpenseUsecase
	AuthUC    *uc.AuthUsecase
	Repo      repository.Repo
	Log       infra.Logger
}

func NewHandlers(requestUC *uc.RequestUsecase, expenseUC *uc.ExpenseUsecase, authUC *uc.AuthUsecase, repo repository.Repo, log infra.Logger) *Handlers {
	return &Handlers{RequestUC: requestUC, ExpenseUC: expenseUC, AuthUC: authUC, Repo: repo, Log: log}
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func errorResp(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// handleError maps usecase errors to HTTP statuses. NotFound and InvalidState
// share a 404 so a cross-team caller can't probe which request ids exist.
func (h *Handlers) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, uc.ErrUnauthorized):
		errorResp(w, http.StatusUnauthorized, "Not authorized")
	case errors.Is(err, uc.ErrForbidden):
		errorResp(w, http.StatusForbidden, "Access denied")
	case errors.Is(err, uc.ErrNotFound), errors.Is(err, uc.ErrInvalidState):
		errorResp(w, http.StatusNotFound, "Request not found")
	default:
		h.Log.Errorf("internal error: %v", err)
		errorResp(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		errorResp(w, http.StatusBadRequest, "invalid json")
		return
	}
	if payload.Username == "" || payload.Password == "" {
		errorResp(w, http.StatusBadRequest, "username and password required")
		return
	}
	user, session, err := h.AuthUC.Login(r.Context(), payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, uc.ErrInvalidCredentials) {
			errorResp(w, http.StatusBadRequest, "Invalid username or password")
			return
		}
		h.handleError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
	})
	h.Log.Infof("login: user %d (%s)", user.ID, user.Role)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Login successful"})
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if token := sessionToken(r); token != "" {
		if err := h.AuthUC.Logout(r.Context(), token); err != nil {
			h.handleError(w, err)
			return
		}
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

func (h *Handlers) CheckSession(w http.ResponseWriter, r *http.Request) {
	token := sessionToken(r)
	if token == "" {
		writeJSON(w, http.StatusOK, map[string]interface{}{"isAuthenticated": false})
		return
	}
	_, user, err := h.AuthUC.Authenticate(r.Context(), token)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"isAuthenticated": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"isAuthenticated": true, "user": user})
}

func (h *Handlers) RefreshSession(w http.ResponseWriter, r *http.Request) {
	if err := h.AuthUC.Refresh(r.Context(), sessionToken(r)); err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Session refreshed"})
}

func (h *Handlers) CurrentUser(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFrom(r.Context())
	if !ok {
		errorResp(w, http.StatusUnauthorized, "Not authorized")
		return
	}
	user, err := h.Repo.GetUserByID(r.Context(), ident.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			errorResp(w, http.StatusNotFound, "User not found")
			return
		}
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handlers) CreateRequest(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFrom(r.Context())
	if !ok {
		errorResp(w, http.StatusUnauthorized, "Not authorized")
		return
	}
	var payload struct {
		Amount   *float64 `json:"amount"`
		Link     string   `json:"link"`
		Quantity *int     `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		errorResp(w, http.StatusBadRequest, "invalid json")
		return
	}
	if payload.Amount == nil || payload.Link == "" || payload.Quantity == nil {
		errorResp(w, http.StatusBadRequest, "amount, link and quantity required")
		return
	}
	created, err := h.RequestUC.Create(r.Context(), ident, *payload.Amount, payload.Link, *payload.Quantity)
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handlers) ListRequests(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFrom(r.Context())
	if !ok {
		errorResp(w, http.StatusUnauthorized, "Not authorized")
		return
	}
	requests, err := h.RequestUC.ListForCaller(r.Context(), ident)
	if err != nil {
		h.handleError(w, err)
		return
	}
	if requests == nil {
		requests = []domain.Request{}
	}
	writeJSON(w, http.StatusOK, requests)
}

func (h *Handlers) ListPendingRequests(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFrom(r.Context())
	if !ok {
		errorResp(w, http.StatusUnauthorized, "Not authorized")
		return
	}
	requests, err := h.RequestUC.ListPending(r.Context(), ident)
	if err != nil {
		h.handleError(w, err)
		return
	}
	if requests == nil {
		requests = []domain.Request{}
	}
	writeJSON(w, http.StatusOK, requests)
}

func (h *Handlers) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFrom(r.Context())
	if !ok {
		errorResp(w, http.StatusUnauthorized, "Not authorized")
		return
	}
	requestID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errorResp(w, http.StatusNotFound, "Request not found")
		return
	}
	expense, err := h.RequestUC.Approve(r.Context(), ident, requestID)
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "Request approved", "expense": expense})
}

func (h *Handlers) RejectRequest(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFrom(r.Context())
	if !ok {
		errorResp(w, http.StatusUnauthorized, "Not authorized")
		return
	}
	requestID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errorResp(w, http.StatusNotFound, "Request not found")
		return
	}
	if err := h.RequestUC.Reject(r.Context(), ident, requestID); err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Request rejected"})
}

func (h *Handlers) QueryExpenses(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFrom(r.Context())
	if !ok {
		errorResp(w, http.StatusUnauthorized, "Not authorized")
		return
	}
	q := r.URL.Query()
	query := uc.ExpenseQuery{
		Limit:     q.Get("limit"),
		Offset:    q.Get("offset"),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
		Webmaster: q.Get("webmaster"),
		Amount:    q.Get("amount"),
		Team:      q.Get("team"),
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
	}
	expenses, total, err := h.ExpenseUC.Query(r.Context(), ident, query)
	if err != nil {
		h.handleError(w, err)
		return
	}
	if expenses == nil {
		expenses = []domain.Expense{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"expenses": expenses, "totalItems": total})
}

func (h *Handlers) ListTeams(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFrom(r.Context())
	if !ok {
		errorResp(w, http.StatusUnauthorized, "Not authorized")
		return
	}
	scope, err := auth.ResolveScope(ident)
	if err != nil {
		errorResp(w, http.StatusUnauthorized, "Not authorized")
		return
	}
	teams, err := h.Repo.ListTeams(r.Context(), scope)
	if err != nil {
		h.handleError(w, err)
		return
	}
	if teams == nil {
		teams = []domain.Team{}
	}
	writeJSON(w, http.StatusOK, teams)
}

func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFrom(r.Context())
	if !ok {
		errorResp(w, http.StatusUnauthorized, "Not authorized")
		return
	}
	scope, err := auth.ResolveScope(ident)
	if err != nil {
		errorResp(w, http.StatusUnauthorized, "Not authorized")
		return
	}
	users, err := h.Repo.ListUsers(r.Context(), scope)
	if err != nil {
		h.handleError(w, err)
		return
	}
	if users == nil {
		users = []domain.User{}
	}
	writeJSON(w, http.StatusOK, users)
}
