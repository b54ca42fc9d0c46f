package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"libraryLoanManagement/internal/auth"
	"libraryLoanManagement/internal/loans"
	"libraryLoanManagement/internal/schema"
	"libraryLoanManagement/models"
	"libraryLoanManagement/repository"
)

// LoanHandler serves the admin loan surface.
type LoanHandler struct {
	Service *loans.Service
	Books   repository.BookRepositoryI
	Logger  *slog.Logger
}

// List handles GET /admin/loans: rows scoped to the caller's role plus the
// table columns that role may see.
func (h *LoanHandler) List(w http.ResponseWriter, r *http.Request) {
	p, err := auth.RequirePrincipal(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"status": "error", "message": "unauthenticated"})
		return
	}
	currentUser := &models.User{ID: p.UserID, Name: p.Name, Role: p.Role}
	rows, err := h.Service.ListVisibleLoans(r.Context(), currentUser)
	if err != nil {
		h.Logger.Error("list loans failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"status": "error", "message": "internal error"})
		return
	}
	if rows == nil {
		rows = []models.LoanDetails{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"data":    rows,
		"columns": schema.VisibleLoanColumns(p.Role),
	})
}

// ConfirmReturn handles POST /admin/loans/{id}/return.
func (h *LoanHandler) ConfirmReturn(w http.ResponseWriter, r *http.Request) {
	p, err := auth.RequirePermission(r, auth.PermConfirmReturn)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}
	loanID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"status": "error", "message": "invalid loan id"})
		return
	}
	actor := &models.User{ID: p.UserID, Name: p.Name, Role: p.Role}
	if err := h.Service.ConfirmReturn(r.Context(), loanID, actor); err != nil {
		h.writeWorkflowError(w, "confirm return", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "message": "Return confirmed"})
}

// Borrow handles POST /admin/loans.
func (h *LoanHandler) Borrow(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.RequirePermission(r, auth.PermCreateLoan); err != nil {
		h.writeAuthError(w, err)
		return
	}
	var req struct {
		BookID  int64  `json:"book_id"`
		UserID  int64  `json:"user_id"`
		DueDate string `json:"due_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"status": "error", "message": "invalid request body"})
		return
	}
	loan, err := h.Service.Borrow(r.Context(), req.BookID, req.UserID, req.DueDate)
	if err != nil {
		h.writeWorkflowError(w, "borrow", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"status": "success", "data": loan})
}

// ListBooks handles GET /admin/books.
func (h *LoanHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.RequirePrincipal(r); err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"status": "error", "message": "unauthenticated"})
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	books, err := h.Books.List(r.Context(), limit, offset)
	if err != nil {
		h.Logger.Error("list books failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"status": "error", "message": "internal error"})
		return
	}
	if books == nil {
		books = []models.Book{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": books})
}

func (h *LoanHandler) writeAuthError(w http.ResponseWriter, err error) {
	if errors.Is(err, auth.ErrForbidden) {
		writeJSON(w, http.StatusForbidden, map[string]any{"status": "error", "message": "forbidden"})
		return
	}
	writeJSON(w, http.StatusUnauthorized, map[string]any{"status": "error", "message": "unauthenticated"})
}

// writeWorkflowError maps workflow error kinds to HTTP statuses. Persistence
// failures are logged with their cause before the generic 500 goes out; the
// error never disappears into a rollback.
func (h *LoanHandler) writeWorkflowError(w http.ResponseWriter, op string, err error) {
	switch loans.KindOf(err) {
	case loans.KindNotFound:
		writeJSON(w, http.StatusNotFound, map[string]any{"status": "error", "message": err.Error()})
	case loans.KindAlreadyReturned, loans.KindOutOfStock:
		writeJSON(w, http.StatusConflict, map[string]any{"status": "error", "message": err.Error()})
	case loans.KindForbidden:
		writeJSON(w, http.StatusForbidden, map[string]any{"status": "error", "message": err.Error()})
	case loans.KindInvalidInput:
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"status": "error", "message": err.Error()})
	default:
		h.Logger.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"status": "error", "message": "internal error"})
	}
}
