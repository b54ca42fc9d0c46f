// Package httpapi exposes the REST surface: the auth endpoints and the admin
// loan desk. Routing uses the standard ServeMux with method patterns.
package httpapi

import (
	"log/slog"
	"net/http"

	"libraryLoanManagement/internal/auth"
	"libraryLoanManagement/internal/loans"
	"libraryLoanManagement/repository"
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	JWTSecret string
	Users     repository.UserRepositoryI
	Tokens    repository.TokenRepositoryI
	Books     repository.BookRepositoryI
	Loans     *loans.Service
	Logger    *slog.Logger
}

// NewHandler builds the route table. /signup and /login are open; everything
// else sits behind the bearer-token middleware.
func NewHandler(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	ah := NewAuthHandler(d.Users, d.Tokens, d.JWTSecret, d.Logger)
	lh := &LoanHandler{Service: d.Loans, Books: d.Books, Logger: d.Logger}

	authed := auth.Middleware(d.JWTSecret, d.Tokens, d.Users)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /signup", ah.SignUp)
	mux.HandleFunc("POST /login", ah.Login)
	mux.Handle("POST /logout", authed(http.HandlerFunc(ah.Logout)))

	mux.Handle("GET /admin/loans", authed(http.HandlerFunc(lh.List)))
	mux.Handle("POST /admin/loans", authed(http.HandlerFunc(lh.Borrow)))
	mux.Handle("POST /admin/loans/{id}/return", authed(http.HandlerFunc(lh.ConfirmReturn)))
	mux.Handle("GET /admin/books", authed(http.HandlerFunc(lh.ListBooks)))

	return mux
}
