package testutil

import (
	"context"
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"

	"libraryLoanManagement/internal/auth"
	"libraryLoanManagement/internal/db"
	"libraryLoanManagement/models"
	"libraryLoanManagement/repository"
)

// OpenInMemoryDB opens an in-memory SQLite database and applies migrations.
// Caller is responsible for closing the DB, typically via t.Cleanup.
func OpenInMemoryDB(t *testing.T, name string) *sql.DB {
	t.Helper()
	// Shared cache so multiple connections see the same database.
	d, err := db.Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// MintToken persists an access-token row for the user and returns a signed
// JWT backed by it, ready for an Authorization header.
func MintToken(t *testing.T, d *sql.DB, secret string, u *models.User) string {
	t.Helper()
	tokenID := uuid.NewString()
	err := repository.NewTokenRepository(d).Insert(context.Background(),
		&models.AccessToken{ID: tokenID, UserID: u.ID, Name: "test"})
	if err != nil {
		t.Fatalf("insert token row: %v", err)
	}
	signed, err := auth.IssueToken(secret, u.ID, u.Name, u.Role, tokenID, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return signed
}

// ReqWithBearer sets the Authorization header on the request.
func ReqWithBearer(r *http.Request, token string) *http.Request {
	r.Header.Set("Authorization", "Bearer "+token)
	return r
}

// SeedUser inserts a user with the given role and a throwaway password hash.
func SeedUser(t *testing.T, d *sql.DB, name, email, role string) *models.User {
	t.Helper()
	res, err := d.Exec(`INSERT INTO users (name, email, password_hash, role) VALUES (?, ?, ?, ?)`,
		name, email, "x", role)
	if err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	id, _ := res.LastInsertId()
	return &models.User{ID: id, Name: name, Email: email, PasswordHash: "x", Role: role}
}

// SeedBook inserts a book with the given stock.
func SeedBook(t *testing.T, d *sql.DB, name, author string, qty int64) *models.Book {
	t.Helper()
	b, err := repository.NewBookRepository(d).Create(context.Background(), &models.Book{Name: name, Author: author, Qty: qty})
	if err != nil {
		t.Fatalf("seed book %s: %v", name, err)
	}
	return b
}

// SeedLoan inserts a loan row directly with the given status.
func SeedLoan(t *testing.T, d *sql.DB, bookID, userID int64, dueDate string, status models.LoanStatus) int64 {
	t.Helper()
	res, err := d.Exec(`INSERT INTO loans (book_id, user_id, due_date, loan_status) VALUES (?, ?, ?, ?)`,
		bookID, userID, dueDate, string(status))
	if err != nil {
		t.Fatalf("seed loan: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}

// SeedCharge inserts a monetary charge for a loan.
func SeedCharge(t *testing.T, d *sql.DB, loanID, fee int64, status models.ChargeStatus) int64 {
	t.Helper()
	res, err := d.Exec(`INSERT INTO monetaries (loan_id, fee, status) VALUES (?, ?, ?)`,
		loanID, fee, string(status))
	if err != nil {
		t.Fatalf("seed charge: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}
