package repository

import (
	"context"
	"database/sql"

	"libraryLoanManagement/models"
)

// UserRepositoryI defines operations on User entities.
type UserRepositoryI interface {
	Create(ctx context.Context, name, email, passwordHash string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)
	UpdateRoleByEmail(ctx context.Context, email, role string) error
}

// BookRepositoryI defines operations on Book entities.
type BookRepositoryI interface {
	Create(ctx context.Context, b *models.Book) (*models.Book, error)
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	List(ctx context.Context, limit, offset int) ([]models.Book, error)
	IncrementQtyTx(tx *sql.Tx, id int64) error
	DecrementQtyTx(tx *sql.Tx, id int64) (bool, error)
}

// LoanRepositoryI defines operations on Loan entities.
type LoanRepositoryI interface {
	GetByID(ctx context.Context, id int64) (*models.Loan, error)
	ListAll(ctx context.Context) ([]models.LoanDetails, error)
	ListByUserID(ctx context.Context, userID int64) ([]models.LoanDetails, error)
	GetTx(tx *sql.Tx, id int64) (*models.Loan, error)
	InsertTx(tx *sql.Tx, l *models.Loan) (int64, error)
	MarkReturnedTx(tx *sql.Tx, id int64, actorName string) (bool, error)
	MarkDueTodayTx(tx *sql.Tx, today string) (int64, error)
	MarkExpiredTx(tx *sql.Tx, today string) (int64, error)
}

// MonetaryRepositoryI defines operations on MonetaryCharge entities.
type MonetaryRepositoryI interface {
	Create(ctx context.Context, loanID, fee int64) (*models.MonetaryCharge, error)
	GetByLoanID(ctx context.Context, loanID int64) (*models.MonetaryCharge, error)
	SettleByLoanTx(tx *sql.Tx, loanID int64) error
	CreateForExpiredTx(tx *sql.Tx, fee int64) (int64, error)
}

// TokenRepositoryI defines operations on persisted access tokens.
type TokenRepositoryI interface {
	Insert(ctx context.Context, t *models.AccessToken) error
	Exists(ctx context.Context, id string) (bool, error)
	DeleteByUserID(ctx context.Context, userID int64) (int64, error)
}
