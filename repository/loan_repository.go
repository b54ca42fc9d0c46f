package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"libraryLoanManagement/models"
)

type LoanRepository struct {
	db *sql.DB
}

func NewLoanRepository(db *sql.DB) *LoanRepository {
	return &LoanRepository{db: db}
}

const loanDetailsQuery = `
SELECT l.id, l.book_id, l.user_id, l.due_date, l.loan_status, l.deletes_by, l.created_at,
       b.name, b.author, u.name, m.fee, m.status
FROM loans l
JOIN books b ON b.id = l.book_id
JOIN users u ON u.id = l.user_id
LEFT JOIN monetaries m ON m.loan_id = l.id`

func (r *LoanRepository) GetByID(ctx context.Context, id int64) (*models.Loan, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	l, err := scanLoan(r.db.QueryRowContext(ctx,
		`SELECT id, book_id, user_id, due_date, loan_status, deletes_by, created_at FROM loans WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return l, nil
}

// ListAll returns every loan joined with book, borrower and charge details,
// newest first.
func (r *LoanRepository) ListAll(ctx context.Context) ([]models.LoanDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, loanDetailsQuery+` ORDER BY l.created_at DESC, l.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLoanDetailRows(rows)
}

// ListByUserID returns the loans belonging to one borrower, newest first.
func (r *LoanRepository) ListByUserID(ctx context.Context, userID int64) ([]models.LoanDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, loanDetailsQuery+` WHERE l.user_id = ? ORDER BY l.created_at DESC, l.id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLoanDetailRows(rows)
}

// GetTx fetches a loan inside the caller's transaction.
func (r *LoanRepository) GetTx(tx *sql.Tx, id int64) (*models.Loan, error) {
	l, err := scanLoan(tx.QueryRow(
		`SELECT id, book_id, user_id, due_date, loan_status, deletes_by, created_at FROM loans WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return l, nil
}

// InsertTx creates a loan row inside the caller's transaction and returns its
// generated ID. Status defaults to 'On Loans' when empty.
func (r *LoanRepository) InsertTx(tx *sql.Tx, l *models.Loan) (int64, error) {
	if l == nil {
		return 0, errors.New("loan is nil")
	}
	if l.Status == "" {
		l.Status = models.LoanStatusOnLoans
	}
	res, err := tx.Exec(`INSERT INTO loans (book_id, user_id, due_date, loan_status) VALUES (?, ?, ?, ?)`,
		l.BookID, l.UserID, l.DueDate, string(l.Status))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// MarkReturnedTx flips a loan to its terminal status and records who
// confirmed the return. The status guard makes the transition one-shot: a
// loan already in 'Return' matches zero rows and the caller must treat that
// as already returned, never as a second restock.
func (r *LoanRepository) MarkReturnedTx(tx *sql.Tx, id int64, actorName string) (bool, error) {
	res, err := tx.Exec(`UPDATE loans SET loan_status = ?, deletes_by = ? WHERE id = ? AND loan_status <> ?`,
		string(models.LoanStatusReturn), actorName, id, string(models.LoanStatusReturn))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MarkDueTodayTx moves open loans due on the given date to 'Today'.
func (r *LoanRepository) MarkDueTodayTx(tx *sql.Tx, today string) (int64, error) {
	res, err := tx.Exec(`UPDATE loans SET loan_status = ? WHERE due_date = ? AND loan_status = ?`,
		string(models.LoanStatusToday), today, string(models.LoanStatusOnLoans))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// MarkExpiredTx moves loans past their due date to 'Expired'. Returned loans
// are never touched.
func (r *LoanRepository) MarkExpiredTx(tx *sql.Tx, today string) (int64, error) {
	res, err := tx.Exec(`UPDATE loans SET loan_status = ? WHERE due_date < ? AND loan_status IN (?, ?)`,
		string(models.LoanStatusExpired), today, string(models.LoanStatusOnLoans), string(models.LoanStatusToday))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLoan(row rowScanner) (*models.Loan, error) {
	var l models.Loan
	var status string
	var deletesBy sql.NullString
	if err := row.Scan(&l.ID, &l.BookID, &l.UserID, &l.DueDate, &status, &deletesBy, &l.CreatedAt); err != nil {
		return nil, err
	}
	l.Status = models.LoanStatus(status)
	if deletesBy.Valid {
		l.DeletesBy = &deletesBy.String
	}
	return &l, nil
}

// scanLoanDetailRows is a helper to scan joined rows into LoanDetails.
func scanLoanDetailRows(rows *sql.Rows) ([]models.LoanDetails, error) {
	var out []models.LoanDetails
	for rows.Next() {
		var d models.LoanDetails
		var status string
		var deletesBy sql.NullString
		var fee sql.NullInt64
		var feeStatus sql.NullString
		if err := rows.Scan(&d.ID, &d.BookID, &d.UserID, &d.DueDate, &status, &deletesBy, &d.CreatedAt,
			&d.BookName, &d.BookAuthor, &d.BorrowerName, &fee, &feeStatus); err != nil {
			return nil, err
		}
		d.Status = models.LoanStatus(status)
		if deletesBy.Valid {
			d.DeletesBy = &deletesBy.String
		}
		if fee.Valid {
			v := fee.Int64
			d.Fee = &v
		}
		if feeStatus.Valid {
			v := feeStatus.String
			d.FeeStatus = &v
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
