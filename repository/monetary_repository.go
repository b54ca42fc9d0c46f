package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"libraryLoanManagement/models"
)

type MonetaryRepository struct {
	db *sql.DB
}

func NewMonetaryRepository(db *sql.DB) *MonetaryRepository {
	return &MonetaryRepository{db: db}
}

// Create raises an unpaid charge against a loan. The unique index on loan_id
// rejects a second charge for the same loan.
func (r *MonetaryRepository) Create(ctx context.Context, loanID, fee int64) (*models.MonetaryCharge, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `INSERT INTO monetaries (loan_id, fee, status) VALUES (?, ?, ?)`,
		loanID, fee, string(models.ChargeStatusUnpaid))
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.MonetaryCharge{ID: id, LoanID: loanID, Fee: fee, Status: models.ChargeStatusUnpaid}, nil
}

func (r *MonetaryRepository) GetByLoanID(ctx context.Context, loanID int64) (*models.MonetaryCharge, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var m models.MonetaryCharge
	var status string
	err := r.db.QueryRowContext(ctx, `SELECT id, loan_id, fee, status FROM monetaries WHERE loan_id = ?`, loanID).
		Scan(&m.ID, &m.LoanID, &m.Fee, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	m.Status = models.ChargeStatus(status)
	return &m, nil
}

// SettleByLoanTx marks the loan's charge paid within the caller's
// transaction. Loans without a charge match zero rows, which is fine: not
// every loan has an overdue fee.
func (r *MonetaryRepository) SettleByLoanTx(tx *sql.Tx, loanID int64) error {
	_, err := tx.Exec(`UPDATE monetaries SET status = ? WHERE loan_id = ? AND status = ?`,
		string(models.ChargeStatusPaid), loanID, string(models.ChargeStatusUnpaid))
	return err
}

// CreateForExpiredTx inserts an unpaid charge for every expired loan that has
// none yet, within the caller's transaction. Returns how many were raised.
func (r *MonetaryRepository) CreateForExpiredTx(tx *sql.Tx, fee int64) (int64, error) {
	res, err := tx.Exec(`
INSERT INTO monetaries (loan_id, fee, status)
SELECT l.id, ?, ?
FROM loans l
LEFT JOIN monetaries m ON m.loan_id = l.id
WHERE l.loan_status = ? AND m.id IS NULL`,
		fee, string(models.ChargeStatusUnpaid), string(models.LoanStatusExpired))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
