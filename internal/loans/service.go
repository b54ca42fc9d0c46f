package loans

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"libraryLoanManagement/internal/auth"
	"libraryLoanManagement/models"
	"libraryLoanManagement/repository"
)

// Service orchestrates the loan desk: role-scoped listing, borrowing,
// the return workflow and the overdue sweep. Multi-row mutations run in a
// single SQLite transaction (serializable by default), so a concurrent
// reader never observes a half-applied return.
type Service struct {
	db         *sql.DB
	loans      repository.LoanRepositoryI
	books      repository.BookRepositoryI
	monetaries repository.MonetaryRepositoryI
	logger     *slog.Logger
}

// NewService creates a loan service over the shared DB handle and
// repositories.
func NewService(db *sql.DB, loans repository.LoanRepositoryI, books repository.BookRepositoryI, monetaries repository.MonetaryRepositoryI, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{db: db, loans: loans, books: books, monetaries: monetaries, logger: logger}
}

// ListVisibleLoans returns the loans the current user may see. Members see
// only their own loans; every other role sees all of them. The user is an
// explicit parameter: there is no ambient auth state to consult.
func (s *Service) ListVisibleLoans(ctx context.Context, currentUser *models.User) ([]models.LoanDetails, error) {
	if currentUser == nil {
		return nil, workflowErr(KindInvalidInput, "current user is required")
	}
	if currentUser.Role == models.RoleMember {
		return s.loans.ListByUserID(ctx, currentUser.ID)
	}
	return s.loans.ListAll(ctx)
}

// ConfirmReturn closes out a loan in one atomic transaction: the loan flips
// to 'Return' with the actor's name recorded, the book gets one copy back on
// the shelf, and an attached unpaid charge is settled. All three mutations
// commit together or not at all.
//
// A loan already in 'Return' fails with KindAlreadyReturned and changes
// nothing; in particular the book is never restocked twice.
func (s *Service) ConfirmReturn(ctx context.Context, loanID int64, actor *models.User) error {
	if actor == nil {
		return workflowErr(KindInvalidInput, "acting user is required")
	}
	if !auth.RoleCan(actor.Role, auth.PermConfirmReturn) {
		return workflowErr(KindForbidden, "role %q may not confirm returns", actor.Role)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return persistenceErr("begin return transaction", err)
	}
	defer tx.Rollback()

	loan, err := s.loans.GetTx(tx, loanID)
	if err != nil {
		return persistenceErr("load loan", err)
	}
	if loan == nil {
		return workflowErr(KindNotFound, "loan %d not found", loanID)
	}

	flipped, err := s.loans.MarkReturnedTx(tx, loanID, actor.Name)
	if err != nil {
		return persistenceErr("mark loan returned", err)
	}
	if !flipped {
		return workflowErr(KindAlreadyReturned, "loan %d is already returned", loanID)
	}

	if err := s.books.IncrementQtyTx(tx, loan.BookID); err != nil {
		return persistenceErr("restock book", err)
	}

	if err := s.monetaries.SettleByLoanTx(tx, loanID); err != nil {
		return persistenceErr("settle charge", err)
	}

	if err := tx.Commit(); err != nil {
		return persistenceErr("commit return transaction", err)
	}

	s.logger.Info("loan returned",
		slog.Int64("loan_id", loanID),
		slog.Int64("book_id", loan.BookID),
		slog.String("confirmed_by", actor.Name))
	return nil
}

// Borrow creates a loan and takes one copy off the shelf in a single
// transaction. dueDate must be an ISO date (YYYY-MM-DD). Fails with
// KindOutOfStock when no copy is available; the stock guard keeps qty from
// going negative even under concurrent borrows.
func (s *Service) Borrow(ctx context.Context, bookID, userID int64, dueDate string) (*models.Loan, error) {
	if _, err := time.Parse("2006-01-02", dueDate); err != nil {
		return nil, workflowErr(KindInvalidInput, "due date %q is not a valid YYYY-MM-DD date", dueDate)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, persistenceErr("begin borrow transaction", err)
	}
	defer tx.Rollback()

	taken, err := s.books.DecrementQtyTx(tx, bookID)
	if err != nil {
		return nil, persistenceErr("take book off shelf", err)
	}
	if !taken {
		return nil, workflowErr(KindOutOfStock, "book %d has no available copies", bookID)
	}

	loan := &models.Loan{
		BookID:  bookID,
		UserID:  userID,
		DueDate: dueDate,
		Status:  models.LoanStatusOnLoans,
	}
	id, err := s.loans.InsertTx(tx, loan)
	if err != nil {
		return nil, persistenceErr("insert loan", err)
	}
	loan.ID = id

	if err := tx.Commit(); err != nil {
		return nil, persistenceErr("commit borrow transaction", err)
	}
	return loan, nil
}

// SweepResult reports what an overdue sweep changed.
type SweepResult struct {
	DueToday      int64 `json:"due_today"`
	Expired       int64 `json:"expired"`
	ChargesRaised int64 `json:"charges_raised"`
}

// SweepOverdue advances loan statuses against the given clock: open loans
// due today become 'Today', loans past due become 'Expired', and each newly
// expired loan without a charge gets an unpaid one at the configured fee.
// Safe to re-run; already-swept rows match nothing.
func (s *Service) SweepOverdue(ctx context.Context, now time.Time, fee int64) (SweepResult, error) {
	var res SweepResult
	today := now.Format("2006-01-02")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return res, persistenceErr("begin sweep transaction", err)
	}
	defer tx.Rollback()

	if res.DueToday, err = s.loans.MarkDueTodayTx(tx, today); err != nil {
		return res, persistenceErr("mark loans due today", err)
	}
	if res.Expired, err = s.loans.MarkExpiredTx(tx, today); err != nil {
		return res, persistenceErr("expire loans", err)
	}
	if res.ChargesRaised, err = s.monetaries.CreateForExpiredTx(tx, fee); err != nil {
		return res, persistenceErr("raise overdue charges", err)
	}

	if err := tx.Commit(); err != nil {
		return res, persistenceErr("commit sweep transaction", err)
	}

	if res.DueToday > 0 || res.Expired > 0 || res.ChargesRaised > 0 {
		s.logger.Info("overdue sweep",
			slog.Int64("due_today", res.DueToday),
			slog.Int64("expired", res.Expired),
			slog.Int64("charges_raised", res.ChargesRaised))
	}
	return res, nil
}

// IsKind reports whether err is a WorkflowError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var we *WorkflowError
	return errors.As(err, &we) && we.Kind == kind
}
