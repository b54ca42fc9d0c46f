package loans

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libraryLoanManagement/internal/testutil"
	"libraryLoanManagement/models"
	"libraryLoanManagement/repository"
)

type fixture struct {
	db         *sql.DB
	svc        *Service
	loans      *repository.LoanRepository
	books      *repository.BookRepository
	monetaries *repository.MonetaryRepository
	admin      *models.User
	member     *models.User
}

func newFixture(t *testing.T, name string) *fixture {
	t.Helper()
	d := testutil.OpenInMemoryDB(t, name)
	f := &fixture{
		db:         d,
		loans:      repository.NewLoanRepository(d),
		books:      repository.NewBookRepository(d),
		monetaries: repository.NewMonetaryRepository(d),
		admin:      testutil.SeedUser(t, d, "Staff", "staff@example.com", models.RoleAdmin),
		member:     testutil.SeedUser(t, d, "Alice", "alice@example.com", models.RoleMember),
	}
	f.svc = NewService(d, f.loans, f.books, f.monetaries, nil)
	return f
}

func (f *fixture) bookQty(t *testing.T, id int64) int64 {
	t.Helper()
	b, err := f.books.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, b)
	return b.Qty
}

func TestConfirmReturn_WithoutCharge(t *testing.T) {
	f := newFixture(t, "return_nocharge")
	book := testutil.SeedBook(t, f.db, "Dune", "Herbert", 2)
	loanID := testutil.SeedLoan(t, f.db, book.ID, f.member.ID, "2026-09-10", models.LoanStatusOnLoans)

	require.NoError(t, f.svc.ConfirmReturn(context.Background(), loanID, f.admin))

	assert.EqualValues(t, 3, f.bookQty(t, book.ID))
	l, err := f.loans.GetByID(context.Background(), loanID)
	require.NoError(t, err)
	assert.Equal(t, models.LoanStatusReturn, l.Status)
	require.NotNil(t, l.DeletesBy)
	assert.Equal(t, "Staff", *l.DeletesBy)
}

func TestConfirmReturn_SettlesUnpaidCharge(t *testing.T) {
	f := newFixture(t, "return_charge")
	book := testutil.SeedBook(t, f.db, "Dune", "Herbert", 0)
	loanID := testutil.SeedLoan(t, f.db, book.ID, f.member.ID, "2026-08-01", models.LoanStatusExpired)
	testutil.SeedCharge(t, f.db, loanID, 5000, models.ChargeStatusUnpaid)

	require.NoError(t, f.svc.ConfirmReturn(context.Background(), loanID, f.admin))

	assert.EqualValues(t, 1, f.bookQty(t, book.ID))
	m, err := f.monetaries.GetByLoanID(context.Background(), loanID)
	require.NoError(t, err)
	assert.Equal(t, models.ChargeStatusPaid, m.Status)
}

func TestConfirmReturn_IsOneShot(t *testing.T) {
	f := newFixture(t, "return_idempotent")
	book := testutil.SeedBook(t, f.db, "Dune", "Herbert", 1)
	loanID := testutil.SeedLoan(t, f.db, book.ID, f.member.ID, "2026-09-10", models.LoanStatusOnLoans)

	require.NoError(t, f.svc.ConfirmReturn(context.Background(), loanID, f.admin))
	err := f.svc.ConfirmReturn(context.Background(), loanID, f.admin)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindAlreadyReturned), "got %v", err)

	// The shelf gained the copy exactly once.
	assert.EqualValues(t, 2, f.bookQty(t, book.ID))
	l, _ := f.loans.GetByID(context.Background(), loanID)
	assert.Equal(t, "Staff", *l.DeletesBy)
}

func TestConfirmReturn_UnknownLoan(t *testing.T) {
	f := newFixture(t, "return_missing")
	err := f.svc.ConfirmReturn(context.Background(), 9999, f.admin)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindNotFound), "got %v", err)
}

func TestConfirmReturn_MemberForbidden(t *testing.T) {
	f := newFixture(t, "return_forbidden")
	book := testutil.SeedBook(t, f.db, "Dune", "Herbert", 1)
	loanID := testutil.SeedLoan(t, f.db, book.ID, f.member.ID, "2026-09-10", models.LoanStatusOnLoans)

	err := f.svc.ConfirmReturn(context.Background(), loanID, f.member)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindForbidden), "got %v", err)
	assert.EqualValues(t, 1, f.bookQty(t, book.ID))
}

// failingBooks breaks the restock step to prove the transaction is
// all-or-nothing.
type failingBooks struct {
	*repository.BookRepository
}

func (f *failingBooks) IncrementQtyTx(tx *sql.Tx, id int64) error {
	return errors.New("injected restock failure")
}

func TestConfirmReturn_RollsBackOnRestockFailure(t *testing.T) {
	f := newFixture(t, "return_rollback")
	book := testutil.SeedBook(t, f.db, "Dune", "Herbert", 1)
	loanID := testutil.SeedLoan(t, f.db, book.ID, f.member.ID, "2026-08-01", models.LoanStatusExpired)
	testutil.SeedCharge(t, f.db, loanID, 5000, models.ChargeStatusUnpaid)

	svc := NewService(f.db, f.loans, &failingBooks{f.books}, f.monetaries, nil)
	err := svc.ConfirmReturn(context.Background(), loanID, f.admin)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindPersistence), "got %v", err)
	assert.Contains(t, err.Error(), "injected restock failure")

	// Nothing of the three-row mutation survived.
	l, _ := f.loans.GetByID(context.Background(), loanID)
	assert.Equal(t, models.LoanStatusExpired, l.Status)
	assert.Nil(t, l.DeletesBy)
	m, _ := f.monetaries.GetByLoanID(context.Background(), loanID)
	assert.Equal(t, models.ChargeStatusUnpaid, m.Status)
	assert.EqualValues(t, 1, f.bookQty(t, book.ID))
}

func TestBorrow(t *testing.T) {
	f := newFixture(t, "borrow")
	book := testutil.SeedBook(t, f.db, "Dune", "Herbert", 1)

	loan, err := f.svc.Borrow(context.Background(), book.ID, f.member.ID, "2026-09-14")
	require.NoError(t, err)
	assert.Equal(t, models.LoanStatusOnLoans, loan.Status)
	assert.EqualValues(t, 0, f.bookQty(t, book.ID))

	// Shelf is empty now.
	_, err = f.svc.Borrow(context.Background(), book.ID, f.member.ID, "2026-09-14")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindOutOfStock), "got %v", err)
	assert.EqualValues(t, 0, f.bookQty(t, book.ID))

	_, err = f.svc.Borrow(context.Background(), book.ID, f.member.ID, "14-09-2026")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindInvalidInput), "got %v", err)
}

func TestListVisibleLoans_RoleScoping(t *testing.T) {
	f := newFixture(t, "visible_loans")
	book := testutil.SeedBook(t, f.db, "Dune", "Herbert", 5)
	mine := testutil.SeedLoan(t, f.db, book.ID, f.member.ID, "2026-09-10", models.LoanStatusOnLoans)
	testutil.SeedLoan(t, f.db, book.ID, f.admin.ID, "2026-09-11", models.LoanStatusOnLoans)

	ctx := context.Background()

	scoped, err := f.svc.ListVisibleLoans(ctx, f.member)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, mine, scoped[0].ID)

	all, err := f.svc.ListVisibleLoans(ctx, f.admin)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	super := testutil.SeedUser(t, f.db, "Root", "root@example.com", models.RoleSuperAdmin)
	all, err = f.svc.ListVisibleLoans(ctx, super)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSweepOverdue(t *testing.T) {
	f := newFixture(t, "sweep")
	book := testutil.SeedBook(t, f.db, "Dune", "Herbert", 5)
	dueToday := testutil.SeedLoan(t, f.db, book.ID, f.member.ID, "2026-08-31", models.LoanStatusOnLoans)
	overdue := testutil.SeedLoan(t, f.db, book.ID, f.member.ID, "2026-08-20", models.LoanStatusOnLoans)
	returned := testutil.SeedLoan(t, f.db, book.ID, f.member.ID, "2026-08-20", models.LoanStatusReturn)

	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	res, err := f.svc.SweepOverdue(context.Background(), now, 2500)
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.DueToday)
	assert.EqualValues(t, 1, res.Expired)
	assert.EqualValues(t, 1, res.ChargesRaised)

	ctx := context.Background()
	l, _ := f.loans.GetByID(ctx, dueToday)
	assert.Equal(t, models.LoanStatusToday, l.Status)
	l, _ = f.loans.GetByID(ctx, overdue)
	assert.Equal(t, models.LoanStatusExpired, l.Status)
	l, _ = f.loans.GetByID(ctx, returned)
	assert.Equal(t, models.LoanStatusReturn, l.Status)

	m, err := f.monetaries.GetByLoanID(ctx, overdue)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.EqualValues(t, 2500, m.Fee)
	assert.Equal(t, models.ChargeStatusUnpaid, m.Status)

	// Re-running changes nothing more.
	res, err = f.svc.SweepOverdue(context.Background(), now, 2500)
	require.NoError(t, err)
	assert.EqualValues(t, 0, res.DueToday)
	assert.EqualValues(t, 0, res.Expired)
	assert.EqualValues(t, 0, res.ChargesRaised)
}
