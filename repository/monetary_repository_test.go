package repository

import (
	"context"
	"testing"

	"libraryLoanManagement/internal/db"
	"libraryLoanManagement/models"
)

func TestMonetaryRepository_ChargeLifecycle(t *testing.T) {
	d, err := db.Open("file:monetaryrepo?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	memberID, _, bookID := seedLoanFixtures(t, d)
	loanID := insertLoan(t, d, bookID, memberID, "2026-08-01", models.LoanStatusExpired)

	repo := NewMonetaryRepository(d)
	ctx := context.Background()

	m, err := repo.Create(ctx, loanID, 5000)
	if err != nil || m.Status != models.ChargeStatusUnpaid {
		t.Fatalf("create: %v %+v", err, m)
	}
	// One charge per loan.
	if _, err := repo.Create(ctx, loanID, 1000); err == nil {
		t.Fatalf("expected unique violation for second charge on same loan")
	}

	g, err := repo.GetByLoanID(ctx, loanID)
	if err != nil || g == nil || g.Fee != 5000 {
		t.Fatalf("get by loan: %v %+v", err, g)
	}
	none, err := repo.GetByLoanID(ctx, 9999)
	if err != nil || none != nil {
		t.Fatalf("expected nil for loan without charge: %v %+v", err, none)
	}

	tx, err := d.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := repo.SettleByLoanTx(tx, loanID); err != nil {
		t.Fatalf("settle: %v", err)
	}
	// Settling a loan without a charge is a no-op, not an error.
	if err := repo.SettleByLoanTx(tx, 9999); err != nil {
		t.Fatalf("settle without charge: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	g, _ = repo.GetByLoanID(ctx, loanID)
	if g.Status != models.ChargeStatusPaid {
		t.Fatalf("charge not settled: %+v", g)
	}
}

func TestMonetaryRepository_CreateForExpired(t *testing.T) {
	d, err := db.Open("file:monetarysweep?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	memberID, _, bookID := seedLoanFixtures(t, d)
	expired := insertLoan(t, d, bookID, memberID, "2026-08-01", models.LoanStatusExpired)
	insertLoan(t, d, bookID, memberID, "2026-09-01", models.LoanStatusOnLoans)

	repo := NewMonetaryRepository(d)

	tx, _ := d.Begin()
	n, err := repo.CreateForExpiredTx(tx, 2500)
	if err != nil || n != 1 {
		t.Fatalf("create for expired: n=%d err=%v", n, err)
	}
	// Re-running raises nothing new.
	n, err = repo.CreateForExpiredTx(tx, 2500)
	if err != nil || n != 0 {
		t.Fatalf("second run should raise nothing: n=%d err=%v", n, err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	g, err := repo.GetByLoanID(context.Background(), expired)
	if err != nil || g == nil || g.Fee != 2500 || g.Status != models.ChargeStatusUnpaid {
		t.Fatalf("charge not raised correctly: %v %+v", err, g)
	}
}
