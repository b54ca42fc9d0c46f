package models

// ChargeStatus represents the settlement state of a monetary charge.
type ChargeStatus string

const (
	ChargeStatusUnpaid ChargeStatus = "Unpaid"
	ChargeStatusPaid   ChargeStatus = "Paid"
)

// MonetaryCharge is an overdue fee attached to a loan. At most one charge
// exists per loan (unique loan_id); loans without an overdue fee have none.
// Fee is in the smallest currency unit.
type MonetaryCharge struct {
	ID     int64        `db:"id" json:"id"`
	LoanID int64        `db:"loan_id" json:"loan_id"`
	Fee    int64        `db:"fee" json:"fee"`
	Status ChargeStatus `db:"status" json:"status"`
}
