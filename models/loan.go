package models

// LoanStatus represents the current state of a loan.
type LoanStatus string

const (
	LoanStatusOnLoans LoanStatus = "On Loans"
	LoanStatusToday   LoanStatus = "Today"
	LoanStatusExpired LoanStatus = "Expired"
	LoanStatusReturn  LoanStatus = "Return"
)

// Loan represents a single borrowing of a book by a user.
// A loan reaches the terminal status "Return" exactly once; DeletesBy records
// the name of the staff member who confirmed the return (null until then).
// Dates are stored as ISO text (YYYY-MM-DD for due_date), which keeps SQLite
// comparisons lexicographic and correct.
type Loan struct {
	ID        int64      `db:"id" json:"id"`
	BookID    int64      `db:"book_id" json:"book_id"`
	UserID    int64      `db:"user_id" json:"user_id"`
	DueDate   string     `db:"due_date" json:"due_date"`
	Status    LoanStatus `db:"loan_status" json:"loan_status"`
	DeletesBy *string    `db:"deletes_by" json:"deletes_by,omitempty"`
	CreatedAt string     `db:"created_at" json:"created_at"`
}

// LoanDetails is a loan joined with what the admin table displays: the book,
// the borrower, and the fee of an attached charge (nil when the loan has no
// overdue charge).
type LoanDetails struct {
	Loan
	BookName     string  `db:"book_name" json:"book_name"`
	BookAuthor   string  `db:"book_author" json:"book_author"`
	BorrowerName string  `db:"borrower_name" json:"borrower_name"`
	Fee          *int64  `db:"fee" json:"fee,omitempty"`
	FeeStatus    *string `db:"fee_status" json:"fee_status,omitempty"`
}
