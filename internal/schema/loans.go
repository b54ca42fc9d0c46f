// Package schema declares the table columns and form fields of the loan desk
// as plain data. The admin presentation layer renders from these descriptors;
// nothing here knows how to draw anything.
package schema

import "libraryLoanManagement/models"

// Column describes one column of an admin table.
type Column struct {
	Key      string            `json:"key"`
	Label    string            `json:"label"`
	Sortable bool              `json:"sortable,omitempty"`
	Money    string            `json:"money,omitempty"` // ISO currency code for money columns
	Badge    map[string]string `json:"badge,omitempty"` // cell value -> badge color
	// VisibleFor restricts the column to the listed roles; empty means all.
	VisibleFor []string `json:"visible_for,omitempty"`
}

// Field describes one input of the loan form.
type Field struct {
	Key      string   `json:"key"`
	Label    string   `json:"label"`
	Type     string   `json:"type"` // select | date
	Required bool     `json:"required,omitempty"`
	Options  []string `json:"options,omitempty"`
}

// LoanColumns returns the loans table definition. The borrower column is
// only shown to Super Admins.
func LoanColumns() []Column {
	return []Column{
		{Key: "borrower_name", Label: "Loans by", VisibleFor: []string{models.RoleSuperAdmin}},
		{Key: "book_name", Label: "Books Title", Sortable: true},
		{Key: "due_date", Label: "Return Date", Sortable: true},
		{Key: "loan_status", Label: "Status", Badge: map[string]string{
			string(models.LoanStatusOnLoans): "info",
			string(models.LoanStatusToday):   "warning",
			string(models.LoanStatusExpired): "danger",
			string(models.LoanStatusReturn):  "success",
		}},
		{Key: "fee", Label: "Due Charge", Money: "IDR"},
		{Key: "created_at", Label: "Loans Date", Sortable: true},
	}
}

// VisibleLoanColumns filters LoanColumns down to what the given role sees.
func VisibleLoanColumns(role string) []Column {
	var out []Column
	for _, c := range LoanColumns() {
		if len(c.VisibleFor) == 0 {
			out = append(out, c)
			continue
		}
		for _, r := range c.VisibleFor {
			if r == role {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// LoanFormFields returns the loan form definition.
func LoanFormFields() []Field {
	return []Field{
		{Key: "book_id", Label: "Books Title", Type: "select", Required: true},
		{Key: "user_id", Label: "Loans by", Type: "select", Required: true},
		{Key: "due_date", Label: "Return Date", Type: "date", Required: true},
		{Key: "loan_status", Label: "Status", Type: "select", Options: []string{
			string(models.LoanStatusExpired),
			string(models.LoanStatusToday),
		}},
	}
}
