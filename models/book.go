package models

// Book represents a title in the catalog. Qty is the number of copies
// currently on the shelf; it is decremented when a loan is created and
// restored when the loan is returned. Qty never goes below zero, enforced
// both by guarded UPDATEs and a CHECK constraint.
type Book struct {
	ID     int64  `db:"id" json:"id"`
	Name   string `db:"name" json:"name"`
	Author string `db:"author" json:"author"`
	Qty    int64  `db:"qty" json:"qty"`
}
