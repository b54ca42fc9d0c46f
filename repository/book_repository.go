package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"libraryLoanManagement/models"
)

type BookRepository struct {
	db *sql.DB
}

func NewBookRepository(db *sql.DB) *BookRepository {
	return &BookRepository{db: db}
}

// Create inserts a new book title with its starting quantity.
func (r *BookRepository) Create(ctx context.Context, b *models.Book) (*models.Book, error) {
	if b == nil {
		return nil, errors.New("book is nil")
	}
	if b.Qty < 0 {
		return nil, errors.New("qty must not be negative")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `INSERT INTO books (name, author, qty) VALUES (?, ?, ?)`,
		b.Name, b.Author, b.Qty)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	out := *b
	out.ID = id
	return &out, nil
}

func (r *BookRepository) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var b models.Book
	err := r.db.QueryRowContext(ctx, `SELECT id, name, author, qty FROM books WHERE id = ?`, id).
		Scan(&b.ID, &b.Name, &b.Author, &b.Qty)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *BookRepository) List(ctx context.Context, limit, offset int) ([]models.Book, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT id, name, author, qty FROM books ORDER BY name, id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Book
	for rows.Next() {
		var b models.Book
		if err := rows.Scan(&b.ID, &b.Name, &b.Author, &b.Qty); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// IncrementQtyTx restores one copy to the shelf within the caller's
// transaction. A missing book is an error so the surrounding transaction
// rolls back instead of silently dropping the restock.
func (r *BookRepository) IncrementQtyTx(tx *sql.Tx, id int64) error {
	res, err := tx.Exec(`UPDATE books SET qty = qty + 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("restock book %d: not found", id)
	}
	return nil
}

// DecrementQtyTx takes one copy off the shelf within the caller's
// transaction. Returns false when the book is missing or out of stock; the
// guard keeps qty from ever going negative.
func (r *BookRepository) DecrementQtyTx(tx *sql.Tx, id int64) (bool, error) {
	res, err := tx.Exec(`UPDATE books SET qty = qty - 1 WHERE id = ? AND qty > 0`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
