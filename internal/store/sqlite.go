package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/erazemk/bookstore/internal/db"
	"github.com/erazemk/bookstore/internal/model"
)

// SQLite stores books in a SQLite database.
type SQLite struct {
	DB *sql.DB
}

// OpenSQLite opens the database at path and ensures the schema exists.
func OpenSQLite(path string) (*SQLite, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(database); err != nil {
		database.Close()
		return nil, err
	}
	return &SQLite{DB: database}, nil
}

// Create inserts a new book.
func (s *SQLite) Create(ctx context.Context, b *model.Book) error {
	b.ID = model.NewID()
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO books (id, title, author, type, price, image) VALUES (?, ?, ?, ?, ?, ?)`,
		b.ID.Hex(), b.Title, b.Author, b.Type, b.Price, b.Image,
	)
	if err != nil {
		return fmt.Errorf("creating book: %w", err)
	}
	return nil
}

// List returns all books in the given order.
func (s *SQLite) List(ctx context.Context, order Order) ([]model.Book, error) {
	query := `SELECT id, title, author, type, price, image, time FROM books ORDER BY rowid`
	if order == Newest {
		query = `SELECT id, title, author, type, price, image, time FROM books ORDER BY id DESC`
	}

	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing books: %w", err)
	}
	defer rows.Close()

	var books []model.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, *b)
	}
	return books, rows.Err()
}

// Get returns a book by ID.
func (s *SQLite) Get(ctx context.Context, id primitive.ObjectID) (*model.Book, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT id, title, author, type, price, image, time FROM books WHERE id = ?`, id.Hex(),
	)
	b, err := scanBook(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Update overwrites a book's metadata.
func (s *SQLite) Update(ctx context.Context, id primitive.ObjectID, u model.BookUpdate, at time.Time) (bool, error) {
	result, err := s.DB.ExecContext(ctx,
		`UPDATE books SET title = ?, author = ?, type = ?, price = ?, time = ? WHERE id = ?`,
		u.Title, u.Author, u.Type, u.Price, at.UTC().Format(time.RFC3339Nano), id.Hex(),
	)
	if err != nil {
		return false, fmt.Errorf("updating book: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting updated rows: %w", err)
	}
	return n > 0, nil
}

// Delete removes a book and returns what was removed.
func (s *SQLite) Delete(ctx context.Context, id primitive.ObjectID) (*model.Book, error) {
	row := s.DB.QueryRowContext(ctx,
		`DELETE FROM books WHERE id = ? RETURNING id, title, author, type, price, image, time`, id.Hex(),
	)
	b, err := scanBook(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("deleting book: %w", err)
	}
	return b, nil
}

// Close closes the database.
func (s *SQLite) Close(_ context.Context) error {
	return s.DB.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBook(row scanner) (*model.Book, error) {
	var (
		b   model.Book
		id  string
		upd any
	)
	if err := row.Scan(&id, &b.Title, &b.Author, &b.Type, &b.Price, &b.Image, &upd); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning book: %w", err)
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("scanning book id %q: %w", id, err)
	}
	b.ID = oid

	t, err := parseTime(upd)
	if err != nil {
		return nil, fmt.Errorf("scanning book time: %w", err)
	}
	b.Time = t
	return &b, nil
}

// timeLayouts are the text forms a DATETIME column may come back in when the
// driver does not convert it.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func parseTime(v any) (*time.Time, error) {
	var s string
	switch v := v.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return &v, nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return nil, fmt.Errorf("unexpected type %T", v)
	}

	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unrecognized time %q", s)
}
