package store

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/erazemk/bookstore/internal/model"
)

// Order selects the ordering of List.
type Order int

const (
	// Natural returns books in insertion order.
	Natural Order = iota
	// Newest returns books by descending id, most recently created first.
	Newest
)

// Books is the book record store.
type Books interface {
	// Create assigns a new id to b and inserts it.
	Create(ctx context.Context, b *model.Book) error
	List(ctx context.Context, order Order) ([]model.Book, error)
	// Get returns nil when no book has the id.
	Get(ctx context.Context, id primitive.ObjectID) (*model.Book, error)
	// Update overwrites the mutable fields and stamps the time. The image is
	// never changed. It reports whether a book matched.
	Update(ctx context.Context, id primitive.ObjectID, u model.BookUpdate, at time.Time) (bool, error)
	// Delete removes a book and returns it, or nil when none matched.
	Delete(ctx context.Context, id primitive.ObjectID) (*model.Book, error)
	Close(ctx context.Context) error
}

// IsMongoURI reports whether dsn names a MongoDB deployment rather than a
// SQLite file.
func IsMongoURI(dsn string) bool {
	return strings.HasPrefix(dsn, "mongodb://") || strings.HasPrefix(dsn, "mongodb+srv://")
}

// Open connects to the store named by dsn. A MongoDB URI selects the Mongo
// backend using database; anything else is a SQLite path.
func Open(ctx context.Context, dsn, database string) (Books, error) {
	if IsMongoURI(dsn) {
		m, err := OpenMongo(ctx, dsn, database)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	s, err := OpenSQLite(dsn)
	if err != nil {
		return nil, err
	}
	return s, nil
}
