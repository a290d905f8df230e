package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/erazemk/bookstore/internal/model"
)

// BooksCollection is the collection books are stored in.
const BooksCollection = "books"

const connectTimeout = 10 * time.Second

// Mongo stores books in a MongoDB collection.
type Mongo struct {
	client *mongo.Client
	books  *mongo.Collection
}

// OpenMongo connects to uri and verifies the deployment is reachable.
func OpenMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}

	return &Mongo{
		client: client,
		books:  client.Database(database).Collection(BooksCollection),
	}, nil
}

// Create inserts a new book.
func (m *Mongo) Create(ctx context.Context, b *model.Book) error {
	b.ID = model.NewID()
	if _, err := m.books.InsertOne(ctx, b); err != nil {
		return fmt.Errorf("creating book: %w", err)
	}
	return nil
}

// List returns all books in the given order.
func (m *Mongo) List(ctx context.Context, order Order) ([]model.Book, error) {
	opts := options.Find()
	if order == Newest {
		opts.SetSort(bson.D{{Key: "_id", Value: -1}})
	}

	cur, err := m.books.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("listing books: %w", err)
	}

	var books []model.Book
	if err := cur.All(ctx, &books); err != nil {
		return nil, fmt.Errorf("decoding books: %w", err)
	}
	return books, nil
}

// Get returns a book by ID.
func (m *Mongo) Get(ctx context.Context, id primitive.ObjectID) (*model.Book, error) {
	var b model.Book
	err := m.books.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting book: %w", err)
	}
	return &b, nil
}

// Update overwrites a book's metadata.
func (m *Mongo) Update(ctx context.Context, id primitive.ObjectID, u model.BookUpdate, at time.Time) (bool, error) {
	result, err := m.books.UpdateByID(ctx, id, bson.D{{Key: "$set", Value: bson.D{
		{Key: "title", Value: u.Title},
		{Key: "author", Value: u.Author},
		{Key: "type", Value: u.Type},
		{Key: "price", Value: u.Price},
		{Key: "time", Value: at.UTC()},
	}}})
	if err != nil {
		return false, fmt.Errorf("updating book: %w", err)
	}
	return result.MatchedCount > 0, nil
}

// Delete removes a book and returns what was removed.
func (m *Mongo) Delete(ctx context.Context, id primitive.ObjectID) (*model.Book, error) {
	var b model.Book
	err := m.books.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("deleting book: %w", err)
	}
	return &b, nil
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
