package store

import (
	"context"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/erazemk/bookstore/internal/db"
	"github.com/erazemk/bookstore/internal/model"
)

func newSQLiteBooks(t *testing.T) Books {
	t.Helper()
	return &SQLite{DB: db.NewTestDB(t)}
}

func newMongoBooks(t *testing.T) Books {
	t.Helper()
	uri := os.Getenv("BOOKSTORE_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("BOOKSTORE_TEST_MONGO_URI not set")
	}

	ctx := context.Background()
	database := "bookstore_test_" + model.NewID().Hex()
	m, err := OpenMongo(ctx, uri, database)
	if err != nil {
		t.Fatalf("OpenMongo: %v", err)
	}
	t.Cleanup(func() {
		m.client.Database(database).Drop(context.Background())
		m.Close(context.Background())
	})
	return m
}

func TestSQLiteBooks(t *testing.T) { runBooksSuite(t, newSQLiteBooks) }

func TestMongoBooks(t *testing.T) { runBooksSuite(t, newMongoBooks) }

// Documents written by other clients keep price as a BSON number.
func TestDecodeNumericPrice(t *testing.T) {
	id := model.NewID()
	for _, price := range []any{9.0, int32(9), int64(9)} {
		raw, err := bson.Marshal(bson.D{
			{Key: "_id", Value: id},
			{Key: "title", Value: "Dune"},
			{Key: "price", Value: price},
			{Key: "image", Value: "a.png"},
		})
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}

		var b model.Book
		if err := bson.Unmarshal(raw, &b); err != nil {
			t.Fatalf("Unmarshal price %T: %v", price, err)
		}
		if b.ID != id || b.Title != "Dune" || b.Price != 9 || b.Image != "a.png" {
			t.Errorf("price %T: unexpected book %+v", price, b)
		}
	}
}

func TestEncodePriceAsDouble(t *testing.T) {
	raw, err := bson.Marshal(&model.Book{ID: model.NewID(), Price: 9, Image: "a.png"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	val := bson.Raw(raw).Lookup("price")
	if val.Type != bson.TypeDouble {
		t.Errorf("price encoded as %v, want double", val.Type)
	}
}

func TestMongoListsExistingDocuments(t *testing.T) {
	m := newMongoBooks(t).(*Mongo)
	ctx := context.Background()

	id := model.NewID()
	_, err := m.books.InsertOne(ctx, bson.D{
		{Key: "_id", Value: id},
		{Key: "title", Value: "Dune"},
		{Key: "author", Value: "Herbert"},
		{Key: "type", Value: "SciFi"},
		{Key: "price", Value: 9.0},
		{Key: "image", Value: "a.png"},
	})
	if err != nil {
		t.Fatalf("InsertOne: %v", err)
	}

	list, err := m.List(ctx, Newest)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].ID != id || list[0].Price != 9 {
		t.Errorf("unexpected list: %+v", list)
	}
}

func runBooksSuite(t *testing.T, newBooks func(t *testing.T) Books) {
	t.Run("CreateAndGet", func(t *testing.T) {
		books := newBooks(t)
		ctx := context.Background()

		b := &model.Book{Title: "Dune", Author: "Herbert", Type: "SciFi", Price: 9, Image: "a.png"}
		if err := books.Create(ctx, b); err != nil {
			t.Fatalf("Create: %v", err)
		}
		if b.ID.IsZero() {
			t.Fatal("expected id to be assigned")
		}

		got, err := books.Get(ctx, b.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got == nil {
			t.Fatal("expected book, got nil")
		}
		if got.Title != "Dune" || got.Price != 9 || got.Image != "a.png" {
			t.Errorf("unexpected book: %+v", got)
		}
		if got.Time != nil {
			t.Errorf("expected no time on a new book, got %v", got.Time)
		}
	})

	t.Run("GetMissing", func(t *testing.T) {
		books := newBooks(t)
		got, err := books.Get(context.Background(), model.NewID())
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got != nil {
			t.Errorf("expected nil for missing book, got %+v", got)
		}
	})

	t.Run("ListOrder", func(t *testing.T) {
		books := newBooks(t)
		ctx := context.Background()

		for _, title := range []string{"A", "B", "C"} {
			if err := books.Create(ctx, &model.Book{Title: title, Image: title + ".png"}); err != nil {
				t.Fatalf("Create %s: %v", title, err)
			}
		}

		newest, err := books.List(ctx, Newest)
		if err != nil {
			t.Fatalf("List newest: %v", err)
		}
		if got := titles(newest); got != "CBA" {
			t.Errorf("newest order = %q, want CBA", got)
		}

		natural, err := books.List(ctx, Natural)
		if err != nil {
			t.Fatalf("List natural: %v", err)
		}
		if got := titles(natural); got != "ABC" {
			t.Errorf("natural order = %q, want ABC", got)
		}
	})

	t.Run("UpdateKeepsImage", func(t *testing.T) {
		books := newBooks(t)
		ctx := context.Background()

		target := &model.Book{Title: "Old", Author: "X", Type: "T", Price: 1, Image: "keep.png"}
		other := &model.Book{Title: "Other", Author: "Y", Type: "U", Price: 2, Image: "other.png"}
		books.Create(ctx, target)
		books.Create(ctx, other)

		at := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
		ok, err := books.Update(ctx, target.ID, model.BookUpdate{Title: "New", Author: "Z", Type: "V", Price: 3.5}, at)
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		if !ok {
			t.Fatal("expected update to match")
		}

		got, _ := books.Get(ctx, target.ID)
		if got.Title != "New" || got.Author != "Z" || got.Type != "V" || got.Price != 3.5 {
			t.Errorf("fields not updated: %+v", got)
		}
		if got.Image != "keep.png" {
			t.Errorf("image changed to %q", got.Image)
		}
		if got.Time == nil || !got.Time.Equal(at) {
			t.Errorf("time = %v, want %v", got.Time, at)
		}

		untouched, _ := books.Get(ctx, other.ID)
		if untouched.Title != "Other" || untouched.Time != nil {
			t.Errorf("other book changed: %+v", untouched)
		}
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		books := newBooks(t)
		ok, err := books.Update(context.Background(), model.NewID(), model.BookUpdate{Title: "x"}, time.Now())
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		if ok {
			t.Error("expected no match for missing book")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		books := newBooks(t)
		ctx := context.Background()

		b := &model.Book{Title: "Gone", Image: "gone.png"}
		books.Create(ctx, b)
		books.Update(ctx, b.ID, model.BookUpdate{Title: "Gone"}, time.Now())

		removed, err := books.Delete(ctx, b.ID)
		if err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if removed == nil || removed.Image != "gone.png" {
			t.Fatalf("expected removed book with image, got %+v", removed)
		}
		if removed.Time == nil {
			t.Error("expected removed book to carry its update time")
		}

		got, _ := books.Get(ctx, b.ID)
		if got != nil {
			t.Error("expected book to be gone")
		}

		again, err := books.Delete(ctx, b.ID)
		if err != nil {
			t.Fatalf("second Delete: %v", err)
		}
		if again != nil {
			t.Errorf("expected nil on second delete, got %+v", again)
		}
	})
}

func titles(books []model.Book) string {
	var s string
	for _, b := range books {
		s += b.Title
	}
	return s
}

func TestIsMongoURI(t *testing.T) {
	tests := []struct {
		dsn  string
		want bool
	}{
		{"mongodb://localhost:27017", true},
		{"mongodb+srv://cluster.example.net", true},
		{"bookstore.sqlite3", false},
		{":memory:", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsMongoURI(tt.dsn); got != tt.want {
			t.Errorf("IsMongoURI(%q) = %v, want %v", tt.dsn, got, tt.want)
		}
	}
}
