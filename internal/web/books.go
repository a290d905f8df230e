package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/erazemk/bookstore/internal/model"
	"github.com/erazemk/bookstore/internal/store"
)

// HomePage handles GET /.
func (s *Server) HomePage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "homepage.html", &HomePage{
		PageData:    PageData{Title: "Home Page"},
		CurrentYear: time.Now().Year(),
	})
}

// AboutPage handles GET /about.
func (s *Server) AboutPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte("About page"))
}

// BooksPage handles GET /createBook, newest books first.
func (s *Server) BooksPage(w http.ResponseWriter, r *http.Request) {
	books, err := s.Books.List(r.Context(), store.Newest)
	if err != nil {
		slog.Error("failed to list books", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	s.Templates.Render(w, "createBook.html", &BooksPage{
		PageData: PageData{Title: "Create New Book"},
		Books:    books,
	})
}

// TestPage handles GET /test.
func (s *Server) TestPage(w http.ResponseWriter, r *http.Request) {
	books, err := s.Books.List(r.Context(), store.Natural)
	if err != nil {
		slog.Error("failed to list books for test page", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	s.Templates.Render(w, "test.html", &BooksPage{
		PageData: PageData{Title: "Test page"},
		Books:    books,
	})
}

// BookCreateSubmit handles POST /createBook. The cover has already been
// stored by the Upload middleware.
func (s *Server) BookCreateSubmit(w http.ResponseWriter, r *http.Request) {
	image := UploadedImage(r.Context())
	if image == "" {
		slog.Error("create book reached without stored image")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	price, err := model.ParsePrice(r.FormValue("price"))
	if err != nil {
		slog.Error("failed to create book", "price", r.FormValue("price"), "error", err)
		s.discardImage(r, image)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	book := &model.Book{
		Title:  r.FormValue("title"),
		Author: r.FormValue("author"),
		Type:   r.FormValue("type"),
		Price:  price,
		Image:  image,
	}

	if err := s.Books.Create(r.Context(), book); err != nil {
		slog.Error("failed to create book", "error", err)
		s.discardImage(r, image)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	slog.Info("book created", "id", book.ID.Hex(), "title", book.Title, "image", image)
	http.Redirect(w, r, "/createBook", http.StatusFound)
}

// discardImage removes the cover of a book that was never saved.
func (s *Server) discardImage(r *http.Request, image string) {
	if err := s.Images.Remove(r.Context(), image); err != nil {
		slog.Warn("failed to remove image of unsaved book", "image", image, "error", err)
	}
}

// BookDeleteSubmit handles POST /book/delete. The cover is removed only after
// the book itself is gone.
func (s *Server) BookDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	id, err := model.ParseID(r.FormValue("id"))
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	book, err := s.Books.Delete(r.Context(), id)
	if err != nil {
		slog.Error("failed to delete book", "id", id.Hex(), "error", err)
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if book == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	if exists, err := s.Images.Exists(r.Context(), book.Image); err != nil {
		slog.Warn("failed to check image", "image", book.Image, "error", err)
	} else if !exists {
		slog.Warn("image not found", "image", book.Image)
	}
	if err := s.Images.Remove(r.Context(), book.Image); err != nil {
		slog.Warn("failed to delete image", "image", book.Image, "error", err)
	}

	slog.Info("book deleted", "id", id.Hex(), "title", book.Title)
	http.Redirect(w, r, "/createBook", http.StatusFound)
}

// BookUpdatePage handles GET /Book/update/{id}.
func (s *Server) BookUpdatePage(w http.ResponseWriter, r *http.Request) {
	id, err := model.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	book, err := s.Books.Get(r.Context(), id)
	if err != nil {
		slog.Error("failed to get book", "id", id.Hex(), "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if book == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	s.Templates.Render(w, "updateBook.html", &BookPage{
		PageData: PageData{Title: "Update book"},
		Book:     book,
	})
}

// BookUpdateSubmit handles POST /Book/update.
func (s *Server) BookUpdateSubmit(w http.ResponseWriter, r *http.Request) {
	id, err := model.ParseID(r.FormValue("id"))
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	price, err := model.ParsePrice(r.FormValue("price"))
	if err != nil {
		slog.Error("failed to update book", "id", id.Hex(), "price", r.FormValue("price"), "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	update := model.BookUpdate{
		Title:  r.FormValue("title"),
		Author: r.FormValue("author"),
		Type:   r.FormValue("type"),
		Price:  price,
	}

	matched, err := s.Books.Update(r.Context(), id, update, time.Now())
	if err != nil {
		slog.Error("failed to update book", "id", id.Hex(), "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if !matched {
		slog.Warn("update matched no book", "id", id.Hex())
	} else {
		slog.Info("book updated", "id", id.Hex(), "title", update.Title)
	}
	http.Redirect(w, r, "/createBook", http.StatusFound)
}
