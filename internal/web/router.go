package web

import (
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/erazemk/bookstore/internal/images"
	"github.com/erazemk/bookstore/internal/store"
	webembed "github.com/erazemk/bookstore/web"
)

// Server holds all dependencies for page handlers.
type Server struct {
	Books     store.Books
	Images    images.Store
	Templates *Templates
}

// Options configures NewRouter.
type Options struct {
	// PublicDir is served for any GET that no route matches.
	PublicDir string
	// RequestLog, if set, records every request before routing.
	RequestLog *RequestLog
}

// NewRouter creates the router with all page routes registered.
func NewRouter(books store.Books, imgs images.Store, opts Options) (http.Handler, error) {
	templates, err := LoadTemplates(webembed.TemplatesFS())
	if err != nil {
		return nil, err
	}

	s := &Server{
		Books:     books,
		Images:    imgs,
		Templates: templates,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware)
	if opts.RequestLog != nil {
		r.Use(opts.RequestLog.Middleware)
	}
	r.Use(middleware.Recoverer)

	// Static assets.
	r.Get("/static/*", staticFiles(webembed.StaticFS()))
	r.Get("/img/{name}", s.ImageGet)

	r.Get("/", s.HomePage)
	r.Get("/about", s.AboutPage)
	r.Get("/test", s.TestPage)

	r.Get("/createBook", s.BooksPage)
	r.With(Upload(imgs, "image")).Post("/createBook", s.BookCreateSubmit)
	r.Post("/book/delete", s.BookDeleteSubmit)
	r.Get("/Book/update/{id}", s.BookUpdatePage)
	r.Post("/Book/update", s.BookUpdateSubmit)

	r.NotFound(publicFiles(opts.PublicDir))

	return r, nil
}

// staticFiles serves regular files from the embedded assets. Directories
// are never listed.
func staticFiles(fsys fs.FS) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(path.Clean("/"+chi.URLParam(r, "*")), "/")
		info, err := fs.Stat(fsys, name)
		if err != nil || !info.Mode().IsRegular() {
			http.NotFound(w, r)
			return
		}
		http.ServeFileFS(w, r, fsys, name)
	}
}

// publicFiles serves regular files under dir for GET and HEAD requests.
func publicFiles(dir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if dir == "" || (r.Method != http.MethodGet && r.Method != http.MethodHead) {
			http.NotFound(w, r)
			return
		}

		name := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
		info, err := os.Stat(name)
		if err != nil || !info.Mode().IsRegular() {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, name)
	}
}

// ImageGet handles GET /img/{name}.
func (s *Server) ImageGet(w http.ResponseWriter, r *http.Request) {
	s.Images.Serve(w, r, chi.URLParam(r, "name"))
}
