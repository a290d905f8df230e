package web

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/erazemk/bookstore/internal/model"
)

// pages lists every page template rendered by the handlers.
var pages = []string{
	"homepage.html",
	"createBook.html",
	"test.html",
	"updateBook.html",
}

// Templates holds the parsed page templates. It is not modified after
// LoadTemplates returns.
type Templates struct {
	templates map[string]*template.Template
}

// FuncMap returns the template helper functions.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"getCurrentYear": func() int { return time.Now().Year() },
		"makeUppercase":  strings.ToUpper,
	}
}

// LoadTemplates parses the partials under partials/ once and every page on top
// of its own copy of them.
func LoadTemplates(tfs fs.FS) (*Templates, error) {
	base, err := template.New("partials").Funcs(FuncMap()).ParseFS(tfs, "partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing partials: %w", err)
	}

	ts := &Templates{templates: make(map[string]*template.Template)}

	for _, page := range pages {
		tmpl, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning partials for %s: %w", page, err)
		}
		tmpl, err = tmpl.ParseFS(tfs, page)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}
		ts.templates[page] = tmpl
	}

	return ts, nil
}

// Render renders a page with the given data. Output is buffered so a failed
// render still produces a clean 500.
func (ts *Templates) Render(w http.ResponseWriter, name string, data any) {
	tmpl, ok := ts.templates[name]
	if !ok {
		slog.Error("template not found", "template", name)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write page", "template", name, "error", err)
	}
}

// PageData is the base data passed to all templates.
type PageData struct {
	Title string
}

// HomePage is the data for homepage.html.
type HomePage struct {
	PageData
	CurrentYear int
}

// BooksPage is the data for createBook.html and test.html.
type BooksPage struct {
	PageData
	Books []model.Book
}

// BookPage is the data for updateBook.html.
type BookPage struct {
	PageData
	Book *model.Book
}
