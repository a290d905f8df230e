package web

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/erazemk/bookstore/internal/images"
)

// uploadMemory is how much of a multipart body is held in memory before
// spilling to temporary files. It does not limit upload size.
const uploadMemory = 32 << 20

type uploadKey struct{}

// Upload stores the single file sent in field before calling next. The stored
// name is available to next through UploadedImage.
func Upload(store images.Store, field string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseMultipartForm(uploadMemory); err != nil {
				slog.Warn("invalid upload form", "error", err)
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			defer r.MultipartForm.RemoveAll()

			for name, files := range r.MultipartForm.File {
				if name != field || len(files) != 1 {
					slog.Warn("unexpected upload field", "field", name, "files", len(files))
					w.WriteHeader(http.StatusBadRequest)
					return
				}
			}

			files := r.MultipartForm.File[field]
			if len(files) == 0 {
				slog.Warn("upload missing file", "field", field)
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			header := files[0]

			file, err := header.Open()
			if err != nil {
				slog.Error("failed to open uploaded file", "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			defer file.Close()

			name, err := store.Save(r.Context(), header.Filename, file)
			if err != nil {
				slog.Error("failed to store uploaded image", "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				return
			}

			slog.Info("image stored", "image", name, "original", header.Filename, "size", header.Size)
			ctx := context.WithValue(r.Context(), uploadKey{}, name)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UploadedImage returns the name stored by Upload, or "" outside of it.
func UploadedImage(ctx context.Context) string {
	name, _ := ctx.Value(uploadKey{}).(string)
	return name
}
