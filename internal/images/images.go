// Package images stores uploaded cover images under random names.
package images

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
)

// NameBytes is the number of random bytes in a generated name.
const NameBytes = 16

// ErrInvalidName is returned for names that do not refer to a single file.
var ErrInvalidName = errors.New("invalid image name")

// Store holds image files addressed by name.
type Store interface {
	// Save writes r under a new random name carrying the extension of
	// original, and returns that name.
	Save(ctx context.Context, original string, r io.Reader) (string, error)
	Remove(ctx context.Context, name string) error
	Exists(ctx context.Context, name string) (bool, error)
	List(ctx context.Context) ([]string, error)
	// Serve writes the named image to w, or a 404 if there is none.
	Serve(w http.ResponseWriter, r *http.Request, name string)
}

var randRead = rand.Read

// NewName returns 32 lowercase hex characters followed by the extension of
// original, dot included. An extension holding a path separator is dropped so
// the name always passes cleanName.
func NewName(original string) (string, error) {
	buf := make([]byte, NameBytes)
	if _, err := randRead(buf); err != nil {
		return "", fmt.Errorf("generating image name: %w", err)
	}
	ext := filepath.Ext(original)
	if strings.ContainsAny(ext, `/\`) {
		ext = ""
	}
	return hex.EncodeToString(buf) + ext, nil
}

// cleanName rejects anything but a plain file name.
func cleanName(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", ErrInvalidName
	}
	return name, nil
}
