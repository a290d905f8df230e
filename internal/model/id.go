package model

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrInvalidID is returned for strings that are not 24-character hex object IDs.
var ErrInvalidID = errors.New("invalid book id")

// NewID returns a fresh identifier. IDs created later by the same process
// sort after earlier ones.
func NewID() primitive.ObjectID {
	return primitive.NewObjectID()
}

// ParseID parses a hex object ID as submitted in forms and paths.
func ParseID(s string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return id, nil
}
