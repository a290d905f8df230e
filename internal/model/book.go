package model

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Book is a catalog entry. Image names a file in the image store and is set
// once, at creation.
type Book struct {
	ID     primitive.ObjectID `bson:"_id" json:"id"`
	Title  string             `bson:"title" json:"title"`
	Author string             `bson:"author" json:"author"`
	Type   string             `bson:"type" json:"type"`
	Price  float64            `bson:"price" json:"price"`
	Image  string             `bson:"image" json:"image"`
	Time   *time.Time         `bson:"time,omitempty" json:"time,omitempty"`
}

// BookUpdate holds the fields an update may overwrite.
type BookUpdate struct {
	Title  string
	Author string
	Type   string
	Price  float64
}

// ErrInvalidPrice is returned by ParsePrice for input that is not a finite number.
var ErrInvalidPrice = errors.New("invalid price")

// ParsePrice reads a price form value. Blank input is zero.
func ParsePrice(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	p, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(p) || math.IsInf(p, 0) {
		return 0, ErrInvalidPrice
	}
	return p, nil
}
