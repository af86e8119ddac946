package domain

import (
	"errors"
	"time"
)

// BookType classifies a correspondence record by direction.
type BookType string

const (
	TypeIncoming BookType = "incoming"
	TypeOutgoing BookType = "outgoing"
)

// Valid reports whether t is one of the known book types.
func (t BookType) Valid() bool {
	return t == TypeIncoming || t == TypeOutgoing
}

// MaxAttachmentBytes is the decoded size ceiling for a book attachment.
// The same limit applies on every file-intake path.
const MaxAttachmentBytes = 5 * 1024 * 1024

var ErrBookNotFound = errors.New("book not found")
var ErrInvalidBookType = errors.New("invalid book type")
var ErrAttachmentTooLarge = errors.New("attachment exceeds size limit")
var ErrForbidden = errors.New("access forbidden")

// BookFile is an attachment embedded inline in a book record.
// Data holds the base64-encoded file content; there is no separate blob store.
type BookFile struct {
	Name string `json:"name" bson:"name"`
	Mime string `json:"mime" bson:"mime"`
	Data string `json:"data" bson:"data"`
}

// Book is a tracked incoming or outgoing correspondence record.
// ID is assigned at creation and immutable thereafter. Date is kept as the
// string written on the document itself, not a parsed timestamp.
type Book struct {
	ID        string    `json:"id" bson:"_id"`
	OwnerID   string    `json:"owner_id" bson:"owner_id"`
	Type      BookType  `json:"type" bson:"type"`
	Title     string    `json:"title" bson:"title"`
	Number    string    `json:"number" bson:"number"`
	Date      string    `json:"date" bson:"date"`
	Entity    string    `json:"entity" bson:"entity"`
	Subject   string    `json:"subject" bson:"subject"`
	File      *BookFile `json:"file,omitempty" bson:"file,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// HasFile reports whether the book carries an attachment.
func (b *Book) HasFile() bool {
	return b.File != nil && b.File.Data != ""
}
