package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// BookData stores the full metadata blob received from the external book API.
// The shape is source-dependent, so it is kept as a free-form document.
type BookData map[string]interface{}

// Title extracts the display title from the blob, empty when absent.
func (b BookData) Title() string {
	if title, ok := b["title"].(string); ok {
		return title
	}
	return ""
}

// Value serialises the blob for jsonb storage.
func (b BookData) Value() (driver.Value, error) {
	if b == nil {
		return json.Marshal(BookData{})
	}
	return json.Marshal(b)
}

// Scan deserialises the blob from a jsonb column.
func (b *BookData) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, b)
	case string:
		return json.Unmarshal([]byte(v), b)
	case nil:
		*b = BookData{}
		return nil
	}
	return fmt.Errorf("unsupported book data source type %T", src)
}

// ShelfItem is a catalog entry for a book available to borrow. IdentifierKey
// carries the external API's own key (Google Books volume id or Open Library
// key) and is unique, so the same source book cannot be shelved twice.
type ShelfItem struct {
	ID            string    `db:"id" json:"id"`
	IdentifierKey string    `db:"identifier_key" json:"identifier_key"`
	BookData      BookData  `db:"book_data" json:"book_data"`
	DateAdded     time.Time `db:"date_added" json:"date_added"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
