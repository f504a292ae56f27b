package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Duration enumerates the borrow periods offered at the desk.
type Duration string

const (
	DurationThreeDays Duration = "3-days"
	DurationOneWeek   Duration = "1-week"
	DurationTwoWeeks  Duration = "2-weeks"
	DurationOneMonth  Duration = "1-month"
)

// Valid reports whether the duration is one of the offered periods.
func (d Duration) Valid() bool {
	switch d {
	case DurationThreeDays, DurationOneWeek, DurationTwoWeeks, DurationOneMonth:
		return true
	}
	return false
}

// DueFrom computes the due date for a loan starting at the given time.
func (d Duration) DueFrom(start time.Time) time.Time {
	switch d {
	case DurationThreeDays:
		return start.AddDate(0, 0, 3)
	case DurationOneWeek:
		return start.AddDate(0, 0, 7)
	case DurationTwoWeeks:
		return start.AddDate(0, 0, 14)
	case DurationOneMonth:
		return start.AddDate(0, 1, 0)
	}
	return start
}

// BookSnapshot is the denormalised copy of book metadata captured when a loan
// is created. It deliberately has no foreign key to the shelf: the shelf entry
// may be deleted later without touching open loans.
type BookSnapshot struct {
	Key            string   `json:"key,omitempty"`
	Title          string   `json:"title"`
	AuthorName     []string `json:"author_name,omitempty"`
	ISBN           []string `json:"isbn"`
	Subject        []string `json:"subject,omitempty"`
	CoverImageURL  string   `json:"cover_image_url,omitempty"`
	Publisher      string   `json:"publisher,omitempty"`
	PublishedDate  string   `json:"published_date,omitempty"`
	Description    string   `json:"description,omitempty"`
	PageCount      int      `json:"page_count,omitempty"`
	SourceAPI      string   `json:"source_api,omitempty"`
	GoogleBooksID  string   `json:"google_books_id,omitempty"`
	OpenLibraryKey string   `json:"open_library_key,omitempty"`
}

// Value serialises the snapshot for jsonb storage.
func (b BookSnapshot) Value() (driver.Value, error) {
	return json.Marshal(b)
}

// Scan deserialises the snapshot from a jsonb column.
func (b *BookSnapshot) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, b)
	case string:
		return json.Unmarshal([]byte(v), b)
	case nil:
		*b = BookSnapshot{}
		return nil
	}
	return fmt.Errorf("unsupported book snapshot source type %T", src)
}

// Loan is a single active borrow binding a member to a book snapshot and a due
// date. Returning the book deletes the row; there is no closed-loan history.
type Loan struct {
	ID         string       `db:"id" json:"id"`
	MemberID   string       `db:"member_id" json:"stud_id"`
	MemberName string       `db:"member_name" json:"name"`
	Age        int          `db:"age" json:"age"`
	Grade      string       `db:"grade" json:"grade"`
	Section    string       `db:"section" json:"section"`
	Book       BookSnapshot `db:"book" json:"book"`
	Duration   Duration     `db:"duration" json:"duration"`
	ReturnDate time.Time    `db:"return_date" json:"return_date"`
	IsGood     bool         `db:"is_good" json:"is_good"`
	CreatedAt  time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time    `db:"updated_at" json:"updated_at"`
}

// LoanFilter encapsulates allowed search parameters for listing loans.
type LoanFilter struct {
	Search string
}
