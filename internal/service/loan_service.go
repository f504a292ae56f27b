package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/library-desk-api/internal/models"
	"github.com/noah-isme/library-desk-api/internal/repository"
	appErrors "github.com/noah-isme/library-desk-api/pkg/errors"
)

type loanRepository interface {
	List(ctx context.Context, filter models.LoanFilter) ([]models.Loan, error)
	FindByID(ctx context.Context, id string) (*models.Loan, error)
	FindByMember(ctx context.Context, memberID string) (*models.Loan, error)
	Create(ctx context.Context, loan *models.Loan) error
	Delete(ctx context.Context, id string) error
	UpdateReturnDate(ctx context.Context, id string, returnDate time.Time) error
	RefreshStatuses(ctx context.Context, now time.Time) (int64, error)
}

// ReturnDateInput is the desk's date payload. Month is 1-indexed; out-of-range
// months roll over into the following year the way calendar arithmetic does.
type ReturnDateInput struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// Time converts the input into an absolute UTC date.
func (d ReturnDateInput) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// LoanBookInput carries the book metadata chunk snapshotted onto the loan.
type LoanBookInput struct {
	Key            string   `json:"key"`
	Title          string   `json:"title"`
	AuthorName     []string `json:"author_name"`
	ISBN           []string `json:"isbn"`
	Subject        []string `json:"subject"`
	CoverImageURL  string   `json:"cover_image_url"`
	Publisher      string   `json:"publisher"`
	PublishedDate  string   `json:"published_date"`
	Description    string   `json:"description"`
	PageCount      int      `json:"page_count"`
	SourceAPI      string   `json:"source_api"`
	GoogleBooksID  string   `json:"google_books_id"`
	OpenLibraryKey string   `json:"open_library_key"`
}

// CreateLoanRequest holds the payload for opening a borrow record.
type CreateLoanRequest struct {
	StudID     string           `json:"stud_id" validate:"required"`
	Name       string           `json:"name" validate:"required"`
	Age        int              `json:"age" validate:"required,gt=0"`
	Grade      string           `json:"grade" validate:"required"`
	Section    string           `json:"section" validate:"required"`
	Duration   models.Duration  `json:"duration" validate:"required"`
	IsGood     *bool            `json:"is_good" validate:"required"`
	Book       *LoanBookInput   `json:"book" validate:"required"`
	ReturnDate *ReturnDateInput `json:"return_date" validate:"required"`
}

// ExtendLoanRequest holds the payload for pushing back a due date.
type ExtendLoanRequest struct {
	NewReturnDate string `json:"new_return_date" validate:"required"`
}

// LoanConflict describes the existing loan blocking a create attempt.
type LoanConflict struct {
	StudID     string    `json:"stud_id"`
	BookTitle  string    `json:"book_title"`
	BookISBN   string    `json:"book_isbn"`
	ReturnDate time.Time `json:"return_date"`
}

// LoanService owns the borrow ledger: at most one live loan per member.
type LoanService struct {
	repo      loanRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewLoanService constructs the loan service.
func NewLoanService(repo loanRepository, validate *validator.Validate, logger *zap.Logger) *LoanService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoanService{repo: repo, validator: validate, logger: logger, now: time.Now}
}

// List returns loans, optionally filtered by member name.
func (s *LoanService) List(ctx context.Context, filter models.LoanFilter) ([]models.Loan, error) {
	loans, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list loans")
	}
	return loans, nil
}

// Create opens a new borrow record. The one-loan-per-member invariant is
// checked twice: a lookup that produces a descriptive conflict, and the
// member_id unique index that closes the lookup/insert race under concurrency.
func (s *LoanService) Create(ctx context.Context, req CreateLoanRequest) (*models.Loan, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "required loan fields are missing")
	}
	if !req.Duration.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown duration %q", req.Duration))
	}
	if req.Book.Title == "" || len(req.Book.ISBN) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "book payload must include a title and at least one isbn")
	}
	if req.ReturnDate.Year == 0 || req.ReturnDate.Month == 0 || req.ReturnDate.Day == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "return date must include year, month and day")
	}

	existing, err := s.repo.FindByMember(ctx, req.StudID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing loan")
	}
	if existing != nil {
		return nil, s.conflictFor(existing)
	}

	loan := &models.Loan{
		MemberID:   req.StudID,
		MemberName: req.Name,
		Age:        req.Age,
		Grade:      req.Grade,
		Section:    req.Section,
		Book: models.BookSnapshot{
			Key:            req.Book.Key,
			Title:          req.Book.Title,
			AuthorName:     req.Book.AuthorName,
			ISBN:           req.Book.ISBN,
			Subject:        req.Book.Subject,
			CoverImageURL:  req.Book.CoverImageURL,
			Publisher:      req.Book.Publisher,
			PublishedDate:  req.Book.PublishedDate,
			Description:    req.Book.Description,
			PageCount:      req.Book.PageCount,
			SourceAPI:      req.Book.SourceAPI,
			GoogleBooksID:  req.Book.GoogleBooksID,
			OpenLibraryKey: req.Book.OpenLibraryKey,
		},
		Duration:   req.Duration,
		ReturnDate: req.ReturnDate.Time(),
		IsGood:     *req.IsGood,
	}
	if err := s.repo.Create(ctx, loan); err != nil {
		if repository.IsUniqueViolation(err) {
			// Lost the race to a concurrent create. Report whatever loan won.
			if winner, lookupErr := s.repo.FindByMember(ctx, req.StudID); lookupErr == nil && winner != nil {
				return nil, s.conflictFor(winner)
			}
			return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("member %s already has an active loan", req.StudID))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create loan")
	}
	return loan, nil
}

// Return closes a loan by deleting its record outright.
func (s *LoanService) Return(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "loan not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to return book")
	}
	return nil
}

// Extend pushes a loan's due date back. The new date must not precede the
// current due date; the is_good flag is left to the next bulk refresh.
func (s *LoanService) Extend(ctx context.Context, id string, req ExtendLoanRequest) (*models.Loan, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "new_return_date is required")
	}
	newDate, err := time.ParseInLocation("2006-01-02", req.NewReturnDate, time.UTC)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "new_return_date must be formatted YYYY-MM-DD")
	}

	loan, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "loan not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load loan")
	}
	if newDate.Before(loan.ReturnDate.UTC().Truncate(24 * time.Hour)) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "new return date cannot precede the current due date")
	}

	if err := s.repo.UpdateReturnDate(ctx, id, newDate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "loan not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to extend return date")
	}
	loan.ReturnDate = newDate
	return loan, nil
}

// RefreshStatuses recomputes is_good for every loan and reports how many rows
// were rewritten.
func (s *LoanService) RefreshStatuses(ctx context.Context) (int64, error) {
	updated, err := s.repo.RefreshStatuses(ctx, s.now().UTC())
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to refresh loan statuses")
	}
	return updated, nil
}

func (s *LoanService) conflictFor(existing *models.Loan) error {
	isbn := "N/A"
	if len(existing.Book.ISBN) > 0 {
		isbn = existing.Book.ISBN[0]
	}
	msg := fmt.Sprintf("member %s already has an active loan (%s, ISBN %s); a member can borrow one book at a time",
		existing.MemberID, existing.Book.Title, isbn)
	return appErrors.WithDetails(appErrors.Clone(appErrors.ErrConflict, msg), LoanConflict{
		StudID:     existing.MemberID,
		BookTitle:  existing.Book.Title,
		BookISBN:   isbn,
		ReturnDate: existing.ReturnDate,
	})
}
