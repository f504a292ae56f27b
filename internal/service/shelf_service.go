package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/library-desk-api/internal/models"
	"github.com/noah-isme/library-desk-api/internal/repository"
	appErrors "github.com/noah-isme/library-desk-api/pkg/errors"
)

type shelfRepository interface {
	List(ctx context.Context) ([]models.ShelfItem, error)
	FindByID(ctx context.Context, id string) (*models.ShelfItem, error)
	Create(ctx context.Context, item *models.ShelfItem) error
	Delete(ctx context.Context, id string) error
}

type borrowedTitleChecker interface {
	ExistsByBookTitle(ctx context.Context, title string) (bool, error)
}

// AddShelfRequest wraps the book metadata blob coming off the search UI.
type AddShelfRequest struct {
	Book models.BookData `json:"book" validate:"required"`
}

// ShelfService handles the book shelf catalog use-cases.
type ShelfService struct {
	repo      shelfRepository
	loans     borrowedTitleChecker
	validator *validator.Validate
	logger    *zap.Logger
}

// NewShelfService constructs the shelf service.
func NewShelfService(repo shelfRepository, loans borrowedTitleChecker, validate *validator.Validate, logger *zap.Logger) *ShelfService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShelfService{repo: repo, loans: loans, validator: validate, logger: logger}
}

// List returns all shelf items.
func (s *ShelfService) List(ctx context.Context) ([]models.ShelfItem, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list shelf items")
	}
	return items, nil
}

// Add shelves a book. The external API key becomes the unique identifier, so
// the same source entry cannot be shelved twice.
func (s *ShelfService) Add(ctx context.Context, req AddShelfRequest) (*models.ShelfItem, error) {
	if err := s.validator.Struct(req); err != nil || len(req.Book) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "a book object with full details is required")
	}
	key, _ := req.Book["key"].(string)
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "a unique book key is required")
	}
	if strings.TrimSpace(req.Book.Title()) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "a book title is required")
	}

	item := &models.ShelfItem{
		IdentifierKey: key,
		BookData:      req.Book,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.WithDetails(
				appErrors.Clone(appErrors.ErrConflict, "this book already exists on the shelf"),
				map[string]string{"identifier_key": key})
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add shelf item")
	}
	return item, nil
}

// Delete removes a shelf item unless its title matches an open loan. Matching
// is by the denormalised title string; loans keep no stable link to the shelf.
func (s *ShelfService) Delete(ctx context.Context, id string) error {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "shelf item not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load shelf item")
	}

	if title := strings.TrimSpace(item.BookData.Title()); title != "" {
		borrowed, err := s.loans.ExistsByBookTitle(ctx, title)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check open loans")
		}
		if borrowed {
			return appErrors.Clone(appErrors.ErrConflict, "this book is currently borrowed and cannot be removed from the shelf")
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "shelf item not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete shelf item")
	}
	return nil
}
