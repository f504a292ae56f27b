package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/library-desk-api/internal/dto"
	"github.com/noah-isme/library-desk-api/pkg/config"
	appErrors "github.com/noah-isme/library-desk-api/pkg/errors"
)

// BooksService resolves ISBN lookups against the Open Library books API and
// rewrites the result into the small shape the desk UI needs.
type BooksService struct {
	cfg    config.BooksConfig
	client *http.Client
	logger *zap.Logger
}

// NewBooksService constructs a BooksService with sane defaults.
func NewBooksService(cfg config.BooksConfig, logger *zap.Logger) *BooksService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BooksService{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

type openLibraryEntry struct {
	Details struct {
		Title string `json:"title"`
	} `json:"details"`
}

// LookupISBN fetches book details for the given ISBN. A response without an
// entry for the requested ISBN maps to not found.
func (s *BooksService) LookupISBN(ctx context.Context, isbn string) (*dto.BookLookupResponse, error) {
	isbn = strings.TrimSpace(isbn)
	if isbn == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "isbn is required")
	}

	bibkey := "ISBN:" + isbn
	endpoint := fmt.Sprintf("%s/api/books?bibkeys=%s&format=json&jscmd=details",
		strings.TrimRight(s.cfg.BaseURL, "/"), url.QueryEscape(bibkey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build book lookup request")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "book lookup request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("book lookup upstream returned non-200",
			zap.String("isbn", isbn), zap.Int("status", resp.StatusCode))
		return nil, appErrors.Clone(appErrors.ErrInternal, fmt.Sprintf("book lookup upstream returned status %d", resp.StatusCode))
	}

	var payload map[string]openLibraryEntry
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decode book lookup response")
	}

	entry, ok := payload[bibkey]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no book found for ISBN %s", isbn))
	}

	return &dto.BookLookupResponse{
		Title:         entry.Details.Title,
		CoverImageURL: fmt.Sprintf("%s/b/isbn/%s-L.jpg", strings.TrimRight(s.cfg.CoverBaseURL, "/"), isbn),
	}, nil
}
