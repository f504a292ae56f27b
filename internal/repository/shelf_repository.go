package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/library-desk-api/internal/models"
)

// ShelfRepository manages persistence for the book shelf catalog.
type ShelfRepository struct {
	db *sqlx.DB
}

// NewShelfRepository constructs a ShelfRepository.
func NewShelfRepository(db *sqlx.DB) *ShelfRepository {
	return &ShelfRepository{db: db}
}

const shelfColumns = "id, identifier_key, book_data, date_added, created_at, updated_at"

// List returns all shelf items, most recently added first.
func (r *ShelfRepository) List(ctx context.Context) ([]models.ShelfItem, error) {
	query := fmt.Sprintf("SELECT %s FROM shelf_items ORDER BY date_added DESC", shelfColumns)
	var items []models.ShelfItem
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list shelf items: %w", err)
	}
	return items, nil
}

// FindByID fetches a shelf item by record id.
func (r *ShelfRepository) FindByID(ctx context.Context, id string) (*models.ShelfItem, error) {
	query := fmt.Sprintf("SELECT %s FROM shelf_items WHERE id = $1", shelfColumns)
	var item models.ShelfItem
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts a shelf item. identifier_key carries a unique index so the
// same source book cannot be shelved twice.
func (r *ShelfRepository) Create(ctx context.Context, item *models.ShelfItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if item.DateAdded.IsZero() {
		item.DateAdded = now
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	const query = `INSERT INTO shelf_items (id, identifier_key, book_data, date_added, created_at, updated_at)
        VALUES (:id, :identifier_key, :book_data, :date_added, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("create shelf item: %w", err)
	}
	return nil
}

// Delete removes a shelf item. Returns sql.ErrNoRows when no row matched.
func (r *ShelfRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM shelf_items WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete shelf item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete shelf item rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Count returns the total number of shelf items.
func (r *ShelfRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM shelf_items"); err != nil {
		return 0, fmt.Errorf("count shelf items: %w", err)
	}
	return total, nil
}

// SubjectDistribution unnests every subject tag across the shelf and counts
// occurrences, normalised to lower case. Capped at the top 20 buckets.
func (r *ShelfRepository) SubjectDistribution(ctx context.Context) ([]models.SubjectCount, error) {
	const query = `SELECT subject, COUNT(*) AS count FROM (
            SELECT TRIM(LOWER(jsonb_array_elements_text(book_data->'subject'))) AS subject
            FROM shelf_items
            WHERE jsonb_typeof(book_data->'subject') = 'array'
        ) tags
        WHERE subject <> ''
        GROUP BY subject
        ORDER BY count DESC, subject ASC
        LIMIT 20`
	var counts []models.SubjectCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("shelf subject distribution: %w", err)
	}
	return counts, nil
}

// FirstSubjectDistribution counts shelf items by their first subject tag only.
func (r *ShelfRepository) FirstSubjectDistribution(ctx context.Context) ([]models.SubjectCount, error) {
	const query = `SELECT TRIM(LOWER(book_data->'subject'->>0)) AS subject, COUNT(*) AS count
        FROM shelf_items
        WHERE jsonb_typeof(book_data->'subject') = 'array'
          AND COALESCE(TRIM(book_data->'subject'->>0), '') <> ''
        GROUP BY subject
        ORDER BY count DESC, subject ASC
        LIMIT 20`
	var counts []models.SubjectCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("shelf first subject distribution: %w", err)
	}
	return counts, nil
}
