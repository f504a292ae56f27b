package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/library-desk-api/internal/models"
)

// IsUniqueViolation reports whether the error is a Postgres unique-constraint
// violation. The loan table carries a unique index on member_id, so this is
// the authoritative one-loan-per-member conflict signal.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

// LoanRepository manages persistence for active borrow records.
type LoanRepository struct {
	db *sqlx.DB
}

// NewLoanRepository constructs a LoanRepository.
func NewLoanRepository(db *sqlx.DB) *LoanRepository {
	return &LoanRepository{db: db}
}

const loanColumns = "id, member_id, member_name, age, grade, section, book, duration, return_date, is_good, created_at, updated_at"

// List returns loans matching the provided filter, newest first.
func (r *LoanRepository) List(ctx context.Context, filter models.LoanFilter) ([]models.Loan, error) {
	query := fmt.Sprintf("SELECT %s FROM loans", loanColumns)
	var args []interface{}
	if filter.Search != "" {
		query += " WHERE LOWER(member_name) LIKE $1"
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	query += " ORDER BY created_at DESC"

	var loans []models.Loan
	if err := r.db.SelectContext(ctx, &loans, query, args...); err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	return loans, nil
}

// FindByID fetches a loan by record id.
func (r *LoanRepository) FindByID(ctx context.Context, id string) (*models.Loan, error) {
	query := fmt.Sprintf("SELECT %s FROM loans WHERE id = $1", loanColumns)
	var loan models.Loan
	if err := r.db.GetContext(ctx, &loan, query, id); err != nil {
		return nil, err
	}
	return &loan, nil
}

// FindByMember fetches the active loan for a member identifier, if any.
func (r *LoanRepository) FindByMember(ctx context.Context, memberID string) (*models.Loan, error) {
	query := fmt.Sprintf("SELECT %s FROM loans WHERE member_id = $1 LIMIT 1", loanColumns)
	var loan models.Loan
	if err := r.db.GetContext(ctx, &loan, query, memberID); err != nil {
		return nil, err
	}
	return &loan, nil
}

// Create inserts a new loan. A unique index on member_id rejects a second
// active loan for the same member at the storage level.
func (r *LoanRepository) Create(ctx context.Context, loan *models.Loan) error {
	if loan.ID == "" {
		loan.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if loan.CreatedAt.IsZero() {
		loan.CreatedAt = now
	}
	loan.UpdatedAt = now
	const query = `INSERT INTO loans (id, member_id, member_name, age, grade, section, book, duration, return_date, is_good, created_at, updated_at)
        VALUES (:id, :member_id, :member_name, :age, :grade, :section, :book, :duration, :return_date, :is_good, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, loan); err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("create loan: %w", err)
	}
	return nil
}

// Delete removes a loan outright. Returns sql.ErrNoRows when no row matched.
func (r *LoanRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM loans WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete loan: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete loan rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateReturnDate overwrites the due date only. The is_good flag is left
// untouched until the next bulk refresh sweep.
func (r *LoanRepository) UpdateReturnDate(ctx context.Context, id string, returnDate time.Time) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE loans SET return_date = $2, updated_at = $3 WHERE id = $1",
		id, returnDate, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update return date: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update return date rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// RefreshStatuses recomputes is_good for every loan in one unconditional
// full-table rewrite. Every row's updated_at changes whether or not the flag
// flipped, matching the sweep's observable side effect.
func (r *LoanRepository) RefreshStatuses(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE loans SET is_good = (return_date >= $1), updated_at = $1", now)
	if err != nil {
		return 0, fmt.Errorf("refresh loan statuses: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("refresh loan statuses rows: %w", err)
	}
	return affected, nil
}

// Count returns the total number of active loans.
func (r *LoanRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM loans"); err != nil {
		return 0, fmt.Errorf("count loans: %w", err)
	}
	return total, nil
}

// CountOverdue returns the number of loans past their due date.
func (r *LoanRepository) CountOverdue(ctx context.Context, now time.Time) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM loans WHERE return_date < $1", now); err != nil {
		return 0, fmt.Errorf("count overdue loans: %w", err)
	}
	return total, nil
}

// DurationDistribution groups active loans by duration token.
func (r *LoanRepository) DurationDistribution(ctx context.Context) ([]models.DurationCount, error) {
	const query = `SELECT duration, COUNT(*) AS count FROM loans
        WHERE duration <> '' GROUP BY duration ORDER BY count DESC, duration ASC`
	var counts []models.DurationCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("loan duration distribution: %w", err)
	}
	return counts, nil
}

// ExistsByBookTitle reports whether any active loan carries the given book
// title. The shelf-deletion guard matches on the denormalised title string
// because the snapshot keeps no stable link to the shelf entry.
func (r *LoanRepository) ExistsByBookTitle(ctx context.Context, title string) (bool, error) {
	var exists int
	err := r.db.GetContext(ctx, &exists,
		"SELECT 1 FROM loans WHERE book->>'title' = $1 LIMIT 1", title)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check borrowed title: %w", err)
	}
	return true, nil
}
