package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/library-desk-api/internal/models"
)

func newLoanMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func loanRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "member_id", "member_name", "age", "grade", "section", "book", "duration", "return_date", "is_good", "created_at", "updated_at"}).
		AddRow("loan-1", "S-001", "Reader", 12, "7", "B", []byte(`{"title":"Dune","isbn":["9780441013593"]}`), "1-week", time.Now(), true, time.Now(), time.Now())
}

func TestLoanRepositoryList(t *testing.T) {
	db, mock, cleanup := newLoanMock(t)
	defer cleanup()
	repo := NewLoanRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, member_id, member_name, age, grade, section, book, duration, return_date, is_good, created_at, updated_at FROM loans ORDER BY created_at DESC")).
		WillReturnRows(loanRows())

	loans, err := repo.List(context.Background(), models.LoanFilter{})
	require.NoError(t, err)
	assert.Len(t, loans, 1)
	assert.Equal(t, "Dune", loans[0].Book.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoanRepositoryListSearchIsCaseInsensitive(t *testing.T) {
	db, mock, cleanup := newLoanMock(t)
	defer cleanup()
	repo := NewLoanRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, member_id, member_name, age, grade, section, book, duration, return_date, is_good, created_at, updated_at FROM loans WHERE LOWER(member_name) LIKE $1 ORDER BY created_at DESC")).
		WithArgs("%read%").
		WillReturnRows(loanRows())

	loans, err := repo.List(context.Background(), models.LoanFilter{Search: "ReAd"})
	require.NoError(t, err)
	assert.Len(t, loans, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoanRepositoryFindByMemberNotFound(t *testing.T) {
	db, mock, cleanup := newLoanMock(t)
	defer cleanup()
	repo := NewLoanRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, member_id, member_name, age, grade, section, book, duration, return_date, is_good, created_at, updated_at FROM loans WHERE member_id = $1 LIMIT 1")).
		WithArgs("S-404").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByMember(context.Background(), "S-404")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoanRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newLoanMock(t)
	defer cleanup()
	repo := NewLoanRepository(db)

	mock.ExpectExec("INSERT INTO loans").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	loan := &models.Loan{
		MemberID:   "S-001",
		MemberName: "Reader",
		Age:        12,
		Grade:      "7",
		Section:    "B",
		Book:       models.BookSnapshot{Title: "Dune", ISBN: []string{"9780441013593"}},
		Duration:   models.DurationOneWeek,
		ReturnDate: time.Now().AddDate(0, 0, 7),
		IsGood:     true,
	}
	err := repo.Create(context.Background(), loan)
	require.NoError(t, err)
	assert.NotEmpty(t, loan.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoanRepositoryCreateUniqueViolation(t *testing.T) {
	db, mock, cleanup := newLoanMock(t)
	defer cleanup()
	repo := NewLoanRepository(db)

	mock.ExpectExec("INSERT INTO loans").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "loans_member_id_key"})

	err := repo.Create(context.Background(), &models.Loan{MemberID: "S-001", Duration: models.DurationOneWeek})
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoanRepositoryDeleteNoRows(t *testing.T) {
	db, mock, cleanup := newLoanMock(t)
	defer cleanup()
	repo := NewLoanRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM loans WHERE id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoanRepositoryUpdateReturnDate(t *testing.T) {
	db, mock, cleanup := newLoanMock(t)
	defer cleanup()
	repo := NewLoanRepository(db)

	newDate := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE loans SET return_date = $2, updated_at = $3 WHERE id = $1")).
		WithArgs("loan-1", newDate, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateReturnDate(context.Background(), "loan-1", newDate)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoanRepositoryRefreshStatusesIsSingleStatement(t *testing.T) {
	db, mock, cleanup := newLoanMock(t)
	defer cleanup()
	repo := NewLoanRepository(db)

	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE loans SET is_good = (return_date >= $1), updated_at = $1")).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 42))

	updated, err := repo.RefreshStatuses(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(42), updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoanRepositoryExistsByBookTitle(t *testing.T) {
	db, mock, cleanup := newLoanMock(t)
	defer cleanup()
	repo := NewLoanRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM loans WHERE book->>'title' = $1 LIMIT 1")).
		WithArgs("Dune").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM loans WHERE book->>'title' = $1 LIMIT 1")).
		WithArgs("Unborrowed").
		WillReturnError(sql.ErrNoRows)

	borrowed, err := repo.ExistsByBookTitle(context.Background(), "Dune")
	require.NoError(t, err)
	assert.True(t, borrowed)

	borrowed, err = repo.ExistsByBookTitle(context.Background(), "Unborrowed")
	require.NoError(t, err)
	assert.False(t, borrowed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
