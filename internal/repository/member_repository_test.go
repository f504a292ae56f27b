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

func newMemberMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestMemberRepositoryList(t *testing.T) {
	db, mock, cleanup := newMemberMock(t)
	defer cleanup()
	repo := NewMemberRepository(db)

	rows := sqlmock.NewRows([]string{"id", "stud_id", "name", "parent_phone", "age", "grade", "level", "score", "section", "created_at", "updated_at"}).
		AddRow("m-1", "S-001", "Reader", int64(5551234), 12, "7", models.LevelSecondary, 10, "B", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, stud_id, name, parent_phone, age, grade, level, score, section, created_at, updated_at FROM members ORDER BY created_at DESC")).
		WillReturnRows(rows)

	members, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, members, 1)
	assert.Equal(t, models.LevelSecondary, members[0].Level)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepositoryExistsSimilar(t *testing.T) {
	db, mock, cleanup := newMemberMock(t)
	defer cleanup()
	repo := NewMemberRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM members WHERE LOWER(name) = LOWER($1) AND age = $2 AND parent_phone = $3 LIMIT 1")).
		WithArgs("Reader", 12, int64(5551234)).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM members WHERE LOWER(name) = LOWER($1) AND age = $2 AND parent_phone = $3 LIMIT 1")).
		WithArgs("Nobody", 9, int64(1)).
		WillReturnError(sql.ErrNoRows)

	exists, err := repo.ExistsSimilar(context.Background(), "Reader", 12, 5551234)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsSimilar(context.Background(), "Nobody", 9, 1)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMemberMock(t)
	defer cleanup()
	repo := NewMemberRepository(db)

	mock.ExpectExec("INSERT INTO members").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	member := &models.Member{StudID: "S-001", Name: "Reader", ParentPhone: 5551234, Age: 12, Grade: "7", Level: models.LevelSecondary, Score: 10, Section: "B"}
	err := repo.Create(context.Background(), member)
	require.NoError(t, err)
	assert.NotEmpty(t, member.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepositoryCreateDuplicateStudID(t *testing.T) {
	db, mock, cleanup := newMemberMock(t)
	defer cleanup()
	repo := NewMemberRepository(db)

	mock.ExpectExec("INSERT INTO members").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "members_stud_id_key"})

	err := repo.Create(context.Background(), &models.Member{StudID: "S-001"})
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepositoryDeleteByStudIDNoRows(t *testing.T) {
	db, mock, cleanup := newMemberMock(t)
	defer cleanup()
	repo := NewMemberRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM members WHERE stud_id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteByStudID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepositoryAgeDistribution(t *testing.T) {
	db, mock, cleanup := newMemberMock(t)
	defer cleanup()
	repo := NewMemberRepository(db)

	rows := sqlmock.NewRows([]string{"age", "count"}).AddRow(11, 3).AddRow(12, 5)
	mock.ExpectQuery("SELECT age, COUNT").WillReturnRows(rows)

	counts, err := repo.AgeDistribution(context.Background())
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, 12, counts[1].Age)
	assert.Equal(t, 5, counts[1].Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
