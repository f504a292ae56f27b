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

// MemberRepository manages persistence for the member directory.
type MemberRepository struct {
	db *sqlx.DB
}

// NewMemberRepository constructs a MemberRepository.
func NewMemberRepository(db *sqlx.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

const memberColumns = "id, stud_id, name, parent_phone, age, grade, level, score, section, created_at, updated_at"

// List returns all registered members, newest first.
func (r *MemberRepository) List(ctx context.Context) ([]models.Member, error) {
	query := fmt.Sprintf("SELECT %s FROM members ORDER BY created_at DESC", memberColumns)
	var members []models.Member
	if err := r.db.SelectContext(ctx, &members, query); err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

// FindByStudID fetches a member by the stable external identifier.
func (r *MemberRepository) FindByStudID(ctx context.Context, studID string) (*models.Member, error) {
	query := fmt.Sprintf("SELECT %s FROM members WHERE stud_id = $1", memberColumns)
	var member models.Member
	if err := r.db.GetContext(ctx, &member, query, studID); err != nil {
		return nil, err
	}
	return &member, nil
}

// ExistsSimilar checks for an existing member with the same name
// (case-insensitive), age and parent phone, the desk's duplicate-identity
// heuristic for registrations arriving under a fresh stud_id.
func (r *MemberRepository) ExistsSimilar(ctx context.Context, name string, age int, parentPhone int64) (bool, error) {
	var exists int
	err := r.db.GetContext(ctx, &exists,
		"SELECT 1 FROM members WHERE LOWER(name) = LOWER($1) AND age = $2 AND parent_phone = $3 LIMIT 1",
		name, age, parentPhone)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check similar member: %w", err)
	}
	return true, nil
}

// Create inserts a new member. stud_id carries a unique index.
func (r *MemberRepository) Create(ctx context.Context, member *models.Member) error {
	if member.ID == "" {
		member.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if member.CreatedAt.IsZero() {
		member.CreatedAt = now
	}
	member.UpdatedAt = now
	const query = `INSERT INTO members (id, stud_id, name, parent_phone, age, grade, level, score, section, created_at, updated_at)
        VALUES (:id, :stud_id, :name, :parent_phone, :age, :grade, :level, :score, :section, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, member); err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("create member: %w", err)
	}
	return nil
}

// Update overwrites a member row identified by stud_id.
func (r *MemberRepository) Update(ctx context.Context, member *models.Member) error {
	member.UpdatedAt = time.Now().UTC()
	const query = `UPDATE members SET name = :name, parent_phone = :parent_phone, age = :age,
        grade = :grade, level = :level, score = :score, section = :section, updated_at = :updated_at
        WHERE stud_id = :stud_id`
	if _, err := r.db.NamedExecContext(ctx, query, member); err != nil {
		return fmt.Errorf("update member: %w", err)
	}
	return nil
}

// DeleteByStudID removes a member. Returns sql.ErrNoRows when no row matched.
func (r *MemberRepository) DeleteByStudID(ctx context.Context, studID string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM members WHERE stud_id = $1", studID)
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete member rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Count returns the total number of registered members.
func (r *MemberRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM members"); err != nil {
		return 0, fmt.Errorf("count members: %w", err)
	}
	return total, nil
}

// AgeDistribution groups members by age.
func (r *MemberRepository) AgeDistribution(ctx context.Context) ([]models.AgeCount, error) {
	const query = `SELECT age, COUNT(*) AS count FROM members
        WHERE age > 0 GROUP BY age ORDER BY age ASC`
	var counts []models.AgeCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("member age distribution: %w", err)
	}
	return counts, nil
}

// GradeDistribution groups members by grade.
func (r *MemberRepository) GradeDistribution(ctx context.Context) ([]models.GradeCount, error) {
	const query = `SELECT grade, COUNT(*) AS count FROM members
        WHERE grade <> '' GROUP BY grade ORDER BY grade ASC`
	var counts []models.GradeCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("member grade distribution: %w", err)
	}
	return counts, nil
}
