package models

import (
	"strconv"
	"time"
)

// Member level buckets derived from the numeric grade.
const (
	LevelPrimary    = "Primary"
	LevelSecondary  = "Secondary"
	LevelHighSchool = "High School"
	LevelUndefined  = "Undefined"
)

// InitialMemberScore is assigned to every newly registered member.
const InitialMemberScore = 10

// Member is a registered library patron. StudID is the stable external
// identifier used by the desk; it is distinct from the database id.
type Member struct {
	ID          string    `db:"id" json:"id"`
	StudID      string    `db:"stud_id" json:"stud_id"`
	Name        string    `db:"name" json:"name"`
	ParentPhone int64     `db:"parent_phone" json:"parent_phone"`
	Age         int       `db:"age" json:"age"`
	Grade       string    `db:"grade" json:"grade"`
	Level       string    `db:"level" json:"level"`
	Score       int       `db:"score" json:"score"`
	Section     string    `db:"section" json:"section"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// LevelForGrade maps a grade value onto a school level bucket. Non-numeric or
// out-of-range grades map to Undefined.
func LevelForGrade(grade string) string {
	n, err := strconv.Atoi(grade)
	if err != nil {
		return LevelUndefined
	}
	switch {
	case n >= 1 && n <= 5:
		return LevelPrimary
	case n >= 6 && n <= 8:
		return LevelSecondary
	case n >= 9 && n <= 12:
		return LevelHighSchool
	}
	return LevelUndefined
}
