package models

import "time"

// SubjectCount is one bucket of the shelf subject distribution.
type SubjectCount struct {
	Subject string `db:"subject" json:"subject"`
	Count   int    `db:"count" json:"count"`
}

// DurationCount is one bucket of the active-loan duration distribution.
type DurationCount struct {
	Duration string `db:"duration" json:"duration"`
	Count    int    `db:"count" json:"count"`
}

// AgeCount is one bucket of the member age distribution.
type AgeCount struct {
	Age   int `db:"age" json:"age"`
	Count int `db:"count" json:"count"`
}

// GradeCount is one bucket of the member grade distribution.
type GradeCount struct {
	Grade string `db:"grade" json:"grade"`
	Count int    `db:"count" json:"count"`
}

// LibraryStatistics is the aggregate payload behind the statistics dashboard.
type LibraryStatistics struct {
	TotalLoans               int             `json:"total_loans"`
	TotalMembers             int             `json:"total_members"`
	TotalShelfItems          int             `json:"total_shelf_items"`
	OverdueLoans             int             `json:"overdue_loans"`
	ShelfSubjectDistribution []SubjectCount  `json:"shelf_subject_distribution"`
	ShelfFirstSubjects       []SubjectCount  `json:"shelf_first_subjects"`
	LoansByDuration          []DurationCount `json:"loans_by_duration"`
	MembersByAge             []AgeCount      `json:"members_by_age"`
	MembersByGrade           []GradeCount    `json:"members_by_grade"`
	LastUpdated              time.Time       `json:"last_updated"`
}
