package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/library-desk-api/internal/models"
	"github.com/noah-isme/library-desk-api/internal/repository"
	appErrors "github.com/noah-isme/library-desk-api/pkg/errors"
)

type memberRepository interface {
	List(ctx context.Context) ([]models.Member, error)
	FindByStudID(ctx context.Context, studID string) (*models.Member, error)
	ExistsSimilar(ctx context.Context, name string, age int, parentPhone int64) (bool, error)
	Create(ctx context.Context, member *models.Member) error
	Update(ctx context.Context, member *models.Member) error
	DeleteByStudID(ctx context.Context, studID string) error
}

type memberLoanLookup interface {
	FindByMember(ctx context.Context, memberID string) (*models.Loan, error)
}

// RegisterMemberRequest holds the payload for registering a patron.
type RegisterMemberRequest struct {
	StudID      string `json:"stud_id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	ParentPhone int64  `json:"parent_phone" validate:"required"`
	Age         int    `json:"age" validate:"required,gt=0"`
	Grade       string `json:"grade" validate:"required"`
	Section     string `json:"section" validate:"required"`
}

// UpdateMemberRequest holds the partial-update payload. Nil fields are left
// untouched; a grade change recomputes the level bucket.
type UpdateMemberRequest struct {
	Name        *string `json:"name"`
	ParentPhone *int64  `json:"parent_phone"`
	Age         *int    `json:"age"`
	Grade       *string `json:"grade"`
	Section     *string `json:"section"`
	Score       *int    `json:"score"`
}

func (r UpdateMemberRequest) empty() bool {
	return r.Name == nil && r.ParentPhone == nil && r.Age == nil &&
		r.Grade == nil && r.Section == nil && r.Score == nil
}

// RevokeResult distinguishes a completed revocation from one blocked by an
// open loan.
type RevokeResult struct {
	Blocked bool
	Reason  string
}

// MemberService handles the member directory use-cases.
type MemberService struct {
	repo      memberRepository
	loans     memberLoanLookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMemberService constructs the member service.
func NewMemberService(repo memberRepository, loans memberLoanLookup, validate *validator.Validate, logger *zap.Logger) *MemberService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemberService{repo: repo, loans: loans, validator: validate, logger: logger}
}

// List returns all registered members.
func (s *MemberService) List(ctx context.Context) ([]models.Member, error) {
	members, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list members")
	}
	return members, nil
}

// Register creates a new member. A registration matching an existing member's
// name, age and parent phone is treated as a duplicate identity even when it
// arrives under a fresh stud_id.
func (s *MemberService) Register(ctx context.Context, req RegisterMemberRequest) (*models.Member, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "required member fields are missing")
	}
	name := strings.TrimSpace(req.Name)
	section := strings.TrimSpace(req.Section)
	if name == "" || section == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "name and section cannot be blank")
	}

	similar, err := s.repo.ExistsSimilar(ctx, name, req.Age, req.ParentPhone)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing members")
	}
	if similar {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a member with the same name, age and parent phone already exists")
	}

	member := &models.Member{
		StudID:      req.StudID,
		Name:        name,
		ParentPhone: req.ParentPhone,
		Age:         req.Age,
		Grade:       req.Grade,
		Level:       models.LevelForGrade(req.Grade),
		Score:       models.InitialMemberScore,
		Section:     section,
	}
	if err := s.repo.Create(ctx, member); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("a member with stud_id %s already exists", req.StudID))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to register member")
	}
	return member, nil
}

// Update applies a partial edit to the member identified by stud_id.
func (s *MemberService) Update(ctx context.Context, studID string, req UpdateMemberRequest) (*models.Member, error) {
	if req.empty() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no update fields provided")
	}

	member, err := s.repo.FindByStudID(ctx, studID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load member")
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "name cannot be blank")
		}
		member.Name = name
	}
	if req.ParentPhone != nil {
		member.ParentPhone = *req.ParentPhone
	}
	if req.Age != nil {
		if *req.Age <= 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "age must be a positive number")
		}
		member.Age = *req.Age
	}
	if req.Grade != nil {
		member.Grade = *req.Grade
		member.Level = models.LevelForGrade(*req.Grade)
	}
	if req.Section != nil {
		section := strings.TrimSpace(*req.Section)
		if section == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "section cannot be blank")
		}
		member.Section = section
	}
	if req.Score != nil {
		member.Score = *req.Score
	}

	if err := s.repo.Update(ctx, member); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update member")
	}
	return member, nil
}

// Revoke deletes a member unless an open loan exists for the stud_id. Any
// loan row counts as active: returning a book deletes its record, so mere
// existence implies an open borrow.
func (s *MemberService) Revoke(ctx context.Context, studID string) (*RevokeResult, error) {
	loan, err := s.loans.FindByMember(ctx, studID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check open loans")
	}
	if loan != nil {
		return &RevokeResult{
			Blocked: true,
			Reason:  "member has an active book loan and cannot be revoked",
		}, nil
	}

	if err := s.repo.DeleteByStudID(ctx, studID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to revoke member")
	}
	return &RevokeResult{}, nil
}
