package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/library-desk-api/internal/models"
	"github.com/noah-isme/library-desk-api/internal/service"
)

type responseEnvelope struct {
	Data  map[string]interface{} `json:"data"`
	Error map[string]interface{} `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

type fakeMemberRepo struct {
	items map[string]*models.Member
}

func (f *fakeMemberRepo) List(ctx context.Context) ([]models.Member, error) {
	var out []models.Member
	for _, m := range f.items {
		out = append(out, *m)
	}
	return out, nil
}

func (f *fakeMemberRepo) FindByStudID(ctx context.Context, studID string) (*models.Member, error) {
	if m, ok := f.items[studID]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeMemberRepo) ExistsSimilar(ctx context.Context, name string, age int, parentPhone int64) (bool, error) {
	return false, nil
}

func (f *fakeMemberRepo) Create(ctx context.Context, member *models.Member) error {
	if member.ID == "" {
		member.ID = "generated"
	}
	cp := *member
	f.items[member.StudID] = &cp
	return nil
}

func (f *fakeMemberRepo) Update(ctx context.Context, member *models.Member) error {
	cp := *member
	f.items[member.StudID] = &cp
	return nil
}

func (f *fakeMemberRepo) DeleteByStudID(ctx context.Context, studID string) error {
	if _, ok := f.items[studID]; !ok {
		return sql.ErrNoRows
	}
	delete(f.items, studID)
	return nil
}

type fakeLoanLookup struct {
	loans map[string]*models.Loan
}

func (f *fakeLoanLookup) FindByMember(ctx context.Context, memberID string) (*models.Loan, error) {
	if loan, ok := f.loans[memberID]; ok {
		cp := *loan
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func newMemberTestHandler(repo *fakeMemberRepo, loans *fakeLoanLookup) *MemberHandler {
	svc := service.NewMemberService(repo, loans, nil, nil)
	stats := service.NewStatisticsService(nil, nil, nil, nil, 0, nil)
	return NewMemberHandler(svc, stats)
}

func TestMemberHandlerCreateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newMemberTestHandler(&fakeMemberRepo{items: map[string]*models.Member{}}, &fakeLoanLookup{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPut, "/add/member", strings.NewReader("{not json"))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Create(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMemberHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &fakeMemberRepo{items: map[string]*models.Member{}}
	handler := newMemberTestHandler(repo, &fakeLoanLookup{})

	body := `{"stud_id":"S-001","name":"Reader","parent_phone":5551234,"age":12,"grade":"7","section":"B"}`
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPut, "/add/member", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Create(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "Secondary", envelope.Data["level"])
	assert.Equal(t, float64(10), envelope.Data["score"])
}

func TestMemberHandlerRevokeBlockedKeepsLegacyBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &fakeMemberRepo{items: map[string]*models.Member{
		"S-001": {StudID: "S-001", Name: "Reader"},
	}}
	loans := &fakeLoanLookup{loans: map[string]*models.Loan{
		"S-001": {ID: "loan-1", MemberID: "S-001"},
	}}
	handler := newMemberTestHandler(repo, loans)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodDelete, "/revoke-member/S-001", nil)
	c.Params = gin.Params{{Key: "id", Value: "S-001"}}

	handler.Revoke(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["err"])
	// Member survives the blocked revoke.
	assert.Contains(t, repo.items, "S-001")
}

func TestMemberHandlerRevoke(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &fakeMemberRepo{items: map[string]*models.Member{
		"S-001": {StudID: "S-001", Name: "Reader"},
	}}
	handler := newMemberTestHandler(repo, &fakeLoanLookup{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodDelete, "/revoke-member/S-001", nil)
	c.Params = gin.Params{{Key: "id", Value: "S-001"}}

	handler.Revoke(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, repo.items, "S-001")
}

func TestMemberHandlerRevokeNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newMemberTestHandler(&fakeMemberRepo{items: map[string]*models.Member{}}, &fakeLoanLookup{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodDelete, "/revoke-member/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Revoke(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
