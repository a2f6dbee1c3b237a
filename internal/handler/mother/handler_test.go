package mother

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matricare/mcare-api/internal/middleware"
	"github.com/matricare/mcare-api/internal/model"
	"github.com/matricare/mcare-api/internal/repository"
	"github.com/matricare/mcare-api/internal/service/audit"
	"github.com/matricare/mcare-api/internal/service/mother"
	apperrors "github.com/matricare/mcare-api/pkg/errors"
)

type fakeMotherRepo struct {
	mothers map[uuid.UUID]*model.Mother
	phones  map[string]bool
}

func newFakeMotherRepo() *fakeMotherRepo {
	return &fakeMotherRepo{
		mothers: make(map[uuid.UUID]*model.Mother),
		phones:  make(map[string]bool),
	}
}

func (r *fakeMotherRepo) Register(_ context.Context, user *model.User, m *model.Mother) error {
	if r.phones[user.Phone] {
		return apperrors.Conflict("phone number already registered", nil)
	}
	r.phones[user.Phone] = true
	r.mothers[m.ID] = m
	return nil
}

func (r *fakeMotherRepo) Get(_ context.Context, id uuid.UUID) (*model.Mother, error) {
	m, ok := r.mothers[id]
	if !ok {
		return nil, apperrors.NotFound("mother", nil)
	}
	return m, nil
}

func (r *fakeMotherRepo) GetByUserID(_ context.Context, _ uuid.UUID) (*model.Mother, error) {
	return nil, apperrors.NotFound("mother", nil)
}

func (r *fakeMotherRepo) Update(_ context.Context, m *model.Mother) error {
	r.mothers[m.ID] = m
	return nil
}

func (r *fakeMotherRepo) List(_ context.Context, _ *model.MotherFilters) ([]*model.Mother, error) {
	out := make([]*model.Mother, 0, len(r.mothers))
	for _, m := range r.mothers {
		out = append(out, m)
	}
	return out, nil
}

type fakeUserRepo struct{}

func (r *fakeUserRepo) Create(_ context.Context, _ *model.User) error { return nil }
func (r *fakeUserRepo) Get(_ context.Context, _ uuid.UUID) (*model.User, error) {
	return nil, apperrors.NotFound("user", nil)
}
func (r *fakeUserRepo) GetByPhone(_ context.Context, _ string) (*model.User, error) {
	return nil, apperrors.NotFound("user", nil)
}
func (r *fakeUserRepo) Update(_ context.Context, _ *model.User) error { return nil }
func (r *fakeUserRepo) List(_ context.Context, _ *model.UserFilters) ([]*model.User, error) {
	return nil, nil
}

type fakeAuditRepo struct{}

func (r *fakeAuditRepo) Create(_ context.Context, _ *model.AuditLog) error { return nil }
func (r *fakeAuditRepo) ListByEntity(_ context.Context, _ string, _ uuid.UUID) ([]*model.AuditLog, error) {
	return nil, nil
}
func (r *fakeAuditRepo) ListByActor(_ context.Context, _ uuid.UUID) ([]*model.AuditLog, error) {
	return nil, nil
}

type fakeOutboxRepo struct {
	events []*model.OutboxEvent
}

func (r *fakeOutboxRepo) Create(_ context.Context, e *model.OutboxEvent) error {
	r.events = append(r.events, e)
	return nil
}
func (r *fakeOutboxRepo) GetPendingEvents(_ context.Context, _ int) ([]*model.OutboxEvent, error) {
	return r.events, nil
}
func (r *fakeOutboxRepo) BeginTx(_ context.Context) (repository.Tx, error) { return nil, nil }
func (r *fakeOutboxRepo) ClaimPendingEvents(_ context.Context, _ repository.Tx, _ int) ([]*model.OutboxEvent, error) {
	return r.events, nil
}
func (r *fakeOutboxRepo) UpdateStatusTx(_ context.Context, _ repository.Tx, _ uuid.UUID, _ string, _ *string, _ *time.Time) error {
	return nil
}
func (r *fakeOutboxRepo) DeleteProcessedBefore(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

func setupRouter() (*gin.Engine, *fakeOutboxRepo) {
	gin.SetMode(gin.TestMode)
	middleware.RegisterValidators()

	svc := mother.NewService(newFakeMotherRepo(), &fakeUserRepo{}, audit.NewService(&fakeAuditRepo{}))
	outbox := &fakeOutboxRepo{}
	h := NewHandler(svc, outbox)

	engine := gin.New()
	api := engine.Group("/api")
	h.RegisterPublicRoutes(api)
	h.RegisterProtectedRoutes(api)
	return engine, outbox
}

func postJSON(engine *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRegisterReturnsContractBody(t *testing.T) {
	engine, outbox := setupRouter()

	w := postJSON(engine, "/api/mothers", map[string]interface{}{
		"name":                 "Sita Devi",
		"phone":                "+919876543210",
		"expectedDeliveryDate": "2026-12-01",
		"address":              "Ward 4, Rampur",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		MotherID string `json:"motherId"`
		Status   string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "registered", resp.Status)

	id, err := uuid.Parse(resp.MotherID)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)

	require.Len(t, outbox.events, 1)
	assert.Equal(t, "MOTHER_REGISTERED", outbox.events[0].EventType)
}

func TestRegisterDuplicatePhoneConflict(t *testing.T) {
	engine, _ := setupRouter()

	body := map[string]interface{}{
		"name":                 "Sita Devi",
		"phone":                "+919876543210",
		"expectedDeliveryDate": "2026-12-01",
	}

	first := postJSON(engine, "/api/mothers", body)
	require.Equal(t, http.StatusCreated, first.Code)

	second := postJSON(engine, "/api/mothers", body)
	assert.Equal(t, http.StatusConflict, second.Code)
	assert.Contains(t, second.Body.String(), "phone number already registered")
}

func TestRegisterValidationErrors(t *testing.T) {
	engine, outbox := setupRouter()

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing phone", map[string]interface{}{"name": "A", "expectedDeliveryDate": "2026-12-01"}},
		{"bad date", map[string]interface{}{"name": "A", "phone": "+91", "expectedDeliveryDate": "soon"}},
		{"negative parity", map[string]interface{}{"name": "A", "phone": "+91", "expectedDeliveryDate": "2026-12-01", "parity": -2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(engine, "/api/mothers", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	// Failed registrations emit no events.
	assert.Empty(t, outbox.events)
}

func TestGetMotherNotFound(t *testing.T) {
	engine, _ := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/mothers/"+uuid.New().String(), nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetMotherInvalidID(t *testing.T) {
	engine, _ := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/mothers/not-a-uuid", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
