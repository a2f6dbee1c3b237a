package alert

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matricare/mcare-api/internal/model"
	"github.com/matricare/mcare-api/internal/service/audit"
	apperrors "github.com/matricare/mcare-api/pkg/errors"
)

type fakeAlertRepo struct {
	alerts map[uuid.UUID]*model.Alert
}

func newFakeAlertRepo() *fakeAlertRepo {
	return &fakeAlertRepo{alerts: make(map[uuid.UUID]*model.Alert)}
}

func (r *fakeAlertRepo) Create(_ context.Context, a *model.Alert) error {
	r.alerts[a.ID] = a
	return nil
}

func (r *fakeAlertRepo) Get(_ context.Context, id uuid.UUID) (*model.Alert, error) {
	a, ok := r.alerts[id]
	if !ok {
		return nil, apperrors.NotFound("alert", nil)
	}
	return a, nil
}

func (r *fakeAlertRepo) Update(_ context.Context, a *model.Alert) error {
	r.alerts[a.ID] = a
	return nil
}

func (r *fakeAlertRepo) ListByMother(_ context.Context, motherID uuid.UUID) ([]*model.Alert, error) {
	var out []*model.Alert
	for _, a := range r.alerts {
		if a.MotherID == motherID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeMotherRepo struct {
	mothers map[uuid.UUID]*model.Mother
}

func (r *fakeMotherRepo) Register(_ context.Context, _ *model.User, _ *model.Mother) error {
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

func (r *fakeMotherRepo) Update(_ context.Context, _ *model.Mother) error { return nil }

func (r *fakeMotherRepo) List(_ context.Context, _ *model.MotherFilters) ([]*model.Mother, error) {
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

func newTestService() (*Service, uuid.UUID) {
	motherID := uuid.New()
	motherRepo := &fakeMotherRepo{mothers: map[uuid.UUID]*model.Mother{
		motherID: {Base: model.Base{ID: motherID}},
	}}
	svc := NewService(newFakeAlertRepo(), motherRepo, audit.NewService(&fakeAuditRepo{}))
	return svc, motherID
}

func TestCreateAlertDefaultSeverity(t *testing.T) {
	svc, motherID := newTestService()

	a, err := svc.CreateAlert(context.Background(), motherID, &model.CreateAlertRequest{
		Type:    "adherence",
		Message: "No meals logged for 3 days",
	})
	require.NoError(t, err)
	assert.Equal(t, model.AlertSeverityLow, a.Severity)
	assert.False(t, a.Resolved)
	assert.Nil(t, a.ResolvedAt)
}

func TestCreateAlertValidation(t *testing.T) {
	svc, motherID := newTestService()

	_, err := svc.CreateAlert(context.Background(), motherID, &model.CreateAlertRequest{
		Type: "weather", Message: "x",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.CreateAlert(context.Background(), motherID, &model.CreateAlertRequest{
		Type: "risk", Severity: "extreme", Message: "x",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.CreateAlert(context.Background(), motherID, &model.CreateAlertRequest{Type: "risk"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestResolveAlertIdempotent(t *testing.T) {
	svc, motherID := newTestService()

	a, err := svc.CreateAlert(context.Background(), motherID, &model.CreateAlertRequest{
		Type: "risk", Severity: "high", Message: "Critical risk status",
	})
	require.NoError(t, err)

	resolved, err := svc.ResolveAlert(context.Background(), a.ID)
	require.NoError(t, err)
	assert.True(t, resolved.Resolved)
	require.NotNil(t, resolved.ResolvedAt)
	firstResolvedAt := *resolved.ResolvedAt

	// A second resolve is a no-op and keeps the original timestamp.
	again, err := svc.ResolveAlert(context.Background(), a.ID)
	require.NoError(t, err)
	assert.True(t, again.Resolved)
	assert.Equal(t, firstResolvedAt, *again.ResolvedAt)
}
