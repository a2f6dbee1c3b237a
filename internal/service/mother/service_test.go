package mother

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

type fakeMotherRepo struct {
	mothers     map[uuid.UUID]*model.Mother
	users       map[uuid.UUID]*model.User
	registerErr error
}

func newFakeMotherRepo() *fakeMotherRepo {
	return &fakeMotherRepo{
		mothers: make(map[uuid.UUID]*model.Mother),
		users:   make(map[uuid.UUID]*model.User),
	}
}

func (r *fakeMotherRepo) Register(_ context.Context, user *model.User, mother *model.Mother) error {
	if r.registerErr != nil {
		return r.registerErr
	}
	r.users[user.ID] = user
	r.mothers[mother.ID] = mother
	return nil
}

func (r *fakeMotherRepo) Get(_ context.Context, id uuid.UUID) (*model.Mother, error) {
	m, ok := r.mothers[id]
	if !ok {
		return nil, apperrors.NotFound("mother", nil)
	}
	return m, nil
}

func (r *fakeMotherRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*model.Mother, error) {
	for _, m := range r.mothers {
		if m.UserID == userID {
			return m, nil
		}
	}
	return nil, apperrors.NotFound("mother", nil)
}

func (r *fakeMotherRepo) Update(_ context.Context, mother *model.Mother) error {
	if _, ok := r.mothers[mother.ID]; !ok {
		return apperrors.NotFound("mother", nil)
	}
	r.mothers[mother.ID] = mother
	return nil
}

func (r *fakeMotherRepo) List(_ context.Context, _ *model.MotherFilters) ([]*model.Mother, error) {
	out := make([]*model.Mother, 0, len(r.mothers))
	for _, m := range r.mothers {
		out = append(out, m)
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.NotFound("user", nil)
	}
	return u, nil
}

func (r *fakeUserRepo) GetByPhone(_ context.Context, phone string) (*model.User, error) {
	for _, u := range r.users {
		if u.Phone == phone {
			return u, nil
		}
	}
	return nil, apperrors.NotFound("user", nil)
}

func (r *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, _ *model.UserFilters) ([]*model.User, error) {
	out := make([]*model.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

type fakeAuditRepo struct {
	logs []*model.AuditLog
}

func (r *fakeAuditRepo) Create(_ context.Context, log *model.AuditLog) error {
	r.logs = append(r.logs, log)
	return nil
}

func (r *fakeAuditRepo) ListByEntity(_ context.Context, _ string, _ uuid.UUID) ([]*model.AuditLog, error) {
	return r.logs, nil
}

func (r *fakeAuditRepo) ListByActor(_ context.Context, _ uuid.UUID) ([]*model.AuditLog, error) {
	return r.logs, nil
}

func newTestService() (*Service, *fakeMotherRepo, *fakeUserRepo, *fakeAuditRepo) {
	motherRepo := newFakeMotherRepo()
	userRepo := newFakeUserRepo()
	auditRepo := &fakeAuditRepo{}
	svc := NewService(motherRepo, userRepo, audit.NewService(auditRepo))
	return svc, motherRepo, userRepo, auditRepo
}

func TestRegisterMother(t *testing.T) {
	svc, motherRepo, _, auditRepo := newTestService()

	m, err := svc.RegisterMother(context.Background(), &model.RegisterMotherRequest{
		Name:                 "Sita Devi",
		Phone:                "+919876543210",
		ExpectedDeliveryDate: "2026-12-01",
		Address:              "Ward 4, Rampur",
	})
	require.NoError(t, err)

	assert.Equal(t, model.RiskStatusNormal, m.RiskStatus)
	assert.Equal(t, model.MotherStatusRegistered, m.Status)
	assert.Equal(t, 0, m.Parity)
	assert.Equal(t, 2026, m.ExpectedDeliveryDate.Year())

	// The backing user must be created in the same call.
	user, ok := motherRepo.users[m.UserID]
	require.True(t, ok)
	assert.Equal(t, model.RoleMother, user.Role)
	assert.Equal(t, "Sita Devi", user.Name)
	assert.True(t, user.IsActive)

	require.Len(t, auditRepo.logs, 1)
	assert.Equal(t, model.AuditActionRegister, auditRepo.logs[0].Action)
}

func TestRegisterMotherRFC3339Date(t *testing.T) {
	svc, _, _, _ := newTestService()

	m, err := svc.RegisterMother(context.Background(), &model.RegisterMotherRequest{
		Name:                 "Gita",
		Phone:                "+919876500000",
		ExpectedDeliveryDate: "2026-11-15T00:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, 11, int(m.ExpectedDeliveryDate.Month()))
}

func TestRegisterMotherValidation(t *testing.T) {
	svc, motherRepo, _, _ := newTestService()

	tests := []struct {
		name string
		req  model.RegisterMotherRequest
	}{
		{"missing name", model.RegisterMotherRequest{Phone: "+91", ExpectedDeliveryDate: "2026-12-01"}},
		{"missing phone", model.RegisterMotherRequest{Name: "A", ExpectedDeliveryDate: "2026-12-01"}},
		{"bad date", model.RegisterMotherRequest{Name: "A", Phone: "+91", ExpectedDeliveryDate: "next spring"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RegisterMother(context.Background(), &tt.req)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
		})
	}

	negative := -1
	_, err := svc.RegisterMother(context.Background(), &model.RegisterMotherRequest{
		Name: "A", Phone: "+91", ExpectedDeliveryDate: "2026-12-01", Parity: &negative,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	// Nothing should be persisted on validation failure.
	assert.Empty(t, motherRepo.mothers)
	assert.Empty(t, motherRepo.users)
}

func TestRegisterMotherDuplicatePhone(t *testing.T) {
	svc, motherRepo, _, _ := newTestService()
	motherRepo.registerErr = apperrors.Conflict("phone number already registered", nil)

	_, err := svc.RegisterMother(context.Background(), &model.RegisterMotherRequest{
		Name:                 "Sita",
		Phone:                "+919876543210",
		ExpectedDeliveryDate: "2026-12-01",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestAssignCaregivers(t *testing.T) {
	svc, motherRepo, userRepo, _ := newTestService()

	m := &model.Mother{Base: model.Base{ID: uuid.New()}, Status: model.MotherStatusRegistered}
	motherRepo.mothers[m.ID] = m

	asha := &model.User{Base: model.Base{ID: uuid.New()}, Role: model.RoleASHA}
	doctor := &model.User{Base: model.Base{ID: uuid.New()}, Role: model.RoleDoctor}
	userRepo.users[asha.ID] = asha
	userRepo.users[doctor.ID] = doctor

	updated, err := svc.AssignCaregivers(context.Background(), m.ID, &model.AssignCaregiversRequest{
		AshaID:   &asha.ID,
		DoctorID: &doctor.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, asha.ID, *updated.AshaID)
	assert.Equal(t, doctor.ID, *updated.DoctorID)
}

func TestAssignCaregiversWrongRole(t *testing.T) {
	svc, motherRepo, userRepo, _ := newTestService()

	m := &model.Mother{Base: model.Base{ID: uuid.New()}}
	motherRepo.mothers[m.ID] = m

	notADoctor := &model.User{Base: model.Base{ID: uuid.New()}, Role: model.RoleASHA}
	userRepo.users[notADoctor.ID] = notADoctor

	_, err := svc.AssignCaregivers(context.Background(), m.ID, &model.AssignCaregiversRequest{
		DoctorID: &notADoctor.ID,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestUpdateRiskStatus(t *testing.T) {
	svc, motherRepo, _, _ := newTestService()

	m := &model.Mother{Base: model.Base{ID: uuid.New()}, RiskStatus: model.RiskStatusNormal}
	motherRepo.mothers[m.ID] = m

	updated, err := svc.UpdateRiskStatus(context.Background(), m.ID, &model.UpdateRiskStatusRequest{RiskStatus: "critical"})
	require.NoError(t, err)
	assert.Equal(t, model.RiskStatusCritical, updated.RiskStatus)

	_, err = svc.UpdateRiskStatus(context.Background(), m.ID, &model.UpdateRiskStatusRequest{RiskStatus: "elevated"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestArchiveMother(t *testing.T) {
	svc, motherRepo, _, _ := newTestService()

	m := &model.Mother{Base: model.Base{ID: uuid.New()}, Status: model.MotherStatusRegistered}
	motherRepo.mothers[m.ID] = m

	archived, err := svc.ArchiveMother(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, model.MotherStatusArchived, archived.Status)

	// Archived records stay readable.
	got, err := svc.GetMother(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, model.MotherStatusArchived, got.Status)
}

func TestGetMotherNotFound(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.GetMother(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestListMothersInvalidFilter(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.ListMothers(context.Background(), &model.MotherFilters{RiskStatus: "severe"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}
