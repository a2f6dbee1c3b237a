package meal

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matricare/mcare-api/internal/model"
	"github.com/matricare/mcare-api/internal/service/audit"
	apperrors "github.com/matricare/mcare-api/pkg/errors"
)

type fakeMealRepo struct {
	meals map[uuid.UUID]*model.Meal
}

func newFakeMealRepo() *fakeMealRepo {
	return &fakeMealRepo{meals: make(map[uuid.UUID]*model.Meal)}
}

func (r *fakeMealRepo) Create(_ context.Context, m *model.Meal) error {
	stored := *m
	stored.Nutrients = nil
	stored.Labels = nil
	r.meals[m.ID] = &stored
	return nil
}

func (r *fakeMealRepo) Get(_ context.Context, id uuid.UUID) (*model.Meal, error) {
	m, ok := r.meals[id]
	if !ok {
		return nil, apperrors.NotFound("meal", nil)
	}
	copied := *m
	return &copied, nil
}

func (r *fakeMealRepo) Update(_ context.Context, m *model.Meal) error {
	if _, ok := r.meals[m.ID]; !ok {
		return apperrors.NotFound("meal", nil)
	}
	stored := *m
	stored.Nutrients = nil
	stored.Labels = nil
	r.meals[m.ID] = &stored
	return nil
}

func (r *fakeMealRepo) ListByMother(_ context.Context, motherID uuid.UUID) ([]*model.Meal, error) {
	var out []*model.Meal
	for _, m := range r.meals {
		if m.MotherID == motherID {
			copied := *m
			out = append(out, &copied)
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
	svc := NewService(newFakeMealRepo(), motherRepo, audit.NewService(&fakeAuditRepo{}))
	return svc, motherID
}

func TestCreateMeal(t *testing.T) {
	svc, motherID := newTestService()

	m, err := svc.CreateMeal(context.Background(), motherID, &model.CreateMealRequest{
		MealType: "lunch",
		MealDate: time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC),
		ImageURL: "https://cdn.example.com/meals/abc.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, model.MealStatusPending, m.Status)
	assert.Nil(t, m.Nutrients)
	assert.Nil(t, m.Labels)
}

func TestCreateMealValidation(t *testing.T) {
	svc, motherID := newTestService()

	_, err := svc.CreateMeal(context.Background(), motherID, &model.CreateMealRequest{
		MealType: "brunch",
		MealDate: time.Now(),
		ImageURL: "https://x/y.jpg",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.CreateMeal(context.Background(), motherID, &model.CreateMealRequest{
		MealType: "lunch",
		MealDate: time.Now(),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.CreateMeal(context.Background(), uuid.New(), &model.CreateMealRequest{
		MealType: "lunch",
		MealDate: time.Now(),
		ImageURL: "https://x/y.jpg",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestProcessMeal(t *testing.T) {
	svc, motherID := newTestService()

	created, err := svc.CreateMeal(context.Background(), motherID, &model.CreateMealRequest{
		MealType: "dinner",
		MealDate: time.Now(),
		ImageURL: "https://x/y.jpg",
	})
	require.NoError(t, err)

	processed, err := svc.ProcessMeal(context.Background(), created.ID, &model.ProcessMealRequest{
		Nutrients: model.Nutrients{Kcal: 480, ProteinG: 18, CarbG: 62, FatG: 14},
		Labels:    model.Labels{Tags: []string{"rice", "dal", "vegetables"}, Confidence: 0.92},
	})
	require.NoError(t, err)
	assert.Equal(t, model.MealStatusProcessed, processed.Status)

	// The classifier result must survive the storage round trip.
	got, err := svc.GetMeal(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Nutrients)
	assert.Equal(t, 480.0, got.Nutrients.Kcal)
	require.NotNil(t, got.Labels)
	assert.Equal(t, []string{"rice", "dal", "vegetables"}, got.Labels.Tags)
}
