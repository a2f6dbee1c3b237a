package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/matricare/mcare-api/internal/model"
	"github.com/matricare/mcare-api/pkg/auth"
	apperrors "github.com/matricare/mcare-api/pkg/errors"
	"github.com/matricare/mcare-api/pkg/security"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func (r *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
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

func (r *fakeUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, _ *model.UserFilters) ([]*model.User, error) {
	return nil, nil
}

func newTestService(t *testing.T) (*Service, *model.User) {
	t.Helper()

	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("correct-horse")
	require.NoError(t, err)

	user := &model.User{
		Base:         model.Base{ID: uuid.New()},
		Name:         "Dr. Rao",
		Phone:        "+919812345678",
		PasswordHash: hash,
		Role:         model.RoleDoctor,
		IsActive:     true,
	}

	repo := &fakeUserRepo{users: map[uuid.UUID]*model.User{user.ID: user}}
	jwtSvc := auth.NewJWTService("test-secret", time.Hour)
	return NewService(repo, hasher, jwtSvc), user
}

func TestLogin(t *testing.T) {
	svc, user := newTestService(t)

	result, err := svc.Login(context.Background(), user.Phone, "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, user.ID, result.User.ID)

	claims, err := svc.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "doctor", claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, user := newTestService(t)

	_, err := svc.Login(context.Background(), user.Phone, "wrong")
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
}

func TestLoginUnknownPhone(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Login(context.Background(), "+910000000000", "whatever")
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	// Unknown phone must not be distinguishable from a wrong password.
	assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
}

func TestLoginInactiveAccount(t *testing.T) {
	svc, user := newTestService(t)
	user.IsActive = false

	_, err := svc.Login(context.Background(), user.Phone, "correct-horse")
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
}

func TestOTPFlow(t *testing.T) {
	svc, user := newTestService(t)

	code, err := svc.RequestOTP(context.Background(), user.Phone)
	require.NoError(t, err)
	assert.Len(t, code, otpDigits)

	result, err := svc.VerifyOTP(context.Background(), user.Phone, code)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)

	// Codes are single use.
	_, err = svc.VerifyOTP(context.Background(), user.Phone, code)
	require.Error(t, err)
}

func TestVerifyOTPWrongCode(t *testing.T) {
	svc, user := newTestService(t)

	_, err := svc.RequestOTP(context.Background(), user.Phone)
	require.NoError(t, err)

	_, err = svc.VerifyOTP(context.Background(), user.Phone, "000000x")
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
}
