package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/matricare/mcare-api/internal/model"
	"github.com/matricare/mcare-api/internal/repository"
	"github.com/matricare/mcare-api/pkg/auth"
	apperrors "github.com/matricare/mcare-api/pkg/errors"
	"github.com/matricare/mcare-api/pkg/security"
)

const (
	otpTTL    = 5 * time.Minute
	otpDigits = 6
)

// Service authenticates users by phone. Accounts with a password hash
// log in with a password; the rest use one-time codes.
type Service struct {
	userRepo repository.UserRepository
	hasher   security.PasswordHasher
	jwtSvc   auth.JWTService
	otpStore *cache.Cache
}

func NewService(userRepo repository.UserRepository, hasher security.PasswordHasher, jwtSvc auth.JWTService) *Service {
	return &Service{
		userRepo: userRepo,
		hasher:   hasher,
		jwtSvc:   jwtSvc,
		otpStore: cache.New(otpTTL, 10*time.Minute),
	}
}

type LoginResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Login verifies phone + password.
func (s *Service) Login(ctx context.Context, phone, password string) (*LoginResult, error) {
	if phone == "" || password == "" {
		return nil, apperrors.Validation("phone and password are required")
	}

	user, err := s.userRepo.GetByPhone(ctx, phone)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.Unauthorized(err)
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.Unauthorized(fmt.Errorf("account inactive"))
	}
	if user.PasswordHash == "" {
		return nil, apperrors.Validation("account uses OTP login")
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, apperrors.Unauthorized(err)
	}

	return s.issueToken(user)
}

// RequestOTP generates a one-time code for the phone number and caches
// it for a short window. Delivery rides the notification pipeline; the
// code itself never leaves the server.
func (s *Service) RequestOTP(ctx context.Context, phone string) (string, error) {
	if phone == "" {
		return "", apperrors.Validation("phone is required")
	}

	user, err := s.userRepo.GetByPhone(ctx, phone)
	if err != nil {
		return "", err
	}
	if !user.IsActive {
		return "", apperrors.Unauthorized(fmt.Errorf("account inactive"))
	}

	code, err := generateOTP()
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}

	s.otpStore.Set(phone, code, otpTTL)
	return code, nil
}

// VerifyOTP checks the cached code and issues a token on match. Codes
// are single use.
func (s *Service) VerifyOTP(ctx context.Context, phone, code string) (*LoginResult, error) {
	if phone == "" || code == "" {
		return nil, apperrors.Validation("phone and code are required")
	}

	cached, found := s.otpStore.Get(phone)
	if !found || cached.(string) != code {
		return nil, apperrors.Unauthorized(fmt.Errorf("invalid or expired code"))
	}
	s.otpStore.Delete(phone)

	user, err := s.userRepo.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}

	return s.issueToken(user)
}

func (s *Service) ValidateToken(token string) (*auth.TokenClaims, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}
	return claims, nil
}

func (s *Service) issueToken(user *model.User) (*LoginResult, error) {
	token, err := s.jwtSvc.GenerateToken(user.ID, user.Phone, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &LoginResult{Token: token, User: user}, nil
}

func generateOTP() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < otpDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpDigits, n), nil
}
