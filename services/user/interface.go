package user

import (
	"context"
	"time"

	userRepo "shutterbook/database/repository/user"
	"shutterbook/models"
)

// UserService defines business logic for accounts and authentication.
type UserService interface {
	// RegisterUser creates a customer account and returns its token.
	RegisterUser(ctx context.Context, reg models.Registration) (*models.AuthResponse, error)
	// AuthenticateUser verifies credentials and returns the user and token.
	AuthenticateUser(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error)
	// RequestAdminOTP issues a one-time password to an administrator.
	RequestAdminOTP(ctx context.Context, email string) error
	// VerifyAdminOTP exchanges a valid administrator OTP for a token.
	VerifyAdminOTP(ctx context.Context, email, otp string) (*models.AuthResponse, error)
	// GetUserByID retrieves a user by its unique ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	// EnsureAdmin creates or promotes the seeded administrator account.
	EnsureAdmin(ctx context.Context, name, email, password string) error
}

// OTPStore keeps short-lived one-time passwords.
type OTPStore interface {
	Save(ctx context.Context, subject, otp string, ttl time.Duration) error
	Consume(ctx context.Context, subject, otp string) error
}

// OTPSender delivers a one-time password to its owner.
type OTPSender interface {
	SendOTP(ctx context.Context, email, otp string) error
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo     userRepo.UserRepository
	OTP      OTPStore
	Sender   OTPSender
	TokenTTL time.Duration
	OTPTTL   time.Duration
}

const (
	defaultTokenTTL = 72 * time.Hour
	defaultOTPTTL   = 5 * time.Minute
	otpLength       = 6
)

func (s *DefaultUserService) tokenTTL() time.Duration {
	if s.TokenTTL > 0 {
		return s.TokenTTL
	}
	return defaultTokenTTL
}

func (s *DefaultUserService) otpTTL() time.Duration {
	if s.OTPTTL > 0 {
		return s.OTPTTL
	}
	return defaultOTPTTL
}
