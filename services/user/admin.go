package user

import (
	"context"
	"fmt"

	"shutterbook/models"
	"shutterbook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// LogOTPSender writes OTPs to the log. It stands in for a mail or SMS gateway.
type LogOTPSender struct{}

func (LogOTPSender) SendOTP(_ context.Context, email, otp string) error {
	utils.GetLogger().Sugar().Infof("Sending admin OTP to %s: %s", email, otp)
	return nil
}

// RequestAdminOTP issues an OTP when the email belongs to an administrator.
// Unknown or non-admin emails succeed silently so the endpoint cannot be used to probe accounts.
func (s *DefaultUserService) RequestAdminOTP(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return newAuthError(CodeValidation, err.Error())
	}

	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		utils.GetLogger().Error("RequestAdminOTP: failed to fetch user", zap.Error(err))
		return newAuthError(CodeInternal, "could not issue OTP, please try again")
	}
	if u == nil || u.Role != models.RoleAdmin {
		utils.GetLogger().Warn("RequestAdminOTP: ignored for non-admin email", zap.String("email", email))
		return nil
	}

	otp, err := utils.GenerateNumericOTP(otpLength)
	if err != nil {
		return newAuthError(CodeInternal, "could not issue OTP, please try again")
	}
	if err := s.OTP.Save(ctx, adminOTPSubject(email), otp, s.otpTTL()); err != nil {
		utils.GetLogger().Error("RequestAdminOTP: failed to store OTP", zap.Error(err))
		return newAuthError(CodeInternal, "could not issue OTP, please try again")
	}
	if err := s.Sender.SendOTP(ctx, email, otp); err != nil {
		utils.GetLogger().Error("RequestAdminOTP: failed to send OTP", zap.Error(err))
		return newAuthError(CodeInternal, "could not send OTP, please try again")
	}
	utils.GetLogger().Info("Admin OTP issued", zap.String("userID", u.ID), zap.String("expiresIn", otpExpiryText(s.otpTTL())))
	return nil
}

// VerifyAdminOTP validates the OTP and signs an administrator token.
func (s *DefaultUserService) VerifyAdminOTP(ctx context.Context, email, otp string) (*models.AuthResponse, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, newAuthError(CodeValidation, err.Error())
	}
	if err := s.OTP.Consume(ctx, adminOTPSubject(email), otp); err != nil {
		return nil, newAuthError(CodeOTP, "invalid or expired OTP")
	}

	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		utils.GetLogger().Error("VerifyAdminOTP: failed to fetch user", zap.Error(err))
		return nil, newAuthError(CodeInternal, "authentication failed, please try again")
	}
	if u == nil || u.Role != models.RoleAdmin {
		return nil, newAuthError(CodeForbidden, "insufficient permission")
	}

	resp, err := s.issueToken(u)
	if err != nil {
		return nil, newAuthError(CodeInternal, "authentication failed, please try again")
	}
	return resp, nil
}

// EnsureAdmin creates the administrator account, or promotes an existing account with that email.
func (s *DefaultUserService) EnsureAdmin(ctx context.Context, name, email, password string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return fmt.Errorf("admin seed: %w", err)
	}

	existing, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("admin seed: %w", err)
	}
	if existing != nil {
		if existing.Role == models.RoleAdmin {
			return nil
		}
		existing.Role = models.RoleAdmin
		return s.Repo.Update(ctx, existing)
	}

	if password == "" {
		return fmt.Errorf("admin seed: password is required to create %s", email)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("admin seed: %w", err)
	}
	return s.Repo.Create(ctx, &models.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         models.RoleAdmin,
	})
}
