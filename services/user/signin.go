package user

import (
	"context"
	"errors"

	userRepo "shutterbook/database/repository/user"
	"shutterbook/models"
	"shutterbook/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthenticateUser verifies email and password and signs a fresh token.
func (s *DefaultUserService) AuthenticateUser(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error) {
	email, err := normalizeEmail(creds.Email)
	if err != nil || creds.Password == "" {
		return nil, newAuthError(CodeInvalidCredentials, "invalid email or password")
	}

	userRec, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		utils.GetLogger().Error("AuthenticateUser: failed to fetch user", zap.Error(err))
		return nil, newAuthError(CodeInternal, "authentication failed, please try again")
	}
	if userRec == nil {
		return nil, newAuthError(CodeInvalidCredentials, "invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userRec.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, newAuthError(CodeInvalidCredentials, "invalid email or password")
	}

	resp, err := s.issueToken(userRec)
	if err != nil {
		utils.GetLogger().Error("AuthenticateUser: failed to generate token", zap.Error(err))
		return nil, newAuthError(CodeInternal, "authentication failed, please try again")
	}
	return resp, nil
}

// GetUserByID retrieves a user by ID.
func (s *DefaultUserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return nil, newAuthError(CodeInvalidCredentials, "account no longer exists")
		}
		return nil, err
	}
	return u, nil
}
