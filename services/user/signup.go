package user

import (
	"context"
	"errors"
	"strings"

	userRepo "shutterbook/database/repository/user"
	"shutterbook/models"
	"shutterbook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// RegisterUser validates the registration, stores a customer account and signs a token.
func (s *DefaultUserService) RegisterUser(ctx context.Context, reg models.Registration) (*models.AuthResponse, error) {
	name := strings.TrimSpace(reg.Name)
	if name == "" || reg.Email == "" || reg.Password == "" {
		return nil, newAuthError(CodeValidation, "name, email and password are required")
	}
	email, err := normalizeEmail(reg.Email)
	if err != nil {
		return nil, newAuthError(CodeValidation, err.Error())
	}
	if err := VerifyPasswordComplexity(reg.Password); err != nil {
		return nil, newAuthError(CodeValidation, err.Error())
	}

	existing, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		utils.GetLogger().Error("RegisterUser: failed to check for existing user", zap.Error(err))
		return nil, newAuthError(CodeInternal, "registration failed, please try again")
	}
	if existing != nil {
		return nil, newAuthError(CodeDuplicate, userRepo.ErrDuplicateEmail.Error())
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.GetLogger().Error("RegisterUser: failed to hash password", zap.Error(err))
		return nil, newAuthError(CodeInternal, "registration failed, please try again")
	}

	u := &models.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         models.RoleCustomer,
		Avatar:       reg.Avatar,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, userRepo.ErrDuplicateEmail) {
			return nil, newAuthError(CodeDuplicate, err.Error())
		}
		utils.GetLogger().Error("RegisterUser: failed to create user", zap.Error(err))
		return nil, newAuthError(CodeInternal, "registration failed, please try again")
	}

	resp, err := s.issueToken(u)
	if err != nil {
		utils.GetLogger().Error("RegisterUser: failed to generate auth token", zap.Error(err))
		return nil, newAuthError(CodeInternal, "registration failed, please try again")
	}
	utils.GetLogger().Info("User registered", zap.String("userID", u.ID))
	return resp, nil
}
