package user

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"shutterbook/models"
	"shutterbook/utils"
)

var (
	upperRe  = regexp.MustCompile(`[A-Z]`)
	lowerRe  = regexp.MustCompile(`[a-z]`)
	numberRe = regexp.MustCompile(`[0-9]`)
)

// VerifyPasswordComplexity checks that the password meets complexity requirements.
func VerifyPasswordComplexity(pw string) error {
	if len(pw) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}
	if !upperRe.MatchString(pw) {
		return fmt.Errorf("password must include at least one uppercase letter")
	}
	if !lowerRe.MatchString(pw) {
		return fmt.Errorf("password must include at least one lowercase letter")
	}
	if !numberRe.MatchString(pw) {
		return fmt.Errorf("password must include at least one number")
	}
	return nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("invalid email address")
	}
	return email, nil
}

// issueToken signs a token for the user and builds the auth response.
func (s *DefaultUserService) issueToken(u *models.User) (*models.AuthResponse, error) {
	token, err := utils.GenerateToken(u.ID, u.Email, string(u.Role), s.tokenTTL())
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{User: *u, Token: token}, nil
}

func adminOTPSubject(email string) string {
	return "admin:" + email
}

func otpExpiryText(ttl time.Duration) string {
	return fmt.Sprintf("%d minutes", int(ttl.Minutes()))
}
