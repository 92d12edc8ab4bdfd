package handlers

import (
	"shutterbook/services/user"
)

// UserHandler serves the authentication endpoints.
type UserHandler struct {
	UserService user.UserService
}

func NewUserHandler(svc user.UserService) *UserHandler {
	return &UserHandler{UserService: svc}
}
