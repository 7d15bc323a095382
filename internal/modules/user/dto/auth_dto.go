package dto

import (
	"time"

	"semillero.org/semillerodigital/internal/entity"
)

type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required,min=2"`
	Role     string `json:"role" binding:"omitempty,oneof=student teacher coordinator"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type GoogleCallbackInput struct {
	Code string `json:"code" binding:"required"`
}

type AuthResponse struct {
	Token string               `json:"token"`
	User  entity.PublicProfile `json:"user"`
}

type AuthURLResponse struct {
	AuthURL string `json:"authUrl"`
}

type RefreshResponse struct {
	Message    string    `json:"message"`
	ExpiryDate time.Time `json:"expiryDate"`
}
