package service

import "agriverse/entities"

type RegisterRequest struct {
	Email    string             `json:"email"`
	Password string             `json:"password"`
	UserType string             `json:"user_type"`
	Name     string             `json:"name"`
	Phone    string             `json:"phone"`
	Location *entities.GeoPoint `json:"location"`
	Address  string             `json:"address"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserSummary struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	UserType string `json:"user_type"`
	Name     string `json:"name"`
}

type AuthResult struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        UserSummary `json:"user"`
}

type AuthService interface {
	Register(req RegisterRequest) (*AuthResult, error)
	Login(req LoginRequest) (*AuthResult, error)
	Profile(userID string) (*entities.User, error)
}
