package serviceImp

import (
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"agriverse/entities"
	"agriverse/pkg/apperr"
	"agriverse/pkg/auth"
	"agriverse/pkg/auth/repository"
	"agriverse/pkg/auth/service"
	"agriverse/pkg/logger"
)

const minPasswordLen = 6

type authSvc struct {
	users  repository.UserRepository
	tokens *auth.TokenIssuer
	log    *logger.Logger
}

func NewAuthService(users repository.UserRepository, tokens *auth.TokenIssuer, log *logger.Logger) service.AuthService {
	return &authSvc{users: users, tokens: tokens, log: log.With("service", "auth")}
}

func (s *authSvc) Register(req service.RegisterRequest) (*service.AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperr.Invalid("a valid email is required")
	}
	if len(req.Password) < minPasswordLen {
		return nil, apperr.Invalid("password must be at least %d characters", minPasswordLen)
	}
	userType := strings.ToLower(strings.TrimSpace(req.UserType))
	if userType != entities.UserTypeFarmer && userType != entities.UserTypeCustomer {
		return nil, apperr.Invalid("user_type must be farmer or customer")
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperr.Invalid("name is required")
	}
	if _, err := s.users.FindByEmail(email); err == nil {
		return nil, apperr.Conflict("user already exists")
	} else if !apperr.Is(err, apperr.KindNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal("hash password", err)
	}
	u := &entities.User{
		Email:        email,
		PasswordHash: string(hash),
		UserType:     userType,
		Name:         strings.TrimSpace(req.Name),
		Phone:        req.Phone,
		Location:     req.Location,
		Address:      req.Address,
	}
	if err := s.users.Create(u); err != nil {
		return nil, err
	}
	s.log.Info("user registered", "user_id", u.ID, "user_type", u.UserType)
	return s.result(u)
}

func (s *authSvc) Login(req service.LoginRequest) (*service.AuthResult, error) {
	u, err := s.users.FindByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.Unauthorized("invalid credentials")
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return nil, apperr.Unauthorized("invalid credentials")
	}
	return s.result(u)
}

func (s *authSvc) Profile(userID string) (*entities.User, error) {
	return s.users.FindByID(userID)
}

func (s *authSvc) result(u *entities.User) (*service.AuthResult, error) {
	tok, err := s.tokens.Issue(u)
	if err != nil {
		return nil, apperr.Internal("issue token", err)
	}
	return &service.AuthResult{
		AccessToken: tok,
		TokenType:   "bearer",
		User:        service.UserSummary{ID: u.ID, Email: u.Email, UserType: u.UserType, Name: u.Name},
	}, nil
}
