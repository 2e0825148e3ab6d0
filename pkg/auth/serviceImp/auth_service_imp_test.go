package serviceImp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agriverse/database/dbtest"
	"agriverse/pkg/apperr"
	"agriverse/pkg/auth"
	"agriverse/pkg/auth/repositoryImp"
	"agriverse/pkg/auth/service"
	"agriverse/pkg/logger"
)

func newSvc(t *testing.T) (service.AuthService, *auth.TokenIssuer) {
	t.Helper()
	ti := auth.NewTokenIssuer("secret", time.Minute)
	return NewAuthService(repositoryImp.New(dbtest.DB(t)), ti, logger.Nop()), ti
}

func TestRegisterLoginProfile(t *testing.T) {
	s, ti := newSvc(t)

	res, err := s.Register(service.RegisterRequest{Email: " Ana@Farm.io ", Password: "hunter22", UserType: "farmer", Name: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", res.TokenType)
	assert.Equal(t, "ana@farm.io", res.User.Email)

	claims, err := ti.Parse(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.Subject)
	assert.Equal(t, "farmer", claims.UserType)

	login, err := s.Login(service.LoginRequest{Email: "ana@farm.io", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)

	u, err := s.Profile(res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", u.Name)
	assert.NotEqual(t, "hunter22", u.PasswordHash)
}

func TestRegister_Validation(t *testing.T) {
	s, _ := newSvc(t)
	cases := []service.RegisterRequest{
		{Email: "nope", Password: "hunter22", UserType: "farmer", Name: "A"},
		{Email: "a@b.io", Password: "123", UserType: "farmer", Name: "A"},
		{Email: "a@b.io", Password: "hunter22", UserType: "admin", Name: "A"},
		{Email: "a@b.io", Password: "hunter22", UserType: "customer", Name: " "},
	}
	for _, req := range cases {
		_, err := s.Register(req)
		assert.True(t, apperr.Is(err, apperr.KindInvalidArgument), "%+v -> %v", req, err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	s, _ := newSvc(t)
	req := service.RegisterRequest{Email: "a@b.io", Password: "hunter22", UserType: "customer", Name: "A"}
	_, err := s.Register(req)
	require.NoError(t, err)
	_, err = s.Register(req)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestLogin_BadCredentials(t *testing.T) {
	s, _ := newSvc(t)
	_, err := s.Register(service.RegisterRequest{Email: "a@b.io", Password: "hunter22", UserType: "customer", Name: "A"})
	require.NoError(t, err)

	_, err = s.Login(service.LoginRequest{Email: "a@b.io", Password: "wrong"})
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
	_, err = s.Login(service.LoginRequest{Email: "ghost@b.io", Password: "hunter22"})
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
}
