package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Dosada05/auction-system/utils"
	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
)

func newTestAuthService(t *testing.T) AuthService {
	t.Helper()
	hash, err := utils.HashPassword("hammer-time")
	assert.NoError(t, err)
	return NewAuthService("operator", hash, []byte("test-secret"))
}

func TestLogin_Success(t *testing.T) {
	svc := newTestAuthService(t)

	token, err := svc.Login(context.Background(), LoginInput{
		Username: "operator",
		Password: "hammer-time",
	})
	assert.NoError(t, err)
	check.True(t, token != "")

	claims, err := utils.ParseOperatorToken([]byte("test-secret"), token)
	assert.NoError(t, err)
	check.Equal(t, "operator", claims["sub"])
	check.Equal(t, "operator", claims["role"])
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Login(context.Background(), LoginInput{
		Username: "operator",
		Password: "wrong",
	})
	check.True(t, errors.Is(err, ErrAuthInvalidCredentials))
}

func TestLogin_WrongUsername(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Login(context.Background(), LoginInput{
		Username: "admin",
		Password: "hammer-time",
	})
	check.True(t, errors.Is(err, ErrAuthInvalidCredentials))
}

func TestLogin_TokenRejectedWithWrongSecret(t *testing.T) {
	svc := newTestAuthService(t)

	token, err := svc.Login(context.Background(), LoginInput{
		Username: "operator",
		Password: "hammer-time",
	})
	assert.NoError(t, err)

	_, err = utils.ParseOperatorToken([]byte("other-secret"), token)
	check.True(t, err != nil)
}
