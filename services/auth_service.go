package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Dosada05/auction-system/utils"
)

const operatorTokenTTL = 12 * time.Hour

// AuthService аутентифицирует единственного оператора аукциона. Команды и
// зрители не имеют аккаунтов: биды — жесты оператора за столом.
type AuthService interface {
	Login(ctx context.Context, input LoginInput) (string, error)
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authService struct {
	username     string
	passwordHash string
	jwtSecret    []byte
}

func NewAuthService(username, passwordHash string, jwtSecret []byte) AuthService {
	return &authService{
		username:     username,
		passwordHash: passwordHash,
		jwtSecret:    jwtSecret,
	}
}

func (s *authService) Login(ctx context.Context, input LoginInput) (string, error) {
	if input.Username != s.username {
		return "", ErrAuthInvalidCredentials
	}
	if !utils.CheckPasswordHash(input.Password, s.passwordHash) {
		return "", ErrAuthInvalidCredentials
	}

	token, err := utils.GenerateOperatorToken(s.jwtSecret, s.username, operatorTokenTTL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAuthTokenIssueFailed, err)
	}
	return token, nil
}
