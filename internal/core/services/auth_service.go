package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/remotevoters/api/internal/core/ports"
)

const accessTokenTTL = 15 * time.Minute

type authService struct {
	companies ports.CompanyService
	jwtSecret []byte
}

func NewAuthService(companies ports.CompanyService, jwtSecret string) ports.AuthService {
	return &authService{
		companies: companies,
		jwtSecret: []byte(jwtSecret),
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	company, err := s.companies.RetrieveByCredentials(ctx, email, password)
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   company.ID.Hex(),
		"email": company.Email,
		"exp":   now.Add(accessTokenTTL).Unix(),
		"iat":   now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}
