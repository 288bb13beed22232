package services

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService validates access tokens minted by the hosted auth provider.
// This service never issues tokens or stores credentials; it only checks the
// shared-secret signature and issuer, then extracts the user id.
type TokenService struct {
	secretKey []byte
	issuer    string
}

func NewTokenService(secretKey string, issuer string) *TokenService {
	return &TokenService{
		secretKey: []byte(secretKey),
		issuer:    issuer,
	}
}

func (s *TokenService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token claims")
	}

	if iss, ok := claims["iss"].(string); !ok || iss != s.issuer {
		return "", fmt.Errorf("invalid token issuer")
	}

	userID, ok := claims["sub"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("invalid token subject")
	}

	return userID, nil
}
