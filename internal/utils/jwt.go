package utils

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AnalystClaims are the claims carried by dashboard session tokens
type AnalystClaims struct {
	AnalystID int    `json:"analyst_id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// JWTUtil issues and validates HS256 session tokens
type JWTUtil struct {
	secretKey       []byte
	expirationHours int64
	now             func() time.Time
}

// NewJWTUtil creates a new JWTUtil
func NewJWTUtil(secretKey string, expirationHours int64) *JWTUtil {
	return &JWTUtil{secretKey: []byte(secretKey), expirationHours: expirationHours, now: time.Now}
}

// GenerateToken signs a token for the analyst
func (ju *JWTUtil) GenerateToken(analystID int, username, role string) (string, error) {
	issued := ju.now()
	claims := &AnalystClaims{
		AnalystID: analystID,
		Username:  username,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issued.Add(time.Hour * time.Duration(ju.expirationHours))),
			IssuedAt:  jwt.NewNumericDate(issued),
			Subject:   strconv.Itoa(analystID),
			Issuer:    "receivables-monitor",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ju.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses the token and returns its claims
func (ju *JWTUtil) ValidateToken(tokenString string) (*AnalystClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AnalystClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ju.secretKey, nil
	}, jwt.WithTimeFunc(ju.now))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims, ok := token.Claims.(*AnalystClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}
