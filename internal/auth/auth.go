// Package auth reads the operator identity carried by the upstream bearer token.
//
// The console never issues tokens for production use. It only needs the
// operator's role to apply client-side rules such as "only admins cancel
// orders" and the raw token to forward to the shop API.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Thutra02/mypham-fe/internal/domain"
)

// CookieName is the cookie holding the operator's access token.
const CookieName = "access_token"

// Claims are the JWT claims the shop API puts in its access tokens.
type Claims struct {
	Username string `json:"username,omitempty"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Operator is the person using the console.
type Operator struct {
	Subject  string
	Username string
	Role     string
	Token    string
}

// IsAdmin reports whether the operator holds the admin role.
func (o Operator) IsAdmin() bool {
	return strings.EqualFold(o.Role, domain.RoleAdmin)
}

// DisplayName returns the username, falling back to the subject.
func (o Operator) DisplayName() string {
	if o.Username != "" {
		return o.Username
	}
	if o.Subject != "" {
		return o.Subject
	}
	return "operator"
}

// ParseOperator extracts the operator from a bearer token without verifying
// its signature. Verification is the shop API's job; the console only reads
// claims to shape the UI.
func ParseOperator(token string) (Operator, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return Operator{}, domain.ErrUnauthorized
	}

	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return Operator{}, domain.NewAppError(domain.CodeUnauthorized, "malformed access token", err)
	}
	return Operator{
		Subject:  claims.Subject,
		Username: claims.Username,
		Role:     claims.Role,
		Token:    token,
	}, nil
}

// SignToken issues an HS256 token. Used by the development API and its tooling.
func SignToken(secret, subject, username, role string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("auth: signing secret is empty")
	}
	now := time.Now()
	claims := Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken validates an HS256 token and returns its claims.
func VerifyToken(secret, token string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.NewAppError(domain.CodeUnauthorized, "access token expired", err)
		}
		return nil, domain.NewAppError(domain.CodeUnauthorized, "invalid access token", err)
	}
	return &claims, nil
}

type operatorKey struct{}

// WithOperator returns a copy of ctx carrying op.
func WithOperator(ctx context.Context, op Operator) context.Context {
	return context.WithValue(ctx, operatorKey{}, op)
}

// FromContext returns the operator stored in ctx.
func FromContext(ctx context.Context) (Operator, bool) {
	op, ok := ctx.Value(operatorKey{}).(Operator)
	return op, ok
}

// TokenFromContext returns the operator's bearer token, or "" if there is none.
func TokenFromContext(ctx context.Context) string {
	if op, ok := FromContext(ctx); ok {
		return op.Token
	}
	return ""
}
