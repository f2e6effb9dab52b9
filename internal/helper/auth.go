package helper

import (
	"errors"
	"strings"
	"time"

	"github.com/ComplyTrail/audit_service/internal/domain"
	"github.com/ComplyTrail/audit_service/internal/dto"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// TokenTTL is the lifetime of an issued token.
const TokenTTL = 3600 * time.Second

var (
	ErrTokenMissing   = errors.New("missing token")
	ErrTokenMalformed = errors.New("malformed token")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("invalid token")
)

type Auth struct {
	Secret string
}

func SetupAuth(secret string) Auth {
	return Auth{Secret: secret}
}

// GenerateToken issues a signed HS256 token carrying the user's
// identity in an embedded user claim.
func (a Auth) GenerateToken(user *domain.User) (string, error) {
	if user == nil || user.ID == 0 || user.Email == "" {
		return "", errors.New("required inputs are missing to generate token")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iat": now.Unix(),
		"exp": now.Add(TokenTTL).Unix(),
		"user": map[string]any{
			"id":    user.ID,
			"email": user.Email,
			"role":  string(user.Role),
		},
	})

	tokenStr, err := token.SignedString([]byte(a.Secret))
	if err != nil {
		return "", errors.New("unable to sign the token")
	}
	return tokenStr, nil
}

// VerifyToken checks signature and expiry and returns the embedded
// claims. It accepts both "Bearer <token>" and a bare token string.
// Failures are one of ErrTokenMissing, ErrTokenMalformed,
// ErrTokenExpired or ErrTokenInvalid.
func (a Auth) VerifyToken(tokenString string) (dto.AuthClaims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return dto.AuthClaims{}, ErrTokenMissing
	}

	if strings.HasPrefix(strings.ToLower(tokenString), "bearer ") {
		parts := strings.SplitN(tokenString, " ", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[1]) == "" {
			return dto.AuthClaims{}, ErrTokenMalformed
		}
		tokenString = strings.TrimSpace(parts[1])
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(a.Secret), nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return dto.AuthClaims{}, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return dto.AuthClaims{}, ErrTokenMalformed
		default:
			return dto.AuthClaims{}, ErrTokenInvalid
		}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return dto.AuthClaims{}, ErrTokenInvalid
	}

	userClaim, ok := claims["user"].(map[string]any)
	if !ok {
		return dto.AuthClaims{}, ErrTokenInvalid
	}
	id, ok := userClaim["id"].(float64)
	if !ok || id <= 0 {
		return dto.AuthClaims{}, ErrTokenInvalid
	}
	email, _ := userClaim["email"].(string)
	role, _ := userClaim["role"].(string)

	out := dto.AuthClaims{
		UserID: uint(id),
		Email:  email,
		Role:   domain.Role(role),
	}
	if iat, ok := claims["iat"].(float64); ok {
		out.IssuedAt = int64(iat)
	}
	if exp, ok := claims["exp"].(float64); ok {
		out.ExpiresAt = int64(exp)
	}
	return out, nil
}

func (a Auth) VerifyPassword(plain, hashed string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)); err != nil {
		return errors.New("invalid email or password")
	}
	return nil
}

func (a Auth) HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.New("failed to hash password")
	}
	return string(hashed), nil
}
