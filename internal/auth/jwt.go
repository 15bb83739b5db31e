package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"muru-backend/internal/model"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims JWT 클레임
type Claims struct {
	UserID    int64    `json:"user_id"`
	Email     string   `json:"email"`
	Username  string   `json:"username"`
	Roles     []string `json:"roles"`
	FirstName string   `json:"first_name,omitempty"`
	LastName  string   `json:"last_name,omitempty"`
	jwt.RegisteredClaims
}

// HasRole 역할 보유 여부
func (c *Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// JWTManager JWT 토큰 관리자
type JWTManager struct {
	secretKey []byte
	issuer    string
	audience  string
	expiry    time.Duration
	now       func() time.Time
}

// NewJWTManager JWTManager 생성. 서명 설정이 비어 있으면 에러
func NewJWTManager(secretKey, issuer, audience string, expiry time.Duration) (*JWTManager, error) {
	if secretKey == "" {
		return nil, errors.New("jwt: signing secret is required")
	}
	if issuer == "" || audience == "" {
		return nil, errors.New("jwt: issuer and audience are required")
	}
	if expiry <= 0 {
		return nil, errors.New("jwt: expiry must be positive")
	}

	return &JWTManager{
		secretKey: []byte(secretKey),
		issuer:    issuer,
		audience:  audience,
		expiry:    expiry,
		now:       time.Now,
	}, nil
}

// Expiry 토큰 유효 기간
func (m *JWTManager) Expiry() time.Duration {
	return m.expiry
}

// GenerateToken 액세스 토큰 생성
func (m *JWTManager) GenerateToken(user *model.User, roles []string) (string, error) {
	token, _, err := m.IssueToken(user, roles)
	return token, err
}

// IssueToken 액세스 토큰과 토큰에 서명된 만료 시각(exp) 반환
func (m *JWTManager) IssueToken(user *model.User, roles []string) (string, time.Time, error) {
	now := m.now()
	if roles == nil {
		roles = []string{}
	}

	claims := &Claims{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		Roles:    roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(user.ID, 10),
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{m.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
		},
	}
	if user.FirstName != nil {
		claims.FirstName = *user.FirstName
	}
	if user.LastName != nil {
		claims.LastName = *user.LastName
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secretKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, claims.ExpiresAt.Time, nil
}

// ValidateToken 액세스 토큰 검증 (HMAC, issuer, audience, 만료)
func (m *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience(m.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
