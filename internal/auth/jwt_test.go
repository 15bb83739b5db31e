package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"muru-backend/internal/model"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestManager(t *testing.T) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(testSecret, "muru-api", "muru-web", time.Hour)
	require.NoError(t, err)
	return m
}

func testUser() *model.User {
	first := "Alice"
	return &model.User{ID: 42, Email: "alice@muru.test", Username: "alice", FirstName: &first}
}

func TestNewJWTManagerRejectsMissingSettings(t *testing.T) {
	_, err := NewJWTManager("", "muru-api", "muru-web", time.Hour)
	assert.Error(t, err)

	_, err = NewJWTManager(testSecret, "", "muru-web", time.Hour)
	assert.Error(t, err)

	_, err = NewJWTManager(testSecret, "muru-api", "", time.Hour)
	assert.Error(t, err)

	_, err = NewJWTManager(testSecret, "muru-api", "muru-web", 0)
	assert.Error(t, err)
}

func TestGenerateAndValidate(t *testing.T) {
	m := newTestManager(t)

	token, err := m.GenerateToken(testUser(), []string{"User", "Admin"})
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)

	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "alice@muru.test", claims.Email)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "Alice", claims.FirstName)
	assert.Empty(t, claims.LastName)
	assert.Equal(t, []string{"User", "Admin"}, claims.Roles)
	assert.True(t, claims.HasRole("Admin"))
	assert.Equal(t, "muru-api", claims.Issuer)
	assert.Equal(t, jwt.ClaimStrings{"muru-web"}, claims.Audience)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTwoTokensDifferOnlyInJTI(t *testing.T) {
	m := newTestManager(t)

	t1, err := m.GenerateToken(testUser(), []string{"User"})
	require.NoError(t, err)
	t2, err := m.GenerateToken(testUser(), []string{"User"})
	require.NoError(t, err)
	assert.NotEqual(t, t1, t2)

	c1, err := m.ValidateToken(t1)
	require.NoError(t, err)
	c2, err := m.ValidateToken(t2)
	require.NoError(t, err)

	assert.NotEqual(t, c1.ID, c2.ID)
	assert.Equal(t, c1.Subject, c2.Subject)
	assert.Equal(t, c1.Email, c2.Email)
	assert.Equal(t, c1.Roles, c2.Roles)
}

func TestNilRolesEncodeAsEmpty(t *testing.T) {
	m := newTestManager(t)

	token, err := m.GenerateToken(testUser(), nil)
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Empty(t, claims.Roles)
	assert.False(t, claims.HasRole("Admin"))
}

func TestIssueTokenReturnsSignedExpiry(t *testing.T) {
	m := newTestManager(t)
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issuedAt }

	token, expiresAt, err := m.IssueToken(testUser(), nil)
	require.NoError(t, err)
	assert.Equal(t, issuedAt.Add(time.Hour), expiresAt.UTC())

	claims := jwt.RegisteredClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, &claims)
	require.NoError(t, err)
	assert.True(t, expiresAt.Equal(claims.ExpiresAt.Time))
}

func TestExpiredToken(t *testing.T) {
	m := newTestManager(t)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := m.GenerateToken(testUser(), nil)
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestRejectsForeignTokens(t *testing.T) {
	m := newTestManager(t)

	otherAudience, err := NewJWTManager(testSecret, "muru-api", "someone-else", time.Hour)
	require.NoError(t, err)
	otherIssuer, err := NewJWTManager(testSecret, "other-api", "muru-web", time.Hour)
	require.NoError(t, err)
	otherSecret, err := NewJWTManager("ffffffffffffffffffffffffffffffff", "muru-api", "muru-web", time.Hour)
	require.NoError(t, err)

	for name, issuer := range map[string]*JWTManager{
		"audience": otherAudience,
		"issuer":   otherIssuer,
		"secret":   otherSecret,
	} {
		token, err := issuer.GenerateToken(testUser(), nil)
		require.NoError(t, err)

		_, err = m.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken, name)
	}
}

func TestRejectsUnsignedToken(t *testing.T) {
	m := newTestManager(t)

	claims := &Claims{
		UserID: 42,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			Issuer:    "muru-api",
			Audience:  jwt.ClaimStrings{"muru-web"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
