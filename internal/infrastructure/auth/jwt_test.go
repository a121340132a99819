package auth

import (
	"testing"
	"time"

	"github.com/erp/procurement/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-at-least-32-chars"

func newTestTokenService() *TokenService {
	return NewTokenService(config.JWTConfig{Enabled: true, Secret: testSecret, Issuer: "erp-identity"})
}

func newIssueInput() IssueInput {
	return IssueInput{
		TenantID:    uuid.New(),
		UserID:      uuid.New(),
		Username:    "buyer",
		Permissions: []string{PermissionPurchaseOrderWrite, PermissionSupplierWrite},
	}
}

func TestTokenService_IssueAndValidate(t *testing.T) {
	svc := newTestTokenService()
	in := newIssueInput()

	token, issued, err := svc.Issue(in)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.NotEmpty(t, issued.ID)
	assert.Equal(t, "erp-identity", issued.Issuer)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, in.TenantID.String(), claims.TenantID)
	assert.Equal(t, in.UserID.String(), claims.UserID)
	assert.Equal(t, "buyer", claims.Username)
	assert.Equal(t, issued.ID, claims.ID)

	tenantID, err := claims.TenantUUID()
	require.NoError(t, err)
	assert.Equal(t, in.TenantID, tenantID)
	userID, err := claims.UserUUID()
	require.NoError(t, err)
	assert.Equal(t, in.UserID, userID)

	assert.InDelta(t, float64(15*time.Minute), float64(claims.RemainingTTL()), float64(5*time.Second))
}

func TestTokenService_IssueRequiresIdentity(t *testing.T) {
	svc := newTestTokenService()

	in := newIssueInput()
	in.TenantID = uuid.Nil
	_, _, err := svc.Issue(in)
	assert.ErrorIs(t, err, ErrMissingTenantID)

	in = newIssueInput()
	in.UserID = uuid.Nil
	_, _, err = svc.Issue(in)
	assert.ErrorIs(t, err, ErrMissingUserID)
}

func TestTokenService_ValidateRejects(t *testing.T) {
	svc := newTestTokenService()
	in := newIssueInput()

	sign := func(claims *Claims, method jwt.SigningMethod, key any) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	base := func() *Claims {
		now := time.Now()
		return &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "erp-identity",
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
			TenantID: in.TenantID.String(),
			UserID:   in.UserID.String(),
		}
	}

	tests := []struct {
		name  string
		token func() string
		want  error
	}{
		{"garbage", func() string { return "not-a-token" }, ErrInvalidToken},
		{"wrong secret", func() string {
			return sign(base(), jwt.SigningMethodHS256, []byte("another-secret-that-is-long-enough"))
		}, ErrInvalidToken},
		{"wrong algorithm", func() string {
			return sign(base(), jwt.SigningMethodHS512, []byte(testSecret))
		}, ErrInvalidToken},
		{"wrong issuer", func() string {
			c := base()
			c.Issuer = "someone-else"
			return sign(c, jwt.SigningMethodHS256, []byte(testSecret))
		}, ErrInvalidToken},
		{"expired", func() string {
			c := base()
			c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
			return sign(c, jwt.SigningMethodHS256, []byte(testSecret))
		}, ErrExpiredToken},
		{"no expiry", func() string {
			c := base()
			c.ExpiresAt = nil
			return sign(c, jwt.SigningMethodHS256, []byte(testSecret))
		}, ErrInvalidToken},
		{"not yet valid", func() string {
			c := base()
			c.NotBefore = jwt.NewNumericDate(time.Now().Add(time.Hour))
			return sign(c, jwt.SigningMethodHS256, []byte(testSecret))
		}, ErrTokenNotYetValid},
		{"missing tenant", func() string {
			c := base()
			c.TenantID = ""
			return sign(c, jwt.SigningMethodHS256, []byte(testSecret))
		}, ErrMissingTenantID},
		{"malformed user", func() string {
			c := base()
			c.UserID = "user-1"
			return sign(c, jwt.SigningMethodHS256, []byte(testSecret))
		}, ErrMissingUserID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Validate(tt.token())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTokenService_Leeway(t *testing.T) {
	svc := newTestTokenService()
	token, _, err := svc.Issue(IssueInput{TenantID: uuid.New(), UserID: uuid.New(), TTL: time.Minute})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(time.Minute + 10*time.Second) }
	_, err = svc.Validate(token)
	assert.NoError(t, err, "expiry within leeway is accepted")

	svc.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestClaims_HasPermission(t *testing.T) {
	c := &Claims{Permissions: []string{PermissionPurchaseOrderWrite}}
	assert.True(t, c.HasPermission(PermissionPurchaseOrderWrite))
	assert.False(t, c.HasPermission(PermissionPurchaseOrderApprove))

	admin := &Claims{Permissions: []string{PermissionAll}}
	assert.True(t, admin.HasPermission(PermissionSupplierBlacklist))

	assert.False(t, (&Claims{}).HasPermission(PermissionPriceListWrite))
}

func TestClaims_RemainingTTL(t *testing.T) {
	assert.Zero(t, (&Claims{}).RemainingTTL())

	expired := &Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))}}
	assert.Zero(t, expired.RemainingTTL())
}
