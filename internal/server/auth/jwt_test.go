package auth

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")

	tok, err := GenerateToken("user-123", "a@x.com", secret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "user-123", claims.Subject)
	require.NotNil(t, claims.IssuedAt)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	tok, err := GenerateToken("u1", "u1@x.com", secret, -1*time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(tok, secret)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken("u2", "u2@x.com", []byte("right-secret"), time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(tok, []byte("wrong-secret"))
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParseToken_Malformed(t *testing.T) {
	t.Parallel()

	_, err := ParseToken("not.a.jwt", []byte("k"))
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	_, err = ParseToken("", []byte("k"))
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

// A payload with a swapped owner id keeps the old signature and must fail.
func TestParseToken_TamperedOwnerID(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	tok, err := GenerateToken("owner-a", "a@x.com", secret, time.Hour)
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)

	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(raw, &payload))
	payload["userId"] = "owner-b"
	payload["sub"] = "owner-b"
	raw, err = json.Marshal(payload)
	require.NoError(t, err)
	parts[1] = base64.RawURLEncoding.EncodeToString(raw)

	_, err = ParseToken(strings.Join(parts, "."), secret)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParseToken_TamperedExpiry(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	tok, err := GenerateToken("owner-a", "a@x.com", secret, time.Hour)
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(raw, &payload))
	payload["exp"] = time.Now().Add(365 * 24 * time.Hour).Unix()
	raw, err = json.Marshal(payload)
	require.NoError(t, err)
	parts[1] = base64.RawURLEncoding.EncodeToString(raw)

	_, err = ParseToken(strings.Join(parts, "."), secret)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParseToken_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	tok := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           "u",
	})
	s, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseToken(s, []byte("secret"))
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParseToken_RequiresOwner(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	tok, err := GenerateToken("", "", secret, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(tok, secret)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}
