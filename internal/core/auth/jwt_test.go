package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTer(secret string) *JWTer {
	return &JWTer{
		Secret:     []byte(secret),
		Issuer:     "goeat-test",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	}
}

func TestIssueAndParsePair(t *testing.T) {
	j := newTestJWTer("s1")

	pair, err := j.IssuePair("uid-1", "user")
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)

	c, err := j.ParseAccess(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", c.UID)
	assert.Equal(t, "user", c.Role)

	c, err = j.ParseRefresh(pair.Refresh)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", c.UID)
}

// access 和 refresh 不可互换
func TestTokenTypesAreNotInterchangeable(t *testing.T) {
	j := newTestJWTer("s1")
	pair, err := j.IssuePair("uid-1", "user")
	require.NoError(t, err)

	_, err = j.ParseAccess(pair.Refresh)
	require.Error(t, err)

	_, err = j.ParseRefresh(pair.Access)
	require.Error(t, err)
}

func TestWrongSecretRejected(t *testing.T) {
	pair, err := newTestJWTer("s1").IssuePair("uid-1", "user")
	require.NoError(t, err)

	_, err = newTestJWTer("s2").ParseAccess(pair.Access)
	require.Error(t, err)
}

func TestWrongIssuerRejected(t *testing.T) {
	j := newTestJWTer("s1")
	pair, err := j.IssuePair("uid-1", "user")
	require.NoError(t, err)

	other := newTestJWTer("s1")
	other.Issuer = "someone-else"
	_, err = other.ParseAccess(pair.Access)
	require.Error(t, err)
}

func TestGarbageTokenRejected(t *testing.T) {
	_, err := newTestJWTer("s1").ParseAccess("not.a.token")
	require.Error(t, err)
}
