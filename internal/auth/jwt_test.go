package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testManager() *Manager {
	return &Manager{
		Secret:    []byte("test-secret"),
		AdminTTL:  7 * 24 * time.Hour,
		ClientTTL: 30 * 24 * time.Hour,
	}
}

func TestAdminTokenRoundTrip(t *testing.T) {
	m := testManager()

	token, err := m.NewAdminToken("admin-1")
	require.NoError(t, err)

	userID, err := m.ParseAdminToken(token)
	require.NoError(t, err)
	require.Equal(t, "admin-1", userID)
}

func TestClientTokenRoundTrip(t *testing.T) {
	m := testManager()

	token, err := m.NewClientToken("client-1")
	require.NoError(t, err)

	clientID, err := m.ParseClientToken(token)
	require.NoError(t, err)
	require.Equal(t, "client-1", clientID)
}

func TestAdminTokenRejectedByClientGuard(t *testing.T) {
	m := testManager()

	token, err := m.NewAdminToken("admin-1")
	require.NoError(t, err)

	_, err = m.ParseClientToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestClientTokenAcceptedByAdminGuardWouldLeakWithoutDiscriminator(t *testing.T) {
	// A client token must not authenticate against admin routes. The admin
	// claim shape has no clientId, so UserID comes back empty and the parse
	// fails.
	m := testManager()

	token, err := m.NewClientToken("client-1")
	require.NoError(t, err)

	_, err = m.ParseAdminToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredTokenRejected(t *testing.T) {
	m := &Manager{Secret: []byte("test-secret"), AdminTTL: -time.Minute, ClientTTL: -time.Minute}

	adminToken, err := m.NewAdminToken("admin-1")
	require.NoError(t, err)
	_, err = m.ParseAdminToken(adminToken)
	require.ErrorIs(t, err, ErrInvalidToken)

	clientToken, err := m.NewClientToken("client-1")
	require.NoError(t, err)
	_, err = m.ParseClientToken(clientToken)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestWrongSecretRejected(t *testing.T) {
	m := testManager()
	other := &Manager{Secret: []byte("other-secret"), AdminTTL: time.Hour, ClientTTL: time.Hour}

	token, err := m.NewAdminToken("admin-1")
	require.NoError(t, err)

	_, err = other.ParseAdminToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestGarbageTokenRejected(t *testing.T) {
	m := testManager()
	_, err := m.ParseAdminToken("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
	_, err = m.ParseClientToken("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashAndCompare(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret", hash)

	require.NoError(t, ComparePassword(hash, "s3cret"))
	require.Error(t, ComparePassword(hash, "wrong"))
}

func TestHashPasswordEmpty(t *testing.T) {
	_, err := HashPassword("")
	require.Error(t, err)
}
