package identity

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ScroogeKZ/CreativeStudio/internal/auth"
)

type memRepo struct {
	admins  []AdminUser
	clients []Client
}

func (m *memRepo) GetAdminByEmail(ctx context.Context, email string) (AdminUser, error) {
	for _, u := range m.admins {
		if u.Email == email {
			return u, nil
		}
	}
	return AdminUser{}, errNoRows
}

func (m *memRepo) GetAdminByID(ctx context.Context, id string) (AdminUser, error) {
	for _, u := range m.admins {
		if u.ID == id {
			return u, nil
		}
	}
	return AdminUser{}, errNoRows
}

func (m *memRepo) CreateAdmin(ctx context.Context, user AdminUser) error {
	for _, u := range m.admins {
		if u.Email == user.Email {
			return &pq.Error{Code: "23505"}
		}
	}
	m.admins = append(m.admins, user)
	return nil
}

func (m *memRepo) TouchAdminLogin(ctx context.Context, id string, at time.Time) error {
	for i, u := range m.admins {
		if u.ID == id {
			m.admins[i].LastLoginAt = &at
			return nil
		}
	}
	return errNoRows
}

func (m *memRepo) GetClientByEmail(ctx context.Context, email string) (Client, error) {
	for _, c := range m.clients {
		if c.Email == email {
			return c, nil
		}
	}
	return Client{}, errNoRows
}

func (m *memRepo) GetClientByID(ctx context.Context, id string) (Client, error) {
	for _, c := range m.clients {
		if c.ID == id {
			return c, nil
		}
	}
	return Client{}, errNoRows
}

func (m *memRepo) CreateClient(ctx context.Context, client Client) error {
	for _, c := range m.clients {
		if c.Email == client.Email {
			return &pq.Error{Code: "23505"}
		}
	}
	m.clients = append(m.clients, client)
	return nil
}

func (m *memRepo) TouchClientLogin(ctx context.Context, id string, at time.Time) error {
	for i, c := range m.clients {
		if c.ID == id {
			m.clients[i].LastLoginAt = &at
			return nil
		}
	}
	return errNoRows
}

func (m *memRepo) ListClients(ctx context.Context) ([]Client, error) {
	out := make([]Client, len(m.clients))
	copy(out, m.clients)
	return out, nil
}

func newTestServices(t *testing.T) (*AdminService, *ClientService, *memRepo) {
	t.Helper()
	repo := &memRepo{}
	tokens := &auth.Manager{
		Secret:    []byte("test-secret"),
		AdminTTL:  7 * 24 * time.Hour,
		ClientTTL: 30 * 24 * time.Hour,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAdminService(repo, tokens, log), NewClientService(repo, tokens, log), repo
}

func TestAdminLogin(t *testing.T) {
	admins, _, _ := newTestServices(t)
	ctx := context.Background()

	_, created, err := admins.EnsureAdmin(ctx, "Admin@Studio.KZ", "correct-horse", "Admin")
	require.NoError(t, err)
	require.True(t, created)

	token, user, err := admins.Login(ctx, "admin@studio.kz", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "admin@studio.kz", user.Email)
	assert.NotNil(t, user.LastLoginAt, "successful login must stamp last_login_at")
}

func TestLoginDoesNotDiscloseWhichPartFailed(t *testing.T) {
	admins, _, _ := newTestServices(t)
	ctx := context.Background()

	_, _, err := admins.EnsureAdmin(ctx, "admin@studio.kz", "correct-horse", "Admin")
	require.NoError(t, err)

	_, _, wrongPassword := admins.Login(ctx, "admin@studio.kz", "wrong")
	_, _, unknownEmail := admins.Login(ctx, "nobody@studio.kz", "correct-horse")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	admins, _, _ := newTestServices(t)
	ctx := context.Background()

	first, created, err := admins.EnsureAdmin(ctx, "admin@studio.kz", "pw-one-two-three", "Admin")
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := admins.EnsureAdmin(ctx, "admin@studio.kz", "different", "Other")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
}

func TestClientRegisterReturnsWorkingToken(t *testing.T) {
	admins, clients, _ := newTestServices(t)
	ctx := context.Background()

	token, client, err := clients.Register(ctx, ClientRegisterRequest{
		Email:    "Client@Example.COM",
		Password: "longenough",
		Name:     "Client One",
	})
	require.NoError(t, err)
	assert.Equal(t, "client@example.com", client.Email)

	authed, err := clients.Authenticate(ctx, token)
	require.NoError(t, err)
	got, ok := ClientFromContext(authed)
	require.True(t, ok)
	assert.Equal(t, client.ID, got.ID)

	// The registration token is client-audience only.
	_, err = admins.Authenticate(ctx, token)
	assert.Error(t, err)
}

func TestClientRegisterDuplicateEmail(t *testing.T) {
	_, clients, _ := newTestServices(t)
	ctx := context.Background()

	req := ClientRegisterRequest{Email: "dup@example.com", Password: "longenough", Name: "First"}
	_, _, err := clients.Register(ctx, req)
	require.NoError(t, err)

	req.Name = "Second"
	_, _, err = clients.Register(ctx, req)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestClientLogin(t *testing.T) {
	_, clients, _ := newTestServices(t)
	ctx := context.Background()

	_, registered, err := clients.Register(ctx, ClientRegisterRequest{
		Email:    "client@example.com",
		Password: "longenough",
		Name:     "Client One",
	})
	require.NoError(t, err)

	token, client, err := clients.Login(ctx, "client@example.com", "longenough")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, registered.ID, client.ID)
	assert.NotNil(t, client.LastLoginAt)

	_, _, err = clients.Login(ctx, "client@example.com", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAdminTokenRejectedOnClientSurface(t *testing.T) {
	admins, clients, _ := newTestServices(t)
	ctx := context.Background()

	_, _, err := admins.EnsureAdmin(ctx, "admin@studio.kz", "correct-horse", "Admin")
	require.NoError(t, err)
	token, _, err := admins.Login(ctx, "admin@studio.kz", "correct-horse")
	require.NoError(t, err)

	_, err = clients.Authenticate(ctx, token)
	assert.Error(t, err, "admin token must not authenticate as a client")
}

func TestAuthenticateRejectsDeletedAccount(t *testing.T) {
	admins, _, repo := newTestServices(t)
	ctx := context.Background()

	_, _, err := admins.EnsureAdmin(ctx, "admin@studio.kz", "correct-horse", "Admin")
	require.NoError(t, err)
	token, _, err := admins.Login(ctx, "admin@studio.kz", "correct-horse")
	require.NoError(t, err)

	repo.admins = nil

	_, err = admins.Authenticate(ctx, token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
