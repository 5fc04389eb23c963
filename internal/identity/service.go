package identity

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ScroogeKZ/CreativeStudio/internal/auth"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// a login response never discloses which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = errors.New("email already registered")
	ErrNotFound           = errors.New("account not found")
)

// AdminService authenticates back-office users. It implements
// middleware.Authenticator for the admin route group.
type AdminService struct {
	repo   Repository
	tokens *auth.Manager
	log    *slog.Logger
}

func NewAdminService(repo Repository, tokens *auth.Manager, log *slog.Logger) *AdminService {
	return &AdminService{repo: repo, tokens: tokens, log: log}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AdminService) Login(ctx context.Context, email, password string) (string, AdminUser, error) {
	user, err := s.repo.GetAdminByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, errNoRows) {
			return "", AdminUser{}, ErrInvalidCredentials
		}
		return "", AdminUser{}, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return "", AdminUser{}, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := s.repo.TouchAdminLogin(ctx, user.ID, now); err != nil {
		s.log.Warn("last login stamp failed", slog.String("admin_id", user.ID), slog.String("error", err.Error()))
	} else {
		user.LastLoginAt = &now
	}

	token, err := s.tokens.NewAdminToken(user.ID)
	if err != nil {
		return "", AdminUser{}, err
	}
	return token, user, nil
}

// Authenticate verifies an admin token and returns a context carrying the
// admin row. A valid signature over a deleted account still fails.
func (s *AdminService) Authenticate(ctx context.Context, token string) (context.Context, error) {
	userID, err := s.tokens.ParseAdminToken(token)
	if err != nil {
		return ctx, err
	}
	user, err := s.repo.GetAdminByID(ctx, userID)
	if err != nil {
		if errors.Is(err, errNoRows) {
			return ctx, auth.ErrInvalidToken
		}
		return ctx, err
	}
	return WithAdmin(ctx, user), nil
}

// EnsureAdmin creates the admin account if the email is not taken yet.
// Used by the bootstrap path and the ops CLI; reports whether a row was
// created.
func (s *AdminService) EnsureAdmin(ctx context.Context, email, password, name string) (AdminUser, bool, error) {
	email = normalizeEmail(email)
	if existing, err := s.repo.GetAdminByEmail(ctx, email); err == nil {
		return existing, false, nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return AdminUser{}, false, err
	}
	user := AdminUser{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.CreateAdmin(ctx, user); err != nil {
		if isUniqueViolation(err) {
			return AdminUser{}, false, ErrEmailExists
		}
		return AdminUser{}, false, err
	}
	return user, true, nil
}

// ClientService manages customer accounts for the order portal. It
// implements middleware.Authenticator for the client route group.
type ClientService struct {
	repo   Repository
	tokens *auth.Manager
	log    *slog.Logger
}

func NewClientService(repo Repository, tokens *auth.Manager, log *slog.Logger) *ClientService {
	return &ClientService{repo: repo, tokens: tokens, log: log}
}

// Register creates the account and logs it in atomically from the caller's
// point of view: the response carries a fresh client token.
func (s *ClientService) Register(ctx context.Context, req ClientRegisterRequest) (string, Client, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return "", Client{}, err
	}

	client := Client{
		ID:           uuid.NewString(),
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
		Name:         req.Name,
		Company:      req.Company,
		Phone:        req.Phone,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.CreateClient(ctx, client); err != nil {
		if isUniqueViolation(err) {
			return "", Client{}, ErrEmailExists
		}
		return "", Client{}, err
	}

	token, err := s.tokens.NewClientToken(client.ID)
	if err != nil {
		return "", Client{}, err
	}
	return token, client, nil
}

func (s *ClientService) Login(ctx context.Context, email, password string) (string, Client, error) {
	client, err := s.repo.GetClientByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, errNoRows) {
			return "", Client{}, ErrInvalidCredentials
		}
		return "", Client{}, err
	}
	if err := auth.ComparePassword(client.PasswordHash, password); err != nil {
		return "", Client{}, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := s.repo.TouchClientLogin(ctx, client.ID, now); err != nil {
		s.log.Warn("last login stamp failed", slog.String("client_id", client.ID), slog.String("error", err.Error()))
	} else {
		client.LastLoginAt = &now
	}

	token, err := s.tokens.NewClientToken(client.ID)
	if err != nil {
		return "", Client{}, err
	}
	return token, client, nil
}

func (s *ClientService) Authenticate(ctx context.Context, token string) (context.Context, error) {
	clientID, err := s.tokens.ParseClientToken(token)
	if err != nil {
		return ctx, err
	}
	client, err := s.repo.GetClientByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, errNoRows) {
			return ctx, auth.ErrInvalidToken
		}
		return ctx, err
	}
	return WithClient(ctx, client), nil
}

func (s *ClientService) GetClient(ctx context.Context, id string) (Client, error) {
	client, err := s.repo.GetClientByID(ctx, id)
	if err != nil {
		if errors.Is(err, errNoRows) {
			return Client{}, ErrNotFound
		}
		return Client{}, err
	}
	return client, nil
}

func (s *ClientService) ListClients(ctx context.Context) ([]Client, error) {
	return s.repo.ListClients(ctx)
}
