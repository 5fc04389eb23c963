package identity

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/ScroogeKZ/CreativeStudio/internal/db"
)

var errNoRows = errors.New("no rows")

type Repository interface {
	GetAdminByEmail(ctx context.Context, email string) (AdminUser, error)
	GetAdminByID(ctx context.Context, id string) (AdminUser, error)
	CreateAdmin(ctx context.Context, user AdminUser) error
	TouchAdminLogin(ctx context.Context, id string, at time.Time) error

	GetClientByEmail(ctx context.Context, email string) (Client, error)
	GetClientByID(ctx context.Context, id string) (Client, error)
	CreateClient(ctx context.Context, client Client) error
	TouchClientLogin(ctx context.Context, id string, at time.Time) error
	ListClients(ctx context.Context) ([]Client, error)
}

type PostgresRepository struct {
	pg *db.Postgres
}

func NewRepository(pg *db.Postgres) *PostgresRepository {
	return &PostgresRepository{pg: pg}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

const adminColumns = "id, email, password_hash, name, created_at, last_login_at"

func (r *PostgresRepository) scanAdmin(row squirrel.RowScanner) (AdminUser, error) {
	var user AdminUser
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.CreatedAt, &user.LastLoginAt)
	if errors.Is(err, sql.ErrNoRows) {
		return AdminUser{}, errNoRows
	}
	return user, err
}

func (r *PostgresRepository) GetAdminByEmail(ctx context.Context, email string) (AdminUser, error) {
	query, args, err := r.pg.Builder.Select(adminColumns).From("admin_users").Where(squirrel.Eq{"email": email}).ToSql()
	if err != nil {
		return AdminUser{}, err
	}
	return r.scanAdmin(r.pg.DB.QueryRowContext(ctx, query, args...))
}

func (r *PostgresRepository) GetAdminByID(ctx context.Context, id string) (AdminUser, error) {
	query, args, err := r.pg.Builder.Select(adminColumns).From("admin_users").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return AdminUser{}, err
	}
	return r.scanAdmin(r.pg.DB.QueryRowContext(ctx, query, args...))
}

func (r *PostgresRepository) CreateAdmin(ctx context.Context, user AdminUser) error {
	query, args, err := r.pg.Builder.Insert("admin_users").
		Columns("id", "email", "password_hash", "name", "created_at").
		Values(user.ID, user.Email, user.PasswordHash, user.Name, user.CreatedAt).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.pg.DB.ExecContext(ctx, query, args...)
	return err
}

func (r *PostgresRepository) TouchAdminLogin(ctx context.Context, id string, at time.Time) error {
	query, args, err := r.pg.Builder.Update("admin_users").
		Set("last_login_at", at).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.pg.DB.ExecContext(ctx, query, args...)
	return err
}

const clientColumns = "id, email, password_hash, name, company, phone, created_at, last_login_at"

func (r *PostgresRepository) scanClient(row squirrel.RowScanner) (Client, error) {
	var client Client
	err := row.Scan(&client.ID, &client.Email, &client.PasswordHash, &client.Name,
		&client.Company, &client.Phone, &client.CreatedAt, &client.LastLoginAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Client{}, errNoRows
	}
	return client, err
}

func (r *PostgresRepository) GetClientByEmail(ctx context.Context, email string) (Client, error) {
	query, args, err := r.pg.Builder.Select(clientColumns).From("clients").Where(squirrel.Eq{"email": email}).ToSql()
	if err != nil {
		return Client{}, err
	}
	return r.scanClient(r.pg.DB.QueryRowContext(ctx, query, args...))
}

func (r *PostgresRepository) GetClientByID(ctx context.Context, id string) (Client, error) {
	query, args, err := r.pg.Builder.Select(clientColumns).From("clients").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return Client{}, err
	}
	return r.scanClient(r.pg.DB.QueryRowContext(ctx, query, args...))
}

func (r *PostgresRepository) CreateClient(ctx context.Context, client Client) error {
	query, args, err := r.pg.Builder.Insert("clients").
		Columns("id", "email", "password_hash", "name", "company", "phone", "created_at").
		Values(client.ID, client.Email, client.PasswordHash, client.Name, client.Company, client.Phone, client.CreatedAt).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.pg.DB.ExecContext(ctx, query, args...)
	return err
}

func (r *PostgresRepository) TouchClientLogin(ctx context.Context, id string, at time.Time) error {
	query, args, err := r.pg.Builder.Update("clients").
		Set("last_login_at", at).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.pg.DB.ExecContext(ctx, query, args...)
	return err
}

func (r *PostgresRepository) ListClients(ctx context.Context) ([]Client, error) {
	query, args, err := r.pg.Builder.Select(clientColumns).From("clients").OrderBy("created_at DESC").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pg.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clients := make([]Client, 0)
	for rows.Next() {
		client, err := r.scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}
	return clients, rows.Err()
}
