package contacts

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"

	"github.com/ScroogeKZ/CreativeStudio/internal/db"
)

var errNoRows = errors.New("no rows")

type Repository interface {
	Create(ctx context.Context, contact Contact) error
	List(ctx context.Context, status string) ([]Contact, error)
	UpdateStatus(ctx context.Context, id, status string) (Contact, error)
}

type PostgresRepository struct {
	pg *db.Postgres
}

func NewRepository(pg *db.Postgres) *PostgresRepository {
	return &PostgresRepository{pg: pg}
}

const contactColumns = "id, name, email, phone, company, message, status, created_at"

func (r *PostgresRepository) scanContact(row squirrel.RowScanner) (Contact, error) {
	var c Contact
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Company, &c.Message, &c.Status, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Contact{}, errNoRows
	}
	return c, err
}

func (r *PostgresRepository) Create(ctx context.Context, contact Contact) error {
	query, args, err := r.pg.Builder.Insert("contacts").
		Columns("id", "name", "email", "phone", "company", "message", "status", "created_at").
		Values(contact.ID, contact.Name, contact.Email, contact.Phone, contact.Company,
			contact.Message, contact.Status, contact.CreatedAt).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.pg.DB.ExecContext(ctx, query, args...)
	return err
}

func (r *PostgresRepository) List(ctx context.Context, status string) ([]Contact, error) {
	q := r.pg.Builder.Select(contactColumns).From("contacts").OrderBy("created_at DESC")
	if status != "" {
		q = q.Where(squirrel.Eq{"status": status})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pg.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Contact, 0)
	for rows.Next() {
		item, err := r.scanContact(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id, status string) (Contact, error) {
	query, args, err := r.pg.Builder.Update("contacts").
		Set("status", status).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + contactColumns).
		ToSql()
	if err != nil {
		return Contact{}, err
	}
	return r.scanContact(r.pg.DB.QueryRowContext(ctx, query, args...))
}
