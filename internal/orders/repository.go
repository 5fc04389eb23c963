package orders

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/ScroogeKZ/CreativeStudio/internal/db"
)

var errNoRows = errors.New("no rows")

type Repository interface {
	ListOrders(ctx context.Context) ([]Order, error)
	ListOrdersByClient(ctx context.Context, clientID string) ([]Order, error)
	GetOrder(ctx context.Context, id string) (Order, error)
	CreateOrder(ctx context.Context, order Order) error
	UpdateOrder(ctx context.Context, order Order) (Order, error)
	DeleteOrder(ctx context.Context, id string) error

	ListTasks(ctx context.Context, orderID string) ([]OrderTask, error)
	GetTask(ctx context.Context, id string) (OrderTask, error)
	CreateTask(ctx context.Context, task OrderTask) error
	CompleteTask(ctx context.Context, id string, at time.Time) (OrderTask, error)

	ListUpdates(ctx context.Context, orderID string) ([]OrderUpdate, error)
	CreateUpdate(ctx context.Context, update OrderUpdate) error
}

type PostgresRepository struct {
	pg *db.Postgres
}

func NewRepository(pg *db.Postgres) *PostgresRepository {
	return &PostgresRepository{pg: pg}
}

const orderColumns = "id, client_id, title, description, status, progress, service_type, start_date, end_date, case_id, created_at, updated_at"

func (r *PostgresRepository) scanOrder(row squirrel.RowScanner) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.ClientID, &o.Title, &o.Description, &o.Status, &o.Progress,
		&o.ServiceType, &o.StartDate, &o.EndDate, &o.CaseID, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Order{}, errNoRows
	}
	return o, err
}

func (r *PostgresRepository) queryOrders(ctx context.Context, q squirrel.SelectBuilder) ([]Order, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pg.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Order, 0)
	for rows.Next() {
		item, err := r.scanOrder(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) ListOrders(ctx context.Context) ([]Order, error) {
	return r.queryOrders(ctx, r.pg.Builder.Select(orderColumns).From("orders").OrderBy("created_at DESC"))
}

func (r *PostgresRepository) ListOrdersByClient(ctx context.Context, clientID string) ([]Order, error) {
	return r.queryOrders(ctx, r.pg.Builder.Select(orderColumns).From("orders").
		Where(squirrel.Eq{"client_id": clientID}).
		OrderBy("created_at DESC"))
}

func (r *PostgresRepository) GetOrder(ctx context.Context, id string) (Order, error) {
	query, args, err := r.pg.Builder.Select(orderColumns).From("orders").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return Order{}, err
	}
	return r.scanOrder(r.pg.DB.QueryRowContext(ctx, query, args...))
}

func (r *PostgresRepository) CreateOrder(ctx context.Context, order Order) error {
	query, args, err := r.pg.Builder.Insert("orders").
		Columns("id", "client_id", "title", "description", "status", "progress", "service_type",
			"start_date", "end_date", "case_id", "created_at", "updated_at").
		Values(order.ID, order.ClientID, order.Title, order.Description, order.Status, order.Progress,
			order.ServiceType, order.StartDate, order.EndDate, order.CaseID, order.CreatedAt, order.UpdatedAt).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.pg.DB.ExecContext(ctx, query, args...)
	return err
}

func (r *PostgresRepository) UpdateOrder(ctx context.Context, order Order) (Order, error) {
	query, args, err := r.pg.Builder.Update("orders").
		Set("title", order.Title).
		Set("description", order.Description).
		Set("status", order.Status).
		Set("progress", order.Progress).
		Set("service_type", order.ServiceType).
		Set("start_date", order.StartDate).
		Set("end_date", order.EndDate).
		Set("case_id", order.CaseID).
		Set("updated_at", order.UpdatedAt).
		Where(squirrel.Eq{"id": order.ID}).
		Suffix("RETURNING " + orderColumns).
		ToSql()
	if err != nil {
		return Order{}, err
	}
	return r.scanOrder(r.pg.DB.QueryRowContext(ctx, query, args...))
}

func (r *PostgresRepository) DeleteOrder(ctx context.Context, id string) error {
	query, args, err := r.pg.Builder.Delete("orders").
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return err
	}
	var deleted string
	err = r.pg.DB.QueryRowContext(ctx, query, args...).Scan(&deleted)
	if errors.Is(err, sql.ErrNoRows) {
		return errNoRows
	}
	return err
}

const taskColumns = `id, order_id, title, description, status, due_date, completed_at, "order", created_at, updated_at`

func (r *PostgresRepository) scanTask(row squirrel.RowScanner) (OrderTask, error) {
	var t OrderTask
	err := row.Scan(&t.ID, &t.OrderID, &t.Title, &t.Description, &t.Status,
		&t.DueDate, &t.CompletedAt, &t.Order, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return OrderTask{}, errNoRows
	}
	return t, err
}

func (r *PostgresRepository) ListTasks(ctx context.Context, orderID string) ([]OrderTask, error) {
	query, args, err := r.pg.Builder.Select(taskColumns).From("order_tasks").
		Where(squirrel.Eq{"order_id": orderID}).
		OrderBy(`"order" ASC`, "created_at ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pg.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]OrderTask, 0)
	for rows.Next() {
		item, err := r.scanTask(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) GetTask(ctx context.Context, id string) (OrderTask, error) {
	query, args, err := r.pg.Builder.Select(taskColumns).From("order_tasks").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return OrderTask{}, err
	}
	return r.scanTask(r.pg.DB.QueryRowContext(ctx, query, args...))
}

func (r *PostgresRepository) CreateTask(ctx context.Context, task OrderTask) error {
	query, args, err := r.pg.Builder.Insert("order_tasks").
		Columns("id", "order_id", "title", "description", "status", "due_date", "completed_at", `"order"`, "created_at", "updated_at").
		Values(task.ID, task.OrderID, task.Title, task.Description, task.Status,
			task.DueDate, task.CompletedAt, task.Order, task.CreatedAt, task.UpdatedAt).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.pg.DB.ExecContext(ctx, query, args...)
	return err
}

// CompleteTask stamps completion unconditionally: re-completing an already
// completed task refreshes completed_at.
func (r *PostgresRepository) CompleteTask(ctx context.Context, id string, at time.Time) (OrderTask, error) {
	query, args, err := r.pg.Builder.Update("order_tasks").
		Set("status", TaskCompleted).
		Set("completed_at", at).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + taskColumns).
		ToSql()
	if err != nil {
		return OrderTask{}, err
	}
	return r.scanTask(r.pg.DB.QueryRowContext(ctx, query, args...))
}

const updateColumns = "id, order_id, title, message, type, created_at"

func (r *PostgresRepository) scanUpdate(row squirrel.RowScanner) (OrderUpdate, error) {
	var u OrderUpdate
	err := row.Scan(&u.ID, &u.OrderID, &u.Title, &u.Message, &u.Type, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return OrderUpdate{}, errNoRows
	}
	return u, err
}

func (r *PostgresRepository) ListUpdates(ctx context.Context, orderID string) ([]OrderUpdate, error) {
	query, args, err := r.pg.Builder.Select(updateColumns).From("order_updates").
		Where(squirrel.Eq{"order_id": orderID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pg.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]OrderUpdate, 0)
	for rows.Next() {
		item, err := r.scanUpdate(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) CreateUpdate(ctx context.Context, update OrderUpdate) error {
	query, args, err := r.pg.Builder.Insert("order_updates").
		Columns("id", "order_id", "title", "message", "type", "created_at").
		Values(update.ID, update.OrderID, update.Title, update.Message, update.Type, update.CreatedAt).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.pg.DB.ExecContext(ctx, query, args...)
	return err
}
