package orders

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ScroogeKZ/CreativeStudio/internal/i18n"
)

type memRepo struct {
	orders  []Order
	tasks   []OrderTask
	updates []OrderUpdate
}

func (m *memRepo) ListOrders(ctx context.Context) ([]Order, error) {
	out := make([]Order, len(m.orders))
	copy(out, m.orders)
	return out, nil
}

func (m *memRepo) ListOrdersByClient(ctx context.Context, clientID string) ([]Order, error) {
	out := make([]Order, 0)
	for _, o := range m.orders {
		if o.ClientID == clientID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memRepo) GetOrder(ctx context.Context, id string) (Order, error) {
	for _, o := range m.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return Order{}, errNoRows
}

func (m *memRepo) CreateOrder(ctx context.Context, order Order) error {
	m.orders = append(m.orders, order)
	return nil
}

func (m *memRepo) UpdateOrder(ctx context.Context, order Order) (Order, error) {
	for i, o := range m.orders {
		if o.ID == order.ID {
			order.CreatedAt = o.CreatedAt
			m.orders[i] = order
			return order, nil
		}
	}
	return Order{}, errNoRows
}

func (m *memRepo) DeleteOrder(ctx context.Context, id string) error {
	for i, o := range m.orders {
		if o.ID == id {
			m.orders = append(m.orders[:i], m.orders[i+1:]...)
			return nil
		}
	}
	return errNoRows
}

func (m *memRepo) ListTasks(ctx context.Context, orderID string) ([]OrderTask, error) {
	out := make([]OrderTask, 0)
	for _, t := range m.tasks {
		if t.OrderID == orderID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memRepo) GetTask(ctx context.Context, id string) (OrderTask, error) {
	for _, t := range m.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return OrderTask{}, errNoRows
}

func (m *memRepo) CreateTask(ctx context.Context, task OrderTask) error {
	m.tasks = append(m.tasks, task)
	return nil
}

func (m *memRepo) CompleteTask(ctx context.Context, id string, at time.Time) (OrderTask, error) {
	for i, t := range m.tasks {
		if t.ID == id {
			m.tasks[i].Status = TaskCompleted
			m.tasks[i].CompletedAt = &at
			m.tasks[i].UpdatedAt = at
			return m.tasks[i], nil
		}
	}
	return OrderTask{}, errNoRows
}

func (m *memRepo) ListUpdates(ctx context.Context, orderID string) ([]OrderUpdate, error) {
	out := make([]OrderUpdate, 0)
	for _, u := range m.updates {
		if u.OrderID == orderID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memRepo) CreateUpdate(ctx context.Context, update OrderUpdate) error {
	m.updates = append(m.updates, update)
	return nil
}

func newTestService(t *testing.T) (*Service, *memRepo) {
	t.Helper()
	repo := &memRepo{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, log), repo
}

func trilingual(prefix string) i18n.Text {
	return i18n.Text{RU: prefix + " ru", KZ: prefix + " kz", EN: prefix + " en"}
}

func orderRequest(clientID string) OrderCreateRequest {
	return OrderCreateRequest{
		ClientID:    clientID,
		Title:       trilingual("title"),
		Description: trilingual("description"),
		ServiceType: "branding",
	}
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestCreateOrderDefaults(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, orderRequest("client-1"))
	require.NoError(t, err)
	assert.Equal(t, StatusPending, order.Status)
	assert.Equal(t, 0, order.Progress)
	assert.NotEmpty(t, order.ID)
}

func TestCreateOrderRejectsUnknownStatus(t *testing.T) {
	svc, _ := newTestService(t)

	req := orderRequest("client-1")
	req.Status = "shipped"
	_, err := svc.CreateOrder(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestProgressRejectedNotClamped(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, orderRequest("client-1"))
	require.NoError(t, err)

	_, err = svc.UpdateOrder(ctx, order.ID, OrderPatchRequest{Progress: intPtr(42)})
	require.NoError(t, err)

	for _, bad := range []int{-1, 101, 500} {
		_, err = svc.UpdateOrder(ctx, order.ID, OrderPatchRequest{Progress: intPtr(bad)})
		assert.ErrorIs(t, err, ErrInvalidProgress)
	}

	// Rejected patches must not disturb the stored value.
	stored, err := svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 42, stored.Progress)
}

func TestPatchKeepsUnsetFields(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, orderRequest("client-1"))
	require.NoError(t, err)

	patched, err := svc.UpdateOrder(ctx, order.ID, OrderPatchRequest{Status: strPtr(StatusReview)})
	require.NoError(t, err)
	assert.Equal(t, StatusReview, patched.Status)
	assert.Equal(t, order.Title, patched.Title)
	assert.Equal(t, order.ServiceType, patched.ServiceType)
	assert.Equal(t, order.Progress, patched.Progress)
}

func TestCompleteTaskStampsCompletedAt(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, orderRequest("client-1"))
	require.NoError(t, err)

	task, err := svc.CreateTask(ctx, order.ID, TaskCreateRequest{Title: trilingual("task")})
	require.NoError(t, err)
	require.Equal(t, TaskPending, task.Status)
	require.Nil(t, task.CompletedAt)

	done, err := svc.CompleteTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, TaskCompleted, done.Status)
	require.NotNil(t, done.CompletedAt)

	// Re-completing refreshes the stamp and never regresses the status.
	again, err := svc.CompleteTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, TaskCompleted, again.Status)
	assert.NotNil(t, again.CompletedAt)
	assert.False(t, again.CompletedAt.Before(*done.CompletedAt))
}

func TestCompleteTaskDoesNotTouchOrderProgress(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, orderRequest("client-1"))
	require.NoError(t, err)

	task, err := svc.CreateTask(ctx, order.ID, TaskCreateRequest{Title: trilingual("only task")})
	require.NoError(t, err)
	_, err = svc.CompleteTask(ctx, task.ID)
	require.NoError(t, err)

	stored, err := svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Progress, "progress is set explicitly, never derived from tasks")
}

func TestAddUpdateValidatesType(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, orderRequest("client-1"))
	require.NoError(t, err)

	defaulted, err := svc.AddUpdate(ctx, order.ID, UpdateCreateRequest{
		Title:   trilingual("kickoff"),
		Message: trilingual("work started"),
	})
	require.NoError(t, err)
	assert.Equal(t, UpdateTypeUpdate, defaulted.Type)

	milestone, err := svc.AddUpdate(ctx, order.ID, UpdateCreateRequest{
		Title:   trilingual("halfway"),
		Message: trilingual("design approved"),
		Type:    UpdateTypeMilestone,
	})
	require.NoError(t, err)
	assert.Equal(t, UpdateTypeMilestone, milestone.Type)

	_, err = svc.AddUpdate(ctx, order.ID, UpdateCreateRequest{
		Title:   trilingual("bad"),
		Message: trilingual("bad"),
		Type:    "announcement",
	})
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestClientOrderScoping(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	mine, err := svc.CreateOrder(ctx, orderRequest("client-1"))
	require.NoError(t, err)
	theirs, err := svc.CreateOrder(ctx, orderRequest("client-2"))
	require.NoError(t, err)

	got, err := svc.ClientOrder(ctx, "client-1", mine.ID)
	require.NoError(t, err)
	assert.Equal(t, mine.ID, got.ID)

	_, err = svc.ClientOrder(ctx, "client-1", theirs.ID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.ClientOrder(ctx, "client-1", "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.ClientTasks(ctx, "client-1", theirs.ID)
	assert.ErrorIs(t, err, ErrAccessDenied)
	_, err = svc.ClientUpdates(ctx, "client-1", theirs.ID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	list, err := svc.ClientOrders(ctx, "client-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].ID)
}

func TestClientStats(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	statuses := []string{StatusPending, StatusInProgress, StatusInProgress, StatusCompleted, StatusCancelled}
	for _, status := range statuses {
		req := orderRequest("client-1")
		req.Status = status
		_, err := svc.CreateOrder(ctx, req)
		require.NoError(t, err)
	}
	_, err := svc.CreateOrder(ctx, orderRequest("client-2"))
	require.NoError(t, err)

	stats, err := svc.ClientStats(ctx, "client-1")
	require.NoError(t, err)
	assert.Equal(t, Stats{Total: 5, InProgress: 2, Completed: 1}, stats)
}

func TestTaskCreateRequiresOrder(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateTask(context.Background(), "missing", TaskCreateRequest{Title: trilingual("task")})
	assert.ErrorIs(t, err, ErrNotFound)
}
