package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("order not found")
	// ErrAccessDenied marks reads of an order owned by another client. Kept
	// distinct from ErrNotFound: the order exists, the caller may not see it.
	ErrAccessDenied    = errors.New("access denied")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidProgress = errors.New("progress must be between 0 and 100")
	ErrInvalidType     = errors.New("invalid update type")
)

type Service struct {
	repo Repository
	log  *slog.Logger
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// checkProgress rejects out-of-range values instead of clamping them.
func checkProgress(progress int) error {
	if progress < 0 || progress > 100 {
		return fmt.Errorf("%w: %d", ErrInvalidProgress, progress)
	}
	return nil
}

func mapRepoErr(err error) error {
	if errors.Is(err, errNoRows) {
		return ErrNotFound
	}
	return err
}

// --- admin surface ---

func (s *Service) ListOrders(ctx context.Context) ([]Order, error) {
	return s.repo.ListOrders(ctx)
}

func (s *Service) GetOrder(ctx context.Context, id string) (Order, error) {
	order, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return Order{}, mapRepoErr(err)
	}
	return order, nil
}

func (s *Service) CreateOrder(ctx context.Context, req OrderCreateRequest) (Order, error) {
	status := req.Status
	if status == "" {
		status = StatusPending
	}
	if !ValidOrderStatus(status) {
		return Order{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	progress := 0
	if req.Progress != nil {
		progress = *req.Progress
	}
	if err := checkProgress(progress); err != nil {
		return Order{}, err
	}

	now := time.Now().UTC()
	order := Order{
		ID:          uuid.NewString(),
		ClientID:    req.ClientID,
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		Progress:    progress,
		ServiceType: req.ServiceType,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		CaseID:      req.CaseID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return Order{}, err
	}
	return order, nil
}

// UpdateOrder applies a partial patch over the stored row. Invalid status or
// progress rejects the whole patch; the stored row keeps its values.
func (s *Service) UpdateOrder(ctx context.Context, id string, req OrderPatchRequest) (Order, error) {
	order, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return Order{}, mapRepoErr(err)
	}

	if req.Status != nil {
		if !ValidOrderStatus(*req.Status) {
			return Order{}, fmt.Errorf("%w: %q", ErrInvalidStatus, *req.Status)
		}
		order.Status = *req.Status
	}
	if req.Progress != nil {
		if err := checkProgress(*req.Progress); err != nil {
			return Order{}, err
		}
		order.Progress = *req.Progress
	}
	if req.Title != nil {
		order.Title = *req.Title
	}
	if req.Description != nil {
		order.Description = *req.Description
	}
	if req.ServiceType != nil {
		order.ServiceType = *req.ServiceType
	}
	if req.StartDate != nil {
		order.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		order.EndDate = req.EndDate
	}
	if req.CaseID != nil {
		order.CaseID = req.CaseID
	}
	order.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.UpdateOrder(ctx, order)
	if err != nil {
		return Order{}, mapRepoErr(err)
	}
	return updated, nil
}

func (s *Service) DeleteOrder(ctx context.Context, id string) error {
	if err := s.repo.DeleteOrder(ctx, id); err != nil {
		return mapRepoErr(err)
	}
	return nil
}

func (s *Service) ListTasks(ctx context.Context, orderID string) ([]OrderTask, error) {
	if _, err := s.repo.GetOrder(ctx, orderID); err != nil {
		return nil, mapRepoErr(err)
	}
	return s.repo.ListTasks(ctx, orderID)
}

func (s *Service) CreateTask(ctx context.Context, orderID string, req TaskCreateRequest) (OrderTask, error) {
	if _, err := s.repo.GetOrder(ctx, orderID); err != nil {
		return OrderTask{}, mapRepoErr(err)
	}

	status := req.Status
	if status == "" {
		status = TaskPending
	}
	if !ValidTaskStatus(status) {
		return OrderTask{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	now := time.Now().UTC()
	task := OrderTask{
		ID:        uuid.NewString(),
		OrderID:   orderID,
		Title:     req.Title,
		Status:    status,
		DueDate:   req.DueDate,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Order != nil {
		task.Order = *req.Order
	}
	if err := s.repo.CreateTask(ctx, task); err != nil {
		return OrderTask{}, err
	}
	return task, nil
}

// CompleteTask marks the task done and stamps completedAt. Completing a task
// never touches the parent order's progress: progress is set explicitly by
// the admin, not derived from tasks.
func (s *Service) CompleteTask(ctx context.Context, taskID string) (OrderTask, error) {
	task, err := s.repo.CompleteTask(ctx, taskID, time.Now().UTC())
	if err != nil {
		return OrderTask{}, mapRepoErr(err)
	}
	return task, nil
}

func (s *Service) ListUpdates(ctx context.Context, orderID string) ([]OrderUpdate, error) {
	if _, err := s.repo.GetOrder(ctx, orderID); err != nil {
		return nil, mapRepoErr(err)
	}
	return s.repo.ListUpdates(ctx, orderID)
}

// AddUpdate appends to the order's feed. Entries are never edited or removed
// through the service.
func (s *Service) AddUpdate(ctx context.Context, orderID string, req UpdateCreateRequest) (OrderUpdate, error) {
	if _, err := s.repo.GetOrder(ctx, orderID); err != nil {
		return OrderUpdate{}, mapRepoErr(err)
	}

	kind := req.Type
	if kind == "" {
		kind = UpdateTypeUpdate
	}
	if !ValidUpdateType(kind) {
		return OrderUpdate{}, fmt.Errorf("%w: %q", ErrInvalidType, kind)
	}

	update := OrderUpdate{
		ID:        uuid.NewString(),
		OrderID:   orderID,
		Title:     req.Title,
		Message:   req.Message,
		Type:      kind,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateUpdate(ctx, update); err != nil {
		return OrderUpdate{}, err
	}
	return update, nil
}

// --- client surface, scoped to the owning client ---

func (s *Service) ClientOrders(ctx context.Context, clientID string) ([]Order, error) {
	return s.repo.ListOrdersByClient(ctx, clientID)
}

// ClientOrder returns the order only when clientID owns it.
func (s *Service) ClientOrder(ctx context.Context, clientID, orderID string) (Order, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return Order{}, mapRepoErr(err)
	}
	if order.ClientID != clientID {
		return Order{}, ErrAccessDenied
	}
	return order, nil
}

func (s *Service) ClientTasks(ctx context.Context, clientID, orderID string) ([]OrderTask, error) {
	if _, err := s.ClientOrder(ctx, clientID, orderID); err != nil {
		return nil, err
	}
	return s.repo.ListTasks(ctx, orderID)
}

func (s *Service) ClientUpdates(ctx context.Context, clientID, orderID string) ([]OrderUpdate, error) {
	if _, err := s.ClientOrder(ctx, clientID, orderID); err != nil {
		return nil, err
	}
	return s.repo.ListUpdates(ctx, orderID)
}

// ClientStats aggregates the client's dashboard counters. Computed on every
// request; the dynamic TTL pool is not worth a near-realtime dashboard
// going stale.
func (s *Service) ClientStats(ctx context.Context, clientID string) (Stats, error) {
	list, err := s.repo.ListOrdersByClient(ctx, clientID)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{Total: len(list)}
	for _, order := range list {
		switch order.Status {
		case StatusInProgress:
			stats.InProgress++
		case StatusCompleted:
			stats.Completed++
		}
	}
	return stats, nil
}
