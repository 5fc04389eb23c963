package orders

import (
	"time"

	"github.com/ScroogeKZ/CreativeStudio/internal/i18n"
)

// Order statuses. Any member may follow any other; there is no transition
// graph, only membership validation.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusReview     = "review"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

const (
	TaskPending    = "pending"
	TaskInProgress = "in_progress"
	TaskCompleted  = "completed"
)

const (
	UpdateTypeUpdate    = "update"
	UpdateTypeComment   = "comment"
	UpdateTypeMilestone = "milestone"
)

var orderStatuses = map[string]struct{}{
	StatusPending:    {},
	StatusInProgress: {},
	StatusReview:     {},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

var taskStatuses = map[string]struct{}{
	TaskPending:    {},
	TaskInProgress: {},
	TaskCompleted:  {},
}

var updateTypes = map[string]struct{}{
	UpdateTypeUpdate:    {},
	UpdateTypeComment:   {},
	UpdateTypeMilestone: {},
}

func ValidOrderStatus(s string) bool {
	_, ok := orderStatuses[s]
	return ok
}

func ValidTaskStatus(s string) bool {
	_, ok := taskStatuses[s]
	return ok
}

func ValidUpdateType(s string) bool {
	_, ok := updateTypes[s]
	return ok
}

type Order struct {
	ID          string     `json:"id"`
	ClientID    string     `json:"clientId"`
	Title       i18n.Text  `json:"title"`
	Description i18n.Text  `json:"description"`
	Status      string     `json:"status"`
	Progress    int        `json:"progress"`
	ServiceType string     `json:"serviceType"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	CaseID      *string    `json:"caseId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type OrderTask struct {
	ID          string     `json:"id"`
	OrderID     string     `json:"orderId"`
	Title       i18n.Text  `json:"title"`
	Description i18n.Text  `json:"description"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Order       int        `json:"order"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// OrderUpdate is one entry of the append-only progress feed shown to the
// client.
type OrderUpdate struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"orderId"`
	Title     i18n.Text `json:"title"`
	Message   i18n.Text `json:"message"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

type OrderCreateRequest struct {
	ClientID    string     `json:"clientId" validate:"required"`
	Title       i18n.Text  `json:"title" validate:"required"`
	Description i18n.Text  `json:"description" validate:"required"`
	ServiceType string     `json:"serviceType" validate:"required"`
	Status      string     `json:"status"`
	Progress    *int       `json:"progress"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	CaseID      *string    `json:"caseId"`
}

// OrderPatchRequest carries a partial update; nil fields keep the stored
// value.
type OrderPatchRequest struct {
	Title       *i18n.Text `json:"title"`
	Description *i18n.Text `json:"description"`
	ServiceType *string    `json:"serviceType"`
	Status      *string    `json:"status"`
	Progress    *int       `json:"progress"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	CaseID      *string    `json:"caseId"`
}

type TaskCreateRequest struct {
	Title       i18n.Text  `json:"title" validate:"required"`
	Description *i18n.Text `json:"description"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"dueDate"`
	Order       *int       `json:"order" validate:"omitempty,gte=0"`
}

type UpdateCreateRequest struct {
	Title   i18n.Text `json:"title" validate:"required"`
	Message i18n.Text `json:"message" validate:"required"`
	Type    string    `json:"type"`
}

// Stats is the client dashboard aggregate, computed per request.
type Stats struct {
	Total      int `json:"total"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
}
