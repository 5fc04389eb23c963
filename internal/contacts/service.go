package contacts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ScroogeKZ/CreativeStudio/internal/notifications"
)

var (
	ErrNotFound      = errors.New("contact not found")
	ErrInvalidStatus = errors.New("invalid status")
)

type Service struct {
	repo     Repository
	notifier *notifications.BrevoClient
	notifyTo string
	log      *slog.Logger
}

// NewService takes a nil notifier when lead emails are disabled.
func NewService(repo Repository, notifier *notifications.BrevoClient, notifyTo string, log *slog.Logger) *Service {
	return &Service{repo: repo, notifier: notifier, notifyTo: notifyTo, log: log}
}

// Submit stores the sanitized contact and fires the lead notification in the
// background. A failed email never fails the submission.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (Contact, error) {
	contact := Contact{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Company:   req.Company,
		Message:   req.Message,
		Status:    StatusNew,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, contact); err != nil {
		return Contact{}, err
	}

	if s.notifier != nil && s.notifyTo != "" {
		go s.notifyLead(contact)
	}
	return contact, nil
}

func (s *Service) notifyLead(contact Contact) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	lead := notifications.ContactLead{
		ID:        contact.ID,
		Name:      contact.Name,
		Email:     contact.Email,
		Message:   contact.Message,
		CreatedAt: contact.CreatedAt,
	}
	if contact.Phone != nil {
		lead.Phone = *contact.Phone
	}
	if contact.Company != nil {
		lead.Company = *contact.Company
	}

	messageID, err := s.notifier.SendContactLeadNotification(ctx, s.notifyTo, lead)
	if err != nil {
		s.log.Warn("contact lead notification failed",
			slog.String("contact_id", contact.ID), slog.String("error", err.Error()))
		return
	}
	s.log.Info("contact lead notification sent",
		slog.String("contact_id", contact.ID), slog.String("message_id", messageID))
}

func (s *Service) List(ctx context.Context, status string) ([]Contact, error) {
	if status != "" && !ValidStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return s.repo.List(ctx, status)
}

func (s *Service) UpdateStatus(ctx context.Context, id, status string) (Contact, error) {
	if !ValidStatus(status) {
		return Contact{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	contact, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, errNoRows) {
			return Contact{}, ErrNotFound
		}
		return Contact{}, err
	}
	return contact, nil
}
