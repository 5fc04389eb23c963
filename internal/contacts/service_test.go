package contacts

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	contacts []Contact
}

func (m *memRepo) Create(ctx context.Context, contact Contact) error {
	m.contacts = append(m.contacts, contact)
	return nil
}

func (m *memRepo) List(ctx context.Context, status string) ([]Contact, error) {
	out := make([]Contact, 0)
	for _, c := range m.contacts {
		if status == "" || c.Status == status {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memRepo) UpdateStatus(ctx context.Context, id, status string) (Contact, error) {
	for i, c := range m.contacts {
		if c.ID == id {
			m.contacts[i].Status = status
			return m.contacts[i], nil
		}
	}
	return Contact{}, errNoRows
}

func newTestService(t *testing.T) (*Service, *memRepo) {
	t.Helper()
	repo := &memRepo{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, nil, "", log), repo
}

func TestSubmitStoresWithNewStatus(t *testing.T) {
	svc, repo := newTestService(t)

	contact, err := svc.Submit(context.Background(), SubmitRequest{
		Name:    "Aruzhan",
		Email:   "aruzhan@example.com",
		Message: "Need a rebrand.",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusNew, contact.Status)
	assert.NotEmpty(t, contact.ID)
	require.Len(t, repo.contacts, 1)
}

func TestSanitizeStripsControlCharacters(t *testing.T) {
	phone := " +7 (701) 123-45-67\x00 "
	req := SubmitRequest{
		Name:    "  Aruzhan\x00\x1b ",
		Email:   "\taruzhan@example.com ",
		Phone:   &phone,
		Message: "line one\nline two\x07\ttabbed",
	}
	req.Sanitize()

	assert.Equal(t, "Aruzhan", req.Name)
	assert.Equal(t, "aruzhan@example.com", req.Email)
	require.NotNil(t, req.Phone)
	assert.Equal(t, "+7 (701) 123-45-67", *req.Phone)
	assert.Equal(t, "line one\nline two\ttabbed", req.Message)
}

func TestSanitizeTruncatesAndDropsEmptyOptionals(t *testing.T) {
	empty := "   "
	req := SubmitRequest{
		Name:    strings.Repeat("a", maxNameLen+50),
		Email:   "a@b.kz",
		Company: &empty,
		Message: strings.Repeat("m", maxMessageLen+1),
	}
	req.Sanitize()

	assert.Len(t, req.Name, maxNameLen)
	assert.Len(t, req.Message, maxMessageLen)
	assert.Nil(t, req.Company, "blank optional collapses to absent")
}

func TestStatusFlow(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	contact, err := svc.Submit(ctx, SubmitRequest{
		Name:    "Dias",
		Email:   "dias@example.com",
		Message: "Landing page quote.",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, contact.ID, StatusContacted)
	require.NoError(t, err)
	assert.Equal(t, StatusContacted, updated.Status)

	_, err = svc.UpdateStatus(ctx, contact.ID, "archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.UpdateStatus(ctx, "missing", StatusClosed)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListFiltersByStatus(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Submit(ctx, SubmitRequest{Name: "A", Email: "a@example.com", Message: "one"})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, SubmitRequest{Name: "B", Email: "b@example.com", Message: "two"})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, first.ID, StatusClosed)
	require.NoError(t, err)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	closed, err := svc.List(ctx, StatusClosed)
	require.NoError(t, err)
	require.Len(t, closed, 1)
	assert.Equal(t, first.ID, closed[0].ID)

	_, err = svc.List(ctx, "spam")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
