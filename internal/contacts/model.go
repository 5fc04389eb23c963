package contacts

import (
	"strings"
	"time"
	"unicode"
)

const (
	StatusNew       = "new"
	StatusContacted = "contacted"
	StatusClosed    = "closed"
)

var statuses = map[string]struct{}{
	StatusNew:       {},
	StatusContacted: {},
	StatusClosed:    {},
}

func ValidStatus(s string) bool {
	_, ok := statuses[s]
	return ok
}

type Contact struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	Company   *string   `json:"company,omitempty"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type SubmitRequest struct {
	Name    string  `json:"name" validate:"required,max=200"`
	Email   string  `json:"email" validate:"required,email,max=254"`
	Phone   *string `json:"phone" validate:"omitempty,phone"`
	Company *string `json:"company" validate:"omitempty,max=200"`
	Message string  `json:"message" validate:"required,max=5000"`
}

type StatusPatchRequest struct {
	Status string `json:"status" validate:"required"`
}

const (
	maxNameLen    = 200
	maxEmailLen   = 254
	maxPhoneLen   = 50
	maxCompanyLen = 200
	maxMessageLen = 5000
)

// Sanitize normalizes the submission before validation: trims whitespace,
// strips control characters and cuts over-long fields, so hostile input
// degrades instead of erroring out.
func (r *SubmitRequest) Sanitize() {
	r.Name = sanitizeLine(r.Name, maxNameLen)
	r.Email = sanitizeLine(r.Email, maxEmailLen)
	r.Message = sanitizeBlock(r.Message, maxMessageLen)
	if r.Phone != nil {
		phone := sanitizeLine(*r.Phone, maxPhoneLen)
		if phone == "" {
			r.Phone = nil
		} else {
			r.Phone = &phone
		}
	}
	if r.Company != nil {
		company := sanitizeLine(*r.Company, maxCompanyLen)
		if company == "" {
			r.Company = nil
		} else {
			r.Company = &company
		}
	}
}

// sanitizeLine strips every control character from a single-line field.
func sanitizeLine(s string, max int) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(s)
	return truncate(s, max)
}

// sanitizeBlock keeps newlines and tabs so the message stays readable.
func sanitizeBlock(s string, max int) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(s)
	return truncate(s, max)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
