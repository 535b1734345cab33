package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ContactRepository defines the persistence contract for contact form submissions.
type ContactRepository interface {
	// GetContactMessages returns every submission, newest first.
	GetContactMessages() ([]*ContactMessage, error)

	// CreateContactMessage stores a submission and returns its generated ID.
	CreateContactMessage(message *ContactMessage) (uuid.UUID, error)

	// DeleteContactMessage removes a submission.
	DeleteContactMessage(id uuid.UUID) error
}

// ContactMessage is a contact form submission. Messages are only stored.
type ContactMessage struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Company    string    `json:"company"`
	Message    string    `json:"message"`
	ReceivedAt time.Time `json:"received_at"`
}

// Normalize trims the free text fields.
func (m *ContactMessage) Normalize() {
	m.Name = strings.TrimSpace(m.Name)
	m.Email = strings.TrimSpace(m.Email)
	m.Phone = strings.TrimSpace(m.Phone)
	m.Company = strings.TrimSpace(m.Company)
	m.Message = strings.TrimSpace(m.Message)
}

// Validate checks the payload shape.
func (m *ContactMessage) Validate() error {
	v := &validator{}
	v.required("name", m.Name)
	v.maxLen("name", m.Name, 120)
	v.required("email", m.Email)
	v.email("email", m.Email)
	v.maxLen("phone", m.Phone, 40)
	v.maxLen("company", m.Company, 200)
	v.required("message", m.Message)
	v.maxLen("message", m.Message, 5000)
	return v.err()
}
