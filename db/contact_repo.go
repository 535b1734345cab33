package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tfkr-ae/foundry/domain"
)

var _ domain.ContactRepository = (*Repository)(nil)

type dbContactMessage struct {
	ID         uuid.UUID `db:"id"`
	Name       string    `db:"name"`
	Email      string    `db:"email"`
	Phone      string    `db:"phone"`
	Company    string    `db:"company"`
	Message    string    `db:"message"`
	ReceivedAt time.Time `db:"received_at"`
}

// GetContactMessages retrieves the inbox, newest message first.
func (repo *Repository) GetContactMessages() ([]*domain.ContactMessage, error) {
	var rows []*dbContactMessage
	query := `SELECT id, name, email, phone, company, message, received_at
	          FROM contact_message ORDER BY received_at DESC, id DESC`

	if err := repo.dbConn.Select(&rows, query); err != nil {
		return nil, fmt.Errorf("getting contact messages: %w", err)
	}

	messages := make([]*domain.ContactMessage, len(rows))
	for i, row := range rows {
		m := domain.ContactMessage(*row)
		messages[i] = &m
	}
	return messages, nil
}

// CreateContactMessage stores a message submitted through the contact form.
// ReceivedAt is kept when already set.
func (repo *Repository) CreateContactMessage(message *domain.ContactMessage) (uuid.UUID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.Nil, fmt.Errorf("generating uuid: %w", err)
	}
	message.ID = id
	if message.ReceivedAt.IsZero() {
		message.ReceivedAt = time.Now().UTC()
	}

	query := `INSERT INTO contact_message (id, name, email, phone, company, message, received_at)
	          VALUES (:id, :name, :email, :phone, :company, :message, :received_at)`

	row := dbContactMessage(*message)
	if _, err := repo.dbConn.NamedExec(query, &row); err != nil {
		return uuid.Nil, fmt.Errorf("creating contact message from %s: %w", message.Email, err)
	}
	return id, nil
}

// DeleteContactMessage removes a message from the inbox.
func (repo *Repository) DeleteContactMessage(id uuid.UUID) error {
	result, err := repo.dbConn.Exec(`DELETE FROM contact_message WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting contact message %s: %w", id, err)
	}
	return checkAffected(result, "contact message", id)
}
