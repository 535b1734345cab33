package domain

import (
	"time"

	"github.com/google/uuid"
)

// LogRepository defines the interface for managing application logs.
type LogRepository interface {
	// InsertLog saves a new log entry to the repository.
	InsertLog(log *Log) error
	// GetLogs retrieves all log entries, oldest first.
	GetLogs() ([]*Log, error)
}

// Log is an application event kept next to the catalog data.
type Log struct {
	ID         uuid.UUID      // Unique identifier for the log entry.
	Timestamp  time.Time      // The time at which the log entry was created.
	Level      string         // DEBUG, INFO, WARN, ERROR or FATAL.
	Message    string         // The main content of the log message.
	Context    map[string]any // Additional key-value data.
	RequestID  string         // Optional ID of the API request that produced the entry.
	DocumentID *uuid.UUID     // Optional ID of the document the entry is about.
}
