// Package core holds small helpers shared by the server, the API and the command line.
// This file contains option functions for customizing log entries.
package core

import (
	"github.com/google/uuid"
	"github.com/tfkr-ae/foundry/domain"
)

// LogOption customizes a log entry before it is written.
type LogOption func(log *domain.Log) error

// LogWithContext is an option to add a context map to a log entry.
func LogWithContext(context map[string]any) LogOption {
	return func(log *domain.Log) error {
		log.Context = context
		return nil
	}
}

// LogWithRequestID is an option to associate a log entry with an API request ID.
func LogWithRequestID(id string) LogOption {
	return func(log *domain.Log) error {
		log.RequestID = id
		return nil
	}
}

// LogWithDocumentID is an option to associate a log entry with a stored document.
func LogWithDocumentID(id uuid.UUID) LogOption {
	return func(log *domain.Log) error {
		log.DocumentID = &id
		return nil
	}
}
