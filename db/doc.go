// Package db provides the database layer of the foundry catalog.
// It stores every catalog document (categories, projects, leaders, logos,
// contact messages, site settings) and application logs in SQLite.
//
// This package is responsible for:
// - Opening the connection and applying the embedded goose migrations (`db.go`).
// - Mapping domain documents to row structs, with JSON columns for nested
//   lists (`types.go`).
// - Implementing the repository interfaces of the domain package, one file
//   per collection.
package db
