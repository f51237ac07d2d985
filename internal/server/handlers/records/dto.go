package records

import "github.com/gitvault/gitvault/internal/records"

// CreateRequest represents the request payload for creating a record. The
// ID may arrive as a string or a number; numbers are normalized to their
// decimal form, since IDs only ever appear as path segments here.
type CreateRequest struct {
	ID      any            `json:"id"      validate:"required"`
	Data    records.Record `json:"data"    validate:"required"`
	Commit  bool           `json:"commit"`
	Message string         `json:"message"`
}

// UpdateRequest represents the request payload for overwriting a record.
type UpdateRequest struct {
	Data    records.Record `json:"data"    validate:"required"`
	Commit  bool           `json:"commit"`
	Message string         `json:"message"`
}

// RecordResponse represents a single record.
type RecordResponse struct {
	ID   string         `json:"id"`
	Data records.Record `json:"data"`
}

// IndexResponse maps record IDs to their contents.
type IndexResponse map[string]records.Record

// UncommittedResponse lists record IDs with pending local modifications.
type UncommittedResponse struct {
	IDs []string `json:"ids"`
}
