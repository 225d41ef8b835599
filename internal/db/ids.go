package db

import "github.com/google/uuid"

// NewID generates an identifier for write-path rows (feedback, curators).
func NewID() string {
	return uuid.NewString()
}
