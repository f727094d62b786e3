package domain

import "github.com/google/uuid"

// NewID returns a fresh random identifier.
func NewID() string {
	return generateID()
}

func generateID() string {
	return uuid.New().String()
}
