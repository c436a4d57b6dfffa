package utils

import (
	"github.com/google/uuid"
)

// GenerateID returns a new identifier for auctions, items and bid rows
func GenerateID() string {
	return uuid.New().String()
}
