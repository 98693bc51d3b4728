package utils

import "github.com/google/uuid"

// GenerateUserID returns a random UUID for a new account.
func GenerateUserID() string {
	return uuid.NewString()
}
