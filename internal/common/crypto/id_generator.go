package crypto

import "github.com/google/uuid"

// IDGenerator produces user ids and token ids.
type IDGenerator interface {
	NewID() (string, error)
}

// UUIDGenerator issues version 7 UUIDs, which sort by creation time.
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (UUIDGenerator) NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
