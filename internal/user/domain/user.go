package domain

import "time"

type ID string

type User struct {
	ID           ID
	Username     string
	Email        string
	PasswordHash string
	Phone        string
	DOB          time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProfileUpdate holds the fields a user may change after registration.
type ProfileUpdate struct {
	Email     string
	Phone     string
	DOB       time.Time
	UpdatedAt time.Time
}

func (u User) Apply(update ProfileUpdate) User {
	u.Email = update.Email
	u.Phone = update.Phone
	u.DOB = update.DOB
	u.UpdatedAt = update.UpdatedAt
	return u
}
