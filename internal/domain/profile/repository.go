package profile

import "errors"

var ErrProfileNotFound = errors.New("profile not found")

type Repository interface {
	Save(*Profile) error
	FindByUserID(string) (*Profile, error)
	RecordAttempt(userID string, verified bool) (*Profile, error)
}
