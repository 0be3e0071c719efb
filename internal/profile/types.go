package profile

import "errors"

// Ошибки профиля
var (
	ErrValidation    = errors.New("validation error")
	ErrUnknownAvatar = errors.New("unknown avatar")
)

// DefaultUserName используется до первого переименования.
const DefaultUserName = "Wolf Explorer"

// Ограничения имени в рунах
const (
	minNameLength = 2
	maxNameLength = 32
)
