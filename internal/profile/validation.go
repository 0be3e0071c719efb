package profile

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ParseUserName валидирует имя пользователя и отдает его без лишних пробелов
func ParseUserName(name string) (string, error) {
	name = strings.Join(strings.Fields(name), " ")

	length := utf8.RuneCountInString(name)
	if length < minNameLength {
		return "", fmt.Errorf("%w, there are too few letters in a name", ErrValidation)
	}

	if length > maxNameLength {
		return "", fmt.Errorf("%w, name must be at most %d letters", ErrValidation, maxNameLength)
	}

	hasLetter := false
	for _, r := range name {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r), r == ' ', r == '-', r == '\'':
		default:
			return "", fmt.Errorf("%w, only letters, digits, spaces, '-' and ''' can be in a name", ErrValidation)
		}
	}

	if !hasLetter {
		return "", fmt.Errorf("%w, name must contain a letter", ErrValidation)
	}

	return name, nil
}
