package validators

import (
	"errors"
	"regexp"
	"strings"
)

var ErrInvalidPhone = errors.New("invalid phone number")

var e164 = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)

var phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")

// NormalizePhone strips common separators and returns the number as
// +<digits> (E.164).
func NormalizePhone(raw string) (string, error) {
	phone := phoneSeparators.Replace(strings.TrimSpace(raw))
	if !strings.HasPrefix(phone, "+") {
		phone = "+" + phone
	}
	if !e164.MatchString(phone) {
		return "", ErrInvalidPhone
	}
	return phone, nil
}

func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
