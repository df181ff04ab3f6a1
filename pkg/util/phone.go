package util

import (
	"errors"

	"github.com/nyaruka/phonenumbers"
)

var ErrInvalidPhoneNumber = errors.New("invalid phone number")

// NormalizePhoneNumber validates a business contact number and returns it in
// E.164 format. defaultRegion is used when the number has no country prefix.
func NormalizePhoneNumber(raw, defaultRegion string) (string, error) {
	if raw == "" {
		return "", nil
	}
	if defaultRegion == "" {
		defaultRegion = "US"
	}

	num, err := phonenumbers.Parse(raw, defaultRegion)
	if err != nil {
		return "", ErrInvalidPhoneNumber
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", ErrInvalidPhoneNumber
	}

	return phonenumbers.Format(num, phonenumbers.E164), nil
}
