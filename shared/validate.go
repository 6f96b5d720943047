package shared

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator"
)

// DEFAULT_COUNTRY_CODE is prefixed to phone numbers submitted without one.
const DEFAULT_COUNTRY_CODE = "+91"

var phoneNumberRegex = regexp.MustCompile(`^\+91[0-9]{10}$`)

// NewValidator returns a validator with the custom 'time_stamp' & 'phone_number' tags registered
func NewValidator() (*validator.Validate, error) {
	validate := validator.New()
	if err := RegisterValidators(validate); err != nil {
		return nil, err
	}

	return validate, nil
}

func RegisterValidators(validate *validator.Validate) error {
	err := validate.RegisterValidation("phone_number", func(fl validator.FieldLevel) bool {
		return IsValidPhoneNumber(fl.Field().String())
	})
	if err != nil {
		return err
	}

	return validate.RegisterValidation("time_stamp", func(fl validator.FieldLevel) bool {
		_, _, ok := ParseTimeStamp(fl.Field().String())
		return ok
	})
}

// NormalizePhoneNumber trims the number & adds DEFAULT_COUNTRY_CODE when it's missing.
// It does not validate the result.
func NormalizePhoneNumber(phoneNumber string) string {
	phoneNumber = strings.TrimSpace(phoneNumber)
	if strings.HasPrefix(phoneNumber, DEFAULT_COUNTRY_CODE) {
		return phoneNumber
	}

	return DEFAULT_COUNTRY_CODE + phoneNumber
}

func IsValidPhoneNumber(phoneNumber string) bool {
	return phoneNumberRegex.MatchString(phoneNumber)
}

// ParseTimeStamp parses a "HH:MM" wall clock time
func ParseTimeStamp(timeStamp string) (hour int, minute int, ok bool) {
	timeSegments := strings.Split(timeStamp, ":")
	if len(timeSegments) != 2 {
		return 0, 0, false
	}

	hour, err := strconv.Atoi(timeSegments[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, false
	}

	minute, err = strconv.Atoi(timeSegments[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, false
	}

	return hour, minute, true
}
