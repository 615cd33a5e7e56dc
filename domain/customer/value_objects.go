package customer

import (
	"regexp"
	"strings"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// Email Value object - immutable, represents email address
type Email struct {
	value string
}

// NewEmail normalizes to lower case before validating.
func NewEmail(email string) (*Email, error) {
	email = NormalizeEmail(email)
	if !emailRegex.MatchString(email) {
		return nil, NewInvalidEmailError(email)
	}
	return &Email{value: email}, nil
}

// NormalizeEmail is the canonical form used for uniqueness checks and lookups.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func (e Email) Value() string {
	return e.value
}

func (e Email) Equals(other Email) bool {
	return e.value == other.value
}

func (e Email) String() string {
	return e.value
}

// Address Value object - postal address of a customer
type Address struct {
	street  string
	zipCode string
	city    string
	state   string
}

// NewAddress requires a street line; the other parts are optional.
func NewAddress(street, zipCode, city, state string) (Address, error) {
	a := Address{
		street:  strings.TrimSpace(street),
		zipCode: strings.TrimSpace(zipCode),
		city:    strings.TrimSpace(city),
		state:   strings.TrimSpace(state),
	}
	if a.street == "" {
		return Address{}, NewValidationError("address", "address is required")
	}
	for _, f := range []struct {
		name  string
		value string
		limit int
	}{
		{"address", a.street, maxAddressLength},
		{"zip_code", a.zipCode, maxZipCodeLength},
		{"city", a.city, maxCityLength},
		{"state", a.state, maxStateLength},
	} {
		if err := maxLen(f.name, f.value, f.limit); err != nil {
			return Address{}, err
		}
	}
	return a, nil
}

func (a Address) Street() string  { return a.street }
func (a Address) ZipCode() string { return a.zipCode }
func (a Address) City() string    { return a.city }
func (a Address) State() string   { return a.state }
