package validator

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrInvalidEmail indicates the email address is malformed
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrPasswordTooShort indicates the password is under the minimum length
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")

	// ErrInvalidContact indicates the contact number is not 10 digits
	ErrInvalidContact = errors.New("contact number must be exactly 10 digits")

	// ErrInvalidPincode indicates the pincode is not 6 digits
	ErrInvalidPincode = errors.New("pincode must be exactly 6 digits")

	// ErrInvalidAge indicates the age is outside 1..100
	ErrInvalidAge = errors.New("age must be between 1 and 100")

	// ErrNameRequired indicates the name is blank
	ErrNameRequired = errors.New("name is required")
)

const MinPasswordLength = 6

var (
	emailRegex   = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	contactRegex = regexp.MustCompile(`^\d{10}$`)
	pincodeRegex = regexp.MustCompile(`^\d{6}$`)
)

// Registration holds the fields checked when a user signs up
type Registration struct {
	Name     string
	Email    string
	Password string
	Contact  string
	Pincode  string
	Age      int
}

// UserValidator validates registration input
type UserValidator struct{}

// NewUserValidator creates a new user validator instance
func NewUserValidator() *UserValidator {
	return &UserValidator{}
}

// Validate returns the first rule the registration breaks, or nil.
// Contact and pincode are optional but must be well formed when present.
func (v *UserValidator) Validate(r Registration) error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrNameRequired
	}
	if err := v.ValidateEmail(r.Email); err != nil {
		return err
	}
	if err := v.ValidatePassword(r.Password); err != nil {
		return err
	}
	if r.Contact != "" && !contactRegex.MatchString(v.SanitizeContact(r.Contact)) {
		return ErrInvalidContact
	}
	if r.Pincode != "" && !pincodeRegex.MatchString(strings.TrimSpace(r.Pincode)) {
		return ErrInvalidPincode
	}
	if r.Age < 1 || r.Age > 100 {
		return ErrInvalidAge
	}
	return nil
}

// ValidateEmail checks the email format
func (v *UserValidator) ValidateEmail(email string) error {
	if !emailRegex.MatchString(strings.TrimSpace(email)) {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePassword checks the password length
func (v *UserValidator) ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// SanitizeContact strips common separators from a contact number
func (v *UserValidator) SanitizeContact(contact string) string {
	replacer := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")
	return replacer.Replace(contact)
}

// NormalizeEmail trims and lower-cases an email address
func (v *UserValidator) NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
