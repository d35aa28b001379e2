package domain

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/ticketmania/ticketmania-backend/internal/core/errors"
)

const MaxEmailLength = 255

// User is an authenticated principal.
type User struct {
	ID           uuid.UUID
	Email        string
	DisplayName  string
	PasswordHash string
	CreatedAt    time.Time
}

// RegistrationParams holds parameters for account creation.
type RegistrationParams struct {
	Email    string
	Password string
}

// Validate validates registration parameters.
func (p *RegistrationParams) Validate() error {
	errs := apperrors.NewValidationErrors()

	if p.Email == "" {
		errs.Add("email", "Email is required")
	} else if len(p.Email) > MaxEmailLength {
		errs.Add("email", "Email must be 255 characters or less")
	} else if !isValidEmail(p.Email) {
		errs.Add("email", "Invalid email format")
	}

	if p.Password == "" {
		errs.Add("password", "Password is required")
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

func isValidEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

// DefaultDisplayName derives a display name from the email's local-part,
// the text before the "@".
func DefaultDisplayName(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}

// CheckPassword verifies if the provided password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// HashPassword hashes a password using bcrypt.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", apperrors.ErrPasswordRequired
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// NewUser creates a new user with validated parameters. The display name
// defaults to the email's local-part, matching what registration always did.
func NewUser(params RegistrationParams) (*User, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	passwordHash, err := HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	return &User{
		ID:           uuid.New(),
		Email:        params.Email,
		DisplayName:  DefaultDisplayName(params.Email),
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}, nil
}
