package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"puremilk/internal/domain"
	userrepo "puremilk/internal/repository/user"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
	// ErrAccountLocked is returned while a login lockout is in effect.
	ErrAccountLocked = errors.New("account temporarily locked")
	// ErrAccountDisabled is returned for inactive accounts.
	ErrAccountDisabled = errors.New("account is disabled")
	// ErrAdminExists rejects admin registration once an admin is present.
	ErrAdminExists = errors.New("admin already exists, only the first user can register as admin")
)

const (
	maxFailedAttempts = 5
	lockoutDuration   = 30 * time.Minute
	passwordMin       = 8
	passwordMax       = 128
)

// Service handles registration, login, and token verification.
type Service struct {
	users  userrepo.Repository
	tokens *tokenManager
	now    func() time.Time
}

// New creates a Service signing tokens with the given secret and lifetime.
func New(users userrepo.Repository, secret string, expiry time.Duration) *Service {
	return &Service{
		users:  users,
		tokens: newTokenManager(secret, expiry),
		now:    time.Now,
	}
}

// RegisterInput captures the fields expected by the register endpoint.
type RegisterInput struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
	Name     string      `json:"name"`
	Phone    string      `json:"phone"`
}

// Register creates a user and returns it with a signed token. Only the first
// registered user may take the admin role.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, string, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", domain.Validation("valid email required")
	}
	if !in.Role.Valid() {
		return nil, "", domain.Validation("role must be admin or customer")
	}
	if len(strings.TrimSpace(in.Name)) < 2 {
		return nil, "", domain.Validation("name must be at least 2 characters")
	}
	if err := ValidatePassword(in.Password); err != nil {
		return nil, "", err
	}

	if in.Role == domain.RoleAdmin {
		admins, err := s.users.CountByRole(ctx, domain.RoleAdmin)
		if err != nil {
			return nil, "", err
		}
		if admins > 0 {
			return nil, "", ErrAdminExists
		}
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}

	u, err := s.users.Create(ctx, domain.User{
		Email:        email,
		PasswordHash: hash,
		Role:         in.Role,
		Name:         strings.TrimSpace(in.Name),
		Phone:        strings.TrimSpace(in.Phone),
		IsActive:     true,
	})
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(u.ID, u.Role)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Login validates credentials and returns the user with a signed token.
// Five consecutive failures lock the account for thirty minutes.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Burn a hash comparison so missing users take as long as
			// wrong passwords.
			_, _ = HashPassword("dummy-password-1")
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	now := s.now()
	if u.Locked(now) {
		return nil, "", ErrAccountLocked
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		attempts := u.FailedLoginAttempts + 1
		var lockedUntil *time.Time
		if attempts >= maxFailedAttempts {
			t := now.Add(lockoutDuration)
			lockedUntil = &t
		}
		if err := s.users.RecordLoginFailure(ctx, u.ID, attempts, lockedUntil); err != nil {
			return nil, "", err
		}
		return nil, "", ErrInvalidCredentials
	}

	if !u.IsActive {
		return nil, "", ErrAccountDisabled
	}

	if err := s.users.RecordLoginSuccess(ctx, u.ID, now); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(u.ID, u.Role)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// AdminExists reports whether any admin user is registered.
func (s *Service) AdminExists(ctx context.Context) (bool, error) {
	n, err := s.users.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// UserFromToken verifies a bearer token and returns the active user it
// identifies.
func (s *Service) UserFromToken(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrAccountDisabled
	}
	if u.Locked(s.now()) {
		return nil, ErrAccountLocked
	}
	return u, nil
}

// HashPassword hashes a password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ValidatePassword enforces the password policy: 8-128 characters with at
// least one letter and one digit.
func ValidatePassword(password string) error {
	if len(password) < passwordMin {
		return domain.Validation(fmt.Sprintf("password must be at least %d characters", passwordMin))
	}
	if len(password) > passwordMax {
		return domain.Validation(fmt.Sprintf("password must be at most %d characters", passwordMax))
	}
	hasLetter := false
	hasDigit := false
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return domain.Validation("password must contain at least one letter and one number")
	}
	return nil
}
