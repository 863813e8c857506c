// Package accounts handles user signup and the admin login check.
//
// The login check is a placeholder gate for the dashboard. It issues no
// session and guards no route.
package accounts

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"leadintake/internal/domain"
)

var (
	ErrEmailTaken         = errors.New("accounts: email already registered")
	ErrInvalidCredentials = errors.New("accounts: invalid username or password")
)

const (
	MsgName     = "Name is required and must be at least 2 characters."
	MsgEmail    = "Valid email is required."
	MsgPassword = "Password is required and must be at least 6 characters."

	RoleAdmin = "admin"
	RoleUser  = "user"
)

var emailRe = regexp.MustCompile(`\S+@\S+\.\S+`)

type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

type Users interface {
	Load(ctx context.Context) ([]domain.User, error)
	Save(ctx context.Context, users []domain.User) error
}

// Admin describes the single configured admin. Password is resolved on every
// login so a keychain update takes effect without a restart.
type Admin struct {
	Username string
	Password func() (string, error)
}

type Service struct {
	Users Users
	Admin Admin
	Log   *zap.Logger
	Now   func() time.Time
	Cost  int // bcrypt cost
}

func NewService(users Users, admin Admin, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{Users: users, Admin: admin, Log: log, Now: time.Now, Cost: bcrypt.DefaultCost}
}

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func validateSignup(r SignupRequest) []string {
	var errs []string
	if len(strings.TrimSpace(r.Name)) < 2 {
		errs = append(errs, MsgName)
	}
	if !emailRe.MatchString(r.Email) {
		errs = append(errs, MsgEmail)
	}
	if len(r.Password) < 6 {
		errs = append(errs, MsgPassword)
	}
	return errs
}

// Signup registers a user with role "user". Emails are matched exactly.
func (s *Service) Signup(ctx context.Context, r SignupRequest) (domain.User, error) {
	if v := validateSignup(r); len(v) > 0 {
		return domain.User{}, &ValidationError{Violations: v}
	}

	users, err := s.Users.Load(ctx)
	if err != nil {
		return domain.User{}, fmt.Errorf("load users: %w", err)
	}
	for _, u := range users {
		if u.Email == r.Email {
			return domain.User{}, ErrEmailTaken
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(r.Password), s.Cost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	u := domain.User{
		Email:        r.Email,
		Name:         r.Name,
		PasswordHash: string(hash),
		Role:         RoleUser,
		CreatedAt:    s.Now().UTC(),
	}
	if err := s.Users.Save(ctx, append(users, u)); err != nil {
		return domain.User{}, fmt.Errorf("save users: %w", err)
	}

	s.Log.Info("user registered", zap.String("email", u.Email))
	return u, nil
}

// Login checks username/password against the configured admin first, then
// against registered users (username is the email). It returns the role.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	if s.Admin.Username != "" && s.Admin.Password != nil {
		want, err := s.Admin.Password()
		if err != nil {
			s.Log.Warn("admin password unavailable", zap.Error(err))
		} else if want != "" && equal(username, s.Admin.Username) && equal(password, want) {
			return RoleAdmin, nil
		}
	}

	users, err := s.Users.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("load users: %w", err)
	}
	for _, u := range users {
		if u.Email != username {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil {
			return u.Role, nil
		}
		break
	}
	return "", ErrInvalidCredentials
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
