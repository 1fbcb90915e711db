// Package auth registers and signs in shoppers, issues session tokens and
// guards routes that need an identity.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ashendes/bec-market/internal/models"
	"github.com/ashendes/bec-market/internal/store"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns the bcrypt hash stored for password.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Service manages accounts on top of the user store
type Service struct {
	users  store.UserStore
	tokens *Tokens
}

// NewService creates an account service.
func NewService(users store.UserStore, tokens *Tokens) *Service {
	return &Service{users: users, tokens: tokens}
}

// Tokens returns the issuer used for sessions.
func (s *Service) Tokens() *Tokens {
	return s.tokens
}

// Register creates a shopper account. Duplicate emails return
// models.ErrConflict.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (models.UserProfile, error) {
	email := store.NormalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if email == "" || name == "" || req.Password == "" {
		return models.UserProfile{}, models.NewValidationError("name, email and password are required")
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		return models.UserProfile{}, err
	}

	account := models.UserAccount{
		UserProfile: models.UserProfile{
			Name:      name,
			Email:     email,
			Role:      models.RoleUser,
			StudentID: strings.TrimSpace(req.StudentID),
		},
		PasswordHash: hashed,
	}
	if err := s.users.CreateAccount(ctx, account); err != nil {
		return models.UserProfile{}, err
	}

	log.WithFields(log.Fields{
		"email": email,
	}).Info("User registered")

	return account.UserProfile, nil
}

// Authenticate checks the credentials and returns a session token with the
// profile. Unknown emails and wrong passwords both return
// models.ErrUnauthenticated.
func (s *Service) Authenticate(ctx context.Context, email, password string) (models.LoginResponse, error) {
	account, err := s.users.FindAccount(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.LoginResponse{}, fmt.Errorf("invalid credentials: %w", models.ErrUnauthenticated)
		}
		return models.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		log.WithFields(log.Fields{
			"email": account.Email,
		}).Warn("Login rejected")
		return models.LoginResponse{}, fmt.Errorf("invalid credentials: %w", models.ErrUnauthenticated)
	}

	token, err := s.tokens.Issue(account.UserProfile)
	if err != nil {
		return models.LoginResponse{}, err
	}

	return models.LoginResponse{
		Token:   token,
		User:    account.UserProfile,
		Message: "login successful",
	}, nil
}

// AdminAccount describes the administrator seeded at start-up.
type AdminAccount struct {
	Email        string
	Name         string
	PasswordHash string
}

// EnsureAdmin creates the configured admin account unless it exists.
func (s *Service) EnsureAdmin(ctx context.Context, admin AdminAccount) error {
	if admin.Email == "" || admin.PasswordHash == "" {
		return nil
	}

	_, err := s.users.FindAccount(ctx, admin.Email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("look up admin: %w", err)
	}

	name := admin.Name
	if name == "" {
		name = "Admin"
	}
	err = s.users.CreateAccount(ctx, models.UserAccount{
		UserProfile: models.UserProfile{
			Name:  name,
			Email: store.NormalizeEmail(admin.Email),
			Role:  models.RoleAdmin,
		},
		PasswordHash: admin.PasswordHash,
	})
	if err != nil && !errors.Is(err, models.ErrConflict) {
		return fmt.Errorf("seed admin: %w", err)
	}

	log.WithField("email", admin.Email).Info("Admin account seeded")
	return nil
}
