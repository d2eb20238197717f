package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BruksfildServices01/salon-pos/internal/audit"
	authpkg "github.com/BruksfildServices01/salon-pos/internal/auth"
	"github.com/BruksfildServices01/salon-pos/internal/domain"
	"github.com/BruksfildServices01/salon-pos/internal/models"
	"github.com/BruksfildServices01/salon-pos/internal/validators"
)

// ErrInvalidCredentials covers both an unknown email and a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

type LoginInput struct {
	Email    string
	Password string
}

type LoginOutput struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

type Login struct {
	users  domain.UserRepository
	tokens *authpkg.TokenCodec
	audit  *audit.Dispatcher
}

func NewLogin(
	users domain.UserRepository,
	tokens *authpkg.TokenCodec,
	audit *audit.Dispatcher,
) *Login {
	return &Login{
		users:  users,
		tokens: tokens,
		audit:  audit,
	}
}

func (uc *Login) Execute(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	user, err := uc.users.FindByEmail(ctx, validators.NormalizeEmail(in.Email))
	if errors.Is(err, domain.ErrNotFound) {
		authpkg.BurnPasswordCheck(in.Password)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !authpkg.VerifyPassword(in.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := uc.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:  &user.SalonID,
		UserID:   &user.ID,
		Action:   "user.login",
		Entity:   "user",
		EntityID: &user.ID,
	})

	return &LoginOutput{
		User:      user,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}
