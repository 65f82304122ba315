package service

import (
	"context"
	"errors"

	"github.com/taskdeck-io/taskdeck/internal/modules/model"
	"github.com/taskdeck-io/taskdeck/internal/modules/repo"
	"github.com/taskdeck-io/taskdeck/internal/pkg/apperr"
	"github.com/taskdeck-io/taskdeck/internal/pkg/auth"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Username        string
	Password        string
	ConfirmPassword string
	Role            model.Role
	ContactNumber   string
	PictureKey      string
}

type LoginOutput struct {
	Tokens  *auth.TokenPair `json:"tokens"`
	Account *model.Account  `json:"account"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.Account, error)
	Login(ctx context.Context, username, password string) (*LoginOutput, error)
	Logout(ctx context.Context, refreshToken string) error
	Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error)
}

type authService struct {
	accounts repo.AccountRepo
	tokens   *auth.TokenService
}

func NewAuthService(accounts repo.AccountRepo, tokens *auth.TokenService) AuthService {
	return &authService{accounts: accounts, tokens: tokens}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.Account, error) {
	if in.Username == "" {
		return nil, apperr.ValidationField("username", "username is required")
	}
	if in.Password == "" {
		return nil, apperr.ValidationField("password", "password is required")
	}
	if in.Password != in.ConfirmPassword {
		return nil, apperr.ValidationField("confirm_password", "passwords do not match")
	}
	if !in.Role.Valid() {
		return nil, apperr.ValidationField("role", "valid role choice is required in the profile")
	}
	if in.ContactNumber == "" {
		return nil, apperr.ValidationField("contact_number", "contact number is required in the profile")
	}

	if _, err := s.accounts.GetByUsername(ctx, in.Username); err == nil {
		return nil, apperr.ValidationField("username", "username already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal("storage error", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal("hash password", err)
	}

	account := &model.Account{
		Username:     in.Username,
		PasswordHash: string(hash),
		Profile: &model.Profile{
			Role:          in.Role,
			ContactNumber: in.ContactNumber,
			PictureKey:    in.PictureKey,
		},
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		// The unique index closes the pre-check race.
		return nil, storeErr(err, "account")
	}
	return account, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*LoginOutput, error) {
	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthorized("invalid credentials")
		}
		return nil, apperr.Internal("storage error", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, apperr.Unauthorized("invalid credentials")
	}

	pair, err := s.tokens.IssuePair(account.ID)
	if err != nil {
		return nil, apperr.Internal("issue tokens", err)
	}
	return &LoginOutput{Tokens: pair, Account: account}, nil
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.tokens.Revoke(ctx, refreshToken); err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			return apperr.Unauthorized("invalid refresh token")
		}
		return apperr.Internal("revoke token", err)
	}
	return nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	pair, err := s.tokens.Refresh(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			return nil, apperr.Unauthorized("invalid refresh token")
		}
		return nil, apperr.Internal("refresh token", err)
	}
	return pair, nil
}
