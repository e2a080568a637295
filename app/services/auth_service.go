package services

import (
	"errors"
	"fmt"

	"github.com/shashiranjanraj/roastery/app/models"
	"github.com/shashiranjanraj/roastery/app/repositories"
	"github.com/shashiranjanraj/roastery/pkg/auth"
	"github.com/shashiranjanraj/roastery/pkg/logger"
	"github.com/shashiranjanraj/roastery/pkg/storage"
	"github.com/shashiranjanraj/roastery/pkg/validate"
)

// SignupInput carries the registration fields. The confirmed rule matches
// password against the password_confirmation form field.
type SignupInput struct {
	FirstName            string `json:"firstName" validate:"required,alpha,max=100"`
	LastName             string `json:"lastName" validate:"required,alpha,max=100"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,min=8,confirmed"`
	PasswordConfirmation string `json:"password_confirmation"`
	Age                  int    `json:"age" validate:"nullable,gte=16,lte=120"`
}

// SigninInput carries the credential fields.
type SigninInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ForgetPasswordInput resets a password by email.
type ForgetPasswordInput struct {
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,min=8,confirmed"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// TokenPair is the signin result.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthService handles registration, credentials, and password reset.
type AuthService struct {
	repo   UserStore
	assets AssetStore
}

func NewAuthService(repo UserStore, assets AssetStore) *AuthService {
	return &AuthService{repo: repo, assets: assets}
}

// Signup registers a user, storing the optional avatar before the record is
// created. If the insert fails the avatar is deleted again.
func (s *AuthService) Signup(input SignupInput, avatar *storage.Upload) (models.User, error) {
	errs := validate.Struct(&input)
	if validate.HasErrors(errs) {
		return models.User{}, NewValidationError(errs)
	}

	taken, err := s.repo.EmailExistsExcluding(input.Email, 0)
	if err != nil {
		return models.User{}, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return models.User{}, &DuplicateError{Field: "email"}
	}

	var ref string
	if avatar != nil {
		ref, err = s.assets.Save(*avatar, "avatars")
		if err != nil {
			return models.User{}, wrapUpload(err)
		}
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		if ref != "" {
			_ = s.assets.Remove(ref)
		}
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Email:      input.Email,
		Password:   hash,
		Age:        input.Age,
		Role:       "user",
		ProfilePic: ref,
	}

	if err := s.repo.Create(&user); err != nil {
		if ref != "" {
			_ = s.assets.Remove(ref)
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}

	logger.Info("user registered", "id", user.ID)
	return user, nil
}

// Signin verifies the credentials and issues an access/refresh token pair.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Signin(input SigninInput) (models.User, TokenPair, error) {
	errs := validate.Struct(&input)
	if validate.HasErrors(errs) {
		return models.User{}, TokenPair{}, NewValidationError(errs)
	}

	user, err := s.repo.FindByEmail(input.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.User{}, TokenPair{}, ErrBadCredentials
		}
		return models.User{}, TokenPair{}, fmt.Errorf("fetch user: %w", err)
	}

	if !auth.CheckPassword(user.Password, input.Password) {
		return models.User{}, TokenPair{}, ErrBadCredentials
	}

	access, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return models.User{}, TokenPair{}, fmt.Errorf("sign token: %w", err)
	}
	refresh, err := auth.GenerateRefreshToken(user.ID, user.Role)
	if err != nil {
		return models.User{}, TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}

	return user, TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// ForgetPassword replaces the password for the account behind email.
func (s *AuthService) ForgetPassword(input ForgetPasswordInput) error {
	errs := validate.Struct(&input)
	if validate.HasErrors(errs) {
		return NewValidationError(errs)
	}

	user, err := s.repo.FindByEmail(input.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("fetch user: %w", err)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.Password = hash
	if err := s.repo.Update(&user); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	logger.Info("password reset", "id", user.ID)
	return nil
}
